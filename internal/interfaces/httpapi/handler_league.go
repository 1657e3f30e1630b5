package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/fpl-hub/internal/domain/league"
	"github.com/riskibarqy/fpl-hub/internal/platform/money"
	"github.com/riskibarqy/fpl-hub/internal/usecase"
)

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	var req createLeagueRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.fail(ctx, w, "create league", err)
		return
	}

	item, err := h.leagueService.CreateLeague(ctx, league.Config{
		Name:      req.Name,
		Format:    league.Format(req.Format),
		EntryFee:  money.FromFloat(req.EntryFee),
		Capacity:  req.Capacity,
		Gameweek:  req.Gameweek,
		CreatedBy: callerFromContext(ctx),
	})
	if err != nil {
		h.fail(ctx, w, "create league", err)
		return
	}

	writeSuccess(w, http.StatusCreated, toLeagueDTO(item))
}

// ListLeagues lists every league, or only those holding ?roster_id=.
func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	var (
		items []league.League
		err   error
	)
	if rosterID := strings.TrimSpace(r.URL.Query().Get("roster_id")); rosterID != "" {
		items, err = h.leagueService.ListLeaguesByRoster(ctx, rosterID)
	} else {
		items, err = h.leagueService.ListLeagues(ctx)
	}
	if err != nil {
		h.fail(ctx, w, "list leagues", err)
		return
	}

	writeSuccess(w, http.StatusOK, toLeagueDTOs(items))
}

func (h *Handler) ListOpenLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOpenLeagues")
	defer span.End()

	items, err := h.leagueService.ListOpenLeagues(ctx)
	if err != nil {
		h.fail(ctx, w, "list open leagues", err)
		return
	}

	writeSuccess(w, http.StatusOK, toLeagueDTOs(items))
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	item, err := h.leagueService.GetLeague(ctx, r.PathValue("leagueID"))
	if err != nil {
		h.fail(ctx, w, "get league", err)
		return
	}

	writeSuccess(w, http.StatusOK, toLeagueDTO(item))
}

func (h *Handler) DeleteLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteLeague")
	defer span.End()

	if err := h.leagueService.DeleteLeague(ctx, r.PathValue("leagueID")); err != nil {
		h.fail(ctx, w, "delete league", err)
		return
	}

	writeNoContent(w)
}

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
	defer span.End()

	var req entryRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.fail(ctx, w, "join league", err)
		return
	}

	item, err := h.leagueService.JoinLeague(ctx, usecase.EntryInput{
		LeagueID: r.PathValue("leagueID"),
		RosterID: req.RosterID,
		UserID:   callerFromContext(ctx),
	})
	if err != nil {
		h.fail(ctx, w, "join league", err)
		return
	}

	writeSuccess(w, http.StatusOK, toLeagueDTO(item))
}

func (h *Handler) LeaveLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaveLeague")
	defer span.End()

	var req entryRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.fail(ctx, w, "leave league", err)
		return
	}

	item, err := h.leagueService.LeaveLeague(ctx, usecase.EntryInput{
		LeagueID: r.PathValue("leagueID"),
		RosterID: req.RosterID,
		UserID:   callerFromContext(ctx),
	})
	if err != nil {
		h.fail(ctx, w, "leave league", err)
		return
	}

	writeSuccess(w, http.StatusOK, toLeagueDTO(item))
}

func (h *Handler) UpdatePoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePoints")
	defer span.End()

	var req updatePointsRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.fail(ctx, w, "update points", err)
		return
	}

	points := make([]usecase.PointsInput, 0, len(req.Points))
	for _, item := range req.Points {
		points = append(points, usecase.PointsInput{RosterID: item.RosterID, Points: item.Points})
	}

	item, err := h.leagueService.UpdatePoints(ctx, r.PathValue("leagueID"), points)
	if err != nil {
		h.fail(ctx, w, "update points", err)
		return
	}

	writeSuccess(w, http.StatusOK, toLeagueDTO(item))
}

func (h *Handler) CompleteLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteLeague")
	defer span.End()

	settlement, err := h.leagueService.CompleteLeague(ctx, r.PathValue("leagueID"))
	if err != nil {
		h.fail(ctx, w, "complete league", err)
		return
	}

	writeSuccess(w, http.StatusOK, toSettlementDTO(settlement))
}

func (h *Handler) ReopenLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReopenLeague")
	defer span.End()

	item, err := h.leagueService.ReopenLeague(ctx, r.PathValue("leagueID"))
	if err != nil {
		h.fail(ctx, w, "reopen league", err)
		return
	}

	writeSuccess(w, http.StatusOK, toLeagueDTO(item))
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	items, err := h.leagueService.Standings(ctx, r.PathValue("leagueID"))
	if err != nil {
		h.fail(ctx, w, "list standings", err)
		return
	}

	writeSuccess(w, http.StatusOK, toStandingDTOs(items))
}

func (h *Handler) GetPrizes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPrizes")
	defer span.End()

	schedule, err := h.leagueService.Prizes(ctx, r.PathValue("leagueID"))
	if err != nil {
		h.fail(ctx, w, "get prizes", err)
		return
	}

	writeSuccess(w, http.StatusOK, toScheduleDTO(schedule))
}

func (h *Handler) ApplyGameweekPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyGameweekPoints")
	defer span.End()

	var req gameweekPointsRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.fail(ctx, w, "apply gameweek points", err)
		return
	}

	result, err := h.leagueService.ApplyGameweekPoints(ctx, req.Points)
	if err != nil {
		h.fail(ctx, w, "apply gameweek points", err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

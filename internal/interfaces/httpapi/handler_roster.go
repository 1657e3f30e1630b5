package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fpl-hub/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	items, err := h.rosterService.ListPlayers(ctx, r.URL.Query().Get("position"))
	if err != nil {
		h.fail(ctx, w, "list players", err)
		return
	}

	writeSuccess(w, http.StatusOK, toPlayerDTOs(items))
}

func (h *Handler) ValidateRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateRoster")
	defer span.End()

	var req validateRosterRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.fail(ctx, w, "validate roster", err)
		return
	}

	report, err := h.rosterService.ValidateRoster(ctx, usecase.ValidateRosterInput{
		PlayerIDs:     req.PlayerIDs,
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
	})
	if err != nil {
		h.fail(ctx, w, "validate roster", err)
		return
	}

	writeSuccess(w, http.StatusOK, toReportDTO(report))
}

func (h *Handler) CreateRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRoster")
	defer span.End()

	var req rosterRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.fail(ctx, w, "create roster", err)
		return
	}

	item, err := h.rosterService.CreateRoster(ctx, rosterInput(callerFromContext(ctx), req))
	if err != nil {
		h.fail(ctx, w, "create roster", err)
		return
	}

	writeSuccess(w, http.StatusCreated, toRosterDTO(item))
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoster")
	defer span.End()

	item, err := h.rosterService.GetRoster(ctx, r.PathValue("rosterID"))
	if err != nil {
		h.fail(ctx, w, "get roster", err)
		return
	}

	writeSuccess(w, http.StatusOK, toRosterDTO(item))
}

func (h *Handler) UpdateRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRoster")
	defer span.End()

	var req rosterRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.fail(ctx, w, "update roster", err)
		return
	}

	item, err := h.rosterService.UpdateRoster(ctx, r.PathValue("rosterID"), rosterInput(callerFromContext(ctx), req))
	if err != nil {
		h.fail(ctx, w, "update roster", err)
		return
	}

	writeSuccess(w, http.StatusOK, toRosterDTO(item))
}

func (h *Handler) DeleteRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteRoster")
	defer span.End()

	if err := h.rosterService.DeleteRoster(ctx, r.PathValue("rosterID"), callerFromContext(ctx)); err != nil {
		h.fail(ctx, w, "delete roster", err)
		return
	}

	writeNoContent(w)
}

func (h *Handler) ListRostersByUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRostersByUser")
	defer span.End()

	items, err := h.rosterService.ListRostersByUser(ctx, r.PathValue("userID"))
	if err != nil {
		h.fail(ctx, w, "list rosters by user", err)
		return
	}

	writeSuccess(w, http.StatusOK, toRosterDTOs(items))
}

func rosterInput(userID string, req rosterRequest) usecase.RosterInput {
	return usecase.RosterInput{
		UserID:        userID,
		Name:          req.Name,
		PlayerIDs:     req.PlayerIDs,
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
		Gameweek:      req.Gameweek,
	}
}

package httpapi

import (
	"time"

	"github.com/riskibarqy/fpl-hub/internal/domain/league"
	"github.com/riskibarqy/fpl-hub/internal/domain/player"
	"github.com/riskibarqy/fpl-hub/internal/domain/prize"
	"github.com/riskibarqy/fpl-hub/internal/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/domain/standing"
)

type validateRosterRequest struct {
	PlayerIDs     []string `json:"player_ids" validate:"required,min=1,dive,required"`
	CaptainID     string   `json:"captain_id"`
	ViceCaptainID string   `json:"vice_captain_id"`
}

type rosterRequest struct {
	Name          string   `json:"name" validate:"required,max=100"`
	PlayerIDs     []string `json:"player_ids" validate:"required,min=1,dive,required"`
	CaptainID     string   `json:"captain_id"`
	ViceCaptainID string   `json:"vice_captain_id"`
	Gameweek      int      `json:"gameweek" validate:"omitempty,min=1,max=38"`
}

type createLeagueRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Format   string  `json:"format" validate:"omitempty,oneof=classic head-to-head"`
	EntryFee float64 `json:"entry_fee"`
	Capacity int     `json:"capacity" validate:"max=100000"`
	Gameweek int     `json:"gameweek" validate:"omitempty,min=1,max=38"`
}

type entryRequest struct {
	RosterID string `json:"roster_id" validate:"required"`
}

type pointsItemRequest struct {
	RosterID string `json:"roster_id" validate:"required"`
	Points   int    `json:"points"`
}

type updatePointsRequest struct {
	Points []pointsItemRequest `json:"points" validate:"required,min=1,dive"`
}

type gameweekPointsRequest struct {
	Points map[string]int `json:"points" validate:"required,min=1"`
}

type playerDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ClubID   string  `json:"club_id"`
	ClubName string  `json:"club_name"`
	Position string  `json:"position"`
	Price    float64 `json:"price"`
}

type reportDTO struct {
	Valid          bool       `json:"valid"`
	Errors         []string   `json:"errors"`
	PlayerCount    int        `json:"player_count"`
	PositionCounts []countDTO `json:"position_counts"`
	ClubCounts     []countDTO `json:"club_counts"`
	TotalCost      float64    `json:"total_cost"`
}

type countDTO struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type pickDTO struct {
	PlayerID string  `json:"player_id"`
	ClubID   string  `json:"club_id"`
	Position string  `json:"position"`
	Price    float64 `json:"price"`
}

type rosterDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Picks         []pickDTO `json:"picks"`
	CaptainID     string    `json:"captain_id,omitempty"`
	ViceCaptainID string    `json:"vice_captain_id,omitempty"`
	TotalCost     float64   `json:"total_cost"`
	Budget        float64   `json:"budget"`
	Gameweek      int       `json:"gameweek"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type entryDTO struct {
	RosterID   string    `json:"roster_id"`
	UserID     string    `json:"user_id"`
	RosterName string    `json:"roster_name"`
	Points     int       `json:"points"`
	Rank       int       `json:"rank,omitempty"`
	JoinedAt   time.Time `json:"joined_at"`
}

type leagueDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	EntryFee    string     `json:"entry_fee"`
	PrizePool   string     `json:"prize_pool"`
	Capacity    int        `json:"capacity"`
	Occupancy   int        `json:"occupancy"`
	Gameweek    int        `json:"gameweek"`
	CreatedBy   string     `json:"created_by"`
	Entries     []entryDTO `json:"entries"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type standingDTO struct {
	Rank       int       `json:"rank"`
	RosterID   string    `json:"roster_id"`
	UserID     string    `json:"user_id"`
	RosterName string    `json:"roster_name"`
	Points     int       `json:"points"`
	JoinedAt   time.Time `json:"joined_at"`
}

type payoutDTO struct {
	Rank        int    `json:"rank"`
	BasisPoints int64  `json:"basis_points"`
	Amount      string `json:"amount"`
}

type scheduleDTO struct {
	Pool          string      `json:"pool"`
	PlatformFee   string      `json:"platform_fee"`
	Distributable string      `json:"distributable"`
	Payouts       []payoutDTO `json:"payouts"`
}

type awardDTO struct {
	Rank     int    `json:"rank"`
	RosterID string `json:"roster_id"`
	UserID   string `json:"user_id"`
	Points   int    `json:"points"`
	Amount   string `json:"amount"`
}

type settlementDTO struct {
	Schedule    scheduleDTO `json:"schedule"`
	Awards      []awardDTO  `json:"awards"`
	Unallocated string      `json:"unallocated"`
}

// priceMillions renders a tenths-of-a-million price as millions.
func priceMillions(tenths int64) float64 {
	return float64(tenths) / 10
}

func toPlayerDTOs(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerDTO{
			ID:       p.ID.String(),
			Name:     p.Name,
			ClubID:   p.ClubID,
			ClubName: p.ClubName,
			Position: string(p.Position),
			Price:    priceMillions(p.Price),
		})
	}
	return out
}

func toReportDTO(r roster.Report) reportDTO {
	positions := make([]countDTO, 0, len(r.PositionCounts))
	for _, c := range r.PositionCounts {
		positions = append(positions, countDTO{Key: string(c.Position), Count: c.Count})
	}
	clubs := make([]countDTO, 0, len(r.ClubCounts))
	for _, c := range r.ClubCounts {
		clubs = append(clubs, countDTO{Key: c.ClubID, Count: c.Count})
	}
	errs := r.Errors
	if errs == nil {
		errs = []string{}
	}
	return reportDTO{
		Valid:          r.Valid,
		Errors:         errs,
		PlayerCount:    r.PlayerCount,
		PositionCounts: positions,
		ClubCounts:     clubs,
		TotalCost:      priceMillions(r.TotalCost),
	}
}

func toRosterDTO(r roster.Roster) rosterDTO {
	picks := make([]pickDTO, 0, len(r.Picks))
	for _, p := range r.Picks {
		picks = append(picks, pickDTO{
			PlayerID: p.PlayerID.String(),
			ClubID:   p.ClubID,
			Position: string(p.Position),
			Price:    priceMillions(p.Price),
		})
	}
	return rosterDTO{
		ID:            r.ID.String(),
		UserID:        r.UserID,
		Name:          r.Name,
		Picks:         picks,
		CaptainID:     r.CaptainID.String(),
		ViceCaptainID: r.ViceCaptainID.String(),
		TotalCost:     priceMillions(r.TotalCost),
		Budget:        priceMillions(r.Budget),
		Gameweek:      r.Gameweek,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toRosterDTOs(items []roster.Roster) []rosterDTO {
	out := make([]rosterDTO, 0, len(items))
	for _, r := range items {
		out = append(out, toRosterDTO(r))
	}
	return out
}

func toLeagueDTO(l league.League) leagueDTO {
	entries := make([]entryDTO, 0, len(l.Entries))
	for _, e := range l.Entries {
		entries = append(entries, entryDTO{
			RosterID:   e.RosterID.String(),
			UserID:     e.UserID,
			RosterName: e.RosterName,
			Points:     e.Points,
			Rank:       e.Rank,
			JoinedAt:   e.JoinedAt,
		})
	}
	return leagueDTO{
		ID:          l.ID.String(),
		Name:        l.Name,
		Format:      string(l.Format),
		Status:      string(l.Status),
		EntryFee:    l.EntryFee.String(),
		PrizePool:   l.PrizePool.String(),
		Capacity:    l.Capacity,
		Occupancy:   l.Occupancy(),
		Gameweek:    l.Gameweek,
		CreatedBy:   l.CreatedBy,
		Entries:     entries,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		StartedAt:   l.StartedAt,
		CompletedAt: l.CompletedAt,
	}
}

func toLeagueDTOs(items []league.League) []leagueDTO {
	out := make([]leagueDTO, 0, len(items))
	for _, l := range items {
		out = append(out, toLeagueDTO(l))
	}
	return out
}

func toStandingDTOs(items []standing.Standing) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for _, s := range items {
		out = append(out, standingDTO{
			Rank:       s.Rank,
			RosterID:   s.RosterID.String(),
			UserID:     s.UserID,
			RosterName: s.RosterName,
			Points:     s.Points,
			JoinedAt:   s.JoinedAt,
		})
	}
	return out
}

func toScheduleDTO(s prize.Schedule) scheduleDTO {
	payouts := make([]payoutDTO, 0, len(s.Payouts))
	for _, p := range s.Payouts {
		payouts = append(payouts, payoutDTO{Rank: p.Rank, BasisPoints: p.BasisPoints, Amount: p.Amount.String()})
	}
	return scheduleDTO{
		Pool:          s.Pool.String(),
		PlatformFee:   s.PlatformFee.String(),
		Distributable: s.Distributable.String(),
		Payouts:       payouts,
	}
}

func toSettlementDTO(s prize.Settlement) settlementDTO {
	awards := make([]awardDTO, 0, len(s.Awards))
	for _, a := range s.Awards {
		awards = append(awards, awardDTO{
			Rank:     a.Rank,
			RosterID: a.RosterID.String(),
			UserID:   a.UserID,
			Points:   a.Points,
			Amount:   a.Amount.String(),
		})
	}
	return settlementDTO{
		Schedule:    toScheduleDTO(s.Schedule),
		Awards:      awards,
		Unallocated: s.Unallocated.String(),
	}
}

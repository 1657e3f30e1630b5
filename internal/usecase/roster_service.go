package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-hub/internal/domain/player"
	"github.com/riskibarqy/fpl-hub/internal/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
	"github.com/riskibarqy/fpl-hub/internal/platform/logging"
)

type ValidateRosterInput struct {
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
}

// RosterInput is the incoming payload for create/update roster.
type RosterInput struct {
	UserID        string
	Name          string
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
	Gameweek      int
}

type RosterService struct {
	playerRepo player.Repository
	rosterRepo roster.Repository
	rules      roster.Rules
	idGen      id.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewRosterService(
	playerRepo player.Repository,
	rosterRepo roster.Repository,
	rules roster.Rules,
	idGen id.Generator,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		playerRepo: playerRepo,
		rosterRepo: rosterRepo,
		rules:      rules,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// ValidateRoster resolves the players and reports every rule violation
// without persisting anything.
func (s *RosterService) ValidateRoster(ctx context.Context, input ValidateRosterInput) (roster.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ValidateRoster")
	defer span.End()

	picks, err := s.resolvePicks(ctx, input.PlayerIDs)
	if err != nil {
		return roster.Report{}, err
	}

	return roster.Validate(picks, parseOptionalID(input.CaptainID), parseOptionalID(input.ViceCaptainID), s.rules), nil
}

// ListPlayers returns the catalog, optionally narrowed to one position.
func (s *RosterService) ListPlayers(ctx context.Context, position string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListPlayers")
	defer span.End()

	var filter player.Position
	if raw := strings.ToUpper(strings.TrimSpace(position)); raw != "" {
		filter = player.Position(raw)
		if _, ok := player.AllPositions[filter]; !ok {
			return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, position)
		}
	}

	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list players: %w", ErrDependencyUnavailable, err)
	}
	if filter == "" {
		return items, nil
	}

	out := make([]player.Player, 0, len(items))
	for _, p := range items {
		if p.Position == filter {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *RosterService) CreateRoster(ctx context.Context, input RosterInput) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreateRoster")
	defer span.End()

	rosterID, err := s.idGen.NewID()
	if err != nil {
		return roster.Roster{}, fmt.Errorf("generate roster id: %w", err)
	}
	now := s.now().UTC()

	item, err := s.buildRoster(ctx, rosterID, input, now)
	if err != nil {
		return roster.Roster{}, err
	}
	item.CreatedAt = now

	if err := s.rosterRepo.Create(ctx, item); err != nil {
		return roster.Roster{}, fmt.Errorf("create roster: %w", err)
	}

	s.logger.InfoContext(ctx, "roster created",
		"roster_id", item.ID,
		"user_id", item.UserID,
		"total_cost", roster.FormatPrice(item.TotalCost),
	)
	return item, nil
}

// UpdateRoster replaces the roster wholesale. A roster that fails
// validation leaves the stored one untouched.
func (s *RosterService) UpdateRoster(ctx context.Context, rosterID string, input RosterInput) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UpdateRoster")
	defer span.End()

	existing, err := s.getOwned(ctx, rosterID, input.UserID)
	if err != nil {
		return roster.Roster{}, err
	}

	item, err := s.buildRoster(ctx, existing.ID, input, s.now().UTC())
	if err != nil {
		return roster.Roster{}, err
	}
	item.CreatedAt = existing.CreatedAt

	if err := s.rosterRepo.Update(ctx, item); err != nil {
		if errors.Is(err, roster.ErrRosterNotFound) {
			return roster.Roster{}, fmt.Errorf("%w: roster=%s", ErrNotFound, item.ID)
		}
		return roster.Roster{}, fmt.Errorf("update roster: %w", err)
	}

	s.logger.InfoContext(ctx, "roster updated", "roster_id", item.ID, "user_id", item.UserID)
	return item, nil
}

func (s *RosterService) GetRoster(ctx context.Context, rosterID string) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetRoster")
	defer span.End()

	rid, err := parseID("roster id", rosterID)
	if err != nil {
		return roster.Roster{}, err
	}

	item, exists, err := s.rosterRepo.GetByID(ctx, rid)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("get roster: %w", err)
	}
	if !exists {
		return roster.Roster{}, fmt.Errorf("%w: roster=%s", ErrNotFound, rid)
	}
	return item, nil
}

func (s *RosterService) ListRostersByUser(ctx context.Context, userID string) ([]roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListRostersByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.rosterRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list rosters by user: %w", err)
	}
	return items, nil
}

// DeleteRoster refuses rosters that still hold a league entry.
func (s *RosterService) DeleteRoster(ctx context.Context, rosterID, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.DeleteRoster")
	defer span.End()

	existing, err := s.getOwned(ctx, rosterID, userID)
	if err != nil {
		return err
	}

	if err := s.rosterRepo.Delete(ctx, existing.ID); err != nil {
		switch {
		case errors.Is(err, roster.ErrRosterInUse):
			s.logger.WarnContext(ctx, "roster delete rejected", "roster_id", existing.ID, "reason", err)
			return fmt.Errorf("%w: %w", ErrConflict, err)
		case errors.Is(err, roster.ErrRosterNotFound):
			return fmt.Errorf("%w: roster=%s", ErrNotFound, existing.ID)
		}
		return fmt.Errorf("delete roster: %w", err)
	}

	s.logger.InfoContext(ctx, "roster deleted", "roster_id", existing.ID, "user_id", existing.UserID)
	return nil
}

func (s *RosterService) getOwned(ctx context.Context, rosterID, userID string) (roster.Roster, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return roster.Roster{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	item, err := s.GetRoster(ctx, rosterID)
	if err != nil {
		return roster.Roster{}, err
	}
	if item.UserID != userID {
		return roster.Roster{}, fmt.Errorf("%w: roster=%s is owned by another user", ErrForbidden, item.ID)
	}
	return item, nil
}

func (s *RosterService) buildRoster(ctx context.Context, rosterID id.ID, input RosterInput, now time.Time) (roster.Roster, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)
	if input.UserID == "" {
		return roster.Roster{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if input.Name == "" {
		return roster.Roster{}, fmt.Errorf("%w: roster name is required", ErrInvalidInput)
	}
	if input.Gameweek < 0 {
		return roster.Roster{}, fmt.Errorf("%w: gameweek must not be negative", ErrInvalidInput)
	}

	picks, err := s.resolvePicks(ctx, input.PlayerIDs)
	if err != nil {
		return roster.Roster{}, err
	}

	captainID := parseOptionalID(input.CaptainID)
	viceCaptainID := parseOptionalID(input.ViceCaptainID)
	report := roster.Validate(picks, captainID, viceCaptainID, s.rules)
	if err := report.Err(); err != nil {
		s.logger.WarnContext(ctx, "roster rejected",
			"user_id", input.UserID,
			"violations", len(report.Errors),
		)
		return roster.Roster{}, fmt.Errorf("validate roster: %w", err)
	}

	item := roster.Roster{
		ID:            rosterID,
		UserID:        input.UserID,
		Name:          input.Name,
		Picks:         picks,
		CaptainID:     captainID,
		ViceCaptainID: viceCaptainID,
		TotalCost:     report.TotalCost,
		Budget:        s.rules.SalaryCap - report.TotalCost,
		Gameweek:      input.Gameweek,
		UpdatedAt:     now,
	}
	if err := item.ValidateBasic(); err != nil {
		return roster.Roster{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return item, nil
}

// resolvePicks snapshots catalog players in request order. Duplicates are
// kept so the validator can report them.
func (s *RosterService) resolvePicks(ctx context.Context, rawIDs []string) ([]roster.Pick, error) {
	if len(rawIDs) == 0 {
		return nil, fmt.Errorf("%w: player ids are required", ErrInvalidInput)
	}

	playerIDs := make([]id.ID, 0, len(rawIDs))
	unique := make([]id.ID, 0, len(rawIDs))
	seen := make(map[id.ID]struct{}, len(rawIDs))
	for _, raw := range rawIDs {
		pid, err := id.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: player id cannot be empty", ErrInvalidInput)
		}
		playerIDs = append(playerIDs, pid)
		if _, ok := seen[pid]; !ok {
			seen[pid] = struct{}{}
			unique = append(unique, pid)
		}
	}

	players, err := s.playerRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("%w: get players by ids: %w", ErrDependencyUnavailable, err)
	}

	byID := make(map[id.ID]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	picks := make([]roster.Pick, 0, len(playerIDs))
	for _, pid := range playerIDs {
		p, ok := byID[pid]
		if !ok {
			return nil, fmt.Errorf("%w: player=%s", ErrNotFound, pid)
		}
		picks = append(picks, roster.PickFromPlayer(p))
	}
	return picks, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fpl-hub/internal/domain/event"
	"github.com/riskibarqy/fpl-hub/internal/domain/league"
	"github.com/riskibarqy/fpl-hub/internal/domain/prize"
	"github.com/riskibarqy/fpl-hub/internal/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/domain/standing"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
	"github.com/riskibarqy/fpl-hub/internal/platform/logging"
)

const defaultPointsWorkerCount = 4

type LeagueServiceConfig struct {
	// ReopenOnLeave reopens an in-progress league once a departure frees a
	// slot. When false closure is one-way until ReopenLeague.
	ReopenOnLeave     bool
	PointsWorkerCount int
}

// EntryInput identifies a roster inside a league on behalf of a user.
type EntryInput struct {
	LeagueID string
	RosterID string
	UserID   string
}

type PointsInput struct {
	RosterID string
	Points   int
}

type GameweekPointsResult struct {
	LeagueCount    int      `json:"league_count"`
	UpdatedEntries int      `json:"updated_entries"`
	FailedLeagues  []string `json:"failed_leagues,omitempty"`
	WorkerCount    int      `json:"worker_count"`
}

type LeagueService struct {
	leagueRepo league.Repository
	rosterRepo roster.Repository
	publisher  event.Publisher
	idGen      id.Generator
	cfg        LeagueServiceConfig
	logger     *logging.Logger
	now        func() time.Time
	newPool    func(size int) (*ants.Pool, error)
}

func NewLeagueService(
	leagueRepo league.Repository,
	rosterRepo roster.Repository,
	publisher event.Publisher,
	idGen id.Generator,
	cfg LeagueServiceConfig,
	logger *logging.Logger,
) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	if cfg.PointsWorkerCount <= 0 {
		cfg.PointsWorkerCount = defaultPointsWorkerCount
	}

	return &LeagueService{
		leagueRepo: leagueRepo,
		rosterRepo: rosterRepo,
		publisher:  publisher,
		idGen:      idGen,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		newPool:    func(size int) (*ants.Pool, error) { return ants.NewPool(size) },
	}
}

func (s *LeagueService) CreateLeague(ctx context.Context, cfg league.Config) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateLeague")
	defer span.End()

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	item, err := league.New(leagueID, cfg, s.now().UTC())
	if err != nil {
		return league.League{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.leagueRepo.Create(ctx, item); err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	s.logger.InfoContext(ctx, "league created",
		"league_id", item.ID,
		"capacity", item.Capacity,
		"entry_fee", item.EntryFee.String(),
	)
	s.publish(ctx, event.New(event.TypeLeagueCreated, item, "", item.CreatedAt))
	return item, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeague")
	defer span.End()

	lid, err := parseID("league id", leagueID)
	if err != nil {
		return league.League{}, err
	}
	return s.getLeague(ctx, lid)
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeagues")
	defer span.End()

	items, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return items, nil
}

// ListOpenLeagues returns leagues a roster could join right now.
func (s *LeagueService) ListOpenLeagues(ctx context.Context) ([]league.League, error) {
	items, err := s.ListLeagues(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]league.League, 0, len(items))
	for _, item := range items {
		if item.AcceptsEntries() {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *LeagueService) ListLeaguesByRoster(ctx context.Context, rosterID string) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeaguesByRoster")
	defer span.End()

	rid, err := parseID("roster id", rosterID)
	if err != nil {
		return nil, err
	}

	items, err := s.leagueRepo.ListByRoster(ctx, rid)
	if err != nil {
		return nil, fmt.Errorf("list leagues by roster: %w", err)
	}
	return items, nil
}

func (s *LeagueService) JoinLeague(ctx context.Context, input EntryInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.JoinLeague", leagueAttrs(input.LeagueID, input.RosterID)...)
	defer span.End()

	lid, rid, err := parseEntryInput(input)
	if err != nil {
		return league.League{}, err
	}
	userID, err := requireCaller(input.UserID)
	if err != nil {
		return league.League{}, err
	}

	item, exists, err := s.rosterRepo.GetByID(ctx, rid)
	if err != nil {
		return league.League{}, fmt.Errorf("get roster: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: roster=%s", ErrNotFound, rid)
	}
	if item.UserID != userID {
		return league.League{}, fmt.Errorf("%w: roster=%s is owned by another user", ErrForbidden, item.ID)
	}

	now := s.now().UTC()
	var before league.Status
	updated, err := s.mutate(ctx, lid, func(l *league.League) error {
		before = l.Status
		return l.Join(league.Entry{
			RosterID:   item.ID,
			UserID:     item.UserID,
			RosterName: item.Name,
		}, now)
	})
	if err != nil {
		markSpanRejected(span, err)
		s.logger.WarnContext(ctx, "league join rejected", "league_id", lid, "roster_id", rid, "reason", err)
		return league.League{}, err
	}

	s.logger.InfoContext(ctx, "league joined",
		"league_id", updated.ID,
		"roster_id", rid,
		"occupancy", updated.Occupancy(),
		"status", updated.Status,
	)

	events := []event.LeagueEvent{event.New(event.TypeLeagueEntryJoined, updated, rid, now)}
	if before == league.StatusOpen && updated.Status == league.StatusInProgress {
		events = append(events, event.New(event.TypeLeagueStarted, updated, "", now))
	}
	s.publish(ctx, events...)
	return updated, nil
}

// LeaveLeague removes the entry of input.RosterID. The roster itself may
// already be gone from the catalog of rosters; only the entry matters.
func (s *LeagueService) LeaveLeague(ctx context.Context, input EntryInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.LeaveLeague", leagueAttrs(input.LeagueID, input.RosterID)...)
	defer span.End()

	lid, rid, err := parseEntryInput(input)
	if err != nil {
		return league.League{}, err
	}
	userID, err := requireCaller(input.UserID)
	if err != nil {
		return league.League{}, err
	}

	now := s.now().UTC()
	var before league.Status
	updated, err := s.mutate(ctx, lid, func(l *league.League) error {
		before = l.Status
		if entry, ok := l.FindEntry(rid); ok && entry.UserID != userID {
			return fmt.Errorf("%w: entry of roster=%s is owned by another user", ErrForbidden, rid)
		}
		_, err := l.Leave(rid, s.cfg.ReopenOnLeave, now)
		return err
	})
	if err != nil {
		markSpanRejected(span, err)
		s.logger.WarnContext(ctx, "league leave rejected", "league_id", lid, "roster_id", rid, "reason", err)
		return league.League{}, err
	}

	s.logger.InfoContext(ctx, "league left",
		"league_id", updated.ID,
		"roster_id", rid,
		"occupancy", updated.Occupancy(),
		"status", updated.Status,
	)

	events := []event.LeagueEvent{event.New(event.TypeLeagueEntryLeft, updated, rid, now)}
	if before == league.StatusInProgress && updated.Status == league.StatusOpen {
		events = append(events, event.New(event.TypeLeagueReopened, updated, "", now))
	}
	s.publish(ctx, events...)
	return updated, nil
}

// ReopenLeague is the administrative reopen for one-way closure.
func (s *LeagueService) ReopenLeague(ctx context.Context, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ReopenLeague")
	defer span.End()

	lid, err := parseID("league id", leagueID)
	if err != nil {
		return league.League{}, err
	}

	now := s.now().UTC()
	updated, err := s.mutate(ctx, lid, func(l *league.League) error {
		return l.Reopen(now)
	})
	if err != nil {
		return league.League{}, err
	}

	s.logger.InfoContext(ctx, "league reopened", "league_id", updated.ID, "occupancy", updated.Occupancy())
	s.publish(ctx, event.New(event.TypeLeagueReopened, updated, "", now))
	return updated, nil
}

// UpdatePoints overwrites accumulated points and refreshes ranks.
func (s *LeagueService) UpdatePoints(ctx context.Context, leagueID string, points []PointsInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.UpdatePoints")
	defer span.End()

	lid, err := parseID("league id", leagueID)
	if err != nil {
		return league.League{}, err
	}
	if len(points) == 0 {
		return league.League{}, fmt.Errorf("%w: points are required", ErrInvalidInput)
	}

	updates := make([]league.PointsUpdate, 0, len(points))
	for _, p := range points {
		rid, err := parseID("roster id", p.RosterID)
		if err != nil {
			return league.League{}, err
		}
		updates = append(updates, league.PointsUpdate{RosterID: rid, Points: p.Points})
	}

	now := s.now().UTC()
	updated, err := s.mutate(ctx, lid, func(l *league.League) error {
		if err := l.SetPoints(updates, now); err != nil {
			return err
		}
		l.AssignRanks(standing.Ranks(standing.Calculate(l.Entries)))
		return nil
	})
	if err != nil {
		return league.League{}, err
	}

	s.logger.InfoContext(ctx, "league points updated", "league_id", updated.ID, "entries", len(updates))
	return updated, nil
}

// ApplyGameweekPoints adds per-roster gameweek points to every league that
// holds those rosters. Leagues are updated in parallel, each in its own
// atomic section; one failing league does not stop the others.
func (s *LeagueService) ApplyGameweekPoints(ctx context.Context, points map[string]int) (GameweekPointsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ApplyGameweekPoints")
	defer span.End()

	if len(points) == 0 {
		return GameweekPointsResult{}, fmt.Errorf("%w: points are required", ErrInvalidInput)
	}
	byRoster := make(map[id.ID]int, len(points))
	for raw, p := range points {
		rid, err := parseID("roster id", raw)
		if err != nil {
			return GameweekPointsResult{}, err
		}
		byRoster[rid] += p
	}

	items, err := s.leagueRepo.List(ctx)
	if err != nil {
		return GameweekPointsResult{}, fmt.Errorf("list leagues: %w", err)
	}

	targets := make([]id.ID, 0, len(items))
	for _, item := range items {
		if item.Status == league.StatusCompleted {
			continue
		}
		for rid := range byRoster {
			if item.HasRoster(rid) {
				targets = append(targets, item.ID)
				break
			}
		}
	}

	result := GameweekPointsResult{LeagueCount: len(targets), WorkerCount: s.cfg.PointsWorkerCount}
	if len(targets) == 0 {
		return result, nil
	}

	pool, err := s.newPool(s.cfg.PointsWorkerCount)
	if err != nil {
		return GameweekPointsResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		updatedEntries atomic.Int32
		failedMu       sync.Mutex
		workers        sync.WaitGroup
	)
	now := s.now().UTC()
	for _, leagueID := range targets {
		leagueID := leagueID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			changed := 0
			_, err := s.mutate(ctx, leagueID, func(l *league.League) error {
				changed = l.AddPoints(byRoster, now)
				if changed > 0 {
					l.AssignRanks(standing.Ranks(standing.Calculate(l.Entries)))
				}
				return nil
			})
			if err != nil {
				s.logger.ErrorContext(ctx, "apply gameweek points failed", "league_id", leagueID, "error", err)
				failedMu.Lock()
				result.FailedLeagues = append(result.FailedLeagues, leagueID.String())
				failedMu.Unlock()
				return
			}
			updatedEntries.Add(int32(changed))
		}); err != nil {
			workers.Done()
			workers.Wait()
			return GameweekPointsResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.UpdatedEntries = int(updatedEntries.Load())
	s.logger.InfoContext(ctx, "gameweek points applied",
		"league_count", result.LeagueCount,
		"updated_entries", result.UpdatedEntries,
		"failed_count", len(result.FailedLeagues),
	)
	return result, nil
}

func (s *LeagueService) Standings(ctx context.Context, leagueID string) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Standings")
	defer span.End()

	item, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return standing.Calculate(item.Entries), nil
}

// Prizes is the payout schedule of the current pool across all paid ranks.
func (s *LeagueService) Prizes(ctx context.Context, leagueID string) (prize.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Prizes")
	defer span.End()

	item, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		return prize.Schedule{}, err
	}
	return prize.Compute(item.PrizePool), nil
}

// CompleteLeague settles an in-progress league: final ranks are frozen and
// only occupied ranks are paid.
func (s *LeagueService) CompleteLeague(ctx context.Context, leagueID string) (prize.Settlement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CompleteLeague", leagueAttrs(leagueID, "")...)
	defer span.End()

	lid, err := parseID("league id", leagueID)
	if err != nil {
		return prize.Settlement{}, err
	}

	now := s.now().UTC()
	var settlement prize.Settlement
	updated, err := s.mutate(ctx, lid, func(l *league.League) error {
		if err := l.Complete(now); err != nil {
			return err
		}
		standings := standing.Calculate(l.Entries)
		l.AssignRanks(standing.Ranks(standings))
		settlement = prize.Settle(prize.Compute(l.PrizePool), standings)
		return nil
	})
	if err != nil {
		markSpanRejected(span, err)
		return prize.Settlement{}, err
	}

	s.logger.InfoContext(ctx, "league completed",
		"league_id", updated.ID,
		"prize_pool", updated.PrizePool.String(),
		"awards", len(settlement.Awards),
	)
	s.publish(ctx, event.New(event.TypeLeagueCompleted, updated, "", now))
	return settlement, nil
}

// DeleteLeague removes the league and its entries together.
func (s *LeagueService) DeleteLeague(ctx context.Context, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.DeleteLeague")
	defer span.End()

	lid, err := parseID("league id", leagueID)
	if err != nil {
		return err
	}

	item, err := s.getLeague(ctx, lid)
	if err != nil {
		return err
	}
	if err := s.leagueRepo.Delete(ctx, lid); err != nil {
		if errors.Is(err, league.ErrLeagueNotFound) {
			return fmt.Errorf("%w: league=%s", ErrNotFound, lid)
		}
		return fmt.Errorf("delete league: %w", err)
	}

	s.logger.InfoContext(ctx, "league deleted", "league_id", lid, "entries", item.Occupancy())
	item.Entries = nil
	s.publish(ctx, event.New(event.TypeLeagueDeleted, item, "", s.now().UTC()))
	return nil
}

func (s *LeagueService) getLeague(ctx context.Context, lid id.ID) (league.League, error) {
	item, exists, err := s.leagueRepo.GetByID(ctx, lid)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, lid)
	}
	return item, nil
}

func (s *LeagueService) mutate(ctx context.Context, lid id.ID, fn league.MutateFunc) (league.League, error) {
	updated, err := s.leagueRepo.Mutate(ctx, lid, fn)
	if err == nil {
		return updated, nil
	}

	switch {
	case errors.Is(err, league.ErrLeagueNotFound):
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, lid)
	case errors.Is(err, league.ErrEntryNotFound):
		return league.League{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, roster.ErrRosterNotFound):
		return league.League{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	case isExpectedLeagueError(err):
		return league.League{}, err
	}
	return league.League{}, fmt.Errorf("mutate league=%s: %w", lid, err)
}

func (s *LeagueService) publish(ctx context.Context, events ...event.LeagueEvent) {
	for i := range events {
		if events[i].ID != "" {
			continue
		}
		eventID, err := s.idGen.NewID()
		if err != nil {
			s.logger.WarnContext(ctx, "generate event id failed", "error", err)
			continue
		}
		events[i].ID = eventID.String()
	}

	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.WarnContext(ctx, "publish league events failed",
			"league_id", events[0].LeagueID,
			"event_type", events[0].Type,
			"error", err,
		)
	}
}

func isExpectedLeagueError(err error) bool {
	return errors.Is(err, league.ErrFull) ||
		errors.Is(err, league.ErrDuplicateEntry) ||
		errors.Is(err, league.ErrClosedForEntry) ||
		errors.Is(err, league.ErrInvalidTransition) ||
		errors.Is(err, ErrForbidden)
}

func parseEntryInput(input EntryInput) (id.ID, id.ID, error) {
	lid, err := parseID("league id", input.LeagueID)
	if err != nil {
		return "", "", err
	}
	rid, err := parseID("roster id", input.RosterID)
	if err != nil {
		return "", "", err
	}
	return lid, rid, nil
}

// requireCaller returns the trimmed caller id. Entering or leaving a league
// always acts on a roster someone owns, so an anonymous caller is rejected.
func requireCaller(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	return userID, nil
}

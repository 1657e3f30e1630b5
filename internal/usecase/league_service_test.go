package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-hub/internal/domain/event"
	"github.com/riskibarqy/fpl-hub/internal/domain/league"
	"github.com/riskibarqy/fpl-hub/internal/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/infrastructure/repository/memory"
	eventmock "github.com/riskibarqy/fpl-hub/internal/mocks/domain/event"
	leaguemock "github.com/riskibarqy/fpl-hub/internal/mocks/domain/league"
	rostermock "github.com/riskibarqy/fpl-hub/internal/mocks/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
	"github.com/riskibarqy/fpl-hub/internal/platform/logging"
	"github.com/riskibarqy/fpl-hub/internal/platform/money"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var leagueTestNow = time.Date(2026, 8, 20, 18, 30, 0, 0, time.UTC)

type leagueFixture struct {
	service *LeagueService
	rosters *memory.RosterRepository
	leagues *memory.LeagueRepository
}

func newLeagueFixture(t *testing.T, cfg LeagueServiceConfig, publisher event.Publisher) leagueFixture {
	t.Helper()

	store := memory.NewStore()
	rosters := memory.NewRosterRepository(store)
	leagues := memory.NewLeagueRepository(store)
	service := NewLeagueService(leagues, rosters, publisher, &sequenceIDGenerator{prefix: "lg"}, cfg, logging.NewNop())
	service.now = fixedClock(leagueTestNow)

	return leagueFixture{service: service, rosters: rosters, leagues: leagues}
}

func (f leagueFixture) addRosters(t *testing.T, userID string, ids ...string) {
	t.Helper()
	for _, raw := range ids {
		require.NoError(t, f.rosters.Create(context.Background(), roster.Roster{
			ID:     id.MustParse(raw),
			UserID: userID,
			Name:   "roster " + raw,
			Picks:  []roster.Pick{{PlayerID: "1"}},
		}))
	}
}

// join enters rosters owned by u1, the owner used by most fixtures.
func (f leagueFixture) join(t *testing.T, leagueID id.ID, rosterIDs ...string) {
	t.Helper()
	for _, rid := range rosterIDs {
		_, err := f.service.JoinLeague(context.Background(), EntryInput{LeagueID: leagueID.String(), RosterID: rid, UserID: "u1"})
		require.NoError(t, err)
	}
}

func TestLeagueService_CreateLeague(t *testing.T) {
	t.Parallel()

	publisher := eventmock.NewPublisher(t)
	publisher.
		On("Publish", mock.Anything, mock.MatchedBy(func(e event.LeagueEvent) bool {
			return e.Type == event.TypeLeagueCreated && e.ID != "" && e.PrizePool == "0.00"
		})).
		Return(nil).
		Once()
	f := newLeagueFixture(t, LeagueServiceConfig{ReopenOnLeave: true}, publisher)

	got, err := f.service.CreateLeague(context.Background(), league.Config{Name: " Office ", EntryFee: -5})
	require.NoError(t, err)
	assert.Equal(t, "Office", got.Name)
	assert.Equal(t, league.StatusOpen, got.Status)
	assert.Equal(t, money.Amount(0), got.EntryFee)
	assert.Equal(t, league.DefaultCapacity, got.Capacity)
	assert.Equal(t, league.DefaultCreatedBy, got.CreatedBy)

	_, err = f.service.CreateLeague(context.Background(), league.Config{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLeagueService_JoinFillsAndLeaveReopens(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t, LeagueServiceConfig{ReopenOnLeave: true}, nil)
	f.addRosters(t, "u1", "1", "2", "3")
	l, err := f.service.CreateLeague(context.Background(), league.Config{Name: "Trio", Capacity: 2, EntryFee: money.FromFloat(10)})
	require.NoError(t, err)

	f.join(t, l.ID, "1", "2")
	got, err := f.service.GetLeague(context.Background(), l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, league.StatusInProgress, got.Status)
	assert.Equal(t, "20.00", got.PrizePool.String())

	_, err = f.service.JoinLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "3", UserID: "u1"})
	require.ErrorIs(t, err, league.ErrFull)

	left, err := f.service.LeaveLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "01", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, league.StatusOpen, left.Status)
	assert.Equal(t, "10.00", left.PrizePool.String())

	open, err := f.service.ListOpenLeagues(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 1)

	for i := 0; i < 3; i++ {
		_, err = f.service.LeaveLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "1", UserID: "u1"})
		require.ErrorIs(t, err, ErrNotFound)
	}
	got, err = f.service.GetLeague(context.Background(), l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.PrizePool.String())
}

func TestLeagueService_OneWayClosureNeedsReopen(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t, LeagueServiceConfig{ReopenOnLeave: false}, nil)
	f.addRosters(t, "u1", "1", "2", "3")
	l, err := f.service.CreateLeague(context.Background(), league.Config{Name: "Duo", Capacity: 2})
	require.NoError(t, err)
	f.join(t, l.ID, "1", "2")

	left, err := f.service.LeaveLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "2", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, league.StatusInProgress, left.Status)

	_, err = f.service.JoinLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "3", UserID: "u1"})
	require.ErrorIs(t, err, league.ErrClosedForEntry)

	reopened, err := f.service.ReopenLeague(context.Background(), l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, league.StatusOpen, reopened.Status)
	f.join(t, l.ID, "3")
}

func TestLeagueService_JoinRejections(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t, LeagueServiceConfig{ReopenOnLeave: true}, nil)
	f.addRosters(t, "owner", "1")
	l, err := f.service.CreateLeague(context.Background(), league.Config{Name: "Solo", Capacity: 3})
	require.NoError(t, err)

	_, err = f.service.JoinLeague(context.Background(), EntryInput{LeagueID: "missing", RosterID: "1", UserID: "owner"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.JoinLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "404", UserID: "owner"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.JoinLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "1", UserID: "intruder"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.service.JoinLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "1", UserID: "owner"})
	require.NoError(t, err)
	_, err = f.service.JoinLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "1", UserID: "owner"})
	assert.ErrorIs(t, err, league.ErrDuplicateEntry)

	_, err = f.service.JoinLeague(context.Background(), EntryInput{LeagueID: " ", RosterID: "1", UserID: "owner"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLeagueService_AnonymousCallerCannotJoinOrLeave(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t, LeagueServiceConfig{ReopenOnLeave: true}, nil)
	f.addRosters(t, "alice", "1", "2")
	l, err := f.service.CreateLeague(context.Background(), league.Config{Name: "Guarded", Capacity: 4, EntryFee: money.FromFloat(10)})
	require.NoError(t, err)

	for _, userID := range []string{"", "   "} {
		_, err = f.service.JoinLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "2", UserID: userID})
		assert.ErrorIs(t, err, ErrUnauthorized)
	}

	_, err = f.service.JoinLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "1", UserID: "alice"})
	require.NoError(t, err)

	_, err = f.service.LeaveLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "1"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.service.LeaveLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "1", UserID: "mallory"})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.service.GetLeague(context.Background(), l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Occupancy())
	assert.Equal(t, "10.00", got.PrizePool.String())
}

func TestLeagueService_ConcurrentJoinsForLastSlot(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t, LeagueServiceConfig{ReopenOnLeave: true}, nil)
	f.addRosters(t, "u1", "1", "2", "3", "4")
	l, err := f.service.CreateLeague(context.Background(), league.Config{Name: "Race", Capacity: 3, EntryFee: 500})
	require.NoError(t, err)
	f.join(t, l.ID, "1", "2")

	errs := make([]error, 2)
	var wg conc.WaitGroup
	for i, rid := range []string{"3", "4"} {
		i, rid := i, rid
		wg.Go(func() {
			_, errs[i] = f.service.JoinLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: rid, UserID: "u1"})
		})
	}
	wg.Wait()

	var ok, full int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, league.ErrFull):
			full++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, full)

	got, err := f.service.GetLeague(context.Background(), l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, got.Occupancy())
	assert.Equal(t, money.Amount(1500), got.PrizePool)
}

func TestLeagueService_StandingsAndPrizes(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t, LeagueServiceConfig{ReopenOnLeave: true}, nil)
	f.addRosters(t, "u1", "1", "2", "3", "4")
	l, err := f.service.CreateLeague(context.Background(), league.Config{Name: "Table", Capacity: 10, EntryFee: money.FromFloat(250)})
	require.NoError(t, err)
	f.join(t, l.ID, "1", "2", "3", "4")

	updated, err := f.service.UpdatePoints(context.Background(), l.ID.String(), []PointsInput{
		{RosterID: "1", Points: 10},
		{RosterID: "2", Points: 30},
		{RosterID: "3", Points: 30},
		{RosterID: "4", Points: 5},
	})
	require.NoError(t, err)
	var ranks []int
	for _, e := range updated.Entries {
		ranks = append(ranks, e.Rank)
	}
	assert.Equal(t, []int{4, 1, 2, 3}, ranks)

	standings, err := f.service.Standings(context.Background(), l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, id.ID("2"), standings[0].RosterID)

	schedule, err := f.service.Prizes(context.Background(), l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "1000.00", schedule.Pool.String())
	assert.Equal(t, "100.00", schedule.PlatformFee.String())
	assert.Equal(t, "180.00", schedule.ForRank(1).String())

	_, err = f.service.UpdatePoints(context.Background(), l.ID.String(), []PointsInput{{RosterID: "9", Points: 1}})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.Standings(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.service.Prizes(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeagueService_CompleteLeague(t *testing.T) {
	t.Parallel()

	publisher := eventmock.NewPublisher(t)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f := newLeagueFixture(t, LeagueServiceConfig{ReopenOnLeave: true}, publisher)
	f.addRosters(t, "u1", "1", "2")
	l, err := f.service.CreateLeague(context.Background(), league.Config{Name: "Final", Capacity: 2, EntryFee: money.FromFloat(500)})
	require.NoError(t, err)

	_, err = f.service.CompleteLeague(context.Background(), l.ID.String())
	require.ErrorIs(t, err, league.ErrInvalidTransition)

	f.join(t, l.ID, "1", "2")
	_, err = f.service.UpdatePoints(context.Background(), l.ID.String(), []PointsInput{{RosterID: "2", Points: 50}})
	require.NoError(t, err)

	settlement, err := f.service.CompleteLeague(context.Background(), l.ID.String())
	require.NoError(t, err)
	require.Len(t, settlement.Awards, 2)
	assert.Equal(t, id.ID("2"), settlement.Awards[0].RosterID)
	assert.Equal(t, "180.00", settlement.Awards[0].Amount.String())
	assert.Equal(t, "72.00", settlement.Awards[1].Amount.String())
	assert.Equal(t, "648.00", settlement.Unallocated.String())

	_, err = f.service.LeaveLeague(context.Background(), EntryInput{LeagueID: l.ID.String(), RosterID: "1", UserID: "u1"})
	assert.ErrorIs(t, err, league.ErrClosedForEntry)
	_, err = f.service.UpdatePoints(context.Background(), l.ID.String(), []PointsInput{{RosterID: "2", Points: 1}})
	assert.ErrorIs(t, err, league.ErrClosedForEntry)
}

func TestLeagueService_ApplyGameweekPoints(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t, LeagueServiceConfig{ReopenOnLeave: true, PointsWorkerCount: 2}, nil)
	f.addRosters(t, "u1", "1", "2", "3")
	a, err := f.service.CreateLeague(context.Background(), league.Config{Name: "A"})
	require.NoError(t, err)
	b, err := f.service.CreateLeague(context.Background(), league.Config{Name: "B"})
	require.NoError(t, err)
	c, err := f.service.CreateLeague(context.Background(), league.Config{Name: "C"})
	require.NoError(t, err)
	f.join(t, a.ID, "1", "2")
	f.join(t, b.ID, "2")
	f.join(t, c.ID, "3")

	result, err := f.service.ApplyGameweekPoints(context.Background(), map[string]int{"1": 4, "2": 9})
	require.NoError(t, err)
	assert.Equal(t, 2, result.LeagueCount)
	assert.Equal(t, 3, result.UpdatedEntries)
	assert.Empty(t, result.FailedLeagues)

	gotA, err := f.service.GetLeague(context.Background(), a.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 4, gotA.Entries[0].Points)
	assert.Equal(t, 9, gotA.Entries[1].Points)
	assert.Equal(t, 1, gotA.Entries[1].Rank)

	gotC, err := f.service.GetLeague(context.Background(), c.ID.String())
	require.NoError(t, err)
	assert.Zero(t, gotC.Entries[0].Points)

	_, err = f.service.ApplyGameweekPoints(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLeagueService_DeleteLeagueCascades(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t, LeagueServiceConfig{ReopenOnLeave: true}, nil)
	f.addRosters(t, "u1", "1")
	l, err := f.service.CreateLeague(context.Background(), league.Config{Name: "Gone"})
	require.NoError(t, err)
	f.join(t, l.ID, "1")

	require.ErrorIs(t, f.rosters.Delete(context.Background(), "1"), roster.ErrRosterInUse)
	require.NoError(t, f.service.DeleteLeague(context.Background(), l.ID.String()))
	require.NoError(t, f.rosters.Delete(context.Background(), "1"))

	assert.ErrorIs(t, f.service.DeleteLeague(context.Background(), l.ID.String()), ErrNotFound)
}

func TestLeagueService_PublishFailureDoesNotRollBack(t *testing.T) {
	t.Parallel()

	publisher := eventmock.NewPublisher(t)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	f := newLeagueFixture(t, LeagueServiceConfig{ReopenOnLeave: true}, publisher)
	f.addRosters(t, "u1", "1")

	l, err := f.service.CreateLeague(context.Background(), league.Config{Name: "Quiet", Capacity: 5})
	require.NoError(t, err)
	f.join(t, l.ID, "1")

	got, err := f.service.GetLeague(context.Background(), l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Occupancy())
}

func TestLeagueService_MutateInternalErrorIsOpaque(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	rosterRepo := rostermock.NewRepository(t)
	service := NewLeagueService(leagueRepo, rosterRepo, nil, &sequenceIDGenerator{}, LeagueServiceConfig{}, nil)

	rosterRepo.
		On("GetByID", mock.Anything, id.ID("1")).
		Return(roster.Roster{ID: "1", UserID: "u1"}, true, nil).
		Once()
	leagueRepo.
		On("Mutate", mock.Anything, id.ID("L1"), mock.AnythingOfType("league.MutateFunc")).
		Return(league.League{}, errors.New("deadlock detected")).
		Once()

	_, err := service.JoinLeague(context.Background(), EntryInput{LeagueID: "L1", RosterID: "1", UserID: "u1"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, league.ErrFull))
	assert.Contains(t, err.Error(), "deadlock detected")
}

func TestLeagueService_ApplyGameweekPointsWaitsOnSubmitFailure(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	service := NewLeagueService(leagueRepo, rostermock.NewRepository(t), nil, &sequenceIDGenerator{}, LeagueServiceConfig{PointsWorkerCount: 1}, nil)
	service.newPool = func(size int) (*ants.Pool, error) {
		return ants.NewPool(size, ants.WithNonblocking(true))
	}

	entries := []league.Entry{{RosterID: "1", UserID: "u1"}}
	leagueRepo.
		On("List", mock.Anything).
		Return([]league.League{
			{ID: "A", Status: league.StatusOpen, Entries: entries},
			{ID: "B", Status: league.StatusOpen, Entries: entries},
		}, nil).
		Once()

	release := make(chan struct{})
	var finished atomic.Bool
	leagueRepo.
		On("Mutate", mock.Anything, mock.Anything, mock.AnythingOfType("league.MutateFunc")).
		Run(func(mock.Arguments) {
			<-release
			finished.Store(true)
		}).
		Return(league.League{}, errors.New("lock timeout")).
		Once()

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(release)
	}()

	_, err := service.ApplyGameweekPoints(context.Background(), map[string]int{"1": 3})
	require.ErrorIs(t, err, ants.ErrPoolOverload)
	assert.True(t, finished.Load())
}

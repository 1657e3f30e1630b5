package league

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-hub/internal/platform/id"
	"github.com/riskibarqy/fpl-hub/internal/platform/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

func newTestLeague(t *testing.T, capacity int, fee money.Amount) League {
	t.Helper()

	l, err := New(id.MustParse("L1"), Config{Name: "Sunday League", EntryFee: fee, Capacity: capacity}, testNow)
	require.NoError(t, err)
	return l
}

func entryFor(n int64) Entry {
	return Entry{RosterID: id.FromInt(n), UserID: "user", RosterName: "squad"}
}

func TestConfigNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      Config
		want    Config
		wantErr bool
	}{
		{
			name: "defaults",
			in:   Config{Name: "  Office  "},
			want: Config{Name: "Office", Format: FormatClassic, Capacity: DefaultCapacity, Gameweek: DefaultGameweek, CreatedBy: DefaultCreatedBy},
		},
		{
			name: "negative fee and capacity are clamped",
			in:   Config{Name: "x", Format: FormatHeadToHead, EntryFee: -500, Capacity: -3, Gameweek: 4, CreatedBy: "u1"},
			want: Config{Name: "x", Format: FormatHeadToHead, EntryFee: 0, Capacity: DefaultCapacity, Gameweek: 4, CreatedBy: "u1"},
		},
		{name: "blank name", in: Config{Name: "   "}, wantErr: true},
		{name: "unknown format", in: Config{Name: "x", Format: "draft"}, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.in.Normalize()
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNew_StartsOpenWithEmptyPool(t *testing.T) {
	t.Parallel()

	l := newTestLeague(t, 0, 1000)
	assert.Equal(t, StatusOpen, l.Status)
	assert.Equal(t, money.Amount(0), l.PrizePool)
	assert.Equal(t, DefaultCapacity, l.Capacity)
	assert.True(t, l.AcceptsEntries())
}

func TestJoin_LastSlotStartsLeague(t *testing.T) {
	t.Parallel()

	l := newTestLeague(t, 3, 500)
	require.NoError(t, l.Join(entryFor(1), testNow))
	require.NoError(t, l.Join(entryFor(2), testNow))
	assert.Equal(t, StatusOpen, l.Status)

	require.NoError(t, l.Join(entryFor(3), testNow))
	assert.Equal(t, StatusInProgress, l.Status)
	assert.Equal(t, money.Amount(1500), l.PrizePool)
	require.NotNil(t, l.StartedAt)

	err := l.Join(entryFor(4), testNow)
	assert.ErrorIs(t, err, ErrFull)
	assert.Equal(t, money.Amount(1500), l.PrizePool)
	assert.Equal(t, 3, l.Occupancy())
}

func TestJoin_Rejections(t *testing.T) {
	t.Parallel()

	t.Run("duplicate roster", func(t *testing.T) {
		l := newTestLeague(t, 5, 100)
		require.NoError(t, l.Join(entryFor(1), testNow))
		err := l.Join(entryFor(1), testNow)
		assert.ErrorIs(t, err, ErrDuplicateEntry)
		assert.Equal(t, money.Amount(100), l.PrizePool)
	})

	t.Run("in progress with room under one-way closure", func(t *testing.T) {
		l := newTestLeague(t, 2, 100)
		require.NoError(t, l.Join(entryFor(1), testNow))
		require.NoError(t, l.Join(entryFor(2), testNow))
		_, err := l.Leave(id.FromInt(2), false, testNow)
		require.NoError(t, err)
		require.Equal(t, StatusInProgress, l.Status)

		err = l.Join(entryFor(3), testNow)
		assert.ErrorIs(t, err, ErrClosedForEntry)
	})

	t.Run("completed", func(t *testing.T) {
		l := newTestLeague(t, 1, 100)
		require.NoError(t, l.Join(entryFor(1), testNow))
		require.NoError(t, l.Complete(testNow))
		err := l.Join(entryFor(2), testNow)
		assert.ErrorIs(t, err, ErrClosedForEntry)
	})
}

func TestJoin_ResetsEntryScore(t *testing.T) {
	t.Parallel()

	l := newTestLeague(t, 5, 0)
	e := entryFor(1)
	e.Points = 77
	e.Rank = 3
	require.NoError(t, l.Join(e, testNow))

	got, ok := l.FindEntry(id.FromInt(1))
	require.True(t, ok)
	assert.Zero(t, got.Points)
	assert.Zero(t, got.Rank)
	assert.Equal(t, testNow, got.JoinedAt)
}

func TestLeave_ReopensFullLeague(t *testing.T) {
	t.Parallel()

	l := newTestLeague(t, 2, 250)
	require.NoError(t, l.Join(entryFor(1), testNow))
	require.NoError(t, l.Join(entryFor(2), testNow))
	require.Equal(t, StatusInProgress, l.Status)

	removed, err := l.Leave(id.FromInt(1), true, testNow)
	require.NoError(t, err)
	assert.Equal(t, id.FromInt(1), removed.RosterID)
	assert.Equal(t, StatusOpen, l.Status)
	assert.Nil(t, l.StartedAt)
	assert.Equal(t, money.Amount(250), l.PrizePool)
	assert.Equal(t, []Entry{{RosterID: id.FromInt(2), UserID: "user", RosterName: "squad", JoinedAt: testNow}}, l.Entries)
}

func TestLeave_PoolNeverNegative(t *testing.T) {
	t.Parallel()

	l := newTestLeague(t, 5, 300)
	require.NoError(t, l.Join(entryFor(1), testNow))
	l.PrizePool = 100

	_, err := l.Leave(id.FromInt(1), true, testNow)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(0), l.PrizePool)

	for i := 0; i < 3; i++ {
		_, err = l.Leave(id.FromInt(1), true, testNow)
		assert.True(t, errors.Is(err, ErrEntryNotFound))
		assert.Equal(t, money.Amount(0), l.PrizePool)
	}
}

func TestLeave_CompletedLeagueIsFrozen(t *testing.T) {
	t.Parallel()

	l := newTestLeague(t, 1, 300)
	require.NoError(t, l.Join(entryFor(1), testNow))
	require.NoError(t, l.Complete(testNow))

	_, err := l.Leave(id.FromInt(1), true, testNow)
	assert.ErrorIs(t, err, ErrClosedForEntry)
	assert.Equal(t, 1, l.Occupancy())
	assert.Equal(t, money.Amount(300), l.PrizePool)
}

func TestReopen(t *testing.T) {
	t.Parallel()

	l := newTestLeague(t, 2, 0)
	assert.ErrorIs(t, l.Reopen(testNow), ErrInvalidTransition)

	require.NoError(t, l.Join(entryFor(1), testNow))
	require.NoError(t, l.Join(entryFor(2), testNow))
	assert.ErrorIs(t, l.Reopen(testNow), ErrFull)

	_, err := l.Leave(id.FromInt(2), false, testNow)
	require.NoError(t, err)
	require.NoError(t, l.Reopen(testNow))
	assert.Equal(t, StatusOpen, l.Status)
	assert.True(t, l.AcceptsEntries())
}

func TestComplete_OnlyFromInProgress(t *testing.T) {
	t.Parallel()

	l := newTestLeague(t, 1, 0)
	assert.ErrorIs(t, l.Complete(testNow), ErrInvalidTransition)

	require.NoError(t, l.Join(entryFor(1), testNow))
	require.NoError(t, l.Complete(testNow))
	assert.Equal(t, StatusCompleted, l.Status)
	require.NotNil(t, l.CompletedAt)

	assert.ErrorIs(t, l.Complete(testNow), ErrInvalidTransition)
	assert.ErrorIs(t, l.Reopen(testNow), ErrInvalidTransition)
}

func TestSetPoints_AllOrNothing(t *testing.T) {
	t.Parallel()

	l := newTestLeague(t, 5, 0)
	require.NoError(t, l.Join(entryFor(1), testNow))
	require.NoError(t, l.Join(entryFor(2), testNow))

	err := l.SetPoints([]PointsUpdate{{RosterID: id.FromInt(1), Points: 40}, {RosterID: id.FromInt(9), Points: 1}}, testNow)
	require.ErrorIs(t, err, ErrEntryNotFound)
	assert.Zero(t, l.Entries[0].Points)

	require.NoError(t, l.SetPoints([]PointsUpdate{{RosterID: id.FromInt(2), Points: 12}}, testNow))
	assert.Equal(t, 12, l.Entries[1].Points)
}

func TestAddPoints(t *testing.T) {
	t.Parallel()

	l := newTestLeague(t, 2, 0)
	require.NoError(t, l.Join(entryFor(1), testNow))
	require.NoError(t, l.Join(entryFor(2), testNow))

	changed := l.AddPoints(map[id.ID]int{id.FromInt(1): 5, id.FromInt(7): 9}, testNow)
	assert.Equal(t, 1, changed)
	changed = l.AddPoints(map[id.ID]int{id.FromInt(1): 3}, testNow)
	assert.Equal(t, 1, changed)
	assert.Equal(t, 8, l.Entries[0].Points)

	require.NoError(t, l.Complete(testNow))
	assert.Zero(t, l.AddPoints(map[id.ID]int{id.FromInt(1): 3}, testNow))
	assert.Equal(t, 8, l.Entries[0].Points)
}

func TestClone_DoesNotShareEntries(t *testing.T) {
	t.Parallel()

	l := newTestLeague(t, 1, 0)
	require.NoError(t, l.Join(entryFor(1), testNow))

	copied := Clone(l)
	copied.Entries[0].Points = 99
	*copied.StartedAt = testNow.Add(time.Hour)

	assert.Zero(t, l.Entries[0].Points)
	assert.Equal(t, testNow, *l.StartedAt)
}

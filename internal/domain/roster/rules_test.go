package roster

import (
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/fpl-hub/internal/domain/player"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validSquad returns 15 picks across 5 clubs (3 each) costing 15*60 = 90.0M.
func validSquad() []Pick {
	layout := []struct {
		pos   player.Position
		count int
	}{
		{player.PositionGoalkeeper, 2},
		{player.PositionDefender, 5},
		{player.PositionMidfielder, 5},
		{player.PositionForward, 3},
	}

	picks := make([]Pick, 0, 15)
	n := 0
	for _, l := range layout {
		for i := 0; i < l.count; i++ {
			n++
			picks = append(picks, Pick{
				PlayerID: id.FromInt(int64(n)),
				ClubID:   fmt.Sprintf("club-%d", (n-1)%5+1),
				Position: l.pos,
				Price:    60,
			})
		}
	}
	return picks
}

func TestValidate_ValidRoster(t *testing.T) {
	t.Parallel()

	report := Validate(validSquad(), id.FromInt(1), id.FromInt(2), DefaultRules())

	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 15, report.PlayerCount)
	assert.Equal(t, int64(900), report.TotalCost)
	assert.Equal(t, []PositionCount{
		{Position: player.PositionGoalkeeper, Count: 2},
		{Position: player.PositionDefender, Count: 5},
		{Position: player.PositionMidfielder, Count: 5},
		{Position: player.PositionForward, Count: 3},
	}, report.PositionCounts)
	require.Len(t, report.ClubCounts, 5)
	assert.Equal(t, "club-1", report.ClubCounts[0].ClubID)
	assert.NoError(t, report.Err())
}

func TestValidate_ThreeGoalkeepersReportsSinglePositionError(t *testing.T) {
	t.Parallel()

	picks := validSquad()
	// swap one defender for a third goalkeeper, squad size stays 15.
	picks[2].Position = player.PositionGoalkeeper

	report := Validate(picks, "", "", DefaultRules())

	require.False(t, report.Valid)
	var goalkeeperErrors []string
	for _, msg := range report.Errors {
		assert.NotContains(t, msg, "roster must have exactly")
		if msg == "must have exactly 2 goalkeepers (current: 3)" {
			goalkeeperErrors = append(goalkeeperErrors, msg)
		}
	}
	assert.Len(t, goalkeeperErrors, 1)
	assert.Equal(t, []string{
		"must have exactly 2 goalkeepers (current: 3)",
		"must have exactly 5 defenders (current: 4)",
	}, report.Errors)
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	t.Parallel()

	picks := validSquad()[:14]
	for i := range picks[:5] {
		picks[i].ClubID = "arsenal"
	}
	picks[0].Price = 400

	report := Validate(picks, id.FromInt(99), id.FromInt(98), DefaultRules())

	require.False(t, report.Valid)
	assert.Equal(t, []string{
		"roster must have exactly 15 players (current: 14)",
		"must have exactly 3 forwards (current: 2)",
		"maximum 3 players from the same club (club arsenal has 5 players)",
		"roster cost exceeds 100.0M budget (current: 118.0M)",
		"captain 99 is not in the roster",
		"vice-captain 98 is not in the roster",
	}, report.Errors)
}

func TestValidate_DuplicateAndUnknownPosition(t *testing.T) {
	t.Parallel()

	picks := validSquad()
	picks[14].PlayerID = picks[13].PlayerID
	picks[12].Position = "COACH"

	report := Validate(picks, "", "", DefaultRules())

	require.False(t, report.Valid)
	assert.Equal(t, "player 14 is selected more than once", report.Errors[0])
	assert.Equal(t, "unknown position COACH (player 13)", report.Errors[1])
}

func TestValidate_IsDeterministic(t *testing.T) {
	t.Parallel()

	picks := validSquad()
	for i := range picks {
		picks[i].ClubID = fmt.Sprintf("club-%d", i%2)
	}

	first := Validate(picks, id.FromInt(1), "", DefaultRules())
	for i := 0; i < 20; i++ {
		again := Validate(picks, id.FromInt(1), "", DefaultRules())
		require.Equal(t, first, again)
		require.Equal(t, fmt.Sprintf("%v", first), fmt.Sprintf("%v", again))
	}
}

func TestValidate_CostAtCapIsAccepted(t *testing.T) {
	t.Parallel()

	picks := validSquad()
	picks[0].Price = 60 + 100

	report := Validate(picks, "", "", DefaultRules())
	assert.True(t, report.Valid, report.Errors)
	assert.Equal(t, int64(1000), report.TotalCost)
}

func TestReportErr_WrapsValidationFailed(t *testing.T) {
	t.Parallel()

	report := Validate(nil, "", "", DefaultRules())
	err := report.Err()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidationFailed))

	var validationErr *ValidationError
	require.True(t, errors.As(fmt.Errorf("create roster: %w", err), &validationErr))
	assert.Equal(t, report.Errors, validationErr.Report.Errors)
}

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{0: "0.0", 55: "5.5", 1000: "100.0", 1015: "101.5"}
	for in, want := range cases {
		if got := FormatPrice(in); got != want {
			t.Fatalf("FormatPrice(%d): got=%s want=%s", in, got, want)
		}
	}
}

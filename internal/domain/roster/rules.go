package roster

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/fpl-hub/internal/domain/player"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
	"github.com/shopspring/decimal"
)

var ErrValidationFailed = errors.New("roster validation failed")

// Rules stores roster validation parameters. Prices are tenths of a million.
type Rules struct {
	SquadSize         int
	SalaryCap         int64
	MaxPlayersPerClub int
	Composition       map[player.Position]int
}

func DefaultRules() Rules {
	return Rules{
		SquadSize:         15,
		SalaryCap:         1000,
		MaxPlayersPerClub: 3,
		Composition: map[player.Position]int{
			player.PositionGoalkeeper: 2,
			player.PositionDefender:   5,
			player.PositionMidfielder: 5,
			player.PositionForward:    3,
		},
	}
}

type PositionCount struct {
	Position player.Position
	Count    int
}

type ClubCount struct {
	ClubID string
	Count  int
}

// Report is the full outcome of a validation run. Counts are ordered
// (positions in squad order, clubs by id) so equal inputs give equal reports.
type Report struct {
	Valid          bool
	Errors         []string
	PlayerCount    int
	PositionCounts []PositionCount
	ClubCounts     []ClubCount
	TotalCost      int64
}

// ValidationError carries the report of a rejected roster.
type ValidationError struct {
	Report Report
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(e.Report.Errors, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// Err returns nil for a valid report and a *ValidationError otherwise.
func (r Report) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Report: r}
}

var positionLabels = map[player.Position]string{
	player.PositionGoalkeeper: "goalkeepers",
	player.PositionDefender:   "defenders",
	player.PositionMidfielder: "midfielders",
	player.PositionForward:    "forwards",
}

// Validate checks every rule and collects every violation. It never stops at
// the first failure and reads nothing but its arguments.
func Validate(picks []Pick, captainID, viceCaptainID id.ID, rules Rules) Report {
	report := Report{PlayerCount: len(picks)}
	fail := func(format string, args ...any) {
		report.Errors = append(report.Errors, fmt.Sprintf(format, args...))
	}

	if len(picks) != rules.SquadSize {
		fail("roster must have exactly %d players (current: %d)", rules.SquadSize, len(picks))
	}

	positionCounter := make(map[player.Position]int, len(player.Positions))
	clubCounter := make(map[string]int)
	seen := make(map[id.ID]struct{}, len(picks))
	var unknown []string
	var duplicates []string

	for _, pick := range picks {
		if _, ok := seen[pick.PlayerID]; ok {
			duplicates = append(duplicates, pick.PlayerID.String())
		}
		seen[pick.PlayerID] = struct{}{}

		if _, ok := player.AllPositions[pick.Position]; ok {
			positionCounter[pick.Position]++
		} else {
			unknown = append(unknown, fmt.Sprintf("%s (player %s)", pick.Position, pick.PlayerID))
		}
		clubCounter[pick.ClubID]++
		report.TotalCost += pick.Price
	}

	for _, dup := range duplicates {
		fail("player %s is selected more than once", dup)
	}
	for _, u := range unknown {
		fail("unknown position %s", u)
	}

	for _, pos := range player.Positions {
		count := positionCounter[pos]
		report.PositionCounts = append(report.PositionCounts, PositionCount{Position: pos, Count: count})
		want, ok := rules.Composition[pos]
		if ok && count != want {
			fail("must have exactly %d %s (current: %d)", want, positionLabels[pos], count)
		}
	}

	clubIDs := make([]string, 0, len(clubCounter))
	for clubID := range clubCounter {
		clubIDs = append(clubIDs, clubID)
	}
	sort.Strings(clubIDs)
	for _, clubID := range clubIDs {
		count := clubCounter[clubID]
		report.ClubCounts = append(report.ClubCounts, ClubCount{ClubID: clubID, Count: count})
		if count > rules.MaxPlayersPerClub {
			fail("maximum %d players from the same club (club %s has %d players)", rules.MaxPlayersPerClub, clubID, count)
		}
	}

	if report.TotalCost > rules.SalaryCap {
		fail("roster cost exceeds %sM budget (current: %sM)", FormatPrice(rules.SalaryCap), FormatPrice(report.TotalCost))
	}

	if !captainID.IsZero() {
		if _, ok := seen[captainID]; !ok {
			fail("captain %s is not in the roster", captainID)
		}
	}
	if !viceCaptainID.IsZero() {
		if _, ok := seen[viceCaptainID]; !ok {
			fail("vice-captain %s is not in the roster", viceCaptainID)
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}

// FormatPrice renders tenths of a million with one decimal.
func FormatPrice(tenths int64) string {
	return decimal.New(tenths, -1).StringFixed(1)
}

package league

import (
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

var (
	ErrLeagueNotFound    = errors.New("league not found")
	ErrEntryNotFound     = errors.New("league entry not found")
	ErrFull              = errors.New("league is full")
	ErrDuplicateEntry    = errors.New("roster already entered in league")
	ErrClosedForEntry    = errors.New("league is closed for entry")
	ErrInvalidTransition = errors.New("invalid league status transition")
	ErrInvalidConfig     = errors.New("invalid league config")
)

// PointsUpdate sets the accumulated points of one entry.
type PointsUpdate struct {
	RosterID id.ID
	Points   int
}

// Join admits an entry with zero points and adds its fee to the pool. The
// entry that fills the last slot moves the league to in-progress.
func (l *League) Join(entry Entry, now time.Time) error {
	if l.Status == StatusCompleted {
		return fmt.Errorf("%w: league %s is completed", ErrClosedForEntry, l.ID)
	}
	if !l.HasRoom() {
		return fmt.Errorf("%w: %d/%d entries", ErrFull, l.Occupancy(), l.Capacity)
	}
	if l.HasRoster(entry.RosterID) {
		return fmt.Errorf("%w: roster %s", ErrDuplicateEntry, entry.RosterID)
	}
	if l.Status != StatusOpen {
		return fmt.Errorf("%w: league %s is %s", ErrClosedForEntry, l.ID, l.Status)
	}

	entry.Points = 0
	entry.Rank = 0
	entry.JoinedAt = now
	l.Entries = append(l.Entries, entry)
	l.PrizePool += l.EntryFee
	l.UpdatedAt = now

	if !l.HasRoom() {
		l.Status = StatusInProgress
		started := now
		l.StartedAt = &started
	}
	return nil
}

// Leave removes the entry of rosterID and refunds its fee. With reopen set,
// an in-progress league that drops below capacity goes back to open.
func (l *League) Leave(rosterID id.ID, reopen bool, now time.Time) (Entry, error) {
	if l.Status == StatusCompleted {
		return Entry{}, fmt.Errorf("%w: league %s is completed", ErrClosedForEntry, l.ID)
	}

	idx := -1
	for i, e := range l.Entries {
		if e.RosterID == rosterID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Entry{}, fmt.Errorf("%w: roster %s in league %s", ErrEntryNotFound, rosterID, l.ID)
	}

	removed := l.Entries[idx]
	l.Entries = append(l.Entries[:idx:idx], l.Entries[idx+1:]...)
	l.PrizePool = (l.PrizePool - l.EntryFee).NonNegative()
	l.UpdatedAt = now

	if reopen && l.Status == StatusInProgress && l.HasRoom() {
		l.Status = StatusOpen
		l.StartedAt = nil
	}
	return removed, nil
}

// Reopen is the administrative way back to open when closure is one-way.
func (l *League) Reopen(now time.Time) error {
	if l.Status != StatusInProgress {
		return fmt.Errorf("%w: cannot reopen %s league", ErrInvalidTransition, l.Status)
	}
	if !l.HasRoom() {
		return fmt.Errorf("%w: %d/%d entries", ErrFull, l.Occupancy(), l.Capacity)
	}

	l.Status = StatusOpen
	l.StartedAt = nil
	l.UpdatedAt = now
	return nil
}

// Complete is the terminal transition and is only allowed from in-progress.
func (l *League) Complete(now time.Time) error {
	if l.Status != StatusInProgress {
		return fmt.Errorf("%w: cannot complete %s league", ErrInvalidTransition, l.Status)
	}

	l.Status = StatusCompleted
	completed := now
	l.CompletedAt = &completed
	l.UpdatedAt = now
	return nil
}

// SetPoints overwrites accumulated points. Every roster must hold an entry,
// otherwise nothing is changed.
func (l *League) SetPoints(updates []PointsUpdate, now time.Time) error {
	if l.Status == StatusCompleted {
		return fmt.Errorf("%w: league %s is completed", ErrClosedForEntry, l.ID)
	}

	index := make(map[id.ID]int, len(l.Entries))
	for i, e := range l.Entries {
		index[e.RosterID] = i
	}
	for _, u := range updates {
		if _, ok := index[u.RosterID]; !ok {
			return fmt.Errorf("%w: roster %s in league %s", ErrEntryNotFound, u.RosterID, l.ID)
		}
	}

	for _, u := range updates {
		l.Entries[index[u.RosterID]].Points = u.Points
	}
	l.UpdatedAt = now
	return nil
}

// AddPoints adds gameweek points to the entries present in points and
// returns how many entries changed. Completed leagues are left untouched.
func (l *League) AddPoints(points map[id.ID]int, now time.Time) int {
	if l.Status == StatusCompleted {
		return 0
	}

	changed := 0
	for i := range l.Entries {
		if p, ok := points[l.Entries[i].RosterID]; ok {
			l.Entries[i].Points += p
			changed++
		}
	}
	if changed > 0 {
		l.UpdatedAt = now
	}
	return changed
}

// AssignRanks copies ranks keyed by roster id onto the entries.
func (l *League) AssignRanks(ranks map[id.ID]int) {
	for i := range l.Entries {
		l.Entries[i].Rank = ranks[l.Entries[i].RosterID]
	}
}

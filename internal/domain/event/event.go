package event

import (
	"context"
	"time"

	"github.com/riskibarqy/fpl-hub/internal/domain/league"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

type Type string

const (
	TypeLeagueCreated     Type = "league.created"
	TypeLeagueEntryJoined Type = "league.entry_joined"
	TypeLeagueEntryLeft   Type = "league.entry_left"
	TypeLeagueStarted     Type = "league.started"
	TypeLeagueReopened    Type = "league.reopened"
	TypeLeagueCompleted   Type = "league.completed"
	TypeLeagueDeleted     Type = "league.deleted"
)

// LeagueEvent is the wire shape of a league lifecycle change.
type LeagueEvent struct {
	ID         string        `json:"id"`
	Type       Type          `json:"type"`
	LeagueID   id.ID         `json:"leagueId"`
	RosterID   id.ID         `json:"rosterId,omitempty"`
	Status     league.Status `json:"status"`
	Occupancy  int           `json:"occupancy"`
	Capacity   int           `json:"capacity"`
	PrizePool  string        `json:"prizePool"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// New snapshots l after a committed mutation.
func New(eventType Type, l league.League, rosterID id.ID, now time.Time) LeagueEvent {
	return LeagueEvent{
		Type:       eventType,
		LeagueID:   l.ID,
		RosterID:   rosterID,
		Status:     l.Status,
		Occupancy:  l.Occupancy(),
		Capacity:   l.Capacity,
		PrizePool:  l.PrizePool.String(),
		OccurredAt: now.UTC(),
	}
}

// Publisher delivers events to an outside broker. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, events ...LeagueEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...LeagueEvent) error {
	return nil
}

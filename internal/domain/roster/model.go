package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-hub/internal/domain/player"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

// Pick is the snapshot of one player at the time the roster referenced it.
// The price stored here is the price paid; later catalog changes never touch it.
type Pick struct {
	PlayerID id.ID
	ClubID   string
	Position player.Position
	Price    int64
}

func PickFromPlayer(p player.Player) Pick {
	return Pick{
		PlayerID: p.ID,
		ClubID:   p.ClubID,
		Position: p.Position,
		Price:    p.Price,
	}
}

// Roster is a user's 15-player squad submitted for competition.
type Roster struct {
	ID            id.ID
	UserID        string
	Name          string
	Picks         []Pick
	CaptainID     id.ID
	ViceCaptainID id.ID
	TotalCost     int64
	// Budget is the unspent part of the salary cap.
	Budget    int64
	Gameweek  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Roster) ValidateBasic() error {
	if r.ID.IsZero() {
		return fmt.Errorf("roster id is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("roster name is required")
	}
	if len(r.Picks) == 0 {
		return fmt.Errorf("roster picks are required")
	}

	return nil
}

// PlayerIDs returns pick ids in roster order.
func (r Roster) PlayerIDs() []id.ID {
	out := make([]id.ID, 0, len(r.Picks))
	for _, p := range r.Picks {
		out = append(out, p.PlayerID)
	}
	return out
}

func Clone(r Roster) Roster {
	copied := r
	copied.Picks = append([]Pick(nil), r.Picks...)
	return copied
}

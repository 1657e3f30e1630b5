package league

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-hub/internal/platform/id"
	"github.com/riskibarqy/fpl-hub/internal/platform/money"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Format only affects how points accrue upstream.
type Format string

const (
	FormatClassic    Format = "classic"
	FormatHeadToHead Format = "head-to-head"
)

const (
	DefaultCapacity  = 100
	DefaultGameweek  = 1
	DefaultCreatedBy = "admin"
)

// Config is the typed input for creating a league.
type Config struct {
	Name      string
	Format    Format
	EntryFee  money.Amount
	Capacity  int
	Gameweek  int
	CreatedBy string
}

// Normalize applies fallbacks and clamps. Only a missing name or an unknown
// format is rejected.
func (c Config) Normalize() (Config, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Config{}, fmt.Errorf("%w: league name is required", ErrInvalidConfig)
	}

	switch c.Format {
	case "":
		c.Format = FormatClassic
	case FormatClassic, FormatHeadToHead:
	default:
		return Config{}, fmt.Errorf("%w: unsupported league format %q", ErrInvalidConfig, c.Format)
	}

	c.EntryFee = c.EntryFee.NonNegative()
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.Gameweek <= 0 {
		c.Gameweek = DefaultGameweek
	}
	c.CreatedBy = strings.TrimSpace(c.CreatedBy)
	if c.CreatedBy == "" {
		c.CreatedBy = DefaultCreatedBy
	}

	return c, nil
}

// Entry is one roster's membership in a league.
type Entry struct {
	RosterID   id.ID
	UserID     string
	RosterName string
	Points     int
	Rank       int
	JoinedAt   time.Time
}

// League is the aggregate guarding capacity, pool and status. Entries are
// kept in join order.
type League struct {
	ID          id.ID
	Name        string
	Format      Format
	EntryFee    money.Amount
	Capacity    int
	PrizePool   money.Amount
	Status      Status
	Gameweek    int
	CreatedBy   string
	Entries     []Entry
	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// New allocates an open league with an empty pool.
func New(leagueID id.ID, cfg Config, now time.Time) (League, error) {
	if leagueID.IsZero() {
		return League{}, fmt.Errorf("%w: league id is required", ErrInvalidConfig)
	}
	cfg, err := cfg.Normalize()
	if err != nil {
		return League{}, err
	}

	return League{
		ID:        leagueID,
		Name:      cfg.Name,
		Format:    cfg.Format,
		EntryFee:  cfg.EntryFee,
		Capacity:  cfg.Capacity,
		Status:    StatusOpen,
		Gameweek:  cfg.Gameweek,
		CreatedBy: cfg.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (l League) Occupancy() int {
	return len(l.Entries)
}

func (l League) HasRoom() bool {
	return l.Occupancy() < l.Capacity
}

// AcceptsEntries reports whether a join could currently succeed.
func (l League) AcceptsEntries() bool {
	return l.Status == StatusOpen && l.HasRoom()
}

func (l League) FindEntry(rosterID id.ID) (Entry, bool) {
	for _, e := range l.Entries {
		if e.RosterID == rosterID {
			return e, true
		}
	}
	return Entry{}, false
}

func (l League) HasRoster(rosterID id.ID) bool {
	_, ok := l.FindEntry(rosterID)
	return ok
}

func Clone(l League) League {
	copied := l
	copied.Entries = append([]Entry(nil), l.Entries...)
	if l.StartedAt != nil {
		v := *l.StartedAt
		copied.StartedAt = &v
	}
	if l.CompletedAt != nil {
		v := *l.CompletedAt
		copied.CompletedAt = &v
	}
	return copied
}

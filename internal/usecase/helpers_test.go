package usecase

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

type sequenceIDGenerator struct {
	prefix string
	n      atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (id.ID, error) {
	return id.ID(fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))), nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// validSeedSquad is a legal 15-player roster over the memory seed catalog
// costing 97.5M.
var validSeedSquad = []string{"1", "4", "7", "9", "10", "11", "12", "13", "15", "16", "17", "18", "21", "23", "24"}

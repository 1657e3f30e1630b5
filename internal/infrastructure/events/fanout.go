package events

import (
	"context"

	"github.com/riskibarqy/fpl-hub/internal/domain/event"
	"github.com/sourcegraph/conc/pool"
)

// Fanout delivers to every publisher concurrently and joins their errors.
type Fanout struct {
	publishers []event.Publisher
}

func NewFanout(publishers ...event.Publisher) *Fanout {
	out := make([]event.Publisher, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			out = append(out, p)
		}
	}
	return &Fanout{publishers: out}
}

func (f *Fanout) Publish(ctx context.Context, events ...event.LeagueEvent) error {
	if len(events) == 0 || len(f.publishers) == 0 {
		return nil
	}

	p := pool.New().WithContext(ctx)
	for _, publisher := range f.publishers {
		p.Go(func(ctx context.Context) error {
			return publisher.Publish(ctx, events...)
		})
	}
	return p.Wait()
}

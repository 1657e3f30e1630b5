package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/fpl-hub/internal/domain/event"
	"github.com/riskibarqy/fpl-hub/internal/platform/logging"
	"github.com/riskibarqy/fpl-hub/internal/platform/resilience"
)

// Guarded stops calling a broker that keeps failing until the breaker's
// open timeout elapses.
type Guarded struct {
	name    string
	next    event.Publisher
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewGuarded(name string, next event.Publisher, cfg resilience.CircuitBreakerConfig, logger *logging.Logger) *Guarded {
	if logger == nil {
		logger = logging.Default()
	}

	g := &Guarded{name: name, next: next, logger: logger}
	g.breaker = resilience.NewCircuitBreaker(cfg, func(from, to resilience.CircuitState) {
		g.logger.Warn("event publisher circuit state changed",
			"publisher", g.name,
			"from", from,
			"to", to,
		)
	})
	return g
}

func (g *Guarded) Publish(ctx context.Context, events ...event.LeagueEvent) error {
	if len(events) == 0 {
		return nil
	}

	err := g.breaker.Execute(func() error {
		return g.next.Publish(ctx, events...)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		g.logger.WarnContext(ctx, "event publisher circuit breaker rejected request",
			"publisher", g.name,
			"dropped", len(events),
		)
		return fmt.Errorf("%s publisher is temporarily unavailable: %w", g.name, err)
	}
	return err
}

func (g *Guarded) State() resilience.CircuitState {
	return g.breaker.State()
}

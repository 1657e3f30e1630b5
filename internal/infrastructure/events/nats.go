package events

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/nats-io/nats.go"
	"github.com/riskibarqy/fpl-hub/internal/domain/event"
)

// NATSPublisher publishes league events on core NATS. Each event goes to
// <subject>.<event type> so consumers can filter by wildcard.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

func ConnectNATS(natsURL, clientName string) (*nats.Conn, error) {
	conn, err := nats.Connect(natsURL, nats.Name(clientName), nats.MaxReconnects(-1))
	if err != nil {
		return nil, crerr.Wrap(err, "connect nats")
	}
	return conn, nil
}

func NewNATSPublisher(conn *nats.Conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: strings.TrimSuffix(subject, ".")}
}

func (p *NATSPublisher) Publish(ctx context.Context, events ...event.LeagueEvent) error {
	if len(events) == 0 {
		return nil
	}

	for _, ev := range events {
		data, err := encode(ev)
		if err != nil {
			return err
		}

		msg := nats.NewMsg(p.subjectFor(ev))
		msg.Data = data
		if ev.ID != "" {
			msg.Header.Set(nats.MsgIdHdr, ev.ID)
		}
		if err := p.conn.PublishMsg(msg); err != nil {
			return crerr.Wrapf(err, "publish event type=%s league=%s", ev.Type, ev.LeagueID)
		}
	}

	if err := p.conn.FlushWithContext(ctx); err != nil {
		return crerr.Wrap(err, "flush nats")
	}
	return nil
}

func (p *NATSPublisher) Close() {
	p.conn.Close()
}

func (p *NATSPublisher) subjectFor(ev event.LeagueEvent) string {
	return p.subject + "." + string(ev.Type)
}

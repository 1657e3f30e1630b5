package events

import (
	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-hub/internal/domain/event"
	"github.com/valyala/bytebufferpool"
)

// encode renders ev as a single JSON document. The returned slice is owned
// by the caller.
func encode(ev event.LeagueEvent) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(ev); err != nil {
		return nil, crerr.Wrapf(err, "encode event type=%s league=%s", ev.Type, ev.LeagueID)
	}

	out := buf.B
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return append([]byte(nil), out...), nil
}

func decode(data []byte) (event.LeagueEvent, error) {
	var ev event.LeagueEvent
	if err := sonic.Unmarshal(data, &ev); err != nil {
		return event.LeagueEvent{}, crerr.Wrap(err, "decode event")
	}
	return ev, nil
}

package events

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/riskibarqy/fpl-hub/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNATS(t *testing.T) *server.Server {
	t.Helper()

	ns, err := server.NewServer(&server.Options{Port: -1, NoLog: true, NoSigs: true})
	require.NoError(t, err)
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		t.Fatalf("embedded nats server did not start")
	}
	t.Cleanup(ns.Shutdown)
	return ns
}

func TestNATSPublisher_PublishesPerEventType(t *testing.T) {
	ns := startNATS(t)

	conn, err := ConnectNATS(ns.ClientURL(), "fpl-hub-test")
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	sub, err := conn.SubscribeSync("fplhub.league.events.>")
	require.NoError(t, err)

	publisher := NewNATSPublisher(conn, "fplhub.league.events.")
	joined := sampleEvent()
	started := sampleEvent()
	started.ID = "evt-2"
	started.Type = event.TypeLeagueStarted

	require.NoError(t, publisher.Publish(context.Background(), joined, started))

	first, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "fplhub.league.events.league.entry_joined", first.Subject)
	assert.Equal(t, "evt-1", first.Header.Get(nats.MsgIdHdr))

	second, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "fplhub.league.events.league.started", second.Subject)

	got, err := decode(second.Data)
	require.NoError(t, err)
	assert.Equal(t, started, got)
}

func TestConnectNATS_Unreachable(t *testing.T) {
	_, err := ConnectNATS("nats://127.0.0.1:1", "fpl-hub-test")
	assert.Error(t, err)
}

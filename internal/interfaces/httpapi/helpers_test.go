package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fpl-hub/internal/domain/event"
	"github.com/riskibarqy/fpl-hub/internal/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
	"github.com/riskibarqy/fpl-hub/internal/platform/logging"
	"github.com/riskibarqy/fpl-hub/internal/usecase"
	"github.com/stretchr/testify/require"
)

var validSquad = []string{"1", "4", "7", "9", "10", "11", "12", "13", "15", "16", "17", "18", "21", "23", "24"}

type envelope struct {
	APIVersion string                 `json:"apiVersion"`
	Data       sonic.NoCopyRawMessage `json:"data"`
	Error      *googleErrorBody       `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewStore()
	rosterRepo := memory.NewRosterRepository(store)
	idGen := id.NewUUIDGenerator()
	logger := logging.NewNop()

	rosterService := usecase.NewRosterService(
		memory.NewPlayerRepository(memory.SeedPlayers()),
		rosterRepo,
		roster.DefaultRules(),
		idGen,
		logger,
	)
	leagueService := usecase.NewLeagueService(
		memory.NewLeagueRepository(store),
		rosterRepo,
		event.NopPublisher{},
		idGen,
		usecase.LeagueServiceConfig{ReopenOnLeave: true, PointsWorkerCount: 2},
		logger,
	)

	return NewRouter(NewHandler(rosterService, leagueService, logger), logger, []string{"*"})
}

func doRequest(t *testing.T, router http.Handler, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.Equal(t, googleAPIVersion, env.APIVersion)
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, sonic.Unmarshal(env.Data, data))
	}
	return env
}

func createRoster(t *testing.T, router http.Handler, userID, name string) rosterDTO {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/v1/rosters", userID, rosterRequest{
		Name:      name,
		PlayerIDs: validSquad,
		CaptainID: "13",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out rosterDTO
	decodeEnvelope(t, rec, &out)
	return out
}

func createLeague(t *testing.T, router http.Handler, req createLeagueRequest) leagueDTO {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/v1/leagues", "admin-1", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out leagueDTO
	decodeEnvelope(t, rec, &out)
	return out
}

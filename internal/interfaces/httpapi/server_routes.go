package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("POST /v1/rosters/validate", handler.ValidateRoster)
	mux.HandleFunc("POST /v1/rosters", handler.CreateRoster)
	mux.HandleFunc("GET /v1/rosters/{rosterID}", handler.GetRoster)
	mux.HandleFunc("PUT /v1/rosters/{rosterID}", handler.UpdateRoster)
	mux.HandleFunc("DELETE /v1/rosters/{rosterID}", handler.DeleteRoster)
	mux.HandleFunc("GET /v1/users/{userID}/rosters", handler.ListRostersByUser)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/leagues", handler.CreateLeague)
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/open", handler.ListOpenLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("DELETE /v1/leagues/{leagueID}", handler.DeleteLeague)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/join", handler.JoinLeague)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/leave", handler.LeaveLeague)
	mux.HandleFunc("PUT /v1/leagues/{leagueID}/points", handler.UpdatePoints)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/complete", handler.CompleteLeague)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/reopen", handler.ReopenLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/prizes", handler.GetPrizes)
	mux.HandleFunc("POST /v1/points/gameweek", handler.ApplyGameweekPoints)
}

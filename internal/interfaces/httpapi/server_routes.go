package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/leaders", handler.Leaders)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/games", handler.TeamGames)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/games", handler.ListGames)
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
}

func registerAnalyticsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/games/{gameID}/events", handler.FilterEvents)
	mux.HandleFunc("GET /v1/games/{gameID}/clutch/events", handler.ClutchEvents)
	mux.HandleFunc("GET /v1/games/{gameID}/players/{playerID}/clutch", handler.ClutchStats)
	mux.HandleFunc("GET /v1/games/{gameID}/shots", handler.SituationalShots)
	mux.HandleFunc("GET /v1/games/{gameID}/shots/summary", handler.SituationalStats)
	mux.HandleFunc("GET /v1/games/{gameID}/players/{playerID}/quarters", handler.QuarterSplits)
	mux.HandleFunc("GET /v1/games/{gameID}/players/{playerID}/onoff", handler.OnOffAnalysis)
	mux.HandleFunc("GET /v1/games/{gameID}/teams/{teamID}/lineups", handler.LineupStats)
	mux.HandleFunc("GET /v1/games/{gameID}/teams/{teamID}/lineups/best", handler.BestLineups)
}

func registerSyncRoutes(mux *http.ServeMux, handler *Handler, syncToken string) {
	mux.HandleFunc("GET /v1/sync/status", handler.SyncStatus)
	mux.HandleFunc("GET /v1/sync/logs", handler.SyncLogs)

	mux.Handle("POST /v1/sync/{source}/seasons/{seasonExternalID}", RequireSyncToken(syncToken, http.HandlerFunc(handler.TriggerSeasonSync)))
	mux.Handle("POST /v1/sync/{source}/games/{gameExternalID}", RequireSyncToken(syncToken, http.HandlerFunc(handler.TriggerGameSync)))
	mux.Handle("POST /v1/sync/{source}/teams/{seasonExternalID}", RequireSyncToken(syncToken, http.HandlerFunc(handler.TriggerTeamsSync)))
}

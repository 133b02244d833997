package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/games", handler.ListGames)
	mux.HandleFunc("GET /v1/games/next", handler.NextGame)
	mux.HandleFunc("GET /v1/leaderboard", handler.Leaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/me", RequireAuth(verifier, http.HandlerFunc(handler.Me)))
	mux.Handle("GET /v1/me/predictions", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPredictions)))
	mux.Handle("POST /v1/predictions", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPrediction)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, adminEmails []string) {
	admin := func(next http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireAdmin(adminEmails, next))
	}

	mux.Handle("POST /v1/admin/games/{gameID}/verify", admin(handler.VerifyGame))
	mux.Handle("GET /v1/admin/games/unverified", admin(handler.ListUnverifiedGames))
	mux.Handle("POST /v1/admin/sync/roster", admin(handler.SyncRoster))
	mux.Handle("POST /v1/admin/sync/schedule", admin(handler.SyncSchedule))
	mux.Handle("POST /v1/admin/sweep", admin(handler.Sweep))
}

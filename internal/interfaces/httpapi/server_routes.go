package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, cfg RouterConfig) {
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /healthz", handler.Health)
	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}
}

func registerAPIRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/sports", handler.ListSports)
	mux.HandleFunc("GET /api/matches/{sport}", handler.ListMatches)
	mux.HandleFunc("GET /api/stream/embed/{id}", handler.GetStreamEmbed)
	mux.HandleFunc("GET /api/stream/{source}/{id}", handler.GetStream)
	mux.HandleFunc("GET /api/match/{slug}", handler.GetMatch)

	// Paths served by earlier deployments.
	mux.HandleFunc("GET /api/streamed/sports", handler.ListSports)
	mux.HandleFunc("GET /api/streamed/matches/{sport}", handler.ListMatches)
	mux.HandleFunc("GET /api/streamed/stream/{source}/{id}", handler.GetStream)

	mux.HandleFunc("GET /api/", handler.APINotFound)
}

func registerPageRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /{$}", handler.HomePage)
	mux.HandleFunc("GET /{sport}", handler.SportPage)
	mux.HandleFunc("GET /match/{slug}", handler.MatchPage)
	mux.HandleFunc("GET /", handler.NotFoundPage)
}

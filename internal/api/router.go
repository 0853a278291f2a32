package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/oovl/internal/config"
	"github.com/MikeSquared-Agency/oovl/internal/hermes"
	"github.com/MikeSquared-Agency/oovl/internal/metrics"
	"github.com/MikeSquared-Agency/oovl/internal/scoring"
	"github.com/MikeSquared-Agency/oovl/internal/session"
)

func NewRouter(m *session.Manager, sc *scoring.Scorer, h hermes.Client, mt *metrics.Metrics, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))

	sessions := NewSessionsHandler(m, sc, h, mt, logger)
	admin := NewAdminHandler(m, cfg)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(RateLimitMiddleware(cfg.Server.RateLimitPerMinute, ClientKey)).Post("/sessions", sessions.Create)

		r.Route("/sessions/{session_id}", func(r chi.Router) {
			r.Use(RateLimitMiddleware(cfg.Server.RateLimitPerMinute, SessionKey))
			r.Use(sessions.SessionCtx)

			r.Get("/", sessions.Get)
			r.Delete("/", sessions.End)

			r.Post("/options", sessions.AddOption)
			r.Delete("/options/{index}", sessions.RemoveOption)
			r.Post("/outcomes", sessions.AddOutcome)
			r.Delete("/outcomes/{index}", sessions.RemoveOutcome)

			r.Get("/ratings", sessions.Ratings)
			r.Put("/ratings", sessions.SetRating)

			r.Post("/constraints", sessions.AddConstraint)
			r.Delete("/constraints/{index}", sessions.RemoveConstraint)
			r.Put("/constraints/{index}/importance", sessions.SetImportance)

			r.Post("/compare", sessions.Compare)
			r.Get("/compare/explain", sessions.Explain)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/argos-av/scorecard/internal/evaluator"
	"github.com/argos-av/scorecard/internal/matcher"
	"github.com/argos-av/scorecard/internal/store"
)

func NewRouter(svc *evaluator.Service, s store.Store, m matcher.Client, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	evaluate := NewEvaluateHandler(svc, m)
	frames := NewFramesHandler(s, svc)
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/evaluate", evaluate.Evaluate)

		r.Post("/frames", frames.Create)
		r.Get("/frames", frames.List)
		r.Get("/frames/{id}", frames.Get)
		r.Delete("/frames/{id}", frames.Delete)
		r.Get("/frames/{id}/metrics", frames.Metrics)

		r.Get("/scenes/{scene}/metrics", frames.SceneMetrics)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

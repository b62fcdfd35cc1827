package api

import (
	// Go Internal Packages
	"net/http"
	"time"

	// External Packages
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the disbursement API. metricsHandler serves the
// Prometheus registry (kafka consumer metrics) and may be nil in tests.
func NewRouter(h *Handlers, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("healthy"))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/disbursement", func(r chi.Router) {
		r.Get("/dashboard", h.Dashboard)
		r.Get("/status", h.Status)
		r.Post("/enqueue", h.Enqueue)
		r.Post("/retry", h.Retry)
		r.Get("/alerts", h.ListAlerts)
		r.Post("/alerts", h.AcknowledgeAlerts)
	})

	return r
}

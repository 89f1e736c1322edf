// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// domain services, and translate domain errors; no business logic lives here.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sharebite/internal/platform/metrics"
	"sharebite/internal/platform/middleware"
	"sharebite/internal/transport/http/shared"
)

// HealthCheck probes one dependency for the /healthz endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps collects everything the router wires together.
type Deps struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Validator middleware.JWTValidator
	Donations DonationService
	Claims    ClaimEngine
	Sweeper   SweepRunner
	Health    []HealthCheck
}

// NewRouter assembles the full route tree. Reads on donations are public;
// everything that mutates state sits behind bearer auth.
func NewRouter(deps Deps) http.Handler {
	donations := &donationHandler{service: deps.Donations, logger: deps.Logger}
	claims := &claimHandler{engine: deps.Claims, sweeper: deps.Sweeper, logger: deps.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Metadata)
	r.Use(middleware.Latency(deps.Metrics))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(deps.Health))

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/donations", donations.handleList)
		r.Get("/donations/{donationID}", donations.handleGet)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.RequireAuth(deps.Validator, deps.Logger))

		r.Post("/donations", donations.handleCreate)
		r.Patch("/donations/{donationID}", donations.handleUpdate)
		r.Post("/donations/{donationID}/cancel", donations.handleCancel)

		r.Post("/claims", claims.handleCreate)
		r.Get("/claims", claims.handleList)
		r.Get("/claims/{claimID}", claims.handleGet)
		r.Post("/claims/{claimID}/confirm", claims.handleConfirm)
		r.Post("/claims/{claimID}/collect", claims.handleCollect)
		r.Post("/claims/{claimID}/cancel", claims.handleCancel)

		r.Post("/internal/sweep", claims.handleSweep)
	})

	return r
}

func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := make(map[string]string, len(checks))
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				deps[hc.Name] = "unhealthy"
				status = http.StatusServiceUnavailable
				continue
			}
			deps[hc.Name] = "ok"
		}

		body := map[string]any{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(deps) > 0 {
			body["dependencies"] = deps
		}
		shared.WriteJSON(w, status, body)
	}
}

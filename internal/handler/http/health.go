// Package http holds HTTP handlers shared across services that are not
// specific to any one domain package.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// HealthHandler implements the GET /health contract every service
// exposes (spec.md §6): 200 with the observed database round-trip
// latency, or 503 when the database cannot be reached.
func HealthHandler(db *pgxpool.Pool, serviceName string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		start := time.Now()
		err := db.Ping(ctx)
		latency := time.Since(start)
		now := time.Now().UTC()

		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			logger.Error().Err(err).Str("service", serviceName).Msg("health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":    "unhealthy",
				"database":  "disconnected",
				"error":     err.Error(),
				"timestamp": now,
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":     "healthy",
			"service":    serviceName,
			"database":   "connected",
			"latency_ms": latency.Milliseconds(),
			"timestamp":  now,
		})
	}
}

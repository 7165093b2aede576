// Package httpmw provides HTTP middleware shared by all five services,
// the net/http analogue of the teacher's grpc.UnaryServerInterceptor
// chain: logging, tracing, and panic recovery wrapped around every route.
package httpmw

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs every request's method, path, status, and duration,
// mirroring the teacher's LoggingInterceptor density (one line per call,
// Info on success, Error when the handler set a 5xx status).
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			logEvent := logger.Info()
			if rec.status >= http.StatusInternalServerError {
				logEvent = logger.Error()
			}

			logEvent.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration_ms", duration).
				Msg("http request completed")
		})
	}
}

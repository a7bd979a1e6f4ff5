package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/metrics"
)

// MetricsMiddleware counts and times every request by route pattern and
// writes the access log line once the handler has finished.
func MetricsMiddleware(metricsReg *metrics.MetricsRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := NormalizeEndpoint(r.URL.Path)
			inFlight := metricsReg.HTTPRequestsInFlight.WithLabelValues(path)
			inFlight.Inc()
			defer inFlight.Dec()

			ctx, trace := auth.WithTrace(r.Context())
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(ctx))

			elapsed := time.Since(start)
			route := path
			if rctx := chi.RouteContext(ctx); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			metricsReg.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.statusCode)).Inc()
			metricsReg.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

			log := logging.WithRequest(auth.GetRequestID(ctx), trace.SessionID, trace.UserID, route)
			fields := []any{
				"method", r.Method,
				"status_code", rec.statusCode,
				"duration_ms", elapsed.Milliseconds(),
				"htmx", IsHTMX(r),
			}
			if trace.Role != 0 {
				fields = append(fields, "role", trace.Role.String())
			}
			if rec.statusCode >= http.StatusInternalServerError {
				log.Warnw("HTTP request failed", fields...)
				return
			}
			log.Infow("HTTP request completed", fields...)
		})
	}
}

// RequestIDMiddleware adds a request ID to the context if not present
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := auth.SetRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
		r.ResponseWriter.WriteHeader(code)
	}
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}

// NormalizeEndpoint normalizes an endpoint path for metrics
// Removes IDs to avoid metric cardinality explosion
func NormalizeEndpoint(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if isIDLike(part) {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

// isIDLike checks if a string looks like an ID (numeric or UUID)
func isIDLike(s string) bool {
	if s == "" {
		return false
	}
	if _, err := uuid.Parse(s); err == nil && len(s) == 36 {
		return true
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

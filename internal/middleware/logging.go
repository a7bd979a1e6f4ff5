package middleware

import (
	"net/http"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/logging"
)

var redactedHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
}

// Logging writes a debug line for each incoming request with its headers.
// Credentials are redacted.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := make(map[string]string, len(r.Header))
		for name, vals := range r.Header {
			if redactedHeaders[name] {
				headers[name] = "[redacted]"
				continue
			}
			if len(vals) > 0 {
				headers[name] = vals[0]
			}
		}

		logging.Debug("HTTP request received",
			"request_id", auth.GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"htmx", IsHTMX(r),
			"headers", headers,
		)
		next.ServeHTTP(w, r)
	})
}

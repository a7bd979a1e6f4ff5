package middleware

import (
	"fmt"
	"html"
	"net/http"
)

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// WriteAlert answers with an alert fragment. For htmx requests the fragment
// is retargeted into the page's #alerts container.
func WriteAlert(w http.ResponseWriter, r *http.Request, status int, level, message string) {
	if IsHTMX(r) {
		w.Header().Set("HX-Retarget", "#alerts")
		w.Header().Set("HX-Reswap", "innerHTML")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="alert alert-%s" role="alert">%s</div>`, level, html.EscapeString(message))
		return
	}
	http.Error(w, message, status)
}

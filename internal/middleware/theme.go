package middleware

import (
	"net/http"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/constants"
)

var validThemes = map[string]bool{
	"light":         true,
	"dark":          true,
	"high-contrast": true,
}

// ValidTheme reports whether theme is one the stylesheet defines.
func ValidTheme(theme string) bool {
	return validThemes[theme]
}

// ThemeMiddleware injects the user's theme preference into the request context
func ThemeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme := "light"
		if cookie, err := r.Cookie(constants.CookieTheme); err == nil && validThemes[cookie.Value] {
			theme = cookie.Value
		}

		ctx := auth.SetTheme(r.Context(), theme)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

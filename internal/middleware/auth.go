package middleware

import (
	"net/http"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/logging"
)

const loginPath = "/auth/login"

// SessionAuthMiddleware resolves the session cookie and stores the session
// in the request context. Requests without a valid session are sent to the
// login page.
func SessionAuthMiddleware(sessions *common.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(constants.CookieSession)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r)
				return
			}

			session, err := sessions.GetSession(r.Context(), cookie.Value)
			if err != nil {
				logging.Debug("Session lookup failed", "request_id", auth.GetRequestID(r.Context()), "error", err)
				http.SetCookie(w, &http.Cookie{Name: constants.CookieSession, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
				redirectToLogin(w, r)
				return
			}

			ctx := auth.SetSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects signed-in users whose role is not listed.
func RequireRole(roles ...constants.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				redirectToLogin(w, r)
				return
			}
			for _, role := range roles {
				if claims.Role() == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			WriteAlert(w, r, http.StatusForbidden, "danger", constants.MsgForbidden)
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		w.Header().Set("HX-Redirect", loginPath)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

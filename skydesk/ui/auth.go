package ui

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/middleware"
	"amonic/skydesk/internal/services"
)

const (
	loginPage = "login.html"
	// loginClientMaxAge keeps the lockout key stable across browser restarts.
	loginClientMaxAge = 365 * 24 * 60 * 60

	noticeSignedOut = "signed-out"
)

// AuthHandler manages authentication routes
type AuthHandler struct {
	authSvc    *services.AuthService
	sessionSvc *common.SessionService
	secure     bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *services.AuthService, sessionSvc *common.SessionService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, sessionSvc: sessionSvc, secure: secureCookies}
}

// clientKey identifies the browser for the login lockout, issuing a new id
// when the browser has none.
func (h *AuthHandler) clientKey(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(constants.CookieLoginClient); err == nil && c.Value != "" {
		return c.Value
	}
	key := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     constants.CookieLoginClient,
		Value:    key,
		Path:     "/auth",
		MaxAge:   loginClientMaxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}

func lockSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

func (h *AuthHandler) loginData(r *http.Request, key, email, message string) map[string]any {
	data := pageData(r, "Login")
	data["Email"] = email
	data["Error"] = message
	data["LockSeconds"] = lockSeconds(h.authSvc.LockedFor(key))
	return data
}

// LoginPageHandler renders the login form. Signed-in users go to their panel.
func (h *AuthHandler) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(constants.CookieSession); err == nil && c.Value != "" {
		if s, err := h.sessionSvc.GetSession(r.Context(), c.Value); err == nil && s.AccessToken() != "" {
			http.Redirect(w, r, s.Role().HomePath(), http.StatusSeeOther)
			return
		}
	}

	key := h.clientKey(w, r)
	data := h.loginData(r, key, "", "")
	if r.URL.Query().Get("notice") == noticeSignedOut {
		data["Error"] = constants.MsgTestErrorRaised
	}
	RenderTemplate(w, loginPage, data)
}

// LoginHandler handles POST /auth/login
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.WriteAlert(w, r, http.StatusBadRequest, "danger", "Invalid form")
		return
	}
	key := h.clientKey(w, r)
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	res, err := h.authSvc.Login(r.Context(), key, email, password)
	if err != nil {
		status := http.StatusUnauthorized
		var lock *services.LockoutError
		if errors.As(err, &lock) {
			status = http.StatusTooManyRequests
		}
		data := h.loginData(r, key, email, services.LoginMessage(err))
		if middleware.IsHTMX(r) {
			RenderPartial(w, loginPage, "login-form", data, status)
			return
		}
		RenderTemplate(w, loginPage, data, status)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     constants.CookieSession,
		Value:    res.Session.ID(),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  res.Session.ExpiresAt(),
	})

	if middleware.IsHTMX(r) {
		w.Header().Set("HX-Redirect", res.Redirect)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
}

// CountdownHandler is polled while the login form is locked. Once the
// lockout has passed it returns the enabled form without a poll trigger.
func (h *AuthHandler) CountdownHandler(w http.ResponseWriter, r *http.Request) {
	key := h.clientKey(w, r)
	data := h.loginData(r, key, r.URL.Query().Get("email"), "")
	if secs, _ := data["LockSeconds"].(int); secs > 0 {
		data["Error"] = services.LoginMessage(&services.LockoutError{Remaining: h.authSvc.LockedFor(key)})
	}
	RenderPartial(w, loginPage, "login-form", data)
}

func (h *AuthHandler) dropSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.CookieSession,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
	})
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if middleware.IsHTMX(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// LogoutHandler ends the backend session. When the backend refuses, the
// portal session is kept and an alert is shown.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r.Context())
	if session == nil {
		redirect(w, r, "/auth/login")
		return
	}
	if err := h.authSvc.Logout(r.Context(), session); err != nil {
		middleware.WriteAlert(w, r, http.StatusBadGateway, "danger", constants.MsgLogoutFailed)
		return
	}
	h.dropSessionCookie(w)
	redirect(w, r, "/auth/login")
}

// TestErrorHandler raises the backend's test error. The expected failure
// signs the user out.
func (h *AuthHandler) TestErrorHandler(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r.Context())
	if session == nil {
		redirect(w, r, "/auth/login")
		return
	}
	err := h.authSvc.TestError(r.Context(), session)
	switch {
	case err == nil:
		middleware.WriteAlert(w, r, http.StatusOK, "info", "The backend did not raise an error.")
	case errors.Is(err, services.ErrSignedOut):
		logging.Info("Signed out after test error", "session_id", session.ID())
		h.dropSessionCookie(w)
		redirect(w, r, "/auth/login?notice="+noticeSignedOut)
	default:
		middleware.WriteAlert(w, r, http.StatusBadGateway, "danger", services.Message(err))
	}
}

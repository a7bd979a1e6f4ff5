package ui

import (
	"errors"
	"net/http"

	"amonic/skydesk/internal/api"
	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/config"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/listview"
	"amonic/skydesk/internal/middleware"
	"amonic/skydesk/internal/providers"
	"amonic/skydesk/internal/services"
)

// UIHandler manages the screens behind the login
type UIHandler struct {
	schedules    *services.ScheduleService
	users        *services.UserAdminService
	booking      *services.BookingService
	amenities    *services.AmenitiesService
	surveys      *services.SurveyService
	userSessions *services.UserSessionService
	nearbyDays   int
	secure       bool
}

// NewUIHandler creates a new UI handler
func NewUIHandler(svcs *api.Services, cfg *config.Config) *UIHandler {
	return &UIHandler{
		schedules:    svcs.Schedules,
		users:        svcs.Users,
		booking:      svcs.Booking,
		amenities:    svcs.Amenities,
		surveys:      svcs.Surveys,
		userSessions: svcs.UserSessions,
		nearbyDays:   cfg.NearbyDays,
		secure:       cfg.CookieSecure,
	}
}

// statusFor maps a service error to the status of its alert.
func statusFor(err error) int {
	var in *services.InputError
	var verr *listview.ValidationError
	switch {
	case errors.As(err, &in), errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, listview.ErrNotFound), errors.Is(err, listview.ErrUnknownTransition):
		return http.StatusNotFound
	case errors.Is(err, listview.ErrTransitionNotAllowed),
		errors.Is(err, listview.ErrNoPendingEdit),
		errors.Is(err, services.ErrNoBooking):
		return http.StatusConflict
	case providers.IsNotFound(err):
		return http.StatusNotFound
	case providers.IsAuthFailure(err):
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}

// fail shows err as an alert.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	middleware.WriteAlert(w, r, statusFor(err), "danger", services.Message(err))
}

// HomeHandler sends signed-in users to their panel.
func (h *UIHandler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	if s := auth.GetSession(r.Context()); s != nil {
		http.Redirect(w, r, s.Role().HomePath(), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// SetThemeHandler handles theme changes via POST request
func (h *UIHandler) SetThemeHandler(w http.ResponseWriter, r *http.Request) {
	theme := r.FormValue("theme")
	if !middleware.ValidTheme(theme) {
		theme = "light"
	}

	// Set theme cookie (HTTP-only, expires in 1 year)
	http.SetCookie(w, &http.Cookie{
		Name:     constants.CookieTheme,
		Value:    theme,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	if middleware.IsHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	back := r.Referer()
	if back == "" {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// closeModal answers a modal close; the modal container is emptied.
func closeModal(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
}

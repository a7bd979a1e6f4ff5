package routes

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"amonic/skydesk/internal/api"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/middleware"
	"amonic/skydesk/skydesk/ui"

	"github.com/go-chi/chi/v5"
)

// RegisterUIRoutes registers the pages, the HTMX fragments and the admin
// JSON endpoints under /ui/api.
func RegisterUIRoutes(r chi.Router, deps *api.Dependencies, upSince time.Time) {
	cfg := deps.Config
	svcs := deps.Services

	authHandler := ui.NewAuthHandler(svcs.Auth, svcs.Sessions, cfg.CookieSecure)
	h := ui.NewUIHandler(svcs, cfg)
	journal := newJournalHandler(deps)

	authMiddleware := middleware.SessionAuthMiddleware(svcs.Sessions)
	adminOnly := middleware.RequireRole(constants.RoleAdmin)
	userOnly := middleware.RequireRole(constants.RoleUser)
	loginLimiter := middleware.NewLoginRateLimiter(cfg.LoginRatePerSec, cfg.LoginRateBurst)

	// Static file serving (CSS, JS, images) with correct MIME types
	r.Handle("/static/*", http.StripPrefix("/static/", mimeTypeMiddleware(ui.Static())))

	r.Get("/", h.HomeHandler)
	r.Post("/theme", h.SetThemeHandler)

	// Auth routes (public)
	r.Get("/auth/login", authHandler.LoginPageHandler)
	r.Get("/auth/login/countdown", authHandler.CountdownHandler)
	r.With(loginLimiter.Middleware).Post("/auth/login", authHandler.LoginHandler)

	r.Group(func(signedIn chi.Router) {
		signedIn.Use(authMiddleware)

		signedIn.Post("/auth/logout", authHandler.LogoutHandler)
		signedIn.Post("/auth/test-error", authHandler.TestErrorHandler)

		// Flight schedules (both roles)
		signedIn.Route("/schedules", func(s chi.Router) {
			s.Get("/", h.SchedulesHandler)
			s.Get("/table", h.ScheduleTableHandler)
			s.Post("/editor/close", h.CloseScheduleEditorHandler)
			s.Get("/{id}/edit", h.EditScheduleHandler)
			s.Post("/{id}", h.SaveScheduleHandler)
			s.Post("/{id}/{action}", h.ScheduleActionHandler)
		})

		signedIn.Group(func(admin chi.Router) {
			admin.Use(adminOnly)

			admin.Get("/admin", h.AdminPanelHandler)
			admin.Route("/admin/users", func(u chi.Router) {
				u.Get("/", h.UsersTableHandler)
				u.Post("/", h.AddUserHandler)
				u.Get("/new", h.NewUserHandler)
				u.Post("/editor/close", h.CloseUserEditorHandler)
				u.Get("/{id}/edit", h.EditUserHandler)
				u.Post("/{id}", h.SaveUserHandler)
			})

			admin.Get("/reports/summary", h.SurveySummaryHandler)
			admin.Get("/reports/full", h.SurveyFullHandler)

			admin.Route("/ui/api/journal", func(j chi.Router) {
				j.Get("/partial-bookings", journal.PartialBookings)
				j.Get("/outcomes/{resource}", journal.Outcomes)
				j.Get("/bookings/{ref}", journal.Booking)
			})
		})

		signedIn.Group(func(user chi.Router) {
			user.Use(userOnly)

			user.Get("/user", h.UserPanelHandler)
			user.Get("/user/clock", h.ClockHandler)

			user.Get("/booking", h.BookingHandler)
			user.Post("/booking", h.BookFlightsHandler)
			user.Get("/booking/search", h.SearchFlightsHandler)

			user.Route("/amenities", func(a chi.Router) {
				a.Get("/", h.AmenitiesHandler)
				a.Post("/lookup", h.LookupAmenitiesHandler)
				a.Post("/close", h.CloseAmenitiesHandler)
				a.Get("/summary", h.AmenitySummaryHandler)
				a.Post("/lines/{id}/{action}", h.ToggleAmenityHandler)
			})
		})
	})

	// UI API routes
	r.Get("/ui/api/health", api.HealthCheckHandler(deps.Checks, upSince))
}

// newJournalHandler keeps a disabled journal as untyped nils so the
// handler reports it as disabled.
func newJournalHandler(deps *api.Dependencies) *api.JournalHandler {
	var (
		reader   api.JournalReader
		bookings api.BookingJournal
	)
	if deps.Repo.JournalQuery != nil {
		reader = deps.Repo.JournalQuery
	}
	if deps.Repo.Journal != nil {
		bookings = deps.Repo.Journal
	}
	return api.NewJournalHandler(reader, bookings)
}

// mimeTypeMiddleware wraps a file server and sets correct MIME types for various file types
func mimeTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext := filepath.Ext(r.URL.Path)

		// Set correct MIME type for .mjs files (ES modules)
		if strings.EqualFold(ext, ".mjs") {
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		}

		next.ServeHTTP(w, r)
	})
}

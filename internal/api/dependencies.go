package api

import (
	"fmt"
	"time"

	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/config"
	"amonic/skydesk/internal/db/repositories"
	"amonic/skydesk/internal/metrics"
	"amonic/skydesk/internal/providers"
	"amonic/skydesk/internal/services"
)

type Repositories struct {
	// Both nil when the journal is disabled.
	Journal      *repositories.JournalRepo
	JournalQuery *repositories.JournalQueryRepo
}

type Services struct {
	Sessions     *common.SessionService
	Cache        common.CacheInterface
	Views        *services.ViewRegistry
	Backend      *providers.ReservationAPIProvider
	Auth         *services.AuthService
	Schedules    *services.ScheduleService
	Users        *services.UserAdminService
	Booking      *services.BookingService
	Amenities    *services.AmenitiesService
	Surveys      *services.SurveyService
	UserSessions *services.UserSessionService
}

type Dependencies struct {
	Config   *config.Config
	Metrics  *metrics.MetricsRegistry
	Repo     *Repositories
	Services *Services
	// Health checks by name.
	Checks map[string]Pinger
}

// InitDependencies wires the backend client, the per-screen services and
// the journal. store holds sessions; repos may be empty.
func InitDependencies(cfg *config.Config, m *metrics.MetricsRegistry, store common.SessionStore, repos *Repositories) (*Dependencies, error) {
	fieldSets, err := config.LoadFieldSets(cfg.FieldSetsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load field sets: %w", err)
	}
	if repos == nil {
		repos = &Repositories{}
	}

	var journal services.Journal = services.NopJournal{}
	if repos.Journal != nil {
		journal = repos.Journal
	}

	cacheSvc := common.NewCacheService(cfg.SessionTTL, 10*time.Minute)
	sessionSvc := common.NewSessionService(store, cfg.SessionTTL)
	views := services.NewViewRegistry(cacheSvc, cfg.SessionTTL)
	backend := providers.NewReservationAPIProvider(cfg.BackendBaseURL, cfg.BackendTimeout, m)
	backend.DumpRequests = cfg.BackendDumpRequests
	guard := services.NewLoginGuard(cacheSvc, cfg.LoginMaxAttempts, cfg.LoginLockout, m)

	svcs := &Services{
		Sessions:     sessionSvc,
		Cache:        cacheSvc,
		Views:        views,
		Backend:      backend,
		Auth:         services.NewAuthService(backend, sessionSvc, guard, views, m),
		Schedules:    services.NewScheduleService(backend, views, fieldSets.For(services.ResourceSchedules), journal, m),
		Users:        services.NewUserAdminService(backend, views, fieldSets.For(services.ResourceUsers), fieldSets.For(services.ResourceNewUser), journal, m),
		Booking:      services.NewBookingService(backend, journal, m),
		Amenities:    services.NewAmenitiesService(backend, views, journal, m),
		Surveys:      services.NewSurveyService(backend, m),
		UserSessions: services.NewUserSessionService(backend),
	}

	checks := map[string]Pinger{}
	if repos.JournalQuery != nil {
		checks["journal"] = repos.JournalQuery
	}

	return &Dependencies{
		Config:   cfg,
		Metrics:  m,
		Repo:     repos,
		Services: svcs,
		Checks:   checks,
	}, nil
}

package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/metrics"
	"amonic/skydesk/internal/models/dtos"
	gormModels "amonic/skydesk/internal/models/gorm"
	"amonic/skydesk/internal/providers"
)

// fakeBackend implements every backend interface the services consume.
// Unset funcs return zero values.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	obtainTokenFunc   func(email, password string) (*dtos.TokenResponse, error)
	currentUserFunc   func(token string) (*dtos.User, error)
	logoutFunc        func(token string) error
	testErrorFunc     func(token string) error
	listUsersFunc     func() ([]dtos.User, error)
	addUserFunc       func(req dtos.NewUserRequest) error
	updateUserFunc    func(id string, patch map[string]any) error
	listSchedulesFunc func() ([]dtos.Schedule, error)
	updateSchedFunc   func(id string, patch map[string]any) error
	listAirportsFunc  func() ([]dtos.Airport, error)
	listAircraftsFunc func() ([]dtos.Aircraft, error)
	searchFunc        func(q dtos.ScheduleSearch) ([]dtos.Schedule, error)
	getScheduleFunc   func(id int) (*dtos.Schedule, error)
	createTicketFunc  func(req dtos.CreateTicketRequest) (*dtos.CreatedTicket, error)
	searchTicketsFunc func(ref string) ([]dtos.Ticket, error)
	listAmenitiesFunc func() ([]dtos.Amenity, error)
	createLinkFunc    func(amenityID, ticketID int) (*dtos.AmenityTicket, error)
	deleteLinkFunc    func(linkID int) error
	listSurveysFunc   func() ([]dtos.Survey, error)
	listSessionsFunc  func() ([]dtos.UserSession, error)
}

func (f *fakeBackend) called(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeBackend) ObtainToken(_ context.Context, email, password string) (*dtos.TokenResponse, error) {
	f.called("ObtainToken")
	if f.obtainTokenFunc == nil {
		return &dtos.TokenResponse{Access: "access", Refresh: "refresh"}, nil
	}
	return f.obtainTokenFunc(email, password)
}

func (f *fakeBackend) CurrentUser(_ context.Context, token string) (*dtos.User, error) {
	f.called("CurrentUser")
	if f.currentUserFunc == nil {
		return &dtos.User{ID: 1, Email: "admin@amonic.com", RoleID: 1, Active: 1}, nil
	}
	return f.currentUserFunc(token)
}

func (f *fakeBackend) Logout(_ context.Context, token string) error {
	f.called("Logout")
	if f.logoutFunc == nil {
		return nil
	}
	return f.logoutFunc(token)
}

func (f *fakeBackend) TestError(_ context.Context, token string) error {
	f.called("TestError")
	if f.testErrorFunc == nil {
		return nil
	}
	return f.testErrorFunc(token)
}

func (f *fakeBackend) ListUsers(context.Context, string) ([]dtos.User, error) {
	f.called("ListUsers")
	if f.listUsersFunc == nil {
		return nil, nil
	}
	return f.listUsersFunc()
}

func (f *fakeBackend) AddUser(_ context.Context, _ string, req dtos.NewUserRequest) error {
	f.called("AddUser")
	if f.addUserFunc == nil {
		return nil
	}
	return f.addUserFunc(req)
}

func (f *fakeBackend) UpdateUser(_ context.Context, _ string, id string, patch map[string]any) error {
	f.called("UpdateUser")
	if f.updateUserFunc == nil {
		return nil
	}
	return f.updateUserFunc(id, patch)
}

func (f *fakeBackend) ListSchedules(context.Context, string) ([]dtos.Schedule, error) {
	f.called("ListSchedules")
	if f.listSchedulesFunc == nil {
		return nil, nil
	}
	return f.listSchedulesFunc()
}

func (f *fakeBackend) UpdateSchedule(_ context.Context, _ string, id string, patch map[string]any) error {
	f.called("UpdateSchedule")
	if f.updateSchedFunc == nil {
		return nil
	}
	return f.updateSchedFunc(id, patch)
}

func (f *fakeBackend) ListAirports(context.Context, string) ([]dtos.Airport, error) {
	f.called("ListAirports")
	if f.listAirportsFunc == nil {
		return nil, nil
	}
	return f.listAirportsFunc()
}

func (f *fakeBackend) ListAircrafts(context.Context, string) ([]dtos.Aircraft, error) {
	f.called("ListAircrafts")
	if f.listAircraftsFunc == nil {
		return nil, nil
	}
	return f.listAircraftsFunc()
}

func (f *fakeBackend) SearchSchedules(_ context.Context, _ string, q dtos.ScheduleSearch) ([]dtos.Schedule, error) {
	f.called("SearchSchedules")
	if f.searchFunc == nil {
		return nil, nil
	}
	return f.searchFunc(q)
}

func (f *fakeBackend) GetSchedule(_ context.Context, _ string, id int) (*dtos.Schedule, error) {
	f.called("GetSchedule")
	if f.getScheduleFunc == nil {
		return nil, notFound()
	}
	return f.getScheduleFunc(id)
}

func (f *fakeBackend) CreateTicket(_ context.Context, _ string, req dtos.CreateTicketRequest) (*dtos.CreatedTicket, error) {
	f.called("CreateTicket")
	if f.createTicketFunc == nil {
		return &dtos.CreatedTicket{ID: 1, ScheduleID: req.ScheduleID, BookingReference: req.BookingReference}, nil
	}
	return f.createTicketFunc(req)
}

func (f *fakeBackend) SearchTickets(_ context.Context, _ string, ref string) ([]dtos.Ticket, error) {
	f.called("SearchTickets")
	if f.searchTicketsFunc == nil {
		return nil, nil
	}
	return f.searchTicketsFunc(ref)
}

func (f *fakeBackend) ListAmenities(context.Context, string) ([]dtos.Amenity, error) {
	f.called("ListAmenities")
	if f.listAmenitiesFunc == nil {
		return nil, nil
	}
	return f.listAmenitiesFunc()
}

func (f *fakeBackend) CreateAmenityTicket(_ context.Context, _ string, amenityID, ticketID int) (*dtos.AmenityTicket, error) {
	f.called("CreateAmenityTicket")
	if f.createLinkFunc == nil {
		return &dtos.AmenityTicket{ID: 99, Amenity: amenityID, Ticket: ticketID}, nil
	}
	return f.createLinkFunc(amenityID, ticketID)
}

func (f *fakeBackend) DeleteAmenityTicket(_ context.Context, _ string, linkID int) error {
	f.called("DeleteAmenityTicket")
	if f.deleteLinkFunc == nil {
		return nil
	}
	return f.deleteLinkFunc(linkID)
}

func (f *fakeBackend) ListSurveys(context.Context, string) ([]dtos.Survey, error) {
	f.called("ListSurveys")
	if f.listSurveysFunc == nil {
		return nil, nil
	}
	return f.listSurveysFunc()
}

func (f *fakeBackend) ListUserSessions(context.Context, string) ([]dtos.UserSession, error) {
	f.called("ListUserSessions")
	if f.listSessionsFunc == nil {
		return nil, nil
	}
	return f.listSessionsFunc()
}

// memoryJournal keeps entries in memory.
type memoryJournal struct {
	mu      sync.Mutex
	entries []gormModels.JournalEntry
}

func (j *memoryJournal) Record(_ context.Context, entry *gormModels.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, *entry)
	return nil
}

func (j *memoryJournal) withAction(action string) []gormModels.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []gormModels.JournalEntry
	for _, e := range j.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

func notFound() error {
	return &providers.APIError{Code: constants.ErrCodeNotFound, Status: http.StatusNotFound, Message: "Not found."}
}

func serverError() error {
	return &providers.APIError{Code: constants.ErrCodeServerError, Status: http.StatusInternalServerError, Message: "boom"}
}

func testMetrics() *metrics.MetricsRegistry {
	return metrics.NewMetricsRegistry(prometheus.NewRegistry())
}

func testRegistry() *ViewRegistry {
	return NewViewRegistry(common.NewCacheService(time.Hour, time.Minute), time.Hour)
}

// sessionContext returns a context carrying a fresh admin session.
func sessionContext(t *testing.T) (context.Context, *common.Session, *common.SessionService) {
	t.Helper()
	svc := common.NewSessionService(common.NewMemorySessionStore(time.Minute), time.Hour)
	sess, err := svc.CreateSession(context.Background(), 7, int(constants.RoleAdmin), "admin@amonic.com",
		map[string]string{constants.TokenKeyAccess: "token-7"}, 0)
	require.NoError(t, err)
	ctx := auth.SetRequestID(context.Background(), "req-1")
	return auth.SetSession(ctx, sess), sess, svc
}

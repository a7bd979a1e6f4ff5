package services

import (
	"cmp"
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/listview"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/metrics"
	"amonic/skydesk/internal/models/dtos"
	"amonic/skydesk/internal/providers"
)

const ResourceSchedules = "schedules"

// Row states and actions of the schedule table.
const (
	ScheduleConfirmed = "confirmed"
	ScheduleCancelled = "cancelled"

	ActionCancel     = "cancel"
	ActionReactivate = "reactivate"
)

type ScheduleAPI interface {
	ListSchedules(ctx context.Context, token string) ([]dtos.Schedule, error)
	UpdateSchedule(ctx context.Context, token, id string, patch map[string]any) error
	ListAirports(ctx context.Context, token string) ([]dtos.Airport, error)
	ListAircrafts(ctx context.Context, token string) ([]dtos.Aircraft, error)
}

type ScheduleSort string

const (
	SortNone   ScheduleSort = ""
	SortDate   ScheduleSort = "date"
	SortPrice  ScheduleSort = "price"
	SortStatus ScheduleSort = "status"
)

func ParseScheduleSort(s string) ScheduleSort {
	switch ScheduleSort(s) {
	case SortDate, SortPrice, SortStatus:
		return ScheduleSort(s)
	}
	return SortNone
}

// ScheduleCriteria filters the schedule table. Zero values match everything.
type ScheduleCriteria struct {
	DepartureAirport int
	ArrivalAirport   int
	Date             string
	FlightNumber     string
	SortBy           ScheduleSort
}

func MatchSchedule(s dtos.Schedule, c ScheduleCriteria) bool {
	if c.DepartureAirport != 0 && s.FromAirport.ID != c.DepartureAirport {
		return false
	}
	if c.ArrivalAirport != 0 && s.ToAirport.ID != c.ArrivalAirport {
		return false
	}
	if c.Date != "" && s.Date != c.Date {
		return false
	}
	if c.FlightNumber != "" && !strings.Contains(s.FlightNumber, c.FlightNumber) {
		return false
	}
	return true
}

// CompareSchedules orders by date, by economy price, or confirmed first.
func CompareSchedules(a, b dtos.Schedule, c ScheduleCriteria) int {
	switch c.SortBy {
	case SortDate:
		return strings.Compare(a.Date, b.Date)
	case SortPrice:
		return cmp.Compare(a.EconomyPrice, b.EconomyPrice)
	case SortStatus:
		return cmp.Compare(statusRank(a), statusRank(b))
	}
	return 0
}

func statusRank(s dtos.Schedule) int {
	if s.Confirmed {
		return 0
	}
	return 1
}

func scheduleState(s dtos.Schedule) string {
	if s.Confirmed {
		return ScheduleConfirmed
	}
	return ScheduleCancelled
}

type scheduleSource struct {
	api ScheduleAPI
}

func (s scheduleSource) List(ctx context.Context) ([]dtos.Schedule, error) {
	return s.api.ListSchedules(ctx, auth.AccessToken(ctx))
}

func (s scheduleSource) Patch(ctx context.Context, id string, patch listview.Patch) error {
	return s.api.UpdateSchedule(ctx, auth.AccessToken(ctx), id, patch)
}

// ScheduleScreen is everything the schedule page renders.
type ScheduleScreen struct {
	Flights   []dtos.Schedule
	Airports  []dtos.Airport
	Aircrafts []dtos.Aircraft
	Criteria  ScheduleCriteria
	// One message per failed load; the other parts still render.
	Failures []string
}

// AircraftName resolves a flight's aircraft from the aircraft list when the
// flight only carries its id.
func (sc *ScheduleScreen) AircraftName(s dtos.Schedule) string {
	if s.Aircraft.Name != "" {
		return s.Aircraft.Name
	}
	for _, a := range sc.Aircrafts {
		if a.ID == s.Aircraft.ID {
			return a.Name
		}
	}
	return ""
}

type ScheduleService struct {
	api     ScheduleAPI
	views   *ViewRegistry
	fields  []listview.FieldSpec
	journal Journal
	metrics *metrics.MetricsRegistry
}

func NewScheduleService(api ScheduleAPI, views *ViewRegistry, fields []listview.FieldSpec, journal Journal, m *metrics.MetricsRegistry) *ScheduleService {
	return &ScheduleService{api: api, views: views, fields: fields, journal: journal, metrics: m}
}

// EditorFields are the fields of the edit modal.
func (s *ScheduleService) EditorFields() []listview.FieldSpec { return s.fields }

// View returns the session's schedule view.
func (s *ScheduleService) View(ctx context.Context) *listview.View[dtos.Schedule, ScheduleCriteria] {
	return ViewFor(s.views, auth.SessionID(ctx), ResourceSchedules, s.newView)
}

func (s *ScheduleService) newView() *listview.View[dtos.Schedule, ScheduleCriteria] {
	src := journaledSource[dtos.Schedule]{
		Source:   scheduleSource{api: s.api},
		resource: ResourceSchedules,
		journal:  s.journal,
		metrics:  s.metrics,
	}
	return listview.New(listview.Config[dtos.Schedule, ScheduleCriteria]{
		Resource: ResourceSchedules,
		Key:      dtos.Schedule.Key,
		Match:    MatchSchedule,
		Compare:  CompareSchedules,
		Fields:   s.fields,
		State:    scheduleState,
		Transitions: []listview.Transition[dtos.Schedule]{
			{Name: ActionCancel, Label: "Cancel Flight", From: ScheduleConfirmed, To: ScheduleCancelled, Patch: listview.Patch{"confirmed": false}},
			{Name: ActionReactivate, Label: "Reactivate", From: ScheduleCancelled, To: ScheduleConfirmed, Patch: listview.Patch{"confirmed": true}},
		},
	}, listview.Source[dtos.Schedule](src))
}

// Load fetches schedules, airports and aircrafts concurrently. Every fetch
// runs to completion; a failed one is reported without affecting the others.
func (s *ScheduleService) Load(ctx context.Context) *ScheduleScreen {
	view := s.View(ctx)
	token := auth.AccessToken(ctx)
	screen := &ScheduleScreen{}

	var scheduleErr, airportErr, aircraftErr error
	var g errgroup.Group
	g.Go(func() error {
		scheduleErr = view.Load(ctx)
		return nil
	})
	g.Go(func() error {
		screen.Airports, airportErr = s.api.ListAirports(ctx, token)
		return nil
	})
	g.Go(func() error {
		screen.Aircrafts, aircraftErr = s.api.ListAircrafts(ctx, token)
		return nil
	})
	_ = g.Wait()

	for _, failure := range []struct {
		what string
		err  error
	}{
		{"schedules", scheduleErr},
		{"airports", airportErr},
		{"aircrafts", aircraftErr},
	} {
		if failure.err != nil {
			logging.Error("Failed to load "+failure.what, "error", failure.err)
			screen.Failures = append(screen.Failures, providers.UserMessage(failure.err))
		}
	}

	screen.Flights = view.Filtered()
	screen.Criteria = view.Criteria()
	return screen
}

// loaded returns the session's view, fetching it first when the session has
// not loaded schedules yet.
func (s *ScheduleService) loaded(ctx context.Context) (*listview.View[dtos.Schedule, ScheduleCriteria], error) {
	view := s.View(ctx)
	if !view.Loaded() {
		if err := view.Load(ctx); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Filter stores new criteria and returns the resulting rows.
func (s *ScheduleService) Filter(ctx context.Context, c ScheduleCriteria) ([]dtos.Schedule, error) {
	view, err := s.loaded(ctx)
	if err != nil {
		return nil, err
	}
	view.SetCriteria(c)
	return view.Filtered(), nil
}

// Transition runs a row action (cancel or reactivate) and returns the
// updated row.
func (s *ScheduleService) Transition(ctx context.Context, id, action string) (dtos.Schedule, error) {
	view, err := s.loaded(ctx)
	if err != nil {
		return dtos.Schedule{}, err
	}
	if err := view.Transition(ctx, id, action); err != nil {
		return dtos.Schedule{}, err
	}
	rec, _ := view.Get(id)
	return rec, nil
}

func (s *ScheduleService) OpenEditor(ctx context.Context, id string) (listview.Pending[dtos.Schedule], error) {
	view, err := s.loaded(ctx)
	if err != nil {
		return listview.Pending[dtos.Schedule]{}, err
	}
	return view.OpenEditor(id)
}

func (s *ScheduleService) CloseEditor(ctx context.Context) {
	s.View(ctx).CloseEditor()
}

// SaveEditor applies the posted form to the pending edit of id and commits
// it. After a successful save the schedules are fetched again.
func (s *ScheduleService) SaveEditor(ctx context.Context, id string, draft map[string]string) error {
	view, err := s.loaded(ctx)
	if err != nil {
		return err
	}
	if err := commitDraft(ctx, view, id, draft); err != nil {
		return err
	}
	if err := view.Load(ctx); err != nil {
		logging.Warn("Reload after schedule edit failed", "error", err)
	}
	return nil
}

// ParseDate accepts the date input's YYYY-MM-DD value or nothing.
func ParseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", false
	}
	return s, true
}

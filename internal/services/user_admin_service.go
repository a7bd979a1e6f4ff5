package services

import (
	"context"
	"strings"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/listview"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/metrics"
	"amonic/skydesk/internal/models/dtos"
	gormModels "amonic/skydesk/internal/models/gorm"
)

const (
	ResourceUsers   = "users"
	ResourceNewUser = "new_user"
)

type UserAPI interface {
	ListUsers(ctx context.Context, token string) ([]dtos.User, error)
	AddUser(ctx context.Context, token string, req dtos.NewUserRequest) error
	UpdateUser(ctx context.Context, token, id string, patch map[string]any) error
}

// UserCriteria filters the user table by office. An empty office is
// "All offices".
type UserCriteria struct {
	Office string
}

func MatchUser(u dtos.User, c UserCriteria) bool {
	return c.Office == "" || u.OfficeName == c.Office
}

type userSource struct {
	api UserAPI
}

func (s userSource) List(ctx context.Context) ([]dtos.User, error) {
	return s.api.ListUsers(ctx, auth.AccessToken(ctx))
}

func (s userSource) Patch(ctx context.Context, id string, patch listview.Patch) error {
	return s.api.UpdateUser(ctx, auth.AccessToken(ctx), id, patch)
}

// UserAdminScreen is the admin panel's user table.
type UserAdminScreen struct {
	Users    []dtos.User
	Offices  []string
	Criteria UserCriteria
	Failure  string
}

type UserAdminService struct {
	api       UserAPI
	views     *ViewRegistry
	fields    []listview.FieldSpec
	newFields []listview.FieldSpec
	journal   Journal
	metrics   *metrics.MetricsRegistry
}

func NewUserAdminService(api UserAPI, views *ViewRegistry, fields, newFields []listview.FieldSpec, journal Journal, m *metrics.MetricsRegistry) *UserAdminService {
	return &UserAdminService{
		api:       api,
		views:     views,
		fields:    fields,
		newFields: newFields,
		journal:   journal,
		metrics:   m,
	}
}

// NewUserFields is the add-user form.
func (s *UserAdminService) NewUserFields() []listview.FieldSpec { return s.newFields }

func (s *UserAdminService) EditorFields() []listview.FieldSpec { return s.fields }

func (s *UserAdminService) View(ctx context.Context) *listview.View[dtos.User, UserCriteria] {
	return ViewFor(s.views, auth.SessionID(ctx), ResourceUsers, s.newView)
}

func (s *UserAdminService) newView() *listview.View[dtos.User, UserCriteria] {
	src := journaledSource[dtos.User]{
		Source:   userSource{api: s.api},
		resource: ResourceUsers,
		journal:  s.journal,
		metrics:  s.metrics,
	}
	return listview.New(listview.Config[dtos.User, UserCriteria]{
		Resource: ResourceUsers,
		Key:      dtos.User.Key,
		Match:    MatchUser,
		Fields:   s.fields,
	}, listview.Source[dtos.User](src))
}

func (s *UserAdminService) loaded(ctx context.Context) (*listview.View[dtos.User, UserCriteria], error) {
	view := s.View(ctx)
	if !view.Loaded() {
		if err := view.Load(ctx); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Load fetches the users and renders them under the stored office filter.
func (s *UserAdminService) Load(ctx context.Context) (*UserAdminScreen, error) {
	view := s.View(ctx)
	err := view.Load(ctx)
	if err != nil {
		logging.Error("Failed to load users", "error", err)
	}
	return s.screen(view), err
}

func (s *UserAdminService) screen(view *listview.View[dtos.User, UserCriteria]) *UserAdminScreen {
	return &UserAdminScreen{
		Users:    view.Filtered(),
		Offices:  Offices(view.Source()),
		Criteria: view.Criteria(),
	}
}

// Screen renders the loaded users under the stored filter.
func (s *UserAdminService) Screen(ctx context.Context) (*UserAdminScreen, error) {
	view, err := s.loaded(ctx)
	if err != nil {
		return nil, err
	}
	return s.screen(view), nil
}

// FilterByOffice stores the office filter.
func (s *UserAdminService) FilterByOffice(ctx context.Context, office string) (*UserAdminScreen, error) {
	view, err := s.loaded(ctx)
	if err != nil {
		return nil, err
	}
	view.SetCriteria(UserCriteria{Office: office})
	return s.screen(view), nil
}

// Offices lists distinct office names in order of first appearance.
func Offices(users []dtos.User) []string {
	seen := map[string]bool{}
	var out []string
	for _, u := range users {
		if u.OfficeName == "" || seen[u.OfficeName] {
			continue
		}
		seen[u.OfficeName] = true
		out = append(out, u.OfficeName)
	}
	return out
}

// AddUser validates the add-user form and creates a regular, active user.
// The table is fetched again afterwards.
func (s *UserAdminService) AddUser(ctx context.Context, form map[string]string) error {
	if err := listview.ValidateRequired(s.newFields, form); err != nil {
		return err
	}
	if _, err := listview.BuildPatch(s.newFields, form); err != nil {
		return err
	}

	req := dtos.NewUserRequest{
		Email:      strings.TrimSpace(form["email"]),
		FirstName:  strings.TrimSpace(form["firstname"]),
		LastName:   strings.TrimSpace(form["lastname"]),
		OfficeName: strings.TrimSpace(form["office_name"]),
		Birthdate:  strings.TrimSpace(form["birthdate"]),
		Password:   form["password"],
		RoleID:     int(constants.RoleUser),
		Active:     1,
	}
	err := s.api.AddUser(ctx, auth.AccessToken(ctx), req)

	outcome := constants.JournalOutcomeOK
	if err != nil {
		outcome = constants.JournalOutcomeFailed
	}
	if s.metrics != nil {
		s.metrics.RowMutationsTotal.WithLabelValues(ResourceUsers, outcome).Inc()
	}
	req.Password = ""
	record(ctx, s.journal, &gormModels.JournalEntry{
		Resource: ResourceUsers,
		Action:   constants.JournalActionCreate,
		Outcome:  outcome,
		Payload:  payloadOf(req),
		Error:    errorText(err),
	})
	if err != nil {
		logging.Error("Failed to add user", "email", req.Email, "error", err)
		return err
	}

	if err := s.View(ctx).Load(ctx); err != nil {
		logging.Warn("Reload after adding user failed", "error", err)
	}
	return nil
}

func (s *UserAdminService) OpenEditor(ctx context.Context, id string) (listview.Pending[dtos.User], error) {
	view, err := s.loaded(ctx)
	if err != nil {
		return listview.Pending[dtos.User]{}, err
	}
	return view.OpenEditor(id)
}

func (s *UserAdminService) CloseEditor(ctx context.Context) {
	s.View(ctx).CloseEditor()
}

// SaveEditor commits the posted edit form for user id.
func (s *UserAdminService) SaveEditor(ctx context.Context, id string, draft map[string]string) error {
	view, err := s.loaded(ctx)
	if err != nil {
		return err
	}
	if err := commitDraft(ctx, view, id, draft); err != nil {
		return err
	}
	if err := view.Load(ctx); err != nil {
		logging.Warn("Reload after user edit failed", "error", err)
	}
	return nil
}

package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amonic/skydesk/internal/config"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/listview"
	"amonic/skydesk/internal/models/dtos"
)

func testUsers() []dtos.User {
	return []dtos.User{
		{ID: 1, FirstName: "Karim", LastName: "Omar", Email: "k.omar@amonic.com", Birthdate: "1983-01-13", RoleID: 1, OfficeName: "Abu dhabi", Active: 1},
		{ID: 2, FirstName: "Hannan", LastName: "Saleh", Email: "h.saleh@amonic.com", Birthdate: "1988-11-30", RoleID: 2, OfficeName: "Cairo", Active: 1},
		{ID: 3, FirstName: "Omar", LastName: "Nasser", Email: "o.nasser@amonic.com", Birthdate: "1991-07-02", RoleID: 2, OfficeName: "Abu dhabi", Active: 0},
		{ID: 4, FirstName: "No", LastName: "Office", Email: "n.office@amonic.com", RoleID: 2, Active: 1},
	}
}

func newUserAdminFixture(t *testing.T, api *fakeBackend) (*UserAdminService, *memoryJournal) {
	t.Helper()
	if api.listUsersFunc == nil {
		api.listUsersFunc = func() ([]dtos.User, error) { return testUsers(), nil }
	}
	sets, err := config.LoadFieldSets("")
	require.NoError(t, err)
	journal := &memoryJournal{}
	svc := NewUserAdminService(api, testRegistry(), sets.For(ResourceUsers), sets.For(ResourceNewUser), journal, testMetrics())
	return svc, journal
}

func validNewUser() map[string]string {
	return map[string]string{
		"email":       "new.hire@amonic.com",
		"firstname":   "New",
		"lastname":    "Hire",
		"office_name": "Doha",
		"birthdate":   "1990-02-14",
		"password":    "s3cret",
	}
}

func TestOfficesAreDistinctInOrder(t *testing.T) {
	assert.Equal(t, []string{"Abu dhabi", "Cairo"}, Offices(testUsers()))
	assert.Empty(t, Offices(nil))
}

func TestUserFilterByOffice(t *testing.T) {
	svc, _ := newUserAdminFixture(t, &fakeBackend{})
	ctx, _, _ := sessionContext(t)

	screen, err := svc.FilterByOffice(ctx, "Abu dhabi")
	require.NoError(t, err)
	require.Len(t, screen.Users, 2)
	assert.Equal(t, 1, screen.Users[0].ID)
	assert.Equal(t, 3, screen.Users[1].ID)
	assert.Equal(t, "Abu dhabi", screen.Criteria.Office)

	// The filter survives a reload.
	screen, err = svc.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, screen.Users, 2)

	screen, err = svc.FilterByOffice(ctx, "")
	require.NoError(t, err)
	assert.Len(t, screen.Users, 4)
}

func TestUserLoadFailureReturnsError(t *testing.T) {
	api := &fakeBackend{listUsersFunc: func() ([]dtos.User, error) { return nil, serverError() }}
	svc, _ := newUserAdminFixture(t, api)
	ctx, _, _ := sessionContext(t)

	screen, err := svc.Load(ctx)
	require.Error(t, err)
	assert.Empty(t, screen.Users)
	assert.Equal(t, "boom", Message(err))
}

func TestAddUserValidatesBeforeCalling(t *testing.T) {
	api := &fakeBackend{}
	svc, journal := newUserAdminFixture(t, api)
	ctx, _, _ := sessionContext(t)

	form := validNewUser()
	delete(form, "password")
	form["email"] = "not-an-email"

	err := svc.AddUser(ctx, form)
	var verr *listview.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"password"}, verr.Fields)

	form["password"] = "x"
	err = svc.AddUser(ctx, form)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"email"}, verr.Fields)
	assert.Equal(t, "Please check these fields: email", Message(err))

	assert.Zero(t, api.count("AddUser"))
	assert.Empty(t, journal.withAction(constants.JournalActionCreate))
}

func TestAddUserCreatesActiveRegularUser(t *testing.T) {
	var got dtos.NewUserRequest
	api := &fakeBackend{
		addUserFunc: func(req dtos.NewUserRequest) error {
			got = req
			return nil
		},
	}
	svc, journal := newUserAdminFixture(t, api)
	ctx, _, _ := sessionContext(t)

	require.NoError(t, svc.AddUser(ctx, validNewUser()))

	assert.Equal(t, "new.hire@amonic.com", got.Email)
	assert.Equal(t, "s3cret", got.Password)
	assert.Equal(t, int(constants.RoleUser), got.RoleID)
	assert.Equal(t, 1, got.Active)
	assert.Equal(t, 1, api.count("ListUsers"), "the table is fetched after adding")

	entries := journal.withAction(constants.JournalActionCreate)
	require.Len(t, entries, 1)
	assert.Equal(t, constants.JournalOutcomeOK, entries[0].Outcome)
	var logged dtos.NewUserRequest
	require.NoError(t, json.Unmarshal([]byte(entries[0].Payload), &logged))
	assert.Empty(t, logged.Password)
	assert.Equal(t, "new.hire@amonic.com", logged.Email)
}

func TestAddUserFailureIsJournaled(t *testing.T) {
	api := &fakeBackend{addUserFunc: func(dtos.NewUserRequest) error { return serverError() }}
	svc, journal := newUserAdminFixture(t, api)
	ctx, _, _ := sessionContext(t)

	require.Error(t, svc.AddUser(ctx, validNewUser()))
	assert.Zero(t, api.count("ListUsers"))
	entries := journal.withAction(constants.JournalActionCreate)
	require.Len(t, entries, 1)
	assert.Equal(t, constants.JournalOutcomeFailed, entries[0].Outcome)
	assert.NotEmpty(t, entries[0].Error)
}

func TestUserEditorSavesRoleAndStatus(t *testing.T) {
	var patch map[string]any
	api := &fakeBackend{
		updateUserFunc: func(id string, p map[string]any) error {
			assert.Equal(t, "2", id)
			patch = p
			return nil
		},
	}
	svc, _ := newUserAdminFixture(t, api)
	ctx, _, _ := sessionContext(t)

	pending, err := svc.OpenEditor(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "h.saleh@amonic.com", pending.Record.Email)

	require.NoError(t, svc.SaveEditor(ctx, "2", map[string]string{"roleid": "1", "active": "0"}))
	assert.Equal(t, 1, patch["roleid"])
	assert.Equal(t, 0, patch["active"])
}

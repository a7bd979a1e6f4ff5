package ui

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/listview"
	"amonic/skydesk/internal/services"
)

const adminPage = "admin.html"

// formValues reads the posted value of every field.
func formValues(r *http.Request, fields []listview.FieldSpec) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = r.PostFormValue(f.Name)
	}
	return values
}

// editorData describes the modal form of the editor partial.
func editorData(title, action, closeURL, target string, fields []listview.FieldSpec, draft map[string]string) map[string]any {
	return map[string]any{
		"Title":    title,
		"Action":   action,
		"CloseURL": closeURL,
		"Target":   target,
		"Fields":   fields,
		"Draft":    draft,
	}
}

// AdminPanelHandler renders the user administration page
func (h *UIHandler) AdminPanelHandler(w http.ResponseWriter, r *http.Request) {
	screen, err := h.users.Load(r.Context())
	data := pageData(r, "Administrator panel")
	data["Screen"] = screen
	if err != nil {
		data["Alert"] = services.Message(err)
	}
	RenderTemplate(w, adminPage, data)
}

// UsersTableHandler handles GET /admin/users?office=
func (h *UIHandler) UsersTableHandler(w http.ResponseWriter, r *http.Request) {
	screen, err := h.users.FilterByOffice(r.Context(), r.URL.Query().Get("office"))
	if err != nil {
		fail(w, r, err)
		return
	}
	RenderPartial(w, adminPage, "user-table", map[string]any{"Screen": screen})
}

// NewUserHandler opens the add-user modal
func (h *UIHandler) NewUserHandler(w http.ResponseWriter, r *http.Request) {
	data := editorData("Add user", "/admin/users", "", "#user-table", h.users.NewUserFields(), map[string]string{})
	RenderPartial(w, adminPage, "editor", data)
}

// AddUserHandler handles POST /admin/users
func (h *UIHandler) AddUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, err)
		return
	}
	if err := h.users.AddUser(r.Context(), formValues(r, h.users.NewUserFields())); err != nil {
		fail(w, r, err)
		return
	}
	h.renderUserTable(w, r, constants.MsgUserAdded)
}

// EditUserHandler opens the editor for one user
func (h *UIHandler) EditUserHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pending, err := h.users.OpenEditor(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	title := "Edit " + strings.TrimSpace(pending.Record.FirstName+" "+pending.Record.LastName)
	data := editorData(title, "/admin/users/"+id, "/admin/users/editor/close", "#user-table", h.users.EditorFields(), pending.Draft)
	RenderPartial(w, adminPage, "editor", data)
}

// SaveUserHandler handles POST /admin/users/{id}
func (h *UIHandler) SaveUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.users.SaveEditor(r.Context(), id, formValues(r, h.users.EditorFields())); err != nil {
		fail(w, r, err)
		return
	}
	h.renderUserTable(w, r, constants.MsgUserUpdated)
}

// CloseUserEditorHandler discards the pending user edit
func (h *UIHandler) CloseUserEditorHandler(w http.ResponseWriter, r *http.Request) {
	h.users.CloseEditor(r.Context())
	closeModal(w)
}

// renderUserTable answers a successful save: the refreshed table, a notice
// and an emptied modal.
func (h *UIHandler) renderUserTable(w http.ResponseWriter, r *http.Request, notice string) {
	screen, err := h.users.Screen(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	RenderPartial(w, adminPage, "user-table", map[string]any{
		"Screen":     screen,
		"Notice":     notice,
		"CloseModal": true,
	})
}

package ui

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/listview"
	"amonic/skydesk/internal/middleware"
	"amonic/skydesk/internal/models/dtos"
	"amonic/skydesk/internal/services"
)

const schedulesPage = "schedules.html"

type scheduleRow struct {
	dtos.Schedule
	AircraftName string
	Actions      []listview.Transition[dtos.Schedule]
}

func (h *UIHandler) scheduleRows(ctx context.Context, flights []dtos.Schedule, screen *services.ScheduleScreen) []scheduleRow {
	view := h.schedules.View(ctx)
	rows := make([]scheduleRow, 0, len(flights))
	for _, f := range flights {
		row := scheduleRow{Schedule: f, AircraftName: f.Aircraft.Name, Actions: view.Actions(f)}
		if screen != nil {
			row.AircraftName = screen.AircraftName(f)
		}
		rows = append(rows, row)
	}
	return rows
}

// SchedulesHandler renders the flight schedule page
func (h *UIHandler) SchedulesHandler(w http.ResponseWriter, r *http.Request) {
	screen := h.schedules.Load(r.Context())
	data := pageData(r, "Manage flight schedules")
	data["Screen"] = screen
	data["Rows"] = h.scheduleRows(r.Context(), screen.Flights, screen)
	if len(screen.Failures) > 0 {
		data["Alert"] = strings.Join(screen.Failures, " ")
	}
	RenderTemplate(w, schedulesPage, data)
}

func parseScheduleCriteria(r *http.Request) (services.ScheduleCriteria, bool) {
	q := r.URL.Query()
	date, ok := services.ParseDate(q.Get("date"))
	if !ok {
		return services.ScheduleCriteria{}, false
	}
	from, _ := strconv.Atoi(q.Get("from"))
	to, _ := strconv.Atoi(q.Get("to"))
	return services.ScheduleCriteria{
		DepartureAirport: from,
		ArrivalAirport:   to,
		Date:             date,
		FlightNumber:     strings.TrimSpace(q.Get("flight")),
		SortBy:           services.ParseScheduleSort(q.Get("sort")),
	}, true
}

// ScheduleTableHandler handles GET /schedules/table with the filter form
func (h *UIHandler) ScheduleTableHandler(w http.ResponseWriter, r *http.Request) {
	criteria, ok := parseScheduleCriteria(r)
	if !ok {
		middleware.WriteAlert(w, r, http.StatusBadRequest, "danger", "Please enter the date as YYYY-MM-DD.")
		return
	}
	flights, err := h.schedules.Filter(r.Context(), criteria)
	if err != nil {
		fail(w, r, err)
		return
	}
	RenderPartial(w, schedulesPage, "schedule-rows", map[string]any{
		"Rows": h.scheduleRows(r.Context(), flights, nil),
	})
}

// ScheduleActionHandler handles POST /schedules/{id}/{action}
func (h *UIHandler) ScheduleActionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	flight, err := h.schedules.Transition(r.Context(), id, chi.URLParam(r, "action"))
	if err != nil {
		fail(w, r, err)
		return
	}
	rows := h.scheduleRows(r.Context(), []dtos.Schedule{flight}, nil)
	RenderPartial(w, schedulesPage, "schedule-row", map[string]any{"Row": rows[0]})
}

// EditScheduleHandler opens the editor for one flight
func (h *UIHandler) EditScheduleHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pending, err := h.schedules.OpenEditor(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	title := "Edit flight " + pending.Record.FlightNumber
	data := editorData(title, "/schedules/"+id, "/schedules/editor/close", "#schedule-rows", h.schedules.EditorFields(), pending.Draft)
	RenderPartial(w, schedulesPage, "editor", data)
}

// SaveScheduleHandler handles POST /schedules/{id}
func (h *UIHandler) SaveScheduleHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.schedules.SaveEditor(r.Context(), id, formValues(r, h.schedules.EditorFields())); err != nil {
		fail(w, r, err)
		return
	}
	RenderPartial(w, schedulesPage, "schedule-rows", map[string]any{
		"Rows":       h.scheduleRows(r.Context(), h.schedules.View(r.Context()).Filtered(), nil),
		"Notice":     constants.MsgFlightUpdated,
		"CloseModal": true,
	})
}

// CloseScheduleEditorHandler discards the pending flight edit
func (h *UIHandler) CloseScheduleEditorHandler(w http.ResponseWriter, r *http.Request) {
	h.schedules.CloseEditor(r.Context())
	closeModal(w)
}

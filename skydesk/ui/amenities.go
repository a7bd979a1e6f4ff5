package ui

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const amenitiesPage = "amenities.html"

// AmenitiesHandler renders the booking reference lookup
func (h *UIHandler) AmenitiesHandler(w http.ResponseWriter, r *http.Request) {
	RenderTemplate(w, amenitiesPage, pageData(r, "Purchase amenities"))
}

// LookupAmenitiesHandler handles POST /amenities/lookup
func (h *UIHandler) LookupAmenitiesHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, err)
		return
	}
	ref := strings.ToUpper(strings.TrimSpace(r.PostFormValue("booking_reference")))
	screen, err := h.amenities.Lookup(r.Context(), ref)
	if err != nil {
		fail(w, r, err)
		return
	}
	RenderPartial(w, amenitiesPage, "amenity-screen", map[string]any{"Screen": screen})
}

// ToggleAmenityHandler handles POST /amenities/lines/{id}/{action}. The
// response carries the updated line and the new quote out of band.
func (h *UIHandler) ToggleAmenityHandler(w http.ResponseWriter, r *http.Request) {
	line, quote, err := h.amenities.Toggle(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "action"))
	if err != nil {
		fail(w, r, err)
		return
	}
	RenderPartial(w, amenitiesPage, "amenity-toggle", map[string]any{
		"Line":  line,
		"Quote": quote,
	})
}

// CloseAmenitiesHandler forgets the looked up booking
func (h *UIHandler) CloseAmenitiesHandler(w http.ResponseWriter, r *http.Request) {
	h.amenities.Close(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
}

// AmenitySummaryHandler re-renders the current booking's lines and quote
func (h *UIHandler) AmenitySummaryHandler(w http.ResponseWriter, r *http.Request) {
	lines, quote, err := h.amenities.Summary(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	RenderPartial(w, amenitiesPage, "amenity-lines", map[string]any{
		"Lines": lines,
		"Quote": quote,
	})
}

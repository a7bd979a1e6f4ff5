package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/models/entities"
	gormModels "amonic/skydesk/internal/models/gorm"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

var errJournalDisabled = errors.New("journal is disabled")

// JournalReader is the read side of the mutation journal.
type JournalReader interface {
	PartialBookings(ctx context.Context, limit int) ([]entities.PartialBooking, error)
	OutcomeCounts(ctx context.Context, resource string) (map[string]int, error)
}

// BookingJournal lists the entries written for one booking.
type BookingJournal interface {
	FindByBookingReference(ctx context.Context, ref string) ([]gormModels.JournalEntry, error)
}

// JournalHandler serves the journal to administrators for reconciling
// partially created bookings. Nil readers mean the journal is disabled.
type JournalHandler struct {
	reader   JournalReader
	bookings BookingJournal
}

func NewJournalHandler(reader JournalReader, bookings BookingJournal) *JournalHandler {
	return &JournalHandler{reader: reader, bookings: bookings}
}

// PartialBookings handles GET /ui/api/journal/partial-bookings?limit=N
func (h *JournalHandler) PartialBookings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.reader == nil {
		common.RespondError(w, start, errJournalDisabled, "", http.StatusNotFound)
		return
	}

	limit := defaultJournalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			common.RespondError(w, start, nil, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxJournalLimit)
	}

	rows, err := h.reader.PartialBookings(r.Context(), limit)
	if err != nil {
		common.RespondError(w, start, err, "failed to read journal")
		return
	}
	common.RespondSuccess(w, start, "partial bookings", rows)
}

// Outcomes handles GET /ui/api/journal/outcomes/{resource}
func (h *JournalHandler) Outcomes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.reader == nil {
		common.RespondError(w, start, errJournalDisabled, "", http.StatusNotFound)
		return
	}

	resource := strings.TrimSpace(chi.URLParam(r, "resource"))
	counts, err := h.reader.OutcomeCounts(r.Context(), resource)
	if err != nil {
		common.RespondError(w, start, err, "failed to read journal")
		return
	}
	common.RespondSuccess(w, start, resource, counts)
}

// Booking handles GET /ui/api/journal/bookings/{ref}
func (h *JournalHandler) Booking(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.bookings == nil {
		common.RespondError(w, start, errJournalDisabled, "", http.StatusNotFound)
		return
	}

	ref := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "ref")))
	entries, err := h.bookings.FindByBookingReference(r.Context(), ref)
	if err != nil {
		common.RespondError(w, start, err, "failed to read journal")
		return
	}
	if len(entries) == 0 {
		common.RespondError(w, start, nil, "no journal entries for "+ref, http.StatusNotFound)
		return
	}
	common.RespondSuccess(w, start, ref, entries)
}

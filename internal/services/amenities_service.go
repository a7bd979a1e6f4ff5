package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/listview"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/metrics"
	"amonic/skydesk/internal/models/dtos"
	gormModels "amonic/skydesk/internal/models/gorm"
	"amonic/skydesk/internal/pricing"
)

const (
	ResourceAmenities      = "amenities"
	ResourceAmenityTickets = "amenity_tickets"
)

// Amenity line states and actions.
const (
	AmenityIncluded   = "included"
	AmenitySelected   = "selected"
	AmenityUnselected = "unselected"

	ActionSelect   = "select"
	ActionUnselect = "unselect"
)

// ErrNoBooking is returned for amenity actions when the session has no
// booking looked up.
var ErrNoBooking = errors.New("no booking reference looked up")

var errLinesReadOnly = errors.New("amenity lines change only through select and unselect")

type AmenityAPI interface {
	SearchTickets(ctx context.Context, token, bookingReference string) ([]dtos.Ticket, error)
	GetSchedule(ctx context.Context, token string, id int) (*dtos.Schedule, error)
	ListAmenities(ctx context.Context, token string) ([]dtos.Amenity, error)
	CreateAmenityTicket(ctx context.Context, token string, amenityID, ticketID int) (*dtos.AmenityTicket, error)
	DeleteAmenityTicket(ctx context.Context, token string, linkID int) error
}

// AmenityLine is one amenity offered on one ticket.
type AmenityLine struct {
	TicketID  int            `json:"ticket_id"`
	Passenger string         `json:"passenger"`
	AmenityID int            `json:"amenity_id"`
	Service   string         `json:"service"`
	Price     pricing.Amount `json:"price"`
	Free      bool           `json:"free"`
	Selected  bool           `json:"selected"`
	LinkID    int            `json:"link_id"`
}

func (l AmenityLine) Key() string {
	return strconv.Itoa(l.TicketID) + "-" + strconv.Itoa(l.AmenityID)
}

func amenityState(l AmenityLine) string {
	switch {
	case l.Free:
		return AmenityIncluded
	case l.Selected:
		return AmenitySelected
	default:
		return AmenityUnselected
	}
}

// AmenityCriteria narrows the lines to one ticket; zero shows all.
type AmenityCriteria struct {
	TicketID int
}

func matchAmenityLine(l AmenityLine, c AmenityCriteria) bool {
	return c.TicketID == 0 || l.TicketID == c.TicketID
}

// BuildAmenityLines offers every amenity sold in the ticket's cabin. Free
// amenities are always included.
func BuildAmenityLines(tickets []dtos.Ticket, amenities []dtos.Amenity) []AmenityLine {
	var lines []AmenityLine
	for _, t := range tickets {
		for _, a := range amenities {
			if !a.OfferedIn(t.CabinTypeID) {
				continue
			}
			lines = append(lines, AmenityLine{
				TicketID:  t.ID,
				Passenger: strings.TrimSpace(t.FirstName + " " + t.LastName),
				AmenityID: a.ID,
				Service:   a.Service,
				Price:     a.Price,
				Free:      a.Free(),
				Selected:  a.Free(),
			})
		}
	}
	return lines
}

// amenitySource lists the lines of a fixed set of tickets.
type amenitySource struct {
	api     AmenityAPI
	tickets []dtos.Ticket
}

func (s amenitySource) List(ctx context.Context) ([]AmenityLine, error) {
	amenities, err := s.api.ListAmenities(ctx, auth.AccessToken(ctx))
	if err != nil {
		return nil, err
	}
	return BuildAmenityLines(s.tickets, amenities), nil
}

func (s amenitySource) Patch(context.Context, string, listview.Patch) error {
	return errLinesReadOnly
}

// AmenityScreen is the amenities page for one booking reference.
type AmenityScreen struct {
	Reference string
	Tickets   []dtos.Ticket
	Schedules []dtos.Schedule
	Lines     []AmenityLine
	Quote     pricing.Quote
}

type AmenitiesService struct {
	api     AmenityAPI
	views   *ViewRegistry
	journal Journal
	metrics *metrics.MetricsRegistry
}

func NewAmenitiesService(api AmenityAPI, views *ViewRegistry, journal Journal, m *metrics.MetricsRegistry) *AmenitiesService {
	return &AmenitiesService{api: api, views: views, journal: journal, metrics: m}
}

// Lookup finds the tickets of a booking, then their flights one by one.
// Flights that cannot be fetched are skipped.
func (s *AmenitiesService) Lookup(ctx context.Context, reference string) (*AmenityScreen, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, inputError(constants.MsgEnterBookingRef)
	}
	token := auth.AccessToken(ctx)

	tickets, err := s.api.SearchTickets(ctx, token, reference)
	if err != nil {
		logging.Warn("Ticket search failed", "booking_reference", reference, "error", err)
		return nil, inputError(constants.MsgNoTicketFound)
	}
	if len(tickets) == 0 {
		return nil, inputError(constants.MsgNoTicketFound)
	}

	screen := &AmenityScreen{Reference: reference, Tickets: tickets}
	seen := map[int]bool{}
	for _, t := range tickets {
		if seen[t.ScheduleID] {
			continue
		}
		seen[t.ScheduleID] = true
		sch, err := s.api.GetSchedule(ctx, token, t.ScheduleID)
		if err != nil {
			logging.Warn("Failed to fetch schedule for ticket", "ticket_id", t.ID, "schedule_id", t.ScheduleID, "error", err)
			continue
		}
		screen.Schedules = append(screen.Schedules, *sch)
	}

	view := s.newView(tickets)
	if err := view.Load(ctx); err != nil {
		logging.Error("Failed to load amenities", "error", err)
		return nil, err
	}
	PutView(s.views, auth.SessionID(ctx), ResourceAmenities, view)

	screen.Lines = view.Filtered()
	screen.Quote = QuoteLines(screen.Lines)
	return screen, nil
}

func (s *AmenitiesService) newView(tickets []dtos.Ticket) *listview.View[AmenityLine, AmenityCriteria] {
	return listview.New(listview.Config[AmenityLine, AmenityCriteria]{
		Resource: ResourceAmenities,
		Key:      AmenityLine.Key,
		Match:    matchAmenityLine,
		State:    amenityState,
		Transitions: []listview.Transition[AmenityLine]{
			{Name: ActionSelect, Label: "Add", From: AmenityUnselected, To: AmenitySelected, Perform: s.selectLine},
			{Name: ActionUnselect, Label: "Remove", From: AmenitySelected, To: AmenityUnselected, Perform: s.unselectLine},
		},
	}, listview.Source[AmenityLine](amenitySource{api: s.api, tickets: tickets}))
}

func (s *AmenitiesService) selectLine(ctx context.Context, line AmenityLine) (listview.Patch, error) {
	link, err := s.api.CreateAmenityTicket(ctx, auth.AccessToken(ctx), line.AmenityID, line.TicketID)
	entry := &gormModels.JournalEntry{
		Resource: ResourceAmenityTickets,
		Action:   constants.JournalActionCreate,
		Payload:  payloadOf(map[string]int{"amenity": line.AmenityID, "ticket": line.TicketID}),
	}
	if err == nil {
		entry.RecordID = strconv.Itoa(link.ID)
	}
	s.finishLine(ctx, entry, err)
	if err != nil {
		return nil, err
	}
	return listview.Patch{"selected": true, "link_id": link.ID}, nil
}

func (s *AmenitiesService) unselectLine(ctx context.Context, line AmenityLine) (listview.Patch, error) {
	if line.LinkID == 0 {
		return nil, fmt.Errorf("amenity %d on ticket %d has no purchase to remove", line.AmenityID, line.TicketID)
	}
	err := s.api.DeleteAmenityTicket(ctx, auth.AccessToken(ctx), line.LinkID)
	s.finishLine(ctx, &gormModels.JournalEntry{
		Resource: ResourceAmenityTickets,
		RecordID: strconv.Itoa(line.LinkID),
		Action:   constants.JournalActionDelete,
	}, err)
	if err != nil {
		return nil, err
	}
	return listview.Patch{"selected": false, "link_id": 0}, nil
}

func (s *AmenitiesService) finishLine(ctx context.Context, entry *gormModels.JournalEntry, err error) {
	entry.Outcome = constants.JournalOutcomeOK
	if err != nil {
		entry.Outcome = constants.JournalOutcomeFailed
		entry.Error = err.Error()
		logging.Error("Amenity change failed", "action", entry.Action, "error", err)
	}
	if s.metrics != nil {
		s.metrics.RowMutationsTotal.WithLabelValues(ResourceAmenities, entry.Outcome).Inc()
	}
	record(ctx, s.journal, entry)
}

func (s *AmenitiesService) view(ctx context.Context) (*listview.View[AmenityLine, AmenityCriteria], error) {
	view, ok := LookupView[AmenityLine, AmenityCriteria](s.views, auth.SessionID(ctx), ResourceAmenities)
	if !ok {
		return nil, ErrNoBooking
	}
	return view, nil
}

// Toggle selects or unselects line id and returns the updated line with
// the new quote.
func (s *AmenitiesService) Toggle(ctx context.Context, id, action string) (AmenityLine, pricing.Quote, error) {
	view, err := s.view(ctx)
	if err != nil {
		return AmenityLine{}, pricing.Quote{}, err
	}
	if err := view.Transition(ctx, id, action); err != nil {
		return AmenityLine{}, pricing.Quote{}, err
	}
	line, _ := view.Get(id)
	return line, QuoteLines(view.Source()), nil
}

// Summary returns the current lines and quote.
func (s *AmenitiesService) Summary(ctx context.Context) ([]AmenityLine, pricing.Quote, error) {
	view, err := s.view(ctx)
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	return view.Filtered(), QuoteLines(view.Source()), nil
}

// Close forgets the looked up booking.
func (s *AmenitiesService) Close(ctx context.Context) {
	s.views.Forget(auth.SessionID(ctx), ResourceAmenities)
}

// QuoteLines prices the selected lines: subtotal, 5% duties and taxes, total.
func QuoteLines(lines []AmenityLine) pricing.Quote {
	var items []pricing.Amount
	for _, l := range lines {
		if l.Selected {
			items = append(items, l.Price)
		}
	}
	return pricing.QuoteFor(items...)
}

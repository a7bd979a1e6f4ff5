package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/metrics"
	"amonic/skydesk/internal/models/dtos"
	gormModels "amonic/skydesk/internal/models/gorm"
	"amonic/skydesk/internal/pricing"
	"amonic/skydesk/internal/providers"
)

const (
	ResourceTickets = "tickets"
	// MaxPassengers bounds one booking.
	MaxPassengers = 9
)

type BookingAPI interface {
	ListAirports(ctx context.Context, token string) ([]dtos.Airport, error)
	SearchSchedules(ctx context.Context, token string, q dtos.ScheduleSearch) ([]dtos.Schedule, error)
	GetSchedule(ctx context.Context, token string, id int) (*dtos.Schedule, error)
	CreateTicket(ctx context.Context, token string, req dtos.CreateTicketRequest) (*dtos.CreatedTicket, error)
}

// SearchRequest is the flight search form.
type SearchRequest struct {
	From       int
	To         int
	Cabin      constants.CabinType
	Outbound   string
	IsReturn   bool
	Return     string
	NearbyDays bool
}

func (r SearchRequest) Validate() error {
	switch {
	case r.From == 0 || r.To == 0:
		return inputError("Please select both airports.")
	case r.From == r.To:
		return inputError("Departure and arrival airports must differ.")
	case r.Outbound == "":
		return inputError("Please select an outbound date.")
	case r.IsReturn && r.Return == "":
		return inputError("Please select a return date.")
	case r.IsReturn && r.Return < r.Outbound:
		return inputError("The return date must not be before the outbound date.")
	}
	return checkCabin(r.Cabin)
}

func checkCabin(c constants.CabinType) error {
	switch c {
	case constants.CabinEconomy, constants.CabinBusiness, constants.CabinFirst:
		return nil
	}
	return inputError("Please select a cabin type.")
}

// FlightOption is one search row priced for the requested cabin.
type FlightOption struct {
	Schedule   dtos.Schedule
	CabinPrice pricing.Amount
}

// LegResult holds one leg's rows. NoFlights is set when the backend found
// nothing; Failure carries the message of any other error.
type LegResult struct {
	Flights   []FlightOption
	NoFlights bool
	Failure   string
}

type SearchResult struct {
	Cabin    constants.CabinType
	Outbound LegResult
	Return   *LegResult
}

// Passenger is one traveller on the booking form.
type Passenger struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	PassportNumber  string
	PassportCountry int
}

func (p Passenger) validate(n int) error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return inputError(fmt.Sprintf("Passenger %d needs a first and last name.", n))
	}
	if strings.TrimSpace(p.PassportNumber) == "" {
		return inputError(fmt.Sprintf("Passenger %d needs a passport number.", n))
	}
	return nil
}

type BookingRequest struct {
	OutboundID int
	ReturnID   int // zero for one-way
	Cabin      constants.CabinType
	Passengers []Passenger
}

// BookingResult reports what was created. When Err is set, Created lists the
// tickets that exist on the backend anyway; they are not rolled back.
type BookingResult struct {
	Reference string
	Expected  int
	Created   []dtos.CreatedTicket
	Quote     pricing.Quote
	Err       error
}

// Partial reports a failure after at least one ticket was created.
func (r *BookingResult) Partial() bool {
	return r.Err != nil && len(r.Created) > 0
}

func (r *BookingResult) Complete() bool {
	return r.Err == nil && len(r.Created) == r.Expected
}

func (r *BookingResult) Message() string {
	switch {
	case r.Complete():
		return fmt.Sprintf(constants.MsgBookingComplete, r.Reference)
	case r.Partial():
		return fmt.Sprintf(constants.MsgPartialBooking, len(r.Created), r.Expected, r.Reference)
	case r.Err != nil:
		return Message(r.Err)
	}
	return ""
}

type BookingService struct {
	api     BookingAPI
	journal Journal
	metrics *metrics.MetricsRegistry
	newRef  func() string
}

func NewBookingService(api BookingAPI, journal Journal, m *metrics.MetricsRegistry) *BookingService {
	return &BookingService{api: api, journal: journal, metrics: m, newRef: newBookingReference}
}

// newBookingReference returns a six character upper-case reference.
func newBookingReference() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

func (s *BookingService) Airports(ctx context.Context) ([]dtos.Airport, error) {
	airports, err := s.api.ListAirports(ctx, auth.AccessToken(ctx))
	if err != nil {
		logging.Error("Failed to load airports", "error", err)
		return nil, err
	}
	return airports, nil
}

// Search runs one search per leg, the return leg with the airports swapped.
func (s *BookingService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := &SearchResult{Cabin: req.Cabin}
	res.Outbound = s.searchLeg(ctx, req.Cabin, dtos.ScheduleSearch{
		DepartureAirport:  req.From,
		ArrivalAirport:    req.To,
		Date:              req.Outbound,
		IncludeNearbyDays: req.NearbyDays,
	})
	if req.IsReturn {
		leg := s.searchLeg(ctx, req.Cabin, dtos.ScheduleSearch{
			DepartureAirport:  req.To,
			ArrivalAirport:    req.From,
			Date:              req.Return,
			IncludeNearbyDays: req.NearbyDays,
		})
		res.Return = &leg
	}
	return res, nil
}

func (s *BookingService) searchLeg(ctx context.Context, cabin constants.CabinType, q dtos.ScheduleSearch) LegResult {
	schedules, err := s.api.SearchSchedules(ctx, auth.AccessToken(ctx), q)
	if err != nil {
		if providers.IsNotFound(err) {
			return LegResult{NoFlights: true}
		}
		logging.Error("Flight search failed", "from", q.DepartureAirport, "to", q.ArrivalAirport, "date", q.Date, "error", err)
		return LegResult{Failure: providers.UserMessage(err)}
	}
	if len(schedules) == 0 {
		return LegResult{NoFlights: true}
	}

	leg := LegResult{Flights: make([]FlightOption, 0, len(schedules))}
	for _, sch := range schedules {
		leg.Flights = append(leg.Flights, FlightOption{Schedule: sch, CabinPrice: sch.CabinPrice(cabin)})
	}
	return leg
}

// Book creates one ticket per passenger per leg, outbound first, one request
// at a time, all under one booking reference. A failure stops the booking;
// tickets created before it stay and the booking is journaled as partial.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	if req.OutboundID == 0 {
		return nil, inputError("Please select an outbound flight.")
	}
	if err := checkCabin(req.Cabin); err != nil {
		return nil, err
	}
	if len(req.Passengers) == 0 {
		return nil, inputError("Please add at least one passenger.")
	}
	if len(req.Passengers) > MaxPassengers {
		return nil, inputError(fmt.Sprintf("A booking holds at most %d passengers.", MaxPassengers))
	}
	for i, p := range req.Passengers {
		if err := p.validate(i + 1); err != nil {
			return nil, err
		}
	}

	token := auth.AccessToken(ctx)
	legs := []int{req.OutboundID}
	if req.ReturnID != 0 {
		legs = append(legs, req.ReturnID)
	}

	var fares []pricing.Amount
	for _, id := range legs {
		sch, err := s.api.GetSchedule(ctx, token, id)
		if err != nil {
			logging.Error("Failed to load flight for booking", "schedule_id", id, "error", err)
			return nil, err
		}
		if !sch.Confirmed {
			return nil, inputError(fmt.Sprintf("Flight %s on %s is cancelled.", sch.FlightNumber, sch.Date))
		}
		price := sch.CabinPrice(req.Cabin)
		for range req.Passengers {
			fares = append(fares, price)
		}
	}

	var userID int
	if claims := auth.GetUserClaims(ctx); claims != nil {
		userID = claims.UserID()
	}

	res := &BookingResult{
		Reference: s.newRef(),
		Expected:  len(legs) * len(req.Passengers),
		Quote:     pricing.QuoteFor(fares...),
	}

	for _, scheduleID := range legs {
		for _, p := range req.Passengers {
			ticket := dtos.CreateTicketRequest{
				UserID:           userID,
				ScheduleID:       scheduleID,
				CabinTypeID:      int(req.Cabin),
				FirstName:        strings.TrimSpace(p.FirstName),
				LastName:         strings.TrimSpace(p.LastName),
				Email:            strings.TrimSpace(p.Email),
				Phone:            strings.TrimSpace(p.Phone),
				PassportNumber:   strings.TrimSpace(p.PassportNumber),
				PassportCountry:  p.PassportCountry,
				BookingReference: res.Reference,
				Confirmed:        true,
			}
			created, err := s.api.CreateTicket(ctx, token, ticket)
			s.recordTicket(ctx, ticket, created, err)
			if err != nil {
				res.Err = err
				s.finish(ctx, res)
				return res, err
			}
			res.Created = append(res.Created, *created)
			if s.metrics != nil {
				s.metrics.TicketsCreatedTotal.Inc()
			}
		}
	}

	s.finish(ctx, res)
	return res, nil
}

func (s *BookingService) recordTicket(ctx context.Context, req dtos.CreateTicketRequest, created *dtos.CreatedTicket, err error) {
	entry := &gormModels.JournalEntry{
		Resource:         ResourceTickets,
		Action:           constants.JournalActionCreate,
		Outcome:          constants.JournalOutcomeOK,
		Payload:          payloadOf(req),
		BookingReference: req.BookingReference,
	}
	if err != nil {
		entry.Outcome = constants.JournalOutcomeFailed
		entry.Error = err.Error()
	} else if created != nil {
		entry.RecordID = strconv.Itoa(created.ID)
	}
	record(ctx, s.journal, entry)
}

// finish writes the booking summary entry and logs the outcome.
func (s *BookingService) finish(ctx context.Context, res *BookingResult) {
	outcome := constants.JournalOutcomeOK
	switch {
	case res.Partial():
		outcome = constants.JournalOutcomePartial
		if s.metrics != nil {
			s.metrics.PartialBookingsTotal.Inc()
		}
		logging.Error("Booking partially completed",
			"booking_reference", res.Reference,
			"created", len(res.Created),
			"expected", res.Expected,
			"error", res.Err)
	case res.Err != nil:
		outcome = constants.JournalOutcomeFailed
		logging.Error("Booking failed", "booking_reference", res.Reference, "error", res.Err)
	default:
		logging.Info("Booking completed", "booking_reference", res.Reference, "tickets", len(res.Created))
	}

	ids := make([]int, 0, len(res.Created))
	for _, t := range res.Created {
		ids = append(ids, t.ID)
	}
	record(ctx, s.journal, &gormModels.JournalEntry{
		Resource:         ResourceTickets,
		RecordID:         fmt.Sprintf("%d/%d", len(res.Created), res.Expected),
		Action:           constants.JournalActionBooking,
		Outcome:          outcome,
		Payload:          payloadOf(map[string]any{"created_ticket_ids": ids, "expected": res.Expected}),
		Error:            errorText(res.Err),
		BookingReference: res.Reference,
	})
}

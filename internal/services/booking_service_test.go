package services

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/models/dtos"
	"amonic/skydesk/internal/pricing"
)

func newBookingFixture(api *fakeBackend) (*BookingService, *memoryJournal) {
	journal := &memoryJournal{}
	svc := NewBookingService(api, journal, testMetrics())
	svc.newRef = func() string { return "ABC123" }
	return svc, journal
}

func TestSearchSwapsAirportsForReturnLeg(t *testing.T) {
	var queries []dtos.ScheduleSearch
	api := &fakeBackend{
		searchFunc: func(q dtos.ScheduleSearch) ([]dtos.Schedule, error) {
			queries = append(queries, q)
			if q.DepartureAirport == cai.ID {
				return nil, notFound()
			}
			return []dtos.Schedule{
				{ID: 10, Date: q.Date, FlightNumber: "49", EconomyPrice: pricing.Whole(540), Confirmed: true, Stops: 1},
			}, nil
		},
	}
	svc, _ := newBookingFixture(api)
	ctx, _, _ := sessionContext(t)

	res, err := svc.Search(ctx, SearchRequest{
		From: auh.ID, To: cai.ID, Cabin: constants.CabinFirst,
		Outbound: "2026-10-04", IsReturn: true, Return: "2026-10-09", NearbyDays: true,
	})
	require.NoError(t, err)

	require.Len(t, queries, 2)
	assert.Equal(t, dtos.ScheduleSearch{DepartureAirport: auh.ID, ArrivalAirport: cai.ID, Date: "2026-10-04", IncludeNearbyDays: true}, queries[0])
	assert.Equal(t, dtos.ScheduleSearch{DepartureAirport: cai.ID, ArrivalAirport: auh.ID, Date: "2026-10-09", IncludeNearbyDays: true}, queries[1])

	require.Len(t, res.Outbound.Flights, 1)
	assert.Equal(t, pricing.Whole(948), res.Outbound.Flights[0].CabinPrice)
	require.NotNil(t, res.Return)
	assert.True(t, res.Return.NoFlights)
	assert.Empty(t, res.Return.Failure)
}

func TestSearchOtherFailuresAreReported(t *testing.T) {
	api := &fakeBackend{searchFunc: func(dtos.ScheduleSearch) ([]dtos.Schedule, error) { return nil, serverError() }}
	svc, _ := newBookingFixture(api)
	ctx, _, _ := sessionContext(t)

	res, err := svc.Search(ctx, SearchRequest{From: 1, To: 2, Cabin: constants.CabinEconomy, Outbound: "2026-10-04"})
	require.NoError(t, err)
	assert.False(t, res.Outbound.NoFlights)
	assert.Equal(t, "boom", res.Outbound.Failure)
	assert.Nil(t, res.Return)
}

func TestSearchValidation(t *testing.T) {
	svc, _ := newBookingFixture(&fakeBackend{})
	ctx, _, _ := sessionContext(t)

	cases := map[string]SearchRequest{
		"missing airport": {From: 1, Cabin: constants.CabinEconomy, Outbound: "2026-10-04"},
		"same airport":    {From: 1, To: 1, Cabin: constants.CabinEconomy, Outbound: "2026-10-04"},
		"missing date":    {From: 1, To: 2, Cabin: constants.CabinEconomy},
		"missing return":  {From: 1, To: 2, Cabin: constants.CabinEconomy, Outbound: "2026-10-04", IsReturn: true},
		"return before":   {From: 1, To: 2, Cabin: constants.CabinEconomy, Outbound: "2026-10-04", IsReturn: true, Return: "2026-10-01"},
		"missing cabin":   {From: 1, To: 2, Outbound: "2026-10-04"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Search(ctx, req)
			var in *InputError
			assert.True(t, errors.As(err, &in))
		})
	}
}

func bookableSchedules(id int) (*dtos.Schedule, error) {
	return &dtos.Schedule{ID: id, Date: "2026-10-04", FlightNumber: "49", EconomyPrice: pricing.Whole(50), Confirmed: true}, nil
}

func TestBookCreatesTicketsPerPassengerPerLeg(t *testing.T) {
	var created []dtos.CreateTicketRequest
	api := &fakeBackend{
		getScheduleFunc: bookableSchedules,
		createTicketFunc: func(req dtos.CreateTicketRequest) (*dtos.CreatedTicket, error) {
			created = append(created, req)
			return &dtos.CreatedTicket{ID: len(created), ScheduleID: req.ScheduleID, BookingReference: req.BookingReference}, nil
		},
	}
	svc, journal := newBookingFixture(api)
	ctx, _, _ := sessionContext(t)

	res, err := svc.Book(ctx, BookingRequest{
		OutboundID: 10,
		ReturnID:   11,
		Cabin:      constants.CabinEconomy,
		Passengers: []Passenger{
			{FirstName: "Ada", LastName: "Lovelace", PassportNumber: "P1"},
			{FirstName: "Alan", LastName: "Turing", PassportNumber: "P2"},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.Complete())
	assert.Equal(t, "ABC123", res.Reference)
	assert.Equal(t, "Booking confirmed. Reference ABC123.", res.Message())

	require.Len(t, created, 4)
	assert.Equal(t, []int{10, 10, 11, 11}, []int{created[0].ScheduleID, created[1].ScheduleID, created[2].ScheduleID, created[3].ScheduleID})
	for _, c := range created {
		assert.Equal(t, "ABC123", c.BookingReference)
		assert.Equal(t, 7, c.UserID)
		assert.Equal(t, int(constants.CabinEconomy), c.CabinTypeID)
	}

	// Four fares of 50.00 plus 5%.
	assert.Equal(t, pricing.Whole(200), res.Quote.Subtotal)
	assert.Equal(t, pricing.Whole(10), res.Quote.Tax)
	assert.Equal(t, pricing.Whole(210), res.Quote.Total)

	bookings := journal.withAction(constants.JournalActionBooking)
	require.Len(t, bookings, 1)
	assert.Equal(t, constants.JournalOutcomeOK, bookings[0].Outcome)
	assert.Len(t, journal.withAction(constants.JournalActionCreate), 4)
	assert.Equal(t, float64(4), testutil.ToFloat64(svc.metrics.TicketsCreatedTotal))
}

func TestBookStopsAtFirstFailureWithoutRollback(t *testing.T) {
	calls := 0
	api := &fakeBackend{
		getScheduleFunc: bookableSchedules,
		createTicketFunc: func(req dtos.CreateTicketRequest) (*dtos.CreatedTicket, error) {
			calls++
			if calls == 3 {
				return nil, serverError()
			}
			return &dtos.CreatedTicket{ID: calls, ScheduleID: req.ScheduleID}, nil
		},
	}
	svc, journal := newBookingFixture(api)
	ctx, _, _ := sessionContext(t)

	res, err := svc.Book(ctx, BookingRequest{
		OutboundID: 10,
		ReturnID:   11,
		Cabin:      constants.CabinBusiness,
		Passengers: []Passenger{
			{FirstName: "Ada", LastName: "Lovelace", PassportNumber: "P1"},
			{FirstName: "Alan", LastName: "Turing", PassportNumber: "P2"},
		},
	})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Partial())
	assert.Len(t, res.Created, 2)
	assert.Equal(t, 3, calls, "no request after the failure")
	assert.Equal(t, "Booking partially completed: 2 of 4 tickets were created before an error. Reference ABC123.", res.Message())
	assert.Zero(t, api.count("DeleteAmenityTicket"))

	bookings := journal.withAction(constants.JournalActionBooking)
	require.Len(t, bookings, 1)
	assert.Equal(t, constants.JournalOutcomePartial, bookings[0].Outcome)
	assert.Equal(t, "ABC123", bookings[0].BookingReference)
	assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.PartialBookingsTotal))
}

func TestBookFirstTicketFailureIsNotPartial(t *testing.T) {
	api := &fakeBackend{
		getScheduleFunc:  bookableSchedules,
		createTicketFunc: func(dtos.CreateTicketRequest) (*dtos.CreatedTicket, error) { return nil, serverError() },
	}
	svc, journal := newBookingFixture(api)
	ctx, _, _ := sessionContext(t)

	res, err := svc.Book(ctx, BookingRequest{
		OutboundID: 10, Cabin: constants.CabinEconomy,
		Passengers: []Passenger{{FirstName: "Ada", LastName: "Lovelace", PassportNumber: "P1"}},
	})
	require.Error(t, err)
	assert.False(t, res.Partial())
	assert.Equal(t, "boom", res.Message())
	assert.Equal(t, constants.JournalOutcomeFailed, journal.withAction(constants.JournalActionBooking)[0].Outcome)
}

func TestBookRejectsCancelledFlight(t *testing.T) {
	api := &fakeBackend{
		getScheduleFunc: func(id int) (*dtos.Schedule, error) {
			return &dtos.Schedule{ID: id, Date: "2026-10-04", FlightNumber: "49", Confirmed: false}, nil
		},
	}
	svc, _ := newBookingFixture(api)
	ctx, _, _ := sessionContext(t)

	_, err := svc.Book(ctx, BookingRequest{
		OutboundID: 10, Cabin: constants.CabinEconomy,
		Passengers: []Passenger{{FirstName: "Ada", LastName: "Lovelace", PassportNumber: "P1"}},
	})
	var in *InputError
	require.True(t, errors.As(err, &in))
	assert.Zero(t, api.count("CreateTicket"))
}

func TestBookValidatesPassengers(t *testing.T) {
	svc, _ := newBookingFixture(&fakeBackend{})
	ctx, _, _ := sessionContext(t)

	_, err := svc.Book(ctx, BookingRequest{OutboundID: 10, Cabin: constants.CabinEconomy})
	assert.EqualError(t, err, "Please add at least one passenger.")

	_, err = svc.Book(ctx, BookingRequest{
		OutboundID: 10, Cabin: constants.CabinEconomy,
		Passengers: []Passenger{{FirstName: "Ada", LastName: "Lovelace"}},
	})
	assert.EqualError(t, err, "Passenger 1 needs a passport number.")
}

func TestBookRejectsTooManyPassengers(t *testing.T) {
	api := &fakeBackend{}
	svc, _ := newBookingFixture(api)
	ctx, _, _ := sessionContext(t)

	passengers := make([]Passenger, MaxPassengers+1)
	for i := range passengers {
		passengers[i] = Passenger{FirstName: "Ada", LastName: "Lovelace", PassportNumber: "P1"}
	}
	_, err := svc.Book(ctx, BookingRequest{OutboundID: 10, Cabin: constants.CabinEconomy, Passengers: passengers})
	var in *InputError
	require.True(t, errors.As(err, &in))
	assert.Equal(t, "A booking holds at most 9 passengers.", in.Message)
	assert.Zero(t, api.count("GetSchedule"))
	assert.Zero(t, api.count("CreateTicket"))
}

func TestBookingReferenceFormat(t *testing.T) {
	ref := newBookingReference()
	assert.Len(t, ref, 6)
	assert.Regexp(t, `^[0-9A-F]{6}$`, ref)
}

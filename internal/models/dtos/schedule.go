package dtos

import (
	"strconv"
	"time"

	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/pricing"
)

type Airport struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IATACode  string `json:"iata_code"`
	CountryID int    `json:"countryid,omitempty"`
}

func (a Airport) Validate() error {
	if a.ID <= 0 {
		return invalid("airport without id")
	}
	if a.Name == "" && a.IATACode == "" {
		return invalid("airport %d without name or code", a.ID)
	}
	return nil
}

type Aircraft struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	MakeModel     string `json:"make_model"`
	TotalSeats    int    `json:"total_seats"`
	EconomySeats  int    `json:"economy_seats"`
	BusinessSeats int    `json:"business_seats"`
}

func (a Aircraft) Validate() error {
	if a.ID <= 0 {
		return invalid("aircraft without id")
	}
	return nil
}

// Schedule is one flight of /api/schedules/ and the search endpoints.
type Schedule struct {
	ID           int            `json:"id"`
	Date         string         `json:"date"`
	Time         string         `json:"time"`
	FromAirport  Airport        `json:"from_airport"`
	ToAirport    Airport        `json:"to_airport"`
	FlightNumber string         `json:"flight_number"`
	Aircraft     Aircraft       `json:"aircraft"`
	EconomyPrice pricing.Amount `json:"economy_price"`
	Confirmed    bool           `json:"confirmed"`
	Stops        int            `json:"stops"`
}

func (s Schedule) Validate() error {
	if s.ID <= 0 {
		return invalid("schedule without id")
	}
	if s.FlightNumber == "" {
		return invalid("schedule %d without flight number", s.ID)
	}
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return invalid("schedule %d date %q", s.ID, s.Date)
	}
	return nil
}

func (s Schedule) Key() string { return strconv.Itoa(s.ID) }

func (s Schedule) BusinessPrice() pricing.Amount {
	return pricing.BusinessPrice(s.EconomyPrice)
}

func (s Schedule) FirstClassPrice() pricing.Amount {
	return pricing.FirstClassPrice(s.EconomyPrice)
}

func (s Schedule) CabinPrice(cabin constants.CabinType) pricing.Amount {
	return pricing.CabinPrice(s.EconomyPrice, cabin)
}

// ShortTime trims seconds from the backend's HH:MM:SS time.
func (s Schedule) ShortTime() string {
	if len(s.Time) >= 5 {
		return s.Time[:5]
	}
	return s.Time
}

// ScheduleSearch holds the query of /api/schedules/search/.
type ScheduleSearch struct {
	DepartureAirport  int
	ArrivalAirport    int
	Date              string
	IncludeNearbyDays bool
}

package ui

import (
	"net/http"
	"strconv"
	"strings"

	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/services"
)

const (
	bookingPage   = "booking.html"
	maxPassengers = services.MaxPassengers
)

func checked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "1", "true", "yes":
		return true
	}
	return false
}

// BookingHandler renders the flight search form
func (h *UIHandler) BookingHandler(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, "Search for flights")
	data["Cabins"] = constants.CabinTypes
	data["NearbyDays"] = h.nearbyDays
	data["MaxPassengers"] = maxPassengers
	airports, err := h.booking.Airports(r.Context())
	if err != nil {
		data["Alert"] = services.Message(err)
	}
	data["Airports"] = airports
	RenderTemplate(w, bookingPage, data)
}

func passengerCount(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxPassengers)
}

// SearchFlightsHandler handles GET /booking/search
func (h *UIHandler) SearchFlightsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, _ := strconv.Atoi(q.Get("from"))
	to, _ := strconv.Atoi(q.Get("to"))
	cabin, _ := constants.ParseCabinType(q.Get("cabin"))
	req := services.SearchRequest{
		From:       from,
		To:         to,
		Cabin:      cabin,
		Outbound:   strings.TrimSpace(q.Get("outbound")),
		IsReturn:   checked(q.Get("is_return")),
		Return:     strings.TrimSpace(q.Get("return")),
		NearbyDays: checked(q.Get("nearby")),
	}

	result, err := h.booking.Search(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	RenderPartial(w, bookingPage, "search-results", map[string]any{
		"Result":          result,
		"Passengers":      passengerCount(q.Get("passengers")),
		"NoFlightsNotice": constants.MsgNoFlightsAvailable,
	})
}

// passengersFromForm zips the repeated passenger inputs.
func passengersFromForm(r *http.Request) []services.Passenger {
	first := r.PostForm["first_name"]
	last := r.PostForm["last_name"]
	email := r.PostForm["email"]
	phone := r.PostForm["phone"]
	passport := r.PostForm["passport_number"]
	country := r.PostForm["passport_country"]

	at := func(vals []string, i int) string {
		if i < len(vals) {
			return vals[i]
		}
		return ""
	}

	passengers := make([]services.Passenger, 0, len(first))
	for i := range first {
		p := services.Passenger{
			FirstName:      at(first, i),
			LastName:       at(last, i),
			Email:          at(email, i),
			Phone:          at(phone, i),
			PassportNumber: at(passport, i),
		}
		p.PassportCountry, _ = strconv.Atoi(at(country, i))
		passengers = append(passengers, p)
	}
	return passengers
}

// BookFlightsHandler handles POST /booking
func (h *UIHandler) BookFlightsHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, r, err)
		return
	}
	outbound, _ := strconv.Atoi(r.PostFormValue("outbound_id"))
	ret, _ := strconv.Atoi(r.PostFormValue("return_id"))
	cabin, _ := constants.ParseCabinType(r.PostFormValue("cabin"))

	res, err := h.booking.Book(r.Context(), services.BookingRequest{
		OutboundID: outbound,
		ReturnID:   ret,
		Cabin:      cabin,
		Passengers: passengersFromForm(r),
	})
	if res == nil {
		fail(w, r, err)
		return
	}

	level, status := "success", http.StatusOK
	switch {
	case res.Partial():
		level = "warning"
	case res.Err != nil:
		level, status = "danger", statusFor(res.Err)
	}
	RenderPartial(w, bookingPage, "booking-result", map[string]any{
		"Result":  res,
		"Level":   level,
		"Message": res.Message(),
	}, status)
}

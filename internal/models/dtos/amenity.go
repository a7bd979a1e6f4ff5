package dtos

import "amonic/skydesk/internal/pricing"

// Amenity is a row of /api/amenities/.
type Amenity struct {
	ID         int            `json:"id"`
	Service    string         `json:"service"`
	Price      pricing.Amount `json:"price"`
	CabinTypes []int          `json:"cabin_types"`
}

func (a Amenity) Validate() error {
	if a.ID <= 0 {
		return invalid("amenity without id")
	}
	if a.Service == "" {
		return invalid("amenity %d without service", a.ID)
	}
	if a.Price < 0 {
		return invalid("amenity %d negative price", a.ID)
	}
	return nil
}

func (a Amenity) Free() bool { return a.Price == 0 }

// OfferedIn reports whether the amenity is sold in the cabin. An empty list
// means every cabin.
func (a Amenity) OfferedIn(cabin int) bool {
	if len(a.CabinTypes) == 0 {
		return true
	}
	for _, c := range a.CabinTypes {
		if c == cabin {
			return true
		}
	}
	return false
}

// AmenityTicket links an amenity purchase to a ticket.
type AmenityTicket struct {
	ID      int            `json:"id"`
	Amenity int            `json:"amenity"`
	Ticket  int            `json:"ticket"`
	Price   pricing.Amount `json:"price"`
}

func (a AmenityTicket) Validate() error {
	if a.ID <= 0 {
		return invalid("amenity ticket without id")
	}
	return nil
}

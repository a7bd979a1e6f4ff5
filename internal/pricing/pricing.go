// Package pricing holds the display arithmetic the portal shows next to
// backend fares: cabin multipliers and the flat booking tax.
package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"amonic/skydesk/internal/constants"
)

const (
	businessMultiplier = 1.35
	firstMultiplier    = 1.30
	taxRate            = 0.05
)

// Amount is a money value in cents.
type Amount int64

// FromFloat converts a currency value to cents, rounding to the nearest cent.
func FromFloat(f float64) Amount {
	return Amount(math.Round(f * 100))
}

// Whole builds an Amount from whole currency units.
func Whole(units int64) Amount {
	return Amount(units * 100)
}

func (a Amount) Float() float64 {
	return float64(a) / 100
}

func (a Amount) String() string {
	return strconv.FormatFloat(a.Float(), 'f', 2, 64)
}

// MarshalJSON writes the amount as a JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a number, a quoted decimal string ("540.00", the
// backend's decimal encoding) or null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
		*a = FromFloat(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = FromFloat(f)
	return nil
}

// BusinessPrice is round(economy × 1.35) in whole units.
func BusinessPrice(economy Amount) Amount {
	return Whole(int64(math.Round(economy.Float() * businessMultiplier)))
}

// FirstClassPrice applies the first-class multiplier to the already rounded
// business price: round(round(economy × 1.35) × 1.30).
func FirstClassPrice(economy Amount) Amount {
	business := math.Round(economy.Float() * businessMultiplier)
	return Whole(int64(math.Round(business * firstMultiplier)))
}

// CabinPrice returns the fare for the given cabin derived from the economy fare.
func CabinPrice(economy Amount, cabin constants.CabinType) Amount {
	switch cabin {
	case constants.CabinBusiness:
		return BusinessPrice(economy)
	case constants.CabinFirst:
		return FirstClassPrice(economy)
	default:
		return economy
	}
}

// Tax is round2(subtotal × 0.05).
func Tax(subtotal Amount) Amount {
	return Amount(math.Round(float64(subtotal) * taxRate))
}

// Quote is the priced summary shown under an amenity or fare selection.
type Quote struct {
	Subtotal Amount `json:"subtotal"`
	Tax      Amount `json:"tax"`
	Total    Amount `json:"total"`
}

// QuoteFor sums the items and adds the booking tax.
func QuoteFor(items ...Amount) Quote {
	var subtotal Amount
	for _, item := range items {
		subtotal += item
	}
	tax := Tax(subtotal)
	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

package entities

import "time"

type PartialBooking struct {
	ID               int64     `db:"id" json:"id"`
	BookingReference string    `db:"booking_reference" json:"booking_reference"`
	Payload          string    `db:"payload" json:"payload"`
	Error            string    `db:"error" json:"error"`
	RequestID        string    `db:"request_id" json:"request_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

type OutcomeCount struct {
	Outcome string `db:"outcome" json:"outcome"`
	Total   int    `db:"total" json:"total"`
}

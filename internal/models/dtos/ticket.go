package dtos

// Ticket is a row of /api/tickets/search.
type Ticket struct {
	ID               int    `json:"id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Confirmed        bool   `json:"confirmed"`
	CabinTypeID      int    `json:"cabintypeid"`
	UserID           int    `json:"userid"`
	ScheduleID       int    `json:"scheduleid"`
	PassportNumber   string `json:"passport_number"`
	PassportCountry  int    `json:"passport_country"`
	BookingReference string `json:"booking_reference"`
}

func (t Ticket) Validate() error {
	if t.ID <= 0 {
		return invalid("ticket without id")
	}
	if t.ScheduleID <= 0 {
		return invalid("ticket %d without schedule", t.ID)
	}
	if t.CabinTypeID < 1 || t.CabinTypeID > 3 {
		return invalid("ticket %d cabin type %d", t.ID, t.CabinTypeID)
	}
	return nil
}

// CreateTicketRequest is the body of POST /api/create-ticket/.
type CreateTicketRequest struct {
	UserID           int    `json:"userid"`
	ScheduleID       int    `json:"scheduleid"`
	CabinTypeID      int    `json:"cabintypeid"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	PassportNumber   string `json:"passport_number"`
	PassportCountry  int    `json:"passport_country"`
	BookingReference string `json:"booking_reference"`
	Confirmed        bool   `json:"confirmed"`
}

// CreatedTicket is the echo of a successful create-ticket call.
type CreatedTicket struct {
	ID               int    `json:"id"`
	ScheduleID       int    `json:"scheduleid"`
	BookingReference string `json:"booking_reference"`
}

func (c CreatedTicket) Validate() error {
	if c.ID <= 0 {
		return invalid("created ticket without id")
	}
	return nil
}

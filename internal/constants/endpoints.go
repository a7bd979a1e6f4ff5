package constants

// Reservation backend endpoints. Paths are relative to the configured base URL.
const (
	EndpointToken           = "/api/token/"
	EndpointCurrentUser     = "/api/current_user/"
	EndpointLogout          = "/api/logout/"
	EndpointTestError       = "/api/test_error/"
	EndpointUsers           = "/api/users/"
	EndpointAddUser         = "/api/add_user/"
	EndpointUpdateUser      = "/api/update_user/%s/"
	EndpointUserSessions    = "/api/user_sessions/"
	EndpointSchedules       = "/api/schedules/"
	EndpointUpdateSchedule  = "/api/update_schedule/%s/"
	EndpointScheduleSearch  = "/api/schedules/search/"
	EndpointScheduleByID    = "/api/schedules/search-by-id"
	EndpointAirports        = "/api/airports/"
	EndpointAircrafts       = "/api/aircrafts/"
	EndpointCreateTicket    = "/api/create-ticket/"
	EndpointTicketSearch    = "/api/tickets/search"
	EndpointAmenities       = "/api/amenities/"
	EndpointAmenityTickets  = "/api/amenitiestickets/"
	EndpointAmenityTicketID = "/api/amenitiestickets/%s/"
	EndpointSurveys         = "/api/surveys0/"
)

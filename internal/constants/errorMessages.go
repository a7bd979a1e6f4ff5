package constants

const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgTooManyAttempts    = "Too many attempts. Please wait %d seconds."
	MsgWaitBeforeRetry    = "Please wait %d seconds before trying again."
	MsgSlowDown           = "Too many requests. Please slow down."
	MsgUnexpectedError    = "An unexpected error occurred. Please try again later."
	MsgNoFlightsAvailable = "No flights available for the selected criteria"
	MsgNoTicketFound      = "No ticket found with this booking reference."
	MsgEnterBookingRef    = "Please enter a booking reference."
	MsgNoSchedulesFound   = "No schedules available for these tickets."
	MsgLogoutFailed       = "An error occurred while logging out"
	MsgTestErrorRaised    = "A test error occurred. You have been signed out."
	MsgUserAdded          = "User added successfully"
	MsgUserUpdated        = "User updated successfully"
	MsgFlightUpdated      = "Flight updated successfully"
	MsgSessionExpired     = "Your session has expired. Please sign in again."
	MsgForbidden          = "You do not have access to this page"
	MsgPartialBooking     = "Booking partially completed: %d of %d tickets were created before an error. Reference %s."
	MsgBookingComplete    = "Booking confirmed. Reference %s."
	MsgAmenitiesSaved     = "Amenities saved"
)

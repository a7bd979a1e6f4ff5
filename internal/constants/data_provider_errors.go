package constants

// Backend error codes. Every failed call to the reservation API is classified
// into one of these.
const (
	ErrCodeNetworkError    = "NETWORK_ERROR"
	ErrCodeAuthFailed      = "AUTHENTICATION_FAILED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_FAILED"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeServerError     = "SERVER_ERROR"
	ErrCodeInvalidResponse = "INVALID_RESPONSE"
)

var BackendErrorMessages = map[string]string{
	ErrCodeNetworkError:    "Unable to reach the reservation service",
	ErrCodeAuthFailed:      "Authentication with the reservation service failed",
	ErrCodeNotFound:        "The requested record was not found",
	ErrCodeValidation:      "The reservation service rejected the request",
	ErrCodeRateLimited:     "Too many requests. Please try again later",
	ErrCodeServerError:     "The reservation service returned an error",
	ErrCodeInvalidResponse: "The reservation service returned an unexpected response",
}

// GetErrorMessage returns the human-readable message for an error code.
func GetErrorMessage(code string) string {
	if msg, ok := BackendErrorMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}

package providers

import (
	"errors"
	"fmt"
	"net/http"

	"amonic/skydesk/internal/constants"
)

// APIError is returned by every failed backend call.
type APIError struct {
	Code     string
	Status   int // zero when no response was received
	Endpoint string
	Message  string
	Details  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d %s)", e.Code, e.Message, e.Status, e.Endpoint)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// HasResponse reports whether the backend answered at all.
func (e *APIError) HasResponse() bool {
	return e.Status > 0
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return constants.ErrCodeAuthFailed
	case status == http.StatusNotFound:
		return constants.ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		return constants.ErrCodeRateLimited
	case status >= 400 && status < 500:
		return constants.ErrCodeValidation
	default:
		return constants.ErrCodeServerError
	}
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Code == code
}

func IsNotFound(err error) bool { return hasCode(err, constants.ErrCodeNotFound) }

func IsAuthFailure(err error) bool { return hasCode(err, constants.ErrCodeAuthFailed) }

func IsRateLimited(err error) bool { return hasCode(err, constants.ErrCodeRateLimited) }

// UserMessage is the text shown in an alert for err: the backend's own
// message when it sent one, otherwise the message for the error code.
func UserMessage(err error) string {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return constants.MsgUnexpectedError
	}
	if apiErr.Message != "" && apiErr.HasResponse() {
		return apiErr.Message
	}
	return constants.GetErrorMessage(apiErr.Code)
}

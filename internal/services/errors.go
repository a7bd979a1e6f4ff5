package services

import (
	"errors"
	"strings"

	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/listview"
	"amonic/skydesk/internal/providers"
)

// InputError is a form problem found before any backend call.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func inputError(msg string) error { return &InputError{Message: msg} }

// Message returns the alert text for an error returned by a service.
func Message(err error) string {
	var in *InputError
	if errors.As(err, &in) {
		return in.Message
	}
	var verr *listview.ValidationError
	if errors.As(err, &verr) {
		return "Please check these fields: " + strings.Join(verr.Fields, ", ")
	}
	switch {
	case errors.Is(err, listview.ErrTransitionNotAllowed):
		return "This action is not available for the record's current state."
	case errors.Is(err, listview.ErrNotFound):
		return "The record is no longer in the list. Reload and try again."
	case errors.Is(err, listview.ErrNoPendingEdit):
		return "Nothing is open for editing."
	case errors.Is(err, ErrNoBooking):
		return constants.MsgEnterBookingRef
	}
	return providers.UserMessage(err)
}

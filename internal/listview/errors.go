package listview

import (
	"errors"
	"strings"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateKey         = errors.New("duplicate record identifier in snapshot")
	ErrNoPendingEdit        = errors.New("no record is open for editing")
	ErrTransitionNotAllowed = errors.New("transition not allowed from current state")
	ErrUnknownTransition    = errors.New("unknown transition")
)

// ValidationError lists editor fields that failed client-side checks. It is
// raised before any backend request is made.
type ValidationError struct {
	Fields   []string
	Messages map[string]string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid fields: ")
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f)
		if msg, ok := e.Messages[f]; ok {
			b.WriteString(" (")
			b.WriteString(msg)
			b.WriteString(")")
		}
	}
	return b.String()
}

func (e *ValidationError) add(field, msg string) {
	if e.Messages == nil {
		e.Messages = make(map[string]string)
	}
	e.Fields = append(e.Fields, field)
	e.Messages[field] = msg
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

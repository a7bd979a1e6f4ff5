package dtos

import (
	"errors"
	"fmt"
)

var ErrInvalidContract = errors.New("response does not match contract")

// Validator is implemented by every backend contract. Decoded responses are
// validated before they leave the client adapter.
type Validator interface {
	Validate() error
}

// ValidateAll validates each element and reports the first failure by index.
func ValidateAll[T Validator](items []T) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidContract, fmt.Sprintf(format, args...))
}

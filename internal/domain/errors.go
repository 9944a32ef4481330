package domain

import (
	"errors"
	"fmt"
)

// ErrValidation marks input that can never be scheduled: bad catalog data,
// impossible durations or edits. Callers test with errors.Is.
var ErrValidation = errors.New("validation failed")

// Invalidf returns an error wrapping ErrValidation.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

package query

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTimeWindow is returned when start_time or end_time is blank.
	ErrMissingTimeWindow = errors.New("start time and end time are required for all searches")

	// ErrInvertedTimeWindow is returned when start_time is not before end_time.
	ErrInvertedTimeWindow = errors.New("start time must be before end time")

	// ErrNoFilterSelected is returned for a time-only query.
	ErrNoFilterSelected = errors.New("please enter at least one search field besides start time and end time")

	// ErrInvalidNumber is wrapped by InvalidNumberError.
	ErrInvalidNumber = errors.New("must be a base-10 integer")
)

// InvalidNumberError reports a numeric field whose value does not parse.
type InvalidNumberError struct {
	Field string
	Value string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("%s %q %v", e.Field, e.Value, ErrInvalidNumber)
}

func (e *InvalidNumberError) Unwrap() error {
	return ErrInvalidNumber
}

package panel

import (
	"fmt"
	"time"
)

// UnknownFieldError is returned when a Name node references a field that is
// not present in the bundle.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Name)
}

// UnknownDateError is returned when the scalar evaluator is asked for a date
// that is not present in a panel's row index.
type UnknownDateError struct {
	Field string
	Date  time.Time
}

func (e *UnknownDateError) Error() string {
	return fmt.Sprintf("field %q has no row for date %s", e.Field, e.Date.Format("2006-01-02"))
}

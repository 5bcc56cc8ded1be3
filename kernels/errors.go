package kernels

import "fmt"

// MissingFieldTagError is returned when a scalar-evaluator time-series
// function receives an argument that did not originate from a bare Name
// node, so there is no source panel to take a rolling lookback from.
type MissingFieldTagError struct {
	Func string
}

func (e *MissingFieldTagError) Error() string {
	return fmt.Sprintf("%s: argument must be a bare field reference (no field tag found)", e.Func)
}

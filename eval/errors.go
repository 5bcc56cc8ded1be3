package eval

import "fmt"

// UnsupportedVectorizedError is returned by EvalPanel when a Call names a
// function with no vectorized kernel; callers fall back to iterating dates
// and invoking EvalScalar for each one.
type UnsupportedVectorizedError struct {
	Name string
}

func (e *UnsupportedVectorizedError) Error() string {
	return fmt.Sprintf("%s has no vectorized kernel; fall back to per-date scalar evaluation", e.Name)
}

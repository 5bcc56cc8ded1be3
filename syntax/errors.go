package syntax

import "fmt"

// ParseError is a lexical or grammatical failure, carrying the byte offset
// into the source text where the problem was detected.
type ParseError struct {
	Message string
	Pos     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Message)
}

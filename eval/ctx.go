// Package eval implements the two independent evaluation strategies that
// must agree on the same expressions: EvalScalar walks an AST once per
// target date producing per-symbol cross-sections, and EvalPanel walks it
// once over the whole bundle producing a full result panel in one pass.
package eval

import (
	"time"

	"github.com/stratoquant/alphaql/panel"
	"github.com/stratoquant/alphaql/value"
)

// Ctx is the scalar evaluator's per-evaluation state: the field bundle, the
// target date, and a memoization cache keyed by structural sub-AST identity
// that lives only as long as this Ctx.
//
// Ctx implements registry.ScalarContext so that kernels can resolve a
// value's field tag back to its source panel without registry or kernels
// importing eval.
type Ctx struct {
	Bundle *panel.Bundle
	Date   time.Time

	memo map[string]value.Value
}

// NewCtx creates a scalar-evaluation context targeting date over bundle.
func NewCtx(bundle *panel.Bundle, date time.Time) *Ctx {
	return &Ctx{Bundle: bundle, Date: date, memo: make(map[string]value.Value)}
}

// FieldPanel resolves name to its panel and the row index of c.Date within
// it, satisfying registry.ScalarContext.
func (c *Ctx) FieldPanel(name string) (*panel.Panel, int, error) {
	p, ok := c.Bundle.Field(name)
	if !ok {
		return nil, 0, &panel.UnknownFieldError{Name: name}
	}
	row, ok := p.RowIndex(c.Date)
	if !ok {
		return nil, 0, &panel.UnknownDateError{Field: name, Date: c.Date}
	}
	return p, row, nil
}

package eval

import (
	"math"
	"time"

	pkgpanel "github.com/stratoquant/alphaql/panel"
	"github.com/stratoquant/alphaql/registry"
	"github.com/stratoquant/alphaql/syntax"
	"github.com/stratoquant/alphaql/value"
)

// EvalPanel evaluates node over the whole bundle in one bottom-up pass and
// returns the result as a full Panel, broadcasting a Scalar result over
// bundle's indices if necessary. It returns
// *UnsupportedVectorizedError when a Call names a function with no
// vectorized kernel; EvalPanelWithFallback handles that case by iterating
// dates through EvalScalar instead.
func EvalPanel(reg *registry.Registry, bundle *pkgpanel.Bundle, node syntax.Node) (value.Value, error) {
	v, err := evalPanelNode(reg, bundle, node)
	if err != nil {
		return value.Value{}, err
	}
	return finalizePanel(bundle, v), nil
}

// evalPanelNode is EvalPanel's recursive worker; it returns a bare Scalar or
// Panel without broadcasting, since intermediate results along the walk
// must stay Scalar to combine cheaply with their siblings.
func evalPanelNode(reg *registry.Registry, bundle *pkgpanel.Bundle, node syntax.Node) (value.Value, error) {
	switch node.Type() {
	case syntax.NNumber:
		return value.NewScalar(node.AsNumber().Value), nil

	case syntax.NName:
		n := node.AsName()
		p, ok := bundle.Field(n.Field)
		if !ok {
			return value.Value{}, &pkgpanel.UnknownFieldError{Name: n.Field}
		}
		return value.NewPanel(p), nil

	case syntax.NUnary:
		n := node.AsUnary()
		operand, err := evalPanelNode(reg, bundle, n.Operand)
		if err != nil {
			return value.Value{}, err
		}
		return evalUnaryPanel(n.Op, operand), nil

	case syntax.NBinary:
		n := node.AsBinary()
		left, err := evalPanelNode(reg, bundle, n.Left)
		if err != nil {
			return value.Value{}, err
		}
		right, err := evalPanelNode(reg, bundle, n.Right)
		if err != nil {
			return value.Value{}, err
		}
		return evalBinaryPanel(n.Op, left, right), nil

	case syntax.NCall:
		n := node.AsCall()
		spec, err := reg.Get(n.Name)
		if err != nil {
			return value.Value{}, err
		}
		if err := reg.CheckArity(spec, len(n.Args)); err != nil {
			return value.Value{}, err
		}
		if spec.Vector == nil {
			return value.Value{}, &UnsupportedVectorizedError{Name: spec.Name}
		}
		args := make([]value.Value, len(n.Args))
		for i, a := range n.Args {
			args[i], err = evalPanelNode(reg, bundle, a)
			if err != nil {
				return value.Value{}, err
			}
		}
		return spec.Vector(args)

	default:
		panic("eval: unknown node type")
	}
}

// EvalPanelWithFallback behaves like EvalPanel, except that when any Call in
// node has no vectorized kernel, it transparently falls back to iterating
// every date in bundle and invoking EvalScalar. This is
// the supported entry point for callers that just want a result panel
// regardless of kernel coverage.
func EvalPanelWithFallback(reg *registry.Registry, bundle *pkgpanel.Bundle, node syntax.Node) (value.Value, error) {
	v, err := evalPanelNode(reg, bundle, node)
	if err == nil {
		return finalizePanel(bundle, v), nil
	}
	if _, ok := err.(*UnsupportedVectorizedError); !ok {
		return value.Value{}, err
	}

	out := make([][]float64, len(bundle.Dates))
	for i, date := range bundle.Dates {
		ctx := NewCtx(bundle, date)
		row, err := EvalScalar(reg, ctx, node)
		if err != nil {
			return value.Value{}, err
		}
		if row.Kind() == value.Scalar {
			vec := make([]float64, len(bundle.Symbols))
			for j := range vec {
				vec[j] = row.Float()
			}
			out[i] = vec
			continue
		}
		_, vec := row.CrossSectionData()
		out[i] = vec
	}
	return value.NewPanel(&pkgpanel.Panel{Dates: bundle.Dates, Symbols: bundle.Symbols, Data: out}), nil
}

// finalizePanel broadcasts a top-level Scalar result to a full Panel over
// bundle's indices.
func finalizePanel(bundle *pkgpanel.Bundle, v value.Value) value.Value {
	if v.Kind() != value.Scalar {
		return v
	}
	f := v.Float()
	out := make([][]float64, len(bundle.Dates))
	for i := range out {
		row := make([]float64, len(bundle.Symbols))
		for j := range row {
			row[j] = f
		}
		out[i] = row
	}
	return value.NewPanel(&pkgpanel.Panel{Dates: bundle.Dates, Symbols: bundle.Symbols, Data: out})
}

func evalUnaryPanel(op syntax.UnaryOp, operand value.Value) value.Value {
	apply := func(f float64) float64 {
		switch op {
		case syntax.UnaryPlus:
			return f
		case syntax.UnaryMinus:
			return -f
		case syntax.UnaryNot:
			return bool01(!truthy(f))
		default:
			panic("eval: unknown unary operator")
		}
	}
	if operand.Kind() == value.Scalar {
		return value.NewScalar(apply(operand.Float()))
	}
	dates, symbols, mat := operand.PanelData()
	out := make([][]float64, len(dates))
	for i := range dates {
		out[i] = make([]float64, len(symbols))
		for j := range symbols {
			out[i][j] = apply(mat[i][j])
		}
	}
	return value.NewPanel(&pkgpanel.Panel{Dates: dates, Symbols: symbols, Data: out})
}

// evalBinaryPanel aligns two Panel operands (already sharing an index by
// the bundle invariant) or broadcasts a Scalar against a Panel,
// then applies op elementwise. Two Scalars combine directly.
func evalBinaryPanel(op syntax.BinaryOp, left, right value.Value) value.Value {
	if left.Kind() == value.Scalar && right.Kind() == value.Scalar {
		return value.NewScalar(applyBinOp(op, left.Float(), right.Float()))
	}

	dates, symbols := panelIndexOf(left, right)
	out := make([][]float64, len(dates))
	for i := range dates {
		out[i] = make([]float64, len(symbols))
		for j := range symbols {
			out[i][j] = applyBinOp(op, panelValueAt(left, i, j), panelValueAt(right, i, j))
		}
	}
	return value.NewPanel(&pkgpanel.Panel{Dates: dates, Symbols: symbols, Data: out})
}

func panelIndexOf(a, b value.Value) (dates []time.Time, symbols []string) {
	if a.Kind() == value.Panel {
		d, s, _ := a.PanelData()
		return d, s
	}
	d, s, _ := b.PanelData()
	return d, s
}

func panelValueAt(v value.Value, row, col int) float64 {
	switch v.Kind() {
	case value.Scalar:
		return v.Float()
	case value.Panel:
		_, _, mat := v.PanelData()
		return mat[row][col]
	default:
		return math.NaN()
	}
}

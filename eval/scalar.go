package eval

import (
	"math"

	"github.com/stratoquant/alphaql/registry"
	"github.com/stratoquant/alphaql/syntax"
	"github.com/stratoquant/alphaql/value"
)

// EvalScalar evaluates node at ctx.Date, returning a Scalar or CrossSection
// value. Results are memoized within ctx by structural
// sub-AST key so that a diamond-shaped expression (the same subtree
// appearing more than once) is computed only once per Ctx.
func EvalScalar(reg *registry.Registry, ctx *Ctx, node syntax.Node) (value.Value, error) {
	key := astKey(node)
	if v, ok := ctx.memo[key]; ok {
		return v, nil
	}

	v, err := evalScalarUncached(reg, ctx, node)
	if err != nil {
		return value.Value{}, err
	}
	ctx.memo[key] = v
	return v, nil
}

func evalScalarUncached(reg *registry.Registry, ctx *Ctx, node syntax.Node) (value.Value, error) {
	switch node.Type() {
	case syntax.NNumber:
		return value.NewScalar(node.AsNumber().Value), nil

	case syntax.NName:
		n := node.AsName()
		p, row, err := ctx.FieldPanel(n.Field)
		if err != nil {
			return value.Value{}, err
		}
		vec := make([]float64, len(p.Symbols))
		copy(vec, p.Row(row))
		return value.NewCrossSection(p.Symbols, vec).WithField(n.Field), nil

	case syntax.NUnary:
		n := node.AsUnary()
		operand, err := EvalScalar(reg, ctx, n.Operand)
		if err != nil {
			return value.Value{}, err
		}
		return evalUnary(n.Op, operand), nil

	case syntax.NBinary:
		n := node.AsBinary()
		left, err := EvalScalar(reg, ctx, n.Left)
		if err != nil {
			return value.Value{}, err
		}
		right, err := EvalScalar(reg, ctx, n.Right)
		if err != nil {
			return value.Value{}, err
		}
		return evalBinary(n.Op, left, right), nil

	case syntax.NCall:
		n := node.AsCall()
		spec, err := reg.Get(n.Name)
		if err != nil {
			return value.Value{}, err
		}
		if err := reg.CheckArity(spec, len(n.Args)); err != nil {
			return value.Value{}, err
		}
		args := make([]value.Value, len(n.Args))
		for i, a := range n.Args {
			args[i], err = EvalScalar(reg, ctx, a)
			if err != nil {
				return value.Value{}, err
			}
		}
		return spec.Scalar(ctx, args)

	default:
		panic("eval: unknown node type")
	}
}

// truthy is false for 0, NaN, and nothing else.
func truthy(f float64) bool {
	return !math.IsNaN(f) && f != 0
}

func bool01(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func applyBinOp(op syntax.BinaryOp, a, b float64) float64 {
	switch op {
	case syntax.OpAdd:
		return a + b
	case syntax.OpSub:
		return a - b
	case syntax.OpMul:
		return a * b
	case syntax.OpDiv:
		return a / b
	case syntax.OpMod:
		return math.Mod(a, b)
	case syntax.OpPow:
		return math.Pow(a, b)
	case syntax.OpEq:
		return bool01(a == b)
	case syntax.OpNeq:
		return bool01(a != b)
	case syntax.OpGt:
		return bool01(a > b)
	case syntax.OpGte:
		return bool01(a >= b)
	case syntax.OpLt:
		return bool01(a < b)
	case syntax.OpLte:
		return bool01(a <= b)
	case syntax.OpAnd:
		return bool01(truthy(a) && truthy(b))
	case syntax.OpOr:
		return bool01(truthy(a) || truthy(b))
	default:
		panic("eval: unknown binary operator")
	}
}

func evalUnary(op syntax.UnaryOp, operand value.Value) value.Value {
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
	symbols, vec := operand.CrossSectionData()
	out := make([]float64, len(vec))
	for i, f := range vec {
		out[i] = apply(f)
	}
	return value.NewCrossSection(symbols, out)
}

// evalBinary aligns left and right (both CrossSection ->
// outer join; one CrossSection and one Scalar -> broadcast; two Scalars ->
// plain scalar math) and applies op elementwise.
func evalBinary(op syntax.BinaryOp, left, right value.Value) value.Value {
	if left.Kind() == value.Scalar && right.Kind() == value.Scalar {
		return value.NewScalar(applyBinOp(op, left.Float(), right.Float()))
	}

	var symbols []string
	var av, bv []float64
	switch {
	case left.Kind() == value.CrossSection && right.Kind() == value.CrossSection:
		symbols, av, bv = value.AlignCrossSections(left, right)
	case left.Kind() == value.CrossSection:
		symbols, av = left.CrossSectionData()
		_, bv = right.ToCrossSection(symbols).CrossSectionData()
	default:
		symbols, bv = right.CrossSectionData()
		_, av = left.ToCrossSection(symbols).CrossSectionData()
	}

	out := make([]float64, len(symbols))
	for i := range symbols {
		out[i] = applyBinOp(op, av[i], bv[i])
	}
	return value.NewCrossSection(symbols, out)
}

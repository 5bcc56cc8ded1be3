package eval

import (
	"strconv"
	"strings"

	"github.com/stratoquant/alphaql/syntax"
)

// astKey computes a structural memoization key for a sub-AST: literals key
// by value, names by field text, and operators/calls by (kind, op or name,
// child keys). Two syntactically distinct nodes
// that represent the same computation always collide on purpose (e.g. two
// separate `returns` NameNodes anywhere in the same expression share a key).
func astKey(node syntax.Node) string {
	switch node.Type() {
	case syntax.NNumber:
		return "N:" + strconv.FormatFloat(node.AsNumber().Value, 'g', -1, 64)
	case syntax.NName:
		return "F:" + node.AsName().Field
	case syntax.NUnary:
		n := node.AsUnary()
		return "U:" + n.Op.Symbol() + "(" + astKey(n.Operand) + ")"
	case syntax.NBinary:
		n := node.AsBinary()
		return "B:" + n.Op.Symbol() + "(" + astKey(n.Left) + "," + astKey(n.Right) + ")"
	case syntax.NCall:
		n := node.AsCall()
		keys := make([]string, len(n.Args))
		for i, a := range n.Args {
			keys[i] = astKey(a)
		}
		return "C:" + strings.ToLower(n.Name) + "(" + strings.Join(keys, ",") + ")"
	default:
		panic("eval: unknown node type in astKey")
	}
}

package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeType identifies which of the five AST node kinds a Node is.
type NodeType int

const (
	NNumber NodeType = iota
	NName
	NUnary
	NBinary
	NCall
)

func (t NodeType) String() string {
	switch t {
	case NNumber:
		return "NUMBER"
	case NName:
		return "NAME"
	case NUnary:
		return "UNARY_OP"
	case NBinary:
		return "BIN_OP"
	case NCall:
		return "CALL"
	default:
		return "UNKNOWN"
	}
}

// Node is the common interface implemented by every AST node kind. Nodes are
// immutable after construction.
type Node interface {
	Type() NodeType

	AsNumber() NumberNode
	AsName() NameNode
	AsUnary() UnaryNode
	AsBinary() BinaryNode
	AsCall() CallNode

	// Source returns the token whose position marks the start of this node,
	// for error reporting.
	Source() Token

	// String returns a prettified, indentation-stable representation
	// suitable for line-by-line structural comparison in tests.
	String() string

	// Text returns alpha expression source that would parse back to a node
	// structurally equal to this one.
	Text() string

	// Equal reports whether o is a Node with the same structure as this one.
	// Source position is not considered.
	Equal(o any) bool
}

// NumberNode is a literal numeric constant.
type NumberNode struct {
	Value float64
	src   Token
}

func (n NumberNode) Type() NodeType        { return NNumber }
func (n NumberNode) AsNumber() NumberNode  { return n }
func (n NumberNode) AsName() NameNode      { panic("Type() is not NName") }
func (n NumberNode) AsUnary() UnaryNode    { panic("Type() is not NUnary") }
func (n NumberNode) AsBinary() BinaryNode  { panic("Type() is not NBinary") }
func (n NumberNode) AsCall() CallNode      { panic("Type() is not NCall") }
func (n NumberNode) Source() Token         { return n.src }
func (n NumberNode) Text() string          { return formatNumber(n.Value) }

func (n NumberNode) String() string {
	return fmt.Sprintf("[NUMBER %s]", formatNumber(n.Value))
}

func (n NumberNode) Equal(o any) bool {
	other, ok := asNode(o).(NumberNode)
	if !ok {
		return false
	}
	return n.Value == other.Value
}

func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	return s
}

// NameNode references a data field by name.
type NameNode struct {
	Field string
	src   Token
}

func (n NameNode) Type() NodeType       { return NName }
func (n NameNode) AsNumber() NumberNode { panic("Type() is not NNumber") }
func (n NameNode) AsName() NameNode     { return n }
func (n NameNode) AsUnary() UnaryNode   { panic("Type() is not NUnary") }
func (n NameNode) AsBinary() BinaryNode { panic("Type() is not NBinary") }
func (n NameNode) AsCall() CallNode     { panic("Type() is not NCall") }
func (n NameNode) Source() Token        { return n.src }
func (n NameNode) Text() string         { return n.Field }

func (n NameNode) String() string {
	return fmt.Sprintf("[NAME %s]", n.Field)
}

func (n NameNode) Equal(o any) bool {
	other, ok := asNode(o).(NameNode)
	if !ok {
		return false
	}
	return n.Field == other.Field
}

// UnaryOp is one of the three prefix unary operators.
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
)

func (op UnaryOp) Symbol() string {
	switch op {
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	case UnaryNot:
		return "!"
	default:
		panic(fmt.Sprintf("unknown unary operator %d", op))
	}
}

// UnaryNode applies a prefix unary operator to an operand.
type UnaryNode struct {
	Op      UnaryOp
	Operand Node
	src     Token
}

func (n UnaryNode) Type() NodeType       { return NUnary }
func (n UnaryNode) AsNumber() NumberNode { panic("Type() is not NNumber") }
func (n UnaryNode) AsName() NameNode     { panic("Type() is not NName") }
func (n UnaryNode) AsUnary() UnaryNode   { return n }
func (n UnaryNode) AsBinary() BinaryNode { panic("Type() is not NBinary") }
func (n UnaryNode) AsCall() CallNode     { panic("Type() is not NCall") }
func (n UnaryNode) Source() Token        { return n.src }

func (n UnaryNode) Text() string {
	return n.Op.Symbol() + wrapIfNeeded(n.Operand)
}

func (n UnaryNode) String() string {
	const operandStart = " O: "
	return fmt.Sprintf("[UNARY %s\n%s%s\n]", n.Op.Symbol(), operandStart, indentNewlines(n.Operand.String(), len(operandStart)))
}

func (n UnaryNode) Equal(o any) bool {
	other, ok := asNode(o).(UnaryNode)
	if !ok {
		return false
	}
	return n.Op == other.Op && n.Operand.Equal(other.Operand)
}

// BinaryOp is one of the binary operators of the expression grammar.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpEq
	OpNeq
	OpGt
	OpGte
	OpLt
	OpLte
	OpAnd
	OpOr
)

func (op BinaryOp) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		panic(fmt.Sprintf("unknown binary operator %d", op))
	}
}

// BinaryNode applies a binary operator to two operands.
type BinaryNode struct {
	Op    BinaryOp
	Left  Node
	Right Node
	src   Token
}

func (n BinaryNode) Type() NodeType       { return NBinary }
func (n BinaryNode) AsNumber() NumberNode { panic("Type() is not NNumber") }
func (n BinaryNode) AsName() NameNode     { panic("Type() is not NName") }
func (n BinaryNode) AsUnary() UnaryNode   { panic("Type() is not NUnary") }
func (n BinaryNode) AsBinary() BinaryNode { return n }
func (n BinaryNode) AsCall() CallNode     { panic("Type() is not NCall") }
func (n BinaryNode) Source() Token        { return n.src }

func (n BinaryNode) Text() string {
	return fmt.Sprintf("%s %s %s", wrapIfNeeded(n.Left), n.Op.Symbol(), wrapIfNeeded(n.Right))
}

func (n BinaryNode) String() string {
	const (
		leftStart  = " L: "
		rightStart = " R: "
	)
	return fmt.Sprintf("[BINARY %s\n%s%s\n%s%s\n]",
		n.Op.Symbol(),
		leftStart, indentNewlines(n.Left.String(), len(leftStart)),
		rightStart, indentNewlines(n.Right.String(), len(rightStart)),
	)
}

func (n BinaryNode) Equal(o any) bool {
	other, ok := asNode(o).(BinaryNode)
	if !ok {
		return false
	}
	return n.Op == other.Op && n.Left.Equal(other.Left) && n.Right.Equal(other.Right)
}

// CallNode invokes a named function with zero or more argument expressions.
type CallNode struct {
	Name string
	Args []Node
	src  Token
}

func (n CallNode) Type() NodeType       { return NCall }
func (n CallNode) AsNumber() NumberNode { panic("Type() is not NNumber") }
func (n CallNode) AsName() NameNode     { panic("Type() is not NName") }
func (n CallNode) AsUnary() UnaryNode   { panic("Type() is not NUnary") }
func (n CallNode) AsBinary() BinaryNode { panic("Type() is not NBinary") }
func (n CallNode) AsCall() CallNode     { return n }
func (n CallNode) Source() Token        { return n.src }

func (n CallNode) Text() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.Text()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(parts, ", "))
}

func (n CallNode) String() string {
	if len(n.Args) == 0 {
		return fmt.Sprintf("[CALL %s]", n.Name)
	}
	const argStart = " A: "
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[CALL %s\n", n.Name))
	for i, a := range n.Args {
		sb.WriteString(argStart + indentNewlines(a.String(), len(argStart)))
		if i+1 < len(n.Args) {
			sb.WriteRune('\n')
		}
	}
	sb.WriteString("\n]")
	return sb.String()
}

func (n CallNode) Equal(o any) bool {
	other, ok := asNode(o).(CallNode)
	if !ok {
		return false
	}
	if !strings.EqualFold(n.Name, other.Name) || len(n.Args) != len(other.Args) {
		return false
	}
	for i := range n.Args {
		if !n.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

// asNode normalizes the Equal(o any) argument: a bare Node is returned as
// its concrete type so the type switches above work.
func asNode(o any) Node {
	n, ok := o.(Node)
	if !ok {
		return nil
	}
	return n
}

// wrapIfNeeded parenthesizes a child's Text() rendering when it is a group
// that needs disambiguation (binary/unary sub-expressions). Numbers, names,
// and calls never need wrapping since they are already unambiguous.
func wrapIfNeeded(n Node) string {
	switch n.Type() {
	case NBinary, NUnary:
		return "(" + n.Text() + ")"
	default:
		return n.Text()
	}
}

// indentNewlines pads every line after the first with `amount` spaces, used
// to keep multi-line String() output aligned under its label.
func indentNewlines(s string, amount int) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	pad := strings.Repeat(" ", amount)
	return strings.ReplaceAll(s, "\n", "\n"+pad)
}

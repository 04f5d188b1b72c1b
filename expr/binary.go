package expr

import (
	"fmt"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
)

// Operator identifies a Binary node's elementwise operation.
type Operator uint8

const (
	OpEq Operator = iota
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
)

func (op Operator) String() string {
	names := [...]string{"=", "!=", "<", "<=", ">", ">=", "and", "or", "+", "-", "*", "/"}
	if int(op) < len(names) {
		return names[op]
	}

	return "unknown"
}

// isComparison reports whether op always returns Bool.
func (op Operator) isComparison() bool {
	return op == OpEq || op == OpNeq || op == OpLt || op == OpLte || op == OpGt || op == OpGte || op == OpAnd || op == OpOr
}

func (op Operator) toArrayOp() array.BinaryOp {
	switch op {
	case OpEq:
		return array.OpEq
	case OpNeq:
		return array.OpNeq
	case OpLt:
		return array.OpLt
	case OpLte:
		return array.OpLte
	case OpGt:
		return array.OpGt
	case OpGte:
		return array.OpGte
	case OpAnd:
		return array.OpAnd
	case OpOr:
		return array.OpOr
	case OpAdd:
		return array.OpAdd
	case OpSub:
		return array.OpSub
	case OpMul:
		return array.OpMul
	default:
		return array.OpDiv
	}
}

// negated returns op's logical negation when it is a strict comparator
// (e.g. Lt negates to Gte), used by ToCNF to push NOT through comparisons
// instead of wrapping them in Invert.
func (op Operator) negated() (Operator, bool) {
	switch op {
	case OpEq:
		return OpNeq, true
	case OpNeq:
		return OpEq, true
	case OpLt:
		return OpGte, true
	case OpLte:
		return OpGt, true
	case OpGt:
		return OpLte, true
	case OpGte:
		return OpLt, true
	default:
		return op, false
	}
}

// Binary applies Op elementwise to Lhs and Rhs, which must have equal
// length once evaluated.
type Binary struct {
	Op       Operator
	Lhs, Rhs Expr
}

// NewBinary returns a Binary expression.
func NewBinary(op Operator, lhs, rhs Expr) Expr { return Binary{Op: op, Lhs: lhs, Rhs: rhs} }

func (b Binary) ReturnDType(scopeDType dtype.DType) (dtype.DType, error) {
	if b.Op.isComparison() {
		return dtype.Bool(true), nil
	}

	return b.Lhs.ReturnDType(scopeDType)
}

func (b Binary) Evaluate(scope array.Array) (array.Array, error) {
	lhs, err := b.Lhs.Evaluate(scope)
	if err != nil {
		return array.Array{}, err
	}

	rhs, err := b.Rhs.Evaluate(scope)
	if err != nil {
		return array.Array{}, err
	}

	if b.Op == OpAnd || b.Op == OpOr {
		if lhs.DType.Kind != dtype.KindBool || rhs.DType.Kind != dtype.KindBool {
			return array.Array{}, errs.New(errs.KindMismatchedTypes, "expr: %s requires bool operands", b.Op)
		}
	}

	return array.BinaryNumeric(b.Op.toArrayOp(), lhs, rhs)
}

func (b Binary) Children() []Expr { return []Expr{b.Lhs, b.Rhs} }

func (b Binary) ReplacingChildren(children []Expr) Expr {
	b.Lhs, b.Rhs = children[0], children[1]
	return b
}

func (b Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Lhs, b.Op, b.Rhs)
}

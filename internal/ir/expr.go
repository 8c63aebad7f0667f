package ir

import (
	"fmt"

	"silica/internal/diag"
)

// Expr is one operator application over one or two operand signals. The
// right operand is nil exactly for unary operators. Constructing an Expr
// never mutates its operands.
type Expr struct {
	varBase
	op    Op
	left  Signal
	right Signal
}

// OpTag returns the expression's operator.
func (e *Expr) OpTag() Op { return e.op }

// Left returns the mandatory left operand.
func (e *Expr) Left() Signal { return e.left }

// Right returns the right operand, nil for unary expressions.
func (e *Expr) Right() Signal { return e.right }

func (e *Expr) ChildCount() int {
	if e.right == nil {
		return 1
	}
	return 2
}

func (e *Expr) Child(i int) Node {
	switch i {
	case 0:
		return e.left
	case 1:
		if e.right != nil {
			return e.right
		}
	}
	return nil
}

func (e *Expr) String() string {
	sym, _ := e.op.Symbol()
	if e.right == nil {
		return sym + operandString(e.left)
	}
	return fmt.Sprintf("%s %s %s", operandString(e.left), sym, operandString(e.right))
}

// operandString parenthesizes operands that are themselves expressions so
// nesting reads unambiguously: (a + b) - c.
func operandString(s Signal) string {
	if s.Kind() == KindExpression {
		return "(" + s.String() + ")"
	}
	return s.String()
}

// UnaryOp builds a unary expression over operand.
func UnaryOp(op Op, operand Signal) (*Expr, error) {
	if !op.IsUnary() {
		return nil, diag.Internalf("operator %q is not unary", op)
	}
	if operand == nil {
		return nil, diag.Userf("unary operand is empty")
	}
	e := &Expr{op: op, left: operand}
	e.init(operand.Generator(), e, "", operand.Width(), operand.Signed(), KindExpression)
	e.name = e.String()
	if err := operand.Generator().ctx.register(e, &e.id); err != nil {
		return nil, err
	}
	return e, nil
}

// BinOp builds a binary or relational expression over left and right. Both
// operands must belong to the same construction context. Widths must match
// except for shift amounts; signedness must match except for shift amounts.
// Relational results are 1-bit unsigned.
func BinOp(op Op, left, right Signal) (*Expr, error) {
	if op.IsUnary() {
		return nil, diag.Internalf("operator %q is unary, got two operands", op)
	}
	if left == nil || right == nil {
		return nil, diag.Userf("binary operand is empty")
	}
	if left.Generator() == nil || right.Generator() == nil ||
		left.Generator().ctx != right.Generator().ctx {
		return nil, diag.Varf([]diag.Node{left, right},
			"operands of %q belong to different construction contexts", op)
	}
	shift := op == OpLogicalShiftRight || op == OpSignedShiftRight || op == OpShiftLeft
	if !shift {
		if left.Width() != right.Width() {
			return nil, diag.Varf([]diag.Node{left, right},
				"width mismatch for %q: %d and %d", op, left.Width(), right.Width())
		}
		if left.Signed() != right.Signed() {
			return nil, diag.Varf([]diag.Node{left, right},
				"sign mismatch for %q: %t and %t", op, left.Signed(), right.Signed())
		}
	}
	width := left.Width()
	signed := left.Signed()
	if op.IsRelational() {
		width = 1
		signed = false
	}
	e := &Expr{op: op, left: left, right: right}
	e.init(left.Generator(), e, "", width, signed, KindExpression)
	e.name = e.String()
	if err := left.Generator().ctx.register(e, &e.id); err != nil {
		return nil, err
	}
	return e, nil
}

// Invert builds ~operand.
func Invert(operand Signal) (*Expr, error) { return UnaryOp(OpInvert, operand) }

// Negate builds -operand.
func Negate(operand Signal) (*Expr, error) { return UnaryOp(OpMinus, operand) }

// Identity builds +operand.
func Identity(operand Signal) (*Expr, error) { return UnaryOp(OpPlus, operand) }

// Add builds left + right.
func Add(left, right Signal) (*Expr, error) { return BinOp(OpAdd, left, right) }

// Sub builds left - right.
func Sub(left, right Signal) (*Expr, error) { return BinOp(OpSub, left, right) }

// Mul builds left * right.
func Mul(left, right Signal) (*Expr, error) { return BinOp(OpMul, left, right) }

// Div builds left / right.
func Div(left, right Signal) (*Expr, error) { return BinOp(OpDiv, left, right) }

// Mod builds left % right.
func Mod(left, right Signal) (*Expr, error) { return BinOp(OpMod, left, right) }

// Shr builds the zero-filling right shift left >> right.
func Shr(left, right Signal) (*Expr, error) { return BinOp(OpLogicalShiftRight, left, right) }

// Ashr builds the sign-extending right shift left >>> right.
func Ashr(left, right Signal) (*Expr, error) { return BinOp(OpSignedShiftRight, left, right) }

// Shl builds left << right.
func Shl(left, right Signal) (*Expr, error) { return BinOp(OpShiftLeft, left, right) }

// Or builds left | right.
func Or(left, right Signal) (*Expr, error) { return BinOp(OpOr, left, right) }

// And builds left & right.
func And(left, right Signal) (*Expr, error) { return BinOp(OpAnd, left, right) }

// Xor builds left ^ right.
func Xor(left, right Signal) (*Expr, error) { return BinOp(OpXor, left, right) }

// Lt builds left < right.
func Lt(left, right Signal) (*Expr, error) { return BinOp(OpLessThan, left, right) }

// Gt builds left > right.
func Gt(left, right Signal) (*Expr, error) { return BinOp(OpGreaterThan, left, right) }

// Le builds left <= right.
func Le(left, right Signal) (*Expr, error) { return BinOp(OpLessEqThan, left, right) }

// Ge builds left >= right.
func Ge(left, right Signal) (*Expr, error) { return BinOp(OpGreaterEqThan, left, right) }

// Eq builds left == right.
func Eq(left, right Signal) (*Expr, error) { return BinOp(OpEq, left, right) }

package ir_test

import (
	"errors"
	"math"
	"testing"

	"silica/internal/diag"
	"silica/internal/ir"
)

func TestBinOpShape(t *testing.T) {
	_, g := newModule(t, "mod")
	a := mustVar(t, g, "a", 8, false)
	b := mustVar(t, g, "b", 8, false)

	sum, err := ir.Add(a, b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sum.Width() != 8 || sum.Signed() {
		t.Errorf("a + b shape = width %d signed %t, want 8-bit unsigned", sum.Width(), sum.Signed())
	}
	if sum.Kind() != ir.KindExpression || sum.OpTag() != ir.OpAdd {
		t.Errorf("expression tags wrong: kind=%s op=%s", sum.Kind(), sum.OpTag())
	}
	if sum.ChildCount() != 2 || sum.Child(0) != a || sum.Child(1) != b {
		t.Errorf("binary expression must expose exactly its two operands")
	}
	if sum.String() != "a + b" {
		t.Errorf("a + b renders %q", sum.String())
	}
}

func TestUnaryOpShape(t *testing.T) {
	_, g := newModule(t, "mod")
	a := mustVar(t, g, "a", 8, true)

	neg, err := ir.Negate(a)
	if err != nil {
		t.Fatalf("Negate: %v", err)
	}
	if neg.ChildCount() != 1 || neg.Child(0) != a || neg.Right() != nil {
		t.Errorf("unary expression must expose exactly one operand")
	}
	if neg.Width() != 8 || !neg.Signed() {
		t.Errorf("-a shape = width %d signed %t, want operand shape", neg.Width(), neg.Signed())
	}
	if neg.String() != "-a" {
		t.Errorf("-a renders %q", neg.String())
	}
}

func TestNestedExpressionParenthesization(t *testing.T) {
	_, g := newModule(t, "mod")
	a := mustVar(t, g, "a", 8, false)
	b := mustVar(t, g, "b", 8, false)
	c := mustVar(t, g, "c", 8, false)

	sum, err := ir.Add(a, b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	diff, err := ir.Sub(sum, c)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if diff.String() != "(a + b) - c" {
		t.Errorf("nested expression renders %q, want (a + b) - c", diff.String())
	}

	inv, err := ir.Invert(sum)
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	if inv.String() != "~(a + b)" {
		t.Errorf("unary over nested renders %q, want ~(a + b)", inv.String())
	}
}

func TestBinOpWidthMismatch(t *testing.T) {
	_, g := newModule(t, "mod")
	a := mustVar(t, g, "a", 8, false)
	b := mustVar(t, g, "b", 4, false)

	if _, err := ir.Add(a, b); !errors.Is(err, diag.ErrVar) {
		t.Errorf("width mismatch error = %v, want var diagnostic", err)
	}
}

func TestBinOpSignMismatch(t *testing.T) {
	_, g := newModule(t, "mod")
	a := mustVar(t, g, "a", 8, true)
	b := mustVar(t, g, "b", 8, false)

	if _, err := ir.Xor(a, b); !errors.Is(err, diag.ErrVar) {
		t.Errorf("sign mismatch error = %v, want var diagnostic", err)
	}
}

// TestShiftExemptions checks shift amounts skip the width and sign matching
// that every other binary operator enforces.
func TestShiftExemptions(t *testing.T) {
	_, g := newModule(t, "mod")
	value := mustVar(t, g, "value", 16, true)
	amount := mustVar(t, g, "amount", 4, false)

	for name, build := range map[string]func(ir.Signal, ir.Signal) (*ir.Expr, error){
		"shl":  ir.Shl,
		"shr":  ir.Shr,
		"ashr": ir.Ashr,
	} {
		e, err := build(value, amount)
		if err != nil {
			t.Errorf("%s with mismatched operands: %v", name, err)
			continue
		}
		if e.Width() != 16 || !e.Signed() {
			t.Errorf("%s result shape = width %d signed %t, want the shifted value's", name, e.Width(), e.Signed())
		}
	}
}

// TestRelationalResultShape checks comparisons yield 1-bit unsigned results
// regardless of operand shape.
func TestRelationalResultShape(t *testing.T) {
	_, g := newModule(t, "mod")
	a := mustVar(t, g, "a", 32, true)
	b := mustVar(t, g, "b", 32, true)

	for name, build := range map[string]func(ir.Signal, ir.Signal) (*ir.Expr, error){
		"lt": ir.Lt, "gt": ir.Gt, "le": ir.Le, "ge": ir.Ge, "eq": ir.Eq,
	} {
		e, err := build(a, b)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if e.Width() != 1 || e.Signed() {
			t.Errorf("%s result = width %d signed %t, want 1-bit unsigned", name, e.Width(), e.Signed())
		}
	}
}

func TestBinOpContextMismatch(t *testing.T) {
	_, g1 := newModule(t, "mod")
	_, g2 := newModule(t, "other")
	a := mustVar(t, g1, "a", 8, false)
	b := mustVar(t, g2, "b", 8, false)

	if _, err := ir.Add(a, b); !errors.Is(err, diag.ErrVar) {
		t.Errorf("cross-context operands error = %v, want var diagnostic", err)
	}
}

func TestOpArityMisuse(t *testing.T) {
	_, g := newModule(t, "mod")
	a := mustVar(t, g, "a", 8, false)
	b := mustVar(t, g, "b", 8, false)

	if _, err := ir.BinOp(ir.OpInvert, a, b); !errors.Is(err, diag.ErrInternal) {
		t.Errorf("binary build of a unary op error = %v, want internal diagnostic", err)
	}
	if _, err := ir.UnaryOp(ir.OpAdd, a); !errors.Is(err, diag.ErrInternal) {
		t.Errorf("unary build of a binary op error = %v, want internal diagnostic", err)
	}
}

func TestConstRendering(t *testing.T) {
	_, g := newModule(t, "mod")

	cases := []struct {
		value  int64
		width  int
		signed bool
		want   string
	}{
		{0, 1, false, "1'h0"},
		{1, 1, false, "1'h1"},
		{255, 8, false, "8'hff"},
		{-1, 8, true, "-8'h1"},
		{-128, 8, true, "-8'h80"},
		{42, 16, true, "16'h2a"},
		{math.MaxInt64, 64, false, "64'h7fffffffffffffff"},
		{-1, 64, true, "-64'h1"},
		{math.MinInt64, 64, true, "-64'h8000000000000000"},
	}
	for _, c := range cases {
		k, err := g.Constant(c.value, c.width, c.signed)
		if err != nil {
			t.Errorf("Constant(%d, %d, %t): %v", c.value, c.width, c.signed, err)
			continue
		}
		if k.String() != c.want {
			t.Errorf("Constant(%d, %d, %t) renders %q, want %q", c.value, c.width, c.signed, k.String(), c.want)
		}
	}
}

func TestConstRangeValidation(t *testing.T) {
	_, g := newModule(t, "mod")

	cases := []struct {
		name   string
		value  int64
		width  int
		signed bool
	}{
		{"negative unsigned", -1, 8, false},
		{"unsigned overflow", 256, 8, false},
		{"signed overflow", 128, 8, true},
		{"signed underflow", -129, 8, true},
		{"width beyond 64", 1, 65, false},
	}
	for _, c := range cases {
		if _, err := g.Constant(c.value, c.width, c.signed); !errors.Is(err, diag.ErrUser) {
			t.Errorf("%s: error = %v, want user diagnostic", c.name, err)
		}
	}

	// Full-width values skip the range check entirely.
	if _, err := g.Constant(-1, 64, true); err != nil {
		t.Errorf("64-bit signed constant rejected: %v", err)
	}
}

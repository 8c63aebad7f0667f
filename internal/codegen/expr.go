package codegen

import (
	"fmt"

	"silica/internal/diag"
	"silica/internal/ir"
)

// exprString renders a signal reference or expression tree. The operator
// symbol table is total over the defined tags; a tag without a symbol is an
// internal consistency failure, not a user error.
func exprString(s ir.Signal) (string, error) {
	switch v := s.(type) {
	case *ir.Expr:
		sym, ok := v.OpTag().Symbol()
		if !ok {
			return "", diag.Internalf("operator tag %d has no rendering symbol", v.OpTag())
		}
		left, err := operandString(v.Left())
		if err != nil {
			return "", err
		}
		if v.Right() == nil {
			return sym + left, nil
		}
		right, err := operandString(v.Right())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, sym, right), nil
	case *ir.VarSlice:
		parent, err := operandString(v.Parent())
		if err != nil {
			return "", err
		}
		if v.High() == v.Low() {
			return fmt.Sprintf("%s[%d]", parent, v.High()), nil
		}
		return fmt.Sprintf("%s[%d:%d]", parent, v.High(), v.Low()), nil
	case *ir.Const:
		return v.String(), nil
	default:
		return s.Name(), nil
	}
}

// operandString parenthesizes nested expressions so operands read
// unambiguously: (a + b) - c.
func operandString(s ir.Signal) (string, error) {
	text, err := exprString(s)
	if err != nil {
		return "", err
	}
	if s.Kind() == ir.KindExpression {
		return "(" + text + ")", nil
	}
	return text, nil
}

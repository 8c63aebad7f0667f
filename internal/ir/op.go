package ir

// Op enumerates expression operators.
type Op uint8

const (
	// OpInvert is the unary bitwise inversion operator.
	OpInvert Op = iota
	// OpMinus is the unary arithmetic negation operator.
	OpMinus
	// OpPlus is the unary identity operator.
	OpPlus

	// OpAdd is the addition operator.
	OpAdd
	// OpSub is the subtraction operator.
	OpSub
	// OpDiv is the division operator.
	OpDiv
	// OpMul is the multiplication operator.
	OpMul
	// OpMod is the modulo operator.
	OpMod
	// OpLogicalShiftRight is the zero-filling right shift operator.
	OpLogicalShiftRight
	// OpSignedShiftRight is the sign-extending right shift operator.
	OpSignedShiftRight
	// OpShiftLeft is the left shift operator.
	OpShiftLeft
	// OpOr is the bitwise or operator.
	OpOr
	// OpAnd is the bitwise and operator.
	OpAnd
	// OpXor is the bitwise xor operator.
	OpXor

	// OpLessThan is the less-than comparison operator.
	OpLessThan
	// OpGreaterThan is the greater-than comparison operator.
	OpGreaterThan
	// OpLessEqThan is the less-or-equal comparison operator.
	OpLessEqThan
	// OpGreaterEqThan is the greater-or-equal comparison operator.
	OpGreaterEqThan
	// OpEq is the equality comparison operator.
	OpEq
)

// IsUnary reports whether op takes a single operand.
func (op Op) IsUnary() bool {
	switch op {
	case OpInvert, OpMinus, OpPlus:
		return true
	default:
		return false
	}
}

// IsRelational reports whether op compares its operands. Relational
// expressions always have width 1 and may be used as branch predicates.
func (op Op) IsRelational() bool {
	switch op {
	case OpLessThan, OpGreaterThan, OpLessEqThan, OpGreaterEqThan, OpEq:
		return true
	default:
		return false
	}
}

// Symbol returns the source-text symbol for op. The second return is false
// for values outside the defined operator set; callers treat that as an
// internal consistency failure.
func (op Op) Symbol() (string, bool) {
	switch op {
	case OpInvert:
		return "~", true
	case OpMinus:
		return "-", true
	case OpPlus:
		return "+", true
	case OpAdd:
		return "+", true
	case OpSub:
		return "-", true
	case OpDiv:
		return "/", true
	case OpMul:
		return "*", true
	case OpMod:
		return "%", true
	case OpLogicalShiftRight:
		return ">>", true
	case OpSignedShiftRight:
		return ">>>", true
	case OpShiftLeft:
		return "<<", true
	case OpOr:
		return "|", true
	case OpAnd:
		return "&", true
	case OpXor:
		return "^", true
	case OpLessThan:
		return "<", true
	case OpGreaterThan:
		return ">", true
	case OpLessEqThan:
		return "<=", true
	case OpGreaterEqThan:
		return ">=", true
	case OpEq:
		return "==", true
	default:
		return "", false
	}
}

func (op Op) String() string {
	if s, ok := op.Symbol(); ok {
		return s
	}
	return "Op(?)"
}

package ir

import (
	"fmt"

	"silica/internal/diag"
)

// Const is a fixed integer value with a declared width and signedness. The
// textual form reflects width and signedness, not just the raw value.
type Const struct {
	varBase
	value int64
}

// Value returns the constant's numeric value.
func (c *Const) Value() int64 { return c.value }

// String renders the constant as a sized hex literal. A negative value
// renders sign-first over its magnitude: -8'h1 for a -1 of width 8. The
// magnitude is computed in uint64 space so the minimum 64-bit value, whose
// magnitude has no int64 representation, still renders correctly.
func (c *Const) String() string {
	if c.value < 0 {
		return fmt.Sprintf("-%d'h%x", c.width, uint64(-(c.value+1))+1)
	}
	return fmt.Sprintf("%d'h%x", c.width, c.value)
}

func newConst(gen *Generator, value int64, width uint32, signed bool) (*Const, error) {
	if width == 0 || width > 64 {
		return nil, diag.Userf("constant width must be within [1, 64], got %d", width)
	}
	if !signed {
		if value < 0 {
			return nil, diag.Userf("%d cannot be unsigned", value)
		}
		if width < 64 && value > (int64(1)<<width)-1 {
			return nil, diag.Userf("%d does not fit in %d bits", value, width)
		}
	} else if width < 64 {
		min := -(int64(1) << (width - 1))
		max := (int64(1) << (width - 1)) - 1
		if value < min || value > max {
			return nil, diag.Userf("%d does not fit in %d signed bits", value, width)
		}
	}
	c := &Const{value: value}
	c.init(gen, c, "", width, signed, KindConstValue)
	c.name = c.String()
	if err := gen.ctx.register(c, &c.id); err != nil {
		return nil, err
	}
	return c, nil
}

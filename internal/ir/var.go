package ir

import (
	"fmt"

	"silica/internal/diag"
)

// VarKind enumerates signal node kinds.
type VarKind uint8

const (
	// KindBase is a plain named signal.
	KindBase VarKind = iota
	// KindExpression is an operator application node.
	KindExpression
	// KindSlice is a bit-range view of a parent signal.
	KindSlice
	// KindConstValue is a fixed constant.
	KindConstValue
	// KindPortIO is a module port.
	KindPortIO
)

func (k VarKind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindExpression:
		return "expression"
	case KindSlice:
		return "slice"
	case KindConstValue:
		return "const"
	case KindPortIO:
		return "port"
	}
	return "unknown"
}

// Signal is the common surface of every signal-family node: base vars,
// expressions, slices, constants and ports. A Signal may be referenced by
// any number of expressions and statements; identity matters, because all
// references to the same signal observe one driver set. The implementation
// set is closed within this package.
type Signal interface {
	Node
	fmt.Stringer

	// Name returns the declared name. Derived nodes (expressions, slices)
	// synthesize one from their operands.
	Name() string
	// Width returns the bit width.
	Width() uint32
	// Signed reports the signedness flag.
	Signed() bool
	// Kind returns the signal kind tag.
	Kind() VarKind
	// Generator returns the owning module container.
	Generator() *Generator

	// Sinks returns the statements driving this signal, in no particular
	// order. Membership only; do not rely on ordering.
	Sinks() []Stmt
	// HasSink reports driver-set membership.
	HasSink(Stmt) bool

	base() *varBase
}

// varBase carries the state shared by every signal kind. The self reference
// points at the outermost node so promoted operations (slicing, assignment)
// record the correct identity.
type varBase struct {
	id     NodeID
	name   string
	width  uint32
	signed bool
	kind   VarKind
	gen    *Generator
	self   Signal

	sinks  map[Stmt]struct{}
	slices map[sliceRange]*VarSlice
}

type sliceRange struct {
	high uint32
	low  uint32
}

func (v *varBase) init(gen *Generator, self Signal, name string, width uint32, signed bool, kind VarKind) {
	v.name = name
	v.width = width
	v.signed = signed
	v.kind = kind
	v.gen = gen
	v.self = self
	v.sinks = make(map[Stmt]struct{})
	v.slices = make(map[sliceRange]*VarSlice)
}

func (v *varBase) ID() NodeID           { return v.id }
func (v *varBase) ChildCount() int      { return 0 }
func (v *varBase) Child(int) Node       { return nil }
func (v *varBase) Name() string         { return v.name }
func (v *varBase) Width() uint32        { return v.width }
func (v *varBase) Signed() bool         { return v.signed }
func (v *varBase) Kind() VarKind        { return v.kind }
func (v *varBase) Generator() *Generator { return v.gen }
func (v *varBase) base() *varBase       { return v }

func (v *varBase) Sinks() []Stmt {
	out := make([]Stmt, 0, len(v.sinks))
	for s := range v.sinks {
		out = append(out, s)
	}
	return out
}

func (v *varBase) HasSink(s Stmt) bool {
	_, ok := v.sinks[s]
	return ok
}

func (v *varBase) addSink(s Stmt)    { v.sinks[s] = struct{}{} }
func (v *varBase) removeSink(s Stmt) { delete(v.sinks, s) }

// Var is a plain named signal owned by a Generator.
type Var struct {
	varBase
}

func (v *Var) String() string { return v.name }

// newVar wires a base var into its generator's context. Subtypes pass their
// own self pointer and kind.
func newVar(gen *Generator, name string, width uint32, signed bool) (*Var, error) {
	v := &Var{}
	v.init(gen, v, name, width, signed, KindBase)
	if err := gen.ctx.register(v, &v.id); err != nil {
		return nil, err
	}
	return v, nil
}

// Slice returns the bit-range view [high, low] of s. Requesting an equal
// range from the same signal twice returns the same instance, so drivers
// recorded against "the same bits" land in one driver set.
func Slice(s Signal, high, low uint32) (*VarSlice, error) {
	b := s.base()
	if low > high {
		return nil, diag.Varf([]diag.Node{s}, "slice [%d:%d] has low above high", high, low)
	}
	if high >= b.width {
		return nil, diag.Varf([]diag.Node{s}, "slice [%d:%d] out of range for width %d", high, low, b.width)
	}
	key := sliceRange{high: high, low: low}
	if cached, ok := b.slices[key]; ok {
		return cached, nil
	}
	sl, err := newVarSlice(s, high, low)
	if err != nil {
		return nil, err
	}
	b.slices[key] = sl
	return sl, nil
}

// Bit returns the single-bit view of s at index i.
func Bit(s Signal, i uint32) (*VarSlice, error) {
	return Slice(s, i, i)
}

// Slices returns the cached bit-range views of s in ascending range order.
func Slices(s Signal) []*VarSlice {
	b := s.base()
	out := make([]*VarSlice, 0, len(b.slices))
	for _, sl := range b.slices {
		out = append(out, sl)
	}
	sortSlices(out)
	return out
}

func sortSlices(out []*VarSlice) {
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, b := out[j-1], out[j]
			if a.low < b.low || (a.low == b.low && a.high <= b.high) {
				break
			}
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
}

// VarSlice is a non-owning bit-range view onto a parent signal. Its driver
// set is independent of the parent's.
type VarSlice struct {
	varBase
	parent Signal
	high   uint32
	low    uint32
}

func newVarSlice(parent Signal, high, low uint32) (*VarSlice, error) {
	sl := &VarSlice{parent: parent, high: high, low: low}
	name := fmt.Sprintf("%s[%d:%d]", parent.Name(), high, low)
	if high == low {
		name = fmt.Sprintf("%s[%d]", parent.Name(), high)
	}
	// Verilog slices read as unsigned regardless of the parent sign.
	sl.init(parent.Generator(), sl, name, high-low+1, false, KindSlice)
	if err := parent.Generator().ctx.register(sl, &sl.id); err != nil {
		return nil, err
	}
	return sl, nil
}

// Parent returns the sliced signal.
func (s *VarSlice) Parent() Signal { return s.parent }

// High returns the inclusive upper bit index.
func (s *VarSlice) High() uint32 { return s.high }

// Low returns the inclusive lower bit index.
func (s *VarSlice) Low() uint32 { return s.low }

func (s *VarSlice) String() string { return s.name }

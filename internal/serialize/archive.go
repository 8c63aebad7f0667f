// Package serialize persists a design's IR graph through an interchange
// archive. Node kinds map to an explicit closed tag registry; signal
// references are encoded as construction-ordered IDs so sharing and
// identity survive a round trip. Two encodings are supported: msgpack
// (compact) and JSON (human-readable).
package serialize

// Schema is the archive format version. Increment when record shapes
// change.
const Schema uint16 = 1

// NodeTag identifies a signal kind in the archive. The registry over these
// tags is closed and checked at decode time.
type NodeTag uint8

const (
	// TagVar is a plain named signal.
	TagVar NodeTag = iota
	// TagExpr is an operator application.
	TagExpr
	// TagSlice is a bit-range view.
	TagSlice
	// TagConst is a fixed value.
	TagConst
	// TagPort is a module port.
	TagPort
)

// SignalRec is one signal-family node. ID is the node's construction-order
// identity within the source context; references between records use these
// IDs.
type SignalRec struct {
	ID     uint32
	Tag    NodeTag
	Module string
	Name   string
	Width  uint32
	Signed bool

	// TagExpr
	Op       uint8
	Left     uint32
	Right    uint32
	HasRight bool

	// TagSlice
	Parent uint32
	High   uint32
	Low    uint32

	// TagConst
	Value int64

	// TagPort
	Direction uint8
	PortType  uint8
}

// CondRec is one sequential sensitivity-list entry.
type CondRec struct {
	Edge   uint8
	Signal uint32
}

// FieldRec is one captured event field.
type FieldRec struct {
	Name   string
	Signal uint32
}

// ConnRec is one instantiation port binding.
type ConnRec struct {
	Port   string
	Signal uint32
}

// ArmRec is one switch arm. HasLabel is false for the default arm.
type ArmRec struct {
	HasLabel bool
	Label    uint32
	Body     []StmtRec
}

// StmtRec is one statement tree node. Kind mirrors ir.StmtKind; only the
// fields for the recorded kind are populated.
type StmtRec struct {
	Kind uint8

	// Assign
	Left       uint32
	Right      uint32
	AssignType uint8

	// Block
	BlockType uint8
	Conds     []CondRec
	Stmts     []StmtRec

	// If
	Predicate uint32
	Then      []StmtRec
	Else      []StmtRec

	// Switch
	Target uint32
	Arms   []ArmRec

	// Instance
	TargetModule string
	InstanceName string
	Conns        []ConnRec

	// Comment
	Lines []string

	// EventTrace
	EventName   string
	Transaction string
	Action      uint8
	Fields      []FieldRec
}

// ModuleRec is one module container: signal IDs in declaration order plus
// the statement tree.
type ModuleRec struct {
	Name  string
	Ports []uint32
	Vars  []uint32
	Stmts []StmtRec
}

// Archive is a complete serialized design.
type Archive struct {
	Schema  uint16
	Top     string
	Signals []SignalRec
	Modules []ModuleRec
}

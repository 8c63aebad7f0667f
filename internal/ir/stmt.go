package ir

import (
	"fmt"

	"silica/internal/diag"
)

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	// StmtKindAssign is an assignment statement.
	StmtKindAssign StmtKind = iota
	// StmtKindBlock is an ordered statement sequence.
	StmtKindBlock
	// StmtKindIf is a conditional statement.
	StmtKindIf
	// StmtKindSwitch is a case statement.
	StmtKindSwitch
	// StmtKindInstance is a module instantiation statement.
	StmtKindInstance
	// StmtKindComment is a free-text comment.
	StmtKindComment
	// StmtKindEventTrace is a debug-only event fire statement.
	StmtKindEventTrace
)

func (k StmtKind) String() string {
	switch k {
	case StmtKindAssign:
		return "assign"
	case StmtKindBlock:
		return "block"
	case StmtKindIf:
		return "if"
	case StmtKindSwitch:
		return "switch"
	case StmtKindInstance:
		return "instance"
	case StmtKindComment:
		return "comment"
	case StmtKindEventTrace:
		return "event"
	}
	return "unknown"
}

// Stmt is the common surface of every statement node. The implementation
// set is closed within this package.
type Stmt interface {
	Node
	fmt.Stringer

	// StmtKind returns the statement kind tag.
	StmtKind() StmtKind
	// Parent returns the enclosing node, nil until the statement is added
	// somewhere.
	Parent() Node

	setParent(Node)
}

type stmtBase struct {
	id     NodeID
	kind   StmtKind
	parent Node
}

func (s *stmtBase) ID() NodeID         { return s.id }
func (s *stmtBase) StmtKind() StmtKind { return s.kind }
func (s *stmtBase) Parent() Node       { return s.parent }
func (s *stmtBase) setParent(p Node)   { s.parent = p }
func (s *stmtBase) ChildCount() int    { return 0 }
func (s *stmtBase) Child(int) Node     { return nil }

// AssignmentType distinguishes assignment intent.
type AssignmentType uint8

const (
	// Blocking is a blocking (combinational) assignment.
	Blocking AssignmentType = iota
	// NonBlocking is a non-blocking (sequential) assignment.
	NonBlocking
	// Undefined leaves the intent to the enclosing scope: continuous at
	// module level, blocking inside blocks.
	Undefined
)

func (t AssignmentType) String() string {
	switch t {
	case Blocking:
		return "blocking"
	case NonBlocking:
		return "non-blocking"
	case Undefined:
		return "undefined"
	}
	return "unknown"
}

// AssignStmt drives left from right. Constructing one registers the
// statement in left's driver set, exactly once.
type AssignStmt struct {
	stmtBase
	left       Signal
	right      Signal
	assignType AssignmentType
}

// Left returns the assignment target.
func (s *AssignStmt) Left() Signal { return s.left }

// Right returns the assignment source.
func (s *AssignStmt) Right() Signal { return s.right }

// AssignType returns the blocking/non-blocking tag.
func (s *AssignStmt) AssignType() AssignmentType { return s.assignType }

// SetAssignType retags the assignment. Block membership checks apply at
// insertion time, not here.
func (s *AssignStmt) SetAssignType(t AssignmentType) { s.assignType = t }

func (s *AssignStmt) ChildCount() int { return 2 }

func (s *AssignStmt) Child(i int) Node {
	switch i {
	case 0:
		return s.left
	case 1:
		return s.right
	}
	return nil
}

func (s *AssignStmt) String() string {
	return fmt.Sprintf("%s = %s", s.left.String(), s.right.String())
}

// retract removes the statement from its target's driver set. Statement
// removal calls this so a deleted assignment stops counting as a driver.
func (s *AssignStmt) retract() { s.left.base().removeSink(s) }

// Assign creates an assignment with Undefined intent.
func Assign(left, right Signal) (*AssignStmt, error) {
	return AssignAs(left, right, Undefined)
}

// AssignAs creates an assignment with an explicit intent tag. Width and
// signedness of both sides must match.
func AssignAs(left, right Signal, assignType AssignmentType) (*AssignStmt, error) {
	if left == nil {
		return nil, diag.Userf("left hand side is empty")
	}
	if right == nil {
		return nil, diag.Userf("right hand side is empty")
	}
	if left.Signed() != right.Signed() {
		return nil, diag.Varf([]diag.Node{left, right},
			"left (%s)'s sign does not match with right (%s). %t <- %t",
			left.Name(), right.Name(), left.Signed(), right.Signed())
	}
	if left.Width() != right.Width() {
		return nil, diag.Varf([]diag.Node{left, right},
			"left (%s)'s width does not match with right (%s). %d <- %d",
			left.Name(), right.Name(), left.Width(), right.Width())
	}
	s := &AssignStmt{left: left, right: right, assignType: assignType}
	s.kind = StmtKindAssign
	if err := left.Generator().ctx.register(s, &s.id); err != nil {
		return nil, err
	}
	left.base().addSink(s)
	return s, nil
}

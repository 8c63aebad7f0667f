package ir

import (
	"fmt"

	"silica/internal/diag"
)

// BlockType tags a statement block with its clocking domain.
type BlockType uint8

const (
	// Scope is a plain ordered sequence, used for if/switch bodies.
	Scope BlockType = iota
	// Combinational is an always_comb process body.
	Combinational
	// Sequential is a clocked process body.
	Sequential
)

func (t BlockType) String() string {
	switch t {
	case Scope:
		return "scope"
	case Combinational:
		return "combinational"
	case Sequential:
		return "sequential"
	}
	return "unknown"
}

// EdgeType enumerates clock edges for sequential sensitivity lists.
type EdgeType uint8

const (
	// Posedge triggers on the rising edge.
	Posedge EdgeType = iota
	// Negedge triggers on the falling edge.
	Negedge
)

func (e EdgeType) String() string {
	if e == Posedge {
		return "posedge"
	}
	return "negedge"
}

// EdgeCondition is one sensitivity-list entry of a sequential block.
type EdgeCondition struct {
	Edge   EdgeType
	Signal Signal
}

// StmtBlock is an ordered statement sequence tagged with a block type.
// Sequential blocks additionally carry an ordered, duplicate-free
// sensitivity list.
type StmtBlock struct {
	stmtBase
	blockType  BlockType
	stmts      []Stmt
	conditions []EdgeCondition
}

// BlockType returns the block's clocking domain tag.
func (b *StmtBlock) BlockType() BlockType { return b.blockType }

// Stmts returns the block's statements in insertion order.
func (b *StmtBlock) Stmts() []Stmt { return b.stmts }

// Empty reports whether the block holds no statements.
func (b *StmtBlock) Empty() bool { return len(b.stmts) == 0 }

func (b *StmtBlock) ChildCount() int { return len(b.stmts) }

func (b *StmtBlock) Child(i int) Node {
	if i < 0 || i >= len(b.stmts) {
		return nil
	}
	return b.stmts[i]
}

func (b *StmtBlock) String() string {
	return fmt.Sprintf("%s block (%d stmts)", b.blockType, len(b.stmts))
}

// AddStmt appends stmt to the block. Plain blocks never nest; assignment
// intent must agree with the block's clocking domain.
func (b *StmtBlock) AddStmt(stmt Stmt) error {
	if stmt == nil {
		return diag.Stmtf([]diag.Node{b}, "unable to add nil statement to code block")
	}
	if stmt.StmtKind() == StmtKindBlock {
		return diag.Stmtf([]diag.Node{b, stmt}, "cannot add statement block to another statement block")
	}
	for _, existing := range b.stmts {
		if existing == stmt {
			return diag.Stmtf([]diag.Node{b, stmt}, "cannot add the same statement twice")
		}
	}
	if assign, ok := stmt.(*AssignStmt); ok {
		switch {
		case assign.AssignType() == Undefined:
			// Intent resolved by the enclosing scope at render time.
		case assign.AssignType() == NonBlocking && b.blockType == Combinational:
			return diag.Stmtf([]diag.Node{b, stmt}, "cannot add non-blocking assignment to a combinational block")
		case assign.AssignType() == Blocking && b.blockType == Sequential:
			return diag.Stmtf([]diag.Node{b, stmt}, "cannot add blocking assignment to a sequential block")
		}
	}
	stmt.setParent(b)
	b.stmts = append(b.stmts, stmt)
	return nil
}

// RemoveStmt deletes stmt from the block if present. Removing an assignment
// retracts it from its target's driver set; event fires are detached by the
// removal pass before it deletes them.
func (b *StmtBlock) RemoveStmt(stmt Stmt) {
	for i, existing := range b.stmts {
		if existing == stmt {
			b.stmts = append(b.stmts[:i], b.stmts[i+1:]...)
			if assign, ok := stmt.(*AssignStmt); ok {
				assign.retract()
			}
			return
		}
	}
}

// AddCondition appends a sensitivity-list entry to a sequential block.
// Duplicates are ignored.
func (b *StmtBlock) AddCondition(cond EdgeCondition) error {
	if b.blockType != Sequential {
		return diag.Stmtf([]diag.Node{b}, "sensitivity condition on a %s block", b.blockType)
	}
	if cond.Signal == nil {
		return diag.Stmtf([]diag.Node{b}, "sensitivity condition has no signal")
	}
	for _, existing := range b.conditions {
		if existing.Edge == cond.Edge && existing.Signal == cond.Signal {
			return nil
		}
	}
	b.conditions = append(b.conditions, cond)
	return nil
}

// Conditions returns the sensitivity list in insertion order.
func (b *StmtBlock) Conditions() []EdgeCondition { return b.conditions }

func newBlock(ctx *Context, blockType BlockType) (*StmtBlock, error) {
	b := &StmtBlock{blockType: blockType}
	b.kind = StmtKindBlock
	if err := ctx.register(b, &b.id); err != nil {
		return nil, err
	}
	return b, nil
}

// IfStmt is a conditional with a predicate and scoped taken/untaken bodies.
type IfStmt struct {
	stmtBase
	predicate Signal
	thenBody  *StmtBlock
	elseBody  *StmtBlock
}

// NewIf builds a conditional statement. The predicate must be usable as a
// branch condition: either a relational expression or a 1-bit signal.
func NewIf(predicate Signal) (*IfStmt, error) {
	if predicate == nil {
		return nil, diag.Userf("if predicate is empty")
	}
	relational := false
	if e, ok := predicate.(*Expr); ok {
		relational = e.OpTag().IsRelational()
	}
	if !relational && predicate.Width() != 1 {
		return nil, diag.Stmtf([]diag.Node{predicate},
			"if predicate must be relational or 1-bit wide, got width %d", predicate.Width())
	}
	ctx := predicate.Generator().ctx
	s := &IfStmt{predicate: predicate}
	s.kind = StmtKindIf
	if err := ctx.register(s, &s.id); err != nil {
		return nil, err
	}
	var err error
	if s.thenBody, err = newBlock(ctx, Scope); err != nil {
		return nil, err
	}
	if s.elseBody, err = newBlock(ctx, Scope); err != nil {
		return nil, err
	}
	s.thenBody.setParent(s)
	s.elseBody.setParent(s)
	return s, nil
}

// Predicate returns the branch condition.
func (s *IfStmt) Predicate() Signal { return s.predicate }

// Then returns the taken body.
func (s *IfStmt) Then() *StmtBlock { return s.thenBody }

// Else returns the untaken body.
func (s *IfStmt) Else() *StmtBlock { return s.elseBody }

// AddThen appends stmt to the taken body.
func (s *IfStmt) AddThen(stmt Stmt) error {
	if stmt != nil && stmt.StmtKind() == StmtKindBlock {
		return diag.Stmtf([]diag.Node{s}, "cannot add statement block to the if statement body")
	}
	return s.thenBody.AddStmt(stmt)
}

// AddElse appends stmt to the untaken body.
func (s *IfStmt) AddElse(stmt Stmt) error {
	if stmt != nil && stmt.StmtKind() == StmtKindBlock {
		return diag.Stmtf([]diag.Node{s}, "cannot add statement block to the if statement body")
	}
	return s.elseBody.AddStmt(stmt)
}

func (s *IfStmt) ChildCount() int { return 3 }

func (s *IfStmt) Child(i int) Node {
	switch i {
	case 0:
		return s.predicate
	case 1:
		return s.thenBody
	case 2:
		return s.elseBody
	}
	return nil
}

func (s *IfStmt) String() string {
	return fmt.Sprintf("if (%s)", s.predicate.String())
}

// SwitchCase is one arm of a switch statement. A nil Label marks the
// default arm.
type SwitchCase struct {
	Label *Const
	Body  *StmtBlock
}

// SwitchStmt is a case statement over a non-constant target. Arms keep
// insertion order; the default arm renders last.
type SwitchStmt struct {
	stmtBase
	target Signal
	cases  []SwitchCase
}

// NewSwitch builds a switch statement over target.
func NewSwitch(target Signal) (*SwitchStmt, error) {
	if target == nil {
		return nil, diag.Userf("switch target is empty")
	}
	if target.Kind() == KindConstValue {
		return nil, diag.Stmtf([]diag.Node{target}, "switch target cannot be const value %s", target.Name())
	}
	s := &SwitchStmt{target: target}
	s.kind = StmtKindSwitch
	if err := target.Generator().ctx.register(s, &s.id); err != nil {
		return nil, err
	}
	return s, nil
}

// Target returns the switched signal.
func (s *SwitchStmt) Target() Signal { return s.target }

// Cases returns the arms in insertion order.
func (s *SwitchStmt) Cases() []SwitchCase { return s.cases }

// AddCase appends an arm for label (nil for the default arm) holding stmts,
// and returns its body block. A label equal in value and width to an
// existing arm is rejected.
func (s *SwitchStmt) AddCase(label *Const, stmts ...Stmt) (*StmtBlock, error) {
	for _, c := range s.cases {
		if c.Label == nil && label == nil {
			return nil, diag.Stmtf([]diag.Node{s}, "duplicate default case")
		}
		if c.Label != nil && label != nil &&
			c.Label.Value() == label.Value() && c.Label.Width() == label.Width() {
			return nil, diag.Stmtf([]diag.Node{s, label}, "duplicate case %s", label.String())
		}
	}
	body, err := newBlock(s.target.Generator().ctx, Scope)
	if err != nil {
		return nil, err
	}
	body.setParent(s)
	for _, stmt := range stmts {
		if err := body.AddStmt(stmt); err != nil {
			return nil, err
		}
	}
	s.cases = append(s.cases, SwitchCase{Label: label, Body: body})
	return body, nil
}

func (s *SwitchStmt) ChildCount() int { return len(s.cases) + 1 }

func (s *SwitchStmt) Child(i int) Node {
	if i == 0 {
		return s.target
	}
	if i-1 < len(s.cases) {
		return s.cases[i-1].Body
	}
	return nil
}

func (s *SwitchStmt) String() string {
	return fmt.Sprintf("case (%s)", s.target.String())
}

// Package event implements the debug event layer: fire statements embedded
// in the IR, the extraction pass that harvests their trigger context, and
// the removal pass that strips them before lowering.
package event

import (
	"silica/internal/diag"
	"silica/internal/ir"
)

// Event is a named debug event declaration. Firing it produces a statement
// recording the occurrence together with a field snapshot.
type Event struct {
	name string
}

// New declares an event.
func New(name string) *Event {
	return &Event{name: name}
}

// Name returns the event's name.
func (e *Event) Name() string { return e.name }

// Fire produces the tracing statement capturing fields, in the supplied
// order. The statement still has to be added to a block to take part in a
// module's tree.
func (e *Event) Fire(ctx *ir.Context, fields []ir.EventField) (*ir.EventTracingStmt, error) {
	if ctx == nil {
		return nil, diag.Userf("event %s fired without a construction context", e.name)
	}
	for _, f := range fields {
		if f.Signal == nil {
			return nil, diag.Userf("event %s: field %s has no signal", e.name, f.Name)
		}
	}
	return ir.NewEventTracingStmt(ctx, e.name, fields)
}

// Info is one extracted fire occurrence.
type Info struct {
	// Name is the fired event's name.
	Name string
	// Transaction is the optional transaction label.
	Transaction string
	// Combinational reports whether the enclosing block is combinational
	// rather than clocked.
	Combinational bool
	// Action is the fire's transaction classification.
	Action ir.EventActionType
	// Condition is the innermost conditional expression active at the fire
	// point, nil when the fire is unconditional.
	Condition ir.Signal
	// Fields is the captured name-to-signal snapshot, in fire order.
	Fields []ir.EventField
}

// Extract walks top and every reachable sub-module and returns one record
// per fire statement, in depth-first declaration order. The IR is not
// modified.
func Extract(top *ir.Generator) []Info {
	var out []Info
	visited := make(map[*ir.Generator]struct{})
	extractModule(top, visited, &out)
	return out
}

func extractModule(g *ir.Generator, visited map[*ir.Generator]struct{}, out *[]Info) {
	if g == nil {
		return
	}
	if _, ok := visited[g]; ok {
		return
	}
	visited[g] = struct{}{}
	for _, stmt := range g.Stmts() {
		extractStmt(stmt, false, nil, out)
	}
	for _, child := range g.Children() {
		extractModule(child.Module, visited, out)
	}
}

func extractStmt(stmt ir.Stmt, combinational bool, condition ir.Signal, out *[]Info) {
	switch s := stmt.(type) {
	case *ir.EventTracingStmt:
		*out = append(*out, Info{
			Name:          s.EventName(),
			Transaction:   s.Transaction(),
			Combinational: combinational,
			Action:        s.Action(),
			Condition:     condition,
			Fields:        s.Fields(),
		})
	case *ir.StmtBlock:
		switch s.BlockType() {
		case ir.Combinational:
			combinational = true
		case ir.Sequential:
			combinational = false
		}
		for _, child := range s.Stmts() {
			extractStmt(child, combinational, condition, out)
		}
	case *ir.IfStmt:
		for _, child := range s.Then().Stmts() {
			extractStmt(child, combinational, s.Predicate(), out)
		}
		for _, child := range s.Else().Stmts() {
			extractStmt(child, combinational, s.Predicate(), out)
		}
	case *ir.SwitchStmt:
		for _, arm := range s.Cases() {
			for _, child := range arm.Body.Stmts() {
				extractStmt(child, combinational, condition, out)
			}
		}
	}
}

// Remove deletes every fire statement from top and its reachable
// sub-modules, retracting the driver registrations each fire made. The
// remaining IR carries no trace of the debug construct.
func Remove(top *ir.Generator) {
	visited := make(map[*ir.Generator]struct{})
	removeModule(top, visited)
}

func removeModule(g *ir.Generator, visited map[*ir.Generator]struct{}) {
	if g == nil {
		return
	}
	if _, ok := visited[g]; ok {
		return
	}
	visited[g] = struct{}{}
	for _, stmt := range append([]ir.Stmt(nil), g.Stmts()...) {
		if trace, ok := stmt.(*ir.EventTracingStmt); ok {
			trace.Detach()
			g.RemoveStmt(trace)
			continue
		}
		removeFromStmt(stmt)
	}
	for _, child := range g.Children() {
		removeModule(child.Module, visited)
	}
}

func removeFromStmt(stmt ir.Stmt) {
	switch s := stmt.(type) {
	case *ir.StmtBlock:
		removeFromBlock(s)
	case *ir.IfStmt:
		removeFromBlock(s.Then())
		removeFromBlock(s.Else())
	case *ir.SwitchStmt:
		for _, arm := range s.Cases() {
			removeFromBlock(arm.Body)
		}
	}
}

func removeFromBlock(b *ir.StmtBlock) {
	for _, stmt := range append([]ir.Stmt(nil), b.Stmts()...) {
		if trace, ok := stmt.(*ir.EventTracingStmt); ok {
			trace.Detach()
			b.RemoveStmt(trace)
			continue
		}
		removeFromStmt(stmt)
	}
}

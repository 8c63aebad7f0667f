package serialize

import (
	"silica/internal/diag"
	"silica/internal/ir"
)

// decoder tracks the mapping from archived IDs back to live nodes while an
// archive is being restored.
type decoder struct {
	ctx     *ir.Context
	signals map[uint32]ir.Signal
}

// signalDecoders is the closed tag registry: one decode function per node
// tag, resolved explicitly rather than through implicit global
// registration. A tag outside the registry fails decoding.
var signalDecoders = map[NodeTag]func(*decoder, SignalRec) (ir.Signal, error){
	TagVar:   decodeVar,
	TagExpr:  decodeExpr,
	TagSlice: decodeSlice,
	TagConst: decodeConst,
	TagPort:  decodePort,
}

// Restore rebuilds the design from the archive. Shared signals come back
// shared: every archived reference to one ID resolves to one node.
func (a *Archive) Restore() (*ir.Context, *ir.Generator, error) {
	if a.Schema != Schema {
		return nil, nil, diag.Userf("unsupported archive schema %d, want %d", a.Schema, Schema)
	}
	d := &decoder{ctx: ir.NewContext(), signals: make(map[uint32]ir.Signal)}

	for _, mod := range a.Modules {
		if _, err := d.ctx.NewGenerator(mod.Name); err != nil {
			return nil, nil, err
		}
	}

	// Signals restore in construction order, so operands and slice parents
	// are always live before their dependents.
	for _, rec := range a.Signals {
		decode, ok := signalDecoders[rec.Tag]
		if !ok {
			return nil, nil, diag.Userf("unknown signal tag %d in archive", rec.Tag)
		}
		sig, err := decode(d, rec)
		if err != nil {
			return nil, nil, err
		}
		d.signals[rec.ID] = sig
	}

	for _, mod := range a.Modules {
		g := d.ctx.Module(mod.Name)
		if len(g.Ports()) != len(mod.Ports) || len(g.Vars()) != len(mod.Vars) {
			return nil, nil, diag.Userf("archive module %s is inconsistent with its signal table", mod.Name)
		}
		for _, rec := range mod.Stmts {
			if err := d.topStmt(g, rec); err != nil {
				return nil, nil, err
			}
		}
	}

	top := d.ctx.Module(a.Top)
	if top == nil {
		return nil, nil, diag.Userf("archive top module %s not found", a.Top)
	}
	return d.ctx, top, nil
}

func (d *decoder) module(name string) (*ir.Generator, error) {
	g := d.ctx.Module(name)
	if g == nil {
		return nil, diag.Userf("archive references unknown module %s", name)
	}
	return g, nil
}

func (d *decoder) signal(id uint32) (ir.Signal, error) {
	sig, ok := d.signals[id]
	if !ok {
		return nil, diag.Userf("archive references unknown signal %d", id)
	}
	return sig, nil
}

func decodeVar(d *decoder, rec SignalRec) (ir.Signal, error) {
	g, err := d.module(rec.Module)
	if err != nil {
		return nil, err
	}
	return g.Var(rec.Name, int(rec.Width), rec.Signed)
}

func decodeExpr(d *decoder, rec SignalRec) (ir.Signal, error) {
	left, err := d.signal(rec.Left)
	if err != nil {
		return nil, err
	}
	if !rec.HasRight {
		return ir.UnaryOp(ir.Op(rec.Op), left)
	}
	right, err := d.signal(rec.Right)
	if err != nil {
		return nil, err
	}
	return ir.BinOp(ir.Op(rec.Op), left, right)
}

func decodeSlice(d *decoder, rec SignalRec) (ir.Signal, error) {
	parent, err := d.signal(rec.Parent)
	if err != nil {
		return nil, err
	}
	return ir.Slice(parent, rec.High, rec.Low)
}

func decodeConst(d *decoder, rec SignalRec) (ir.Signal, error) {
	g, err := d.module(rec.Module)
	if err != nil {
		return nil, err
	}
	return g.Constant(rec.Value, int(rec.Width), rec.Signed)
}

func decodePort(d *decoder, rec SignalRec) (ir.Signal, error) {
	g, err := d.module(rec.Module)
	if err != nil {
		return nil, err
	}
	return g.Port(ir.PortDirection(rec.Direction), rec.Name, int(rec.Width), ir.PortType(rec.PortType), rec.Signed)
}

// topStmt rebuilds one top-level statement of g.
func (d *decoder) topStmt(g *ir.Generator, rec StmtRec) error {
	if ir.StmtKind(rec.Kind) == ir.StmtKindBlock {
		var block *ir.StmtBlock
		var err error
		switch ir.BlockType(rec.BlockType) {
		case ir.Combinational:
			block, err = g.Combinational()
		case ir.Sequential:
			block, err = g.Sequential()
		default:
			return diag.Userf("archive has a top-level %s block in %s", ir.BlockType(rec.BlockType), g.Name())
		}
		if err != nil {
			return err
		}
		for _, c := range rec.Conds {
			sig, err := d.signal(c.Signal)
			if err != nil {
				return err
			}
			if err := block.AddCondition(ir.EdgeCondition{Edge: ir.EdgeType(c.Edge), Signal: sig}); err != nil {
				return err
			}
		}
		return d.fillBlock(g, block, rec.Stmts)
	}
	stmt, err := d.buildStmt(g, rec)
	if err != nil {
		return err
	}
	return g.AddStmt(stmt)
}

func (d *decoder) fillBlock(g *ir.Generator, block *ir.StmtBlock, recs []StmtRec) error {
	for _, rec := range recs {
		stmt, err := d.buildStmt(g, rec)
		if err != nil {
			return err
		}
		if err := block.AddStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// buildStmt rebuilds a non-block statement.
func (d *decoder) buildStmt(g *ir.Generator, rec StmtRec) (ir.Stmt, error) {
	switch ir.StmtKind(rec.Kind) {
	case ir.StmtKindAssign:
		left, err := d.signal(rec.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.signal(rec.Right)
		if err != nil {
			return nil, err
		}
		return ir.AssignAs(left, right, ir.AssignmentType(rec.AssignType))
	case ir.StmtKindIf:
		pred, err := d.signal(rec.Predicate)
		if err != nil {
			return nil, err
		}
		s, err := ir.NewIf(pred)
		if err != nil {
			return nil, err
		}
		for _, childRec := range rec.Then {
			child, err := d.buildStmt(g, childRec)
			if err != nil {
				return nil, err
			}
			if err := s.AddThen(child); err != nil {
				return nil, err
			}
		}
		for _, childRec := range rec.Else {
			child, err := d.buildStmt(g, childRec)
			if err != nil {
				return nil, err
			}
			if err := s.AddElse(child); err != nil {
				return nil, err
			}
		}
		return s, nil
	case ir.StmtKindSwitch:
		target, err := d.signal(rec.Target)
		if err != nil {
			return nil, err
		}
		s, err := ir.NewSwitch(target)
		if err != nil {
			return nil, err
		}
		for _, armRec := range rec.Arms {
			var label *ir.Const
			if armRec.HasLabel {
				sig, err := d.signal(armRec.Label)
				if err != nil {
					return nil, err
				}
				c, ok := sig.(*ir.Const)
				if !ok {
					return nil, diag.Userf("archive case label %d is not a constant", armRec.Label)
				}
				label = c
			}
			body, err := s.AddCase(label)
			if err != nil {
				return nil, err
			}
			for _, childRec := range armRec.Body {
				child, err := d.buildStmt(g, childRec)
				if err != nil {
					return nil, err
				}
				if err := body.AddStmt(child); err != nil {
					return nil, err
				}
			}
		}
		return s, nil
	case ir.StmtKindInstance:
		child, err := d.module(rec.TargetModule)
		if err != nil {
			return nil, err
		}
		s, err := ir.NewInstance(g, child, rec.InstanceName)
		if err != nil {
			return nil, err
		}
		for _, connRec := range rec.Conns {
			sig, err := d.signal(connRec.Signal)
			if err != nil {
				return nil, err
			}
			if err := s.Connect(connRec.Port, sig); err != nil {
				return nil, err
			}
		}
		return s, nil
	case ir.StmtKindComment:
		return ir.RestoreComment(d.ctx, rec.Lines)
	case ir.StmtKindEventTrace:
		fields := make([]ir.EventField, 0, len(rec.Fields))
		for _, f := range rec.Fields {
			sig, err := d.signal(f.Signal)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ir.EventField{Name: f.Name, Signal: sig})
		}
		s, err := ir.NewEventTracingStmt(d.ctx, rec.EventName, fields)
		if err != nil {
			return nil, err
		}
		if rec.Transaction != "" || ir.EventActionType(rec.Action) != ir.ActionNone {
			s.SetTransaction(rec.Transaction, ir.EventActionType(rec.Action))
		}
		return s, nil
	default:
		return nil, diag.Userf("unknown statement kind %d in archive", rec.Kind)
	}
}

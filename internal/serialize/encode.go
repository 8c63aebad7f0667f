package serialize

import (
	"silica/internal/diag"
	"silica/internal/ir"
)

// Encode snapshots the whole context into an archive, naming top as the
// design root. Signals are recorded in construction order, so operand
// references always point backwards.
func Encode(ctx *ir.Context, top *ir.Generator) (*Archive, error) {
	if ctx == nil || top == nil {
		return nil, diag.Userf("nothing to serialize")
	}
	a := &Archive{Schema: Schema, Top: top.Name()}

	count := ctx.NodeCount()
	for id := 0; id < count; id++ {
		sig, ok := ctx.Node(ir.NodeID(id)).(ir.Signal)
		if !ok {
			continue
		}
		rec, err := encodeSignal(sig)
		if err != nil {
			return nil, err
		}
		a.Signals = append(a.Signals, rec)
	}

	for _, g := range ctx.Modules() {
		mod := ModuleRec{Name: g.Name()}
		for _, p := range g.Ports() {
			mod.Ports = append(mod.Ports, uint32(p.ID()))
		}
		for _, v := range g.Vars() {
			mod.Vars = append(mod.Vars, uint32(v.ID()))
		}
		for _, stmt := range g.Stmts() {
			rec, err := encodeStmt(stmt)
			if err != nil {
				return nil, err
			}
			mod.Stmts = append(mod.Stmts, rec)
		}
		a.Modules = append(a.Modules, mod)
	}
	return a, nil
}

func encodeSignal(sig ir.Signal) (SignalRec, error) {
	tag, err := tagOf(sig)
	if err != nil {
		return SignalRec{}, err
	}
	rec := SignalRec{
		ID:     uint32(sig.ID()),
		Tag:    tag,
		Name:   sig.Name(),
		Width:  sig.Width(),
		Signed: sig.Signed(),
	}
	if g := sig.Generator(); g != nil {
		rec.Module = g.Name()
	}
	switch v := sig.(type) {
	case *ir.Expr:
		rec.Op = uint8(v.OpTag())
		rec.Left = uint32(v.Left().ID())
		if r := v.Right(); r != nil {
			rec.HasRight = true
			rec.Right = uint32(r.ID())
		}
	case *ir.VarSlice:
		rec.Parent = uint32(v.Parent().ID())
		rec.High = v.High()
		rec.Low = v.Low()
	case *ir.Const:
		rec.Value = v.Value()
	case *ir.Port:
		rec.Direction = uint8(v.Direction())
		rec.PortType = uint8(v.Type())
	}
	return rec, nil
}

// tagOf maps a signal's concrete kind to its archive tag. The mapping is
// closed; a kind outside it is an internal failure.
func tagOf(sig ir.Signal) (NodeTag, error) {
	switch sig.Kind() {
	case ir.KindBase:
		return TagVar, nil
	case ir.KindExpression:
		return TagExpr, nil
	case ir.KindSlice:
		return TagSlice, nil
	case ir.KindConstValue:
		return TagConst, nil
	case ir.KindPortIO:
		return TagPort, nil
	default:
		return 0, diag.Internalf("signal kind %q has no archive tag", sig.Kind())
	}
}

func encodeStmt(stmt ir.Stmt) (StmtRec, error) {
	rec := StmtRec{Kind: uint8(stmt.StmtKind())}
	switch s := stmt.(type) {
	case *ir.AssignStmt:
		rec.Left = uint32(s.Left().ID())
		rec.Right = uint32(s.Right().ID())
		rec.AssignType = uint8(s.AssignType())
	case *ir.StmtBlock:
		rec.BlockType = uint8(s.BlockType())
		for _, c := range s.Conditions() {
			rec.Conds = append(rec.Conds, CondRec{Edge: uint8(c.Edge), Signal: uint32(c.Signal.ID())})
		}
		for _, child := range s.Stmts() {
			childRec, err := encodeStmt(child)
			if err != nil {
				return StmtRec{}, err
			}
			rec.Stmts = append(rec.Stmts, childRec)
		}
	case *ir.IfStmt:
		rec.Predicate = uint32(s.Predicate().ID())
		for _, child := range s.Then().Stmts() {
			childRec, err := encodeStmt(child)
			if err != nil {
				return StmtRec{}, err
			}
			rec.Then = append(rec.Then, childRec)
		}
		for _, child := range s.Else().Stmts() {
			childRec, err := encodeStmt(child)
			if err != nil {
				return StmtRec{}, err
			}
			rec.Else = append(rec.Else, childRec)
		}
	case *ir.SwitchStmt:
		rec.Target = uint32(s.Target().ID())
		for _, arm := range s.Cases() {
			armRec := ArmRec{}
			if arm.Label != nil {
				armRec.HasLabel = true
				armRec.Label = uint32(arm.Label.ID())
			}
			for _, child := range arm.Body.Stmts() {
				childRec, err := encodeStmt(child)
				if err != nil {
					return StmtRec{}, err
				}
				armRec.Body = append(armRec.Body, childRec)
			}
			rec.Arms = append(rec.Arms, armRec)
		}
	case *ir.InstanceStmt:
		rec.TargetModule = s.Target().Name()
		rec.InstanceName = s.InstanceName()
		for _, c := range s.Connections() {
			rec.Conns = append(rec.Conns, ConnRec{Port: c.Port.Name(), Signal: uint32(c.Signal.ID())})
		}
	case *ir.CommentStmt:
		rec.Lines = s.Lines()
	case *ir.EventTracingStmt:
		rec.EventName = s.EventName()
		rec.Transaction = s.Transaction()
		rec.Action = uint8(s.Action())
		for _, f := range s.Fields() {
			rec.Fields = append(rec.Fields, FieldRec{Name: f.Name, Signal: uint32(f.Signal.ID())})
		}
	default:
		return StmtRec{}, diag.Internalf("statement kind %q has no archive encoding", stmt.StmtKind())
	}
	return rec, nil
}

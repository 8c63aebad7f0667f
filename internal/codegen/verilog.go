// Package codegen lowers module containers into SystemVerilog source text.
// Rendering is a pure function of the IR and the indentation unit: the same
// input always produces byte-identical output.
package codegen

import (
	"fmt"
	"strings"

	"silica/internal/diag"
	"silica/internal/ir"
)

// DefaultIndentSize is the number of spaces per nesting level.
const DefaultIndentSize = 2

// Options configures rendering.
type Options struct {
	// IndentSize is the number of spaces per nesting level. Zero means
	// DefaultIndentSize.
	IndentSize int
}

func (o Options) unit() string {
	n := o.IndentSize
	if n <= 0 {
		n = DefaultIndentSize
	}
	return strings.Repeat(" ", n)
}

// Generate renders top and every module it reaches through instantiation
// statements. The result maps module name to definition text, one entry per
// distinct module regardless of how many times it is instantiated.
func Generate(top *ir.Generator, opts Options) (map[string]string, error) {
	if top == nil {
		return nil, diag.Userf("no module to generate")
	}
	out := make(map[string]string)
	for _, g := range reachable(top) {
		src, err := renderModule(g, opts)
		if err != nil {
			return nil, err
		}
		out[g.Name()] = src
	}
	return out, nil
}

// reachable returns top and its reachable sub-modules in depth-first
// instantiation order, each exactly once.
func reachable(top *ir.Generator) []*ir.Generator {
	var order []*ir.Generator
	visited := make(map[*ir.Generator]struct{})
	var visit func(*ir.Generator)
	visit = func(g *ir.Generator) {
		if g == nil {
			return
		}
		if _, ok := visited[g]; ok {
			return
		}
		visited[g] = struct{}{}
		order = append(order, g)
		for _, child := range g.Children() {
			visit(child.Module)
		}
	}
	visit(top)
	return order
}

type moduleGen struct {
	b      strings.Builder
	indent int
	unit   string
}

func (cg *moduleGen) line(text string) {
	for i := 0; i < cg.indent; i++ {
		cg.b.WriteString(cg.unit)
	}
	cg.b.WriteString(text)
	cg.b.WriteByte('\n')
}

func (cg *moduleGen) blank() { cg.b.WriteByte('\n') }

func renderModule(g *ir.Generator, opts Options) (string, error) {
	cg := &moduleGen{unit: opts.unit()}

	if err := cg.header(g); err != nil {
		return "", err
	}
	cg.declarations(g)
	for _, stmt := range g.Stmts() {
		if err := cg.stmt(stmt, true); err != nil {
			return "", err
		}
		cg.blank()
	}
	cg.line(fmt.Sprintf("endmodule   // %s", g.Name()))
	return cg.b.String(), nil
}

func (cg *moduleGen) header(g *ir.Generator) error {
	ports := g.Ports()
	if len(ports) == 0 {
		cg.line(fmt.Sprintf("module %s ();", g.Name()))
		cg.blank()
		return nil
	}
	cg.line(fmt.Sprintf("module %s (", g.Name()))
	cg.indent++
	for i, p := range ports {
		decl := portDecl(p)
		if i < len(ports)-1 {
			decl += ","
		}
		cg.line(decl)
	}
	cg.indent--
	cg.line(");")
	cg.blank()
	return nil
}

func (cg *moduleGen) declarations(g *ir.Generator) {
	vars := g.Vars()
	for _, v := range vars {
		cg.line(fmt.Sprintf("logic %s%s;", widthPrefix(v), v.Name()))
	}
	if len(vars) > 0 {
		cg.blank()
	}
}

// widthPrefix renders the signedness marker and bit-range suffix of a
// declaration: empty for a 1-bit unsigned signal, "[7:0] " for width 8,
// "signed [7:0] " when also signed.
func widthPrefix(s ir.Signal) string {
	var b strings.Builder
	if s.Signed() {
		b.WriteString("signed ")
	}
	if s.Width() > 1 {
		fmt.Fprintf(&b, "[%d:0] ", s.Width()-1)
	}
	return b.String()
}

func portDecl(p *ir.Port) string {
	return fmt.Sprintf("%s logic %s%s", p.Direction(), widthPrefix(p), p.Name())
}

// stmt dispatches on the concrete statement kind. Every kind has exactly
// one rendering rule; an unknown kind is an internal failure.
func (cg *moduleGen) stmt(stmt ir.Stmt, topLevel bool) error {
	switch s := stmt.(type) {
	case *ir.AssignStmt:
		return cg.assign(s, topLevel)
	case *ir.StmtBlock:
		return cg.block(s)
	case *ir.IfStmt:
		return cg.ifStmt(s)
	case *ir.SwitchStmt:
		return cg.switchStmt(s)
	case *ir.InstanceStmt:
		return cg.instance(s)
	case *ir.CommentStmt:
		for _, l := range s.Lines() {
			cg.line("// " + l)
		}
		return nil
	case *ir.EventTracingStmt:
		return diag.Stmtf([]diag.Node{s}, "event fire statement must be extracted before lowering")
	default:
		return diag.Internalf("statement kind %q has no rendering rule", stmt.StmtKind())
	}
}

func (cg *moduleGen) assign(s *ir.AssignStmt, topLevel bool) error {
	lhs, err := exprString(s.Left())
	if err != nil {
		return err
	}
	rhs, err := exprString(s.Right())
	if err != nil {
		return err
	}
	if topLevel {
		cg.line(fmt.Sprintf("assign %s = %s;", lhs, rhs))
		return nil
	}
	op := "="
	if s.AssignType() == ir.NonBlocking {
		op = "<="
	}
	cg.line(fmt.Sprintf("%s %s %s;", lhs, op, rhs))
	return nil
}

func (cg *moduleGen) block(b *ir.StmtBlock) error {
	switch b.BlockType() {
	case ir.Scope:
		return cg.body(b)
	case ir.Combinational:
		cg.line("always_comb begin")
		cg.indent++
		if err := cg.body(b); err != nil {
			return err
		}
		cg.indent--
		cg.line("end")
		return nil
	case ir.Sequential:
		head := "always_ff begin"
		if conds := b.Conditions(); len(conds) > 0 {
			parts := make([]string, 0, len(conds))
			for _, c := range conds {
				sig, err := exprString(c.Signal)
				if err != nil {
					return err
				}
				parts = append(parts, fmt.Sprintf("%s %s", c.Edge, sig))
			}
			head = fmt.Sprintf("always_ff @(%s) begin", strings.Join(parts, ", "))
		}
		cg.line(head)
		cg.indent++
		if err := cg.body(b); err != nil {
			return err
		}
		cg.indent--
		cg.line("end")
		return nil
	default:
		return diag.Internalf("block type %q has no rendering rule", b.BlockType())
	}
}

func (cg *moduleGen) body(b *ir.StmtBlock) error {
	for _, stmt := range b.Stmts() {
		if err := cg.stmt(stmt, false); err != nil {
			return err
		}
	}
	return nil
}

func (cg *moduleGen) ifStmt(s *ir.IfStmt) error {
	cond, err := exprString(s.Predicate())
	if err != nil {
		return err
	}
	cg.line(fmt.Sprintf("if (%s) begin", cond))
	cg.indent++
	if err := cg.body(s.Then()); err != nil {
		return err
	}
	cg.indent--
	cg.line("end")
	if !s.Else().Empty() {
		cg.line("else begin")
		cg.indent++
		if err := cg.body(s.Else()); err != nil {
			return err
		}
		cg.indent--
		cg.line("end")
	}
	return nil
}

func (cg *moduleGen) switchStmt(s *ir.SwitchStmt) error {
	target, err := exprString(s.Target())
	if err != nil {
		return err
	}
	cg.line(fmt.Sprintf("case (%s)", target))
	cg.indent++
	// Labeled arms in insertion order, default last.
	var defaultArm *ir.StmtBlock
	for _, arm := range s.Cases() {
		if arm.Label == nil {
			defaultArm = arm.Body
			continue
		}
		if err := cg.switchArm(arm.Label.String()+":", arm.Body); err != nil {
			return err
		}
	}
	if defaultArm != nil {
		if err := cg.switchArm("default:", defaultArm); err != nil {
			return err
		}
	}
	cg.indent--
	cg.line("endcase")
	return nil
}

func (cg *moduleGen) switchArm(label string, body *ir.StmtBlock) error {
	cg.line(label + " begin")
	cg.indent++
	if err := cg.body(body); err != nil {
		return err
	}
	cg.indent--
	cg.line("end")
	return nil
}

func (cg *moduleGen) instance(s *ir.InstanceStmt) error {
	conns := s.Connections()
	if len(conns) == 0 {
		cg.line(fmt.Sprintf("%s %s ();", s.Target().Name(), s.InstanceName()))
		return nil
	}
	cg.line(fmt.Sprintf("%s %s (", s.Target().Name(), s.InstanceName()))
	cg.indent++
	for i, c := range conns {
		sig, err := exprString(c.Signal)
		if err != nil {
			return err
		}
		text := fmt.Sprintf(".%s(%s)", c.Port.Name(), sig)
		if i < len(conns)-1 {
			text += ","
		}
		cg.line(text)
	}
	cg.indent--
	cg.line(");")
	return nil
}

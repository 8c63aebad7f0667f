package codegen_test

import (
	"errors"
	"testing"

	"silica/internal/codegen"
	"silica/internal/diag"
	"silica/internal/ir"
)

func newModule(t *testing.T, name string) (*ir.Context, *ir.Generator) {
	t.Helper()
	ctx := ir.NewContext()
	g, err := ctx.NewGenerator(name)
	if err != nil {
		t.Fatalf("NewGenerator(%q): %v", name, err)
	}
	return ctx, g
}

func render(t *testing.T, top *ir.Generator) map[string]string {
	t.Helper()
	srcs, err := codegen.Generate(top, codegen.Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return srcs
}

// buildAdder assembles the basic combinational scenario: two internal
// signals summed into an output port by a continuous assignment.
func buildAdder(t *testing.T) *ir.Generator {
	t.Helper()
	_, g := newModule(t, "mod")
	out, err := g.Output("out", 8)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	a, err := g.Var("a", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	b, err := g.Var("b", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	sum, err := ir.Add(a, b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	s, err := ir.Assign(out, sum)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := g.AddStmt(s); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}
	return g
}

func TestGenerateBasicAssign(t *testing.T) {
	g := buildAdder(t)
	want := `module mod (
  output logic [7:0] out
);

logic [7:0] a;
logic [7:0] b;

assign out = a + b;

endmodule   // mod
`
	got := render(t, g)["mod"]
	if got != want {
		t.Errorf("rendered module mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// TestGenerateDeterminism checks repeated and concurrent rendering produce
// byte-identical text.
func TestGenerateDeterminism(t *testing.T) {
	g := buildAdder(t)
	first := render(t, g)
	for i := 0; i < 10; i++ {
		again := render(t, g)
		if again["mod"] != first["mod"] {
			t.Fatalf("run %d produced different text", i)
		}
	}
	parallel, err := codegen.GenerateParallel(g, codegen.Options{})
	if err != nil {
		t.Fatalf("GenerateParallel: %v", err)
	}
	if len(parallel) != len(first) || parallel["mod"] != first["mod"] {
		t.Errorf("parallel rendering differs from sequential")
	}
}

func TestGenerateDeclarations(t *testing.T) {
	_, g := newModule(t, "decls")
	if _, err := g.Var("flag", 1, false); err != nil {
		t.Fatalf("Var: %v", err)
	}
	if _, err := g.Var("count", 8, false); err != nil {
		t.Fatalf("Var: %v", err)
	}
	if _, err := g.Var("offset", 16, true); err != nil {
		t.Fatalf("Var: %v", err)
	}
	want := `module decls ();

logic flag;
logic [7:0] count;
logic signed [15:0] offset;

endmodule   // decls
`
	got := render(t, g)["decls"]
	if got != want {
		t.Errorf("declarations mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// TestGenerateNestedConditional checks the clocked scenario: an if nested in
// an always_ff body indents one unit past the block body and omits the empty
// else branch.
func TestGenerateNestedConditional(t *testing.T) {
	_, g := newModule(t, "reg8")
	clk, err := g.Clock("clk")
	if err != nil {
		t.Fatalf("Clock: %v", err)
	}
	en, err := g.Input("en", 1)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	d, err := g.Input("d", 8)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	q, err := g.Output("q", 8)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}

	seq, err := g.Sequential(ir.EdgeCondition{Edge: ir.Posedge, Signal: clk})
	if err != nil {
		t.Fatalf("Sequential: %v", err)
	}
	branch, err := ir.NewIf(en)
	if err != nil {
		t.Fatalf("NewIf: %v", err)
	}
	load, err := ir.AssignAs(q, d, ir.NonBlocking)
	if err != nil {
		t.Fatalf("AssignAs: %v", err)
	}
	if err := branch.AddThen(load); err != nil {
		t.Fatalf("AddThen: %v", err)
	}
	if err := seq.AddStmt(branch); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}

	want := `module reg8 (
  input logic clk,
  input logic en,
  input logic [7:0] d,
  output logic [7:0] q
);

always_ff @(posedge clk) begin
  if (en) begin
    q <= d;
  end
end

endmodule   // reg8
`
	got := render(t, g)["reg8"]
	if got != want {
		t.Errorf("clocked conditional mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateElseBranch(t *testing.T) {
	_, g := newModule(t, "mux")
	sel, err := g.Input("sel", 1)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	a, err := g.Input("a", 4)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	b, err := g.Input("b", 4)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	out, err := g.Output("out", 4)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}

	comb, err := g.Combinational()
	if err != nil {
		t.Fatalf("Combinational: %v", err)
	}
	branch, err := ir.NewIf(sel)
	if err != nil {
		t.Fatalf("NewIf: %v", err)
	}
	takeA, err := ir.Assign(out, a)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	takeB, err := ir.Assign(out, b)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := branch.AddThen(takeA); err != nil {
		t.Fatalf("AddThen: %v", err)
	}
	if err := branch.AddElse(takeB); err != nil {
		t.Fatalf("AddElse: %v", err)
	}
	if err := comb.AddStmt(branch); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}

	want := `module mux (
  input logic sel,
  input logic [3:0] a,
  input logic [3:0] b,
  output logic [3:0] out
);

always_comb begin
  if (sel) begin
    out = a;
  end
  else begin
    out = b;
  end
end

endmodule   // mux
`
	got := render(t, g)["mux"]
	if got != want {
		t.Errorf("else branch mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateSwitch(t *testing.T) {
	_, g := newModule(t, "sel4")
	sel, err := g.Input("sel", 2)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	a, err := g.Input("a", 8)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	b, err := g.Input("b", 8)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	out, err := g.Output("out", 8)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}

	comb, err := g.Combinational()
	if err != nil {
		t.Fatalf("Combinational: %v", err)
	}
	sw, err := ir.NewSwitch(sel)
	if err != nil {
		t.Fatalf("NewSwitch: %v", err)
	}
	takeA, err := ir.Assign(out, a)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	takeB, err := ir.Assign(out, b)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	zero, err := g.Constant(0, 2, false)
	if err != nil {
		t.Fatalf("Constant: %v", err)
	}
	// Default arm first on purpose: it must still render last.
	if _, err := sw.AddCase(nil, takeB); err != nil {
		t.Fatalf("AddCase: %v", err)
	}
	if _, err := sw.AddCase(zero, takeA); err != nil {
		t.Fatalf("AddCase: %v", err)
	}
	if err := comb.AddStmt(sw); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}

	want := `module sel4 (
  input logic [1:0] sel,
  input logic [7:0] a,
  input logic [7:0] b,
  output logic [7:0] out
);

always_comb begin
  case (sel)
    2'h0: begin
      out = a;
    end
    default: begin
      out = b;
    end
  endcase
end

endmodule   // sel4
`
	got := render(t, g)["sel4"]
	if got != want {
		t.Errorf("switch mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// TestGenerateInstance checks the hierarchical scenario: the parent renders
// the three connections in insertion order and the child module renders
// exactly once.
func TestGenerateInstance(t *testing.T) {
	ctx, parent := newModule(t, "top")
	child, err := ctx.NewGenerator("adder")
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	lhs, err := child.Input("lhs", 8)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	rhs, err := child.Input("rhs", 8)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	sumPort, err := child.Output("sum", 8)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	sum, err := ir.Add(lhs, rhs)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	drive, err := ir.Assign(sumPort, sum)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := child.AddStmt(drive); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}

	a, err := parent.Var("a", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	b, err := parent.Var("b", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	out, err := parent.Var("out", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	inst, err := ir.NewInstance(parent, child, "u_adder")
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	for _, bind := range []struct {
		port string
		sig  ir.Signal
	}{{"lhs", a}, {"rhs", b}, {"sum", out}} {
		if err := inst.Connect(bind.port, bind.sig); err != nil {
			t.Fatalf("Connect(%s): %v", bind.port, err)
		}
	}
	if err := parent.AddStmt(inst); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}

	srcs := render(t, parent)
	if len(srcs) != 2 {
		t.Fatalf("module count = %d, want top and adder", len(srcs))
	}
	wantTop := `module top ();

logic [7:0] a;
logic [7:0] b;
logic [7:0] out;

adder u_adder (
  .lhs(a),
  .rhs(b),
  .sum(out)
);

endmodule   // top
`
	if srcs["top"] != wantTop {
		t.Errorf("instance mismatch\ngot:\n%s\nwant:\n%s", srcs["top"], wantTop)
	}
	wantChild := `module adder (
  input logic [7:0] lhs,
  input logic [7:0] rhs,
  output logic [7:0] sum
);

assign sum = lhs + rhs;

endmodule   // adder
`
	if srcs["adder"] != wantChild {
		t.Errorf("child mismatch\ngot:\n%s\nwant:\n%s", srcs["adder"], wantChild)
	}
}

func TestGenerateSliceAndConst(t *testing.T) {
	_, g := newModule(t, "pack")
	out, err := g.Output("out", 8)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	lo, err := g.Var("lo", 4, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	low, err := ir.Slice(out, 3, 0)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	high, err := ir.Slice(out, 7, 4)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	k, err := g.Constant(5, 4, false)
	if err != nil {
		t.Fatalf("Constant: %v", err)
	}
	driveLow, err := ir.Assign(low, lo)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	driveHigh, err := ir.Assign(high, k)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := g.AddStmt(driveLow); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}
	if err := g.AddStmt(driveHigh); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}

	want := `module pack (
  output logic [7:0] out
);

logic [3:0] lo;

assign out[3:0] = lo;

assign out[7:4] = 4'h5;

endmodule   // pack
`
	got := render(t, g)["pack"]
	if got != want {
		t.Errorf("slice/const mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateComment(t *testing.T) {
	_, g := newModule(t, "noted")
	c, err := g.Comment("datapath placeholder")
	if err != nil {
		t.Fatalf("Comment: %v", err)
	}
	if err := g.AddStmt(c); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}
	want := `module noted ();

// datapath placeholder

endmodule   // noted
`
	got := render(t, g)["noted"]
	if got != want {
		t.Errorf("comment mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateIndentOption(t *testing.T) {
	_, g := newModule(t, "mod")
	if _, err := g.Output("out", 8); err != nil {
		t.Fatalf("Output: %v", err)
	}
	srcs, err := codegen.Generate(g, codegen.Options{IndentSize: 4})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := `module mod (
    output logic [7:0] out
);

endmodule   // mod
`
	if srcs["mod"] != want {
		t.Errorf("indent option mismatch\ngot:\n%s\nwant:\n%s", srcs["mod"], want)
	}
}

// TestGenerateRejectsEventFire checks a fire statement left in the tree
// fails lowering instead of leaking into the output.
func TestGenerateRejectsEventFire(t *testing.T) {
	ctx, g := newModule(t, "mod")
	x, err := g.Var("x", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	fire, err := ir.NewEventTracingStmt(ctx, "probe", []ir.EventField{{Name: "x", Signal: x}})
	if err != nil {
		t.Fatalf("NewEventTracingStmt: %v", err)
	}
	comb, err := g.Combinational()
	if err != nil {
		t.Fatalf("Combinational: %v", err)
	}
	if err := comb.AddStmt(fire); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}
	if _, err := codegen.Generate(g, codegen.Options{}); !errors.Is(err, diag.ErrStmt) {
		t.Errorf("lowering with a fire statement error = %v, want stmt diagnostic", err)
	}
}

func TestGenerateNilTop(t *testing.T) {
	if _, err := codegen.Generate(nil, codegen.Options{}); !errors.Is(err, diag.ErrUser) {
		t.Errorf("nil top error = %v, want user diagnostic", err)
	}
}

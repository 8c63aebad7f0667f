package ir

import (
	"fortio.org/safecast"

	"silica/internal/diag"
)

// Context owns every node of one design. It hands out creation-ordered node
// IDs and keeps the module registry; nodes never outlive their Context.
type Context struct {
	nodes        []Node
	modules      []*Generator
	moduleByName map[string]*Generator
}

// NewContext creates an empty construction context.
func NewContext() *Context {
	return &Context{moduleByName: make(map[string]*Generator)}
}

// register records n and assigns its creation-ordered ID.
func (c *Context) register(n Node, id *NodeID) error {
	slot, err := safecast.Conv[uint32](len(c.nodes))
	if err != nil {
		return diag.Internalf("node table overflow: %v", err)
	}
	*id = NodeID(slot)
	c.nodes = append(c.nodes, n)
	return nil
}

// Node returns the node with the given ID, or nil.
func (c *Context) Node(id NodeID) Node {
	if int(id) >= len(c.nodes) {
		return nil
	}
	return c.nodes[id]
}

// NodeCount returns how many nodes the context owns.
func (c *Context) NodeCount() int { return len(c.nodes) }

// Modules returns the design's modules in declaration order.
func (c *Context) Modules() []*Generator { return c.modules }

// Module returns the module named name, or nil.
func (c *Context) Module(name string) *Generator { return c.moduleByName[name] }

// NewGenerator creates a module container. Module names are unique within a
// context.
func (c *Context) NewGenerator(name string) (*Generator, error) {
	if name == "" {
		return nil, diag.Userf("module name is empty")
	}
	if _, ok := c.moduleByName[name]; ok {
		return nil, diag.Generatorf(nil, "module %s already exists", name)
	}
	g := &Generator{
		ctx:          c,
		name:         name,
		signalByName: make(map[string]Signal),
		childByName:  make(map[string]*Generator),
	}
	if err := c.register(g, &g.id); err != nil {
		return nil, err
	}
	c.modules = append(c.modules, g)
	c.moduleByName[name] = g
	return g, nil
}

// ChildInstance is one named sub-module of a generator.
type ChildInstance struct {
	InstanceName string
	Module       *Generator
}

// Generator is the module container: the owning context of one design
// unit's ports, internal signals and statement tree, and the factory every
// node is created through. Declaration order is preserved because it is
// significant for the generated text.
type Generator struct {
	id   NodeID
	ctx  *Context
	name string

	ports        []*Port
	vars         []*Var
	signalByName map[string]Signal

	stmts []Stmt

	children    []ChildInstance
	childByName map[string]*Generator
}

// Name returns the module name.
func (g *Generator) Name() string { return g.name }

// Context returns the owning construction context.
func (g *Generator) Context() *Context { return g.ctx }

func (g *Generator) ID() NodeID     { return g.id }
func (g *Generator) ChildCount() int { return len(g.stmts) }
func (g *Generator) Child(i int) Node {
	if i < 0 || i >= len(g.stmts) {
		return nil
	}
	return g.stmts[i]
}
func (g *Generator) String() string { return g.name }

// Ports returns the module's ports in declaration order.
func (g *Generator) Ports() []*Port { return g.ports }

// Vars returns the module's internal signals in declaration order.
func (g *Generator) Vars() []*Var { return g.vars }

// Stmts returns the module's top-level statements in insertion order.
func (g *Generator) Stmts() []Stmt { return g.stmts }

// Children returns the instantiated sub-modules in instantiation order.
func (g *Generator) Children() []ChildInstance { return g.children }

// GetPort returns the port named name, or nil.
func (g *Generator) GetPort(name string) *Port {
	if p, ok := g.signalByName[name].(*Port); ok {
		return p
	}
	return nil
}

// GetVar returns the internal signal named name, or nil.
func (g *Generator) GetVar(name string) *Var {
	if v, ok := g.signalByName[name].(*Var); ok {
		return v
	}
	return nil
}

func (g *Generator) reserveName(name string) error {
	if name == "" {
		return diag.Userf("signal name is empty in module %s", g.name)
	}
	if existing, ok := g.signalByName[name]; ok {
		return diag.Generatorf([]diag.Node{g, existing}, "%s already exists in %s", name, g.name)
	}
	return nil
}

func (g *Generator) convWidth(width int) (uint32, error) {
	w, err := safecast.Conv[uint32](width)
	if err != nil || w == 0 {
		return 0, diag.Userf("illegal signal width %d in module %s", width, g.name)
	}
	return w, nil
}

// Var declares an internal signal.
func (g *Generator) Var(name string, width int, signed bool) (*Var, error) {
	if err := g.reserveName(name); err != nil {
		return nil, err
	}
	w, err := g.convWidth(width)
	if err != nil {
		return nil, err
	}
	v, err := newVar(g, name, w, signed)
	if err != nil {
		return nil, err
	}
	g.vars = append(g.vars, v)
	g.signalByName[name] = v
	return v, nil
}

// Port declares a port with full control over direction, role and
// signedness.
func (g *Generator) Port(direction PortDirection, name string, width int, portType PortType, signed bool) (*Port, error) {
	if err := g.reserveName(name); err != nil {
		return nil, err
	}
	w, err := g.convWidth(width)
	if err != nil {
		return nil, err
	}
	p, err := newPort(g, direction, name, w, portType, signed)
	if err != nil {
		return nil, err
	}
	g.ports = append(g.ports, p)
	g.signalByName[name] = p
	return p, nil
}

// Input declares an unsigned data input.
func (g *Generator) Input(name string, width int) (*Port, error) {
	return g.Port(In, name, width, Data, false)
}

// Output declares an unsigned data output.
func (g *Generator) Output(name string, width int) (*Port, error) {
	return g.Port(Out, name, width, Data, false)
}

// Clock declares a 1-bit clock input.
func (g *Generator) Clock(name string) (*Port, error) {
	return g.Port(In, name, 1, Clock, false)
}

// Reset declares a 1-bit asynchronous reset input.
func (g *Generator) Reset(name string) (*Port, error) {
	return g.Port(In, name, 1, AsyncReset, false)
}

// Constant creates a fixed value node owned by this module.
func (g *Generator) Constant(value int64, width int, signed bool) (*Const, error) {
	w, err := g.convWidth(width)
	if err != nil {
		return nil, err
	}
	return newConst(g, value, w, signed)
}

// Comment creates a comment statement wrapped at the default width.
func (g *Generator) Comment(text string) (*CommentStmt, error) {
	return NewComment(g.ctx, text)
}

// AddStmt appends a statement to the module's top level.
func (g *Generator) AddStmt(stmt Stmt) error {
	if stmt == nil {
		return diag.Stmtf([]diag.Node{g}, "unable to add nil statement to module %s", g.name)
	}
	for _, existing := range g.stmts {
		if existing == stmt {
			return diag.Stmtf([]diag.Node{g, stmt}, "cannot add the same statement twice")
		}
	}
	stmt.setParent(g)
	g.stmts = append(g.stmts, stmt)
	return nil
}

// RemoveStmt deletes a top-level statement if present. Removing an
// assignment retracts it from its target's driver set.
func (g *Generator) RemoveStmt(stmt Stmt) {
	for i, existing := range g.stmts {
		if existing == stmt {
			g.stmts = append(g.stmts[:i], g.stmts[i+1:]...)
			if assign, ok := stmt.(*AssignStmt); ok {
				assign.retract()
			}
			return
		}
	}
}

// Combinational creates an always_comb block and appends it to the module.
func (g *Generator) Combinational() (*StmtBlock, error) {
	b, err := newBlock(g.ctx, Combinational)
	if err != nil {
		return nil, err
	}
	if err := g.AddStmt(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Sequential creates a clocked block sensitive to conds and appends it to
// the module.
func (g *Generator) Sequential(conds ...EdgeCondition) (*StmtBlock, error) {
	b, err := newBlock(g.ctx, Sequential)
	if err != nil {
		return nil, err
	}
	for _, cond := range conds {
		if err := b.AddCondition(cond); err != nil {
			return nil, err
		}
	}
	if err := g.AddStmt(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (g *Generator) addChild(instanceName string, child *Generator) error {
	if instanceName == "" {
		return diag.Userf("instance name is empty in module %s", g.name)
	}
	if _, ok := g.childByName[instanceName]; ok {
		return diag.Generatorf([]diag.Node{g, child}, "instance %s already exists in %s", instanceName, g.name)
	}
	g.children = append(g.children, ChildInstance{InstanceName: instanceName, Module: child})
	g.childByName[instanceName] = child
	return nil
}

// CheckDrivers verifies that no signal or cached bit range of this module
// has conflicting drivers: at most one whole-signal assignment, at most one
// assignment per bit range, and never both at once.
func (g *Generator) CheckDrivers() error {
	check := func(s Signal) error {
		whole := assignSinks(s)
		if len(whole) > 1 {
			return diag.Generatorf(driverNodes(s, whole), "%s is driven by multiple nets", s.Name())
		}
		for _, sl := range Slices(s) {
			partial := assignSinks(sl)
			if len(partial) > 1 {
				return diag.Generatorf(driverNodes(sl, partial), "%s is driven by multiple nets", sl.Name())
			}
			if len(partial) > 0 && len(whole) > 0 {
				return diag.Generatorf(driverNodes(s, whole), "%s is driven by both whole-signal and slice assignments", s.Name())
			}
		}
		return nil
	}
	for _, p := range g.ports {
		if err := check(p); err != nil {
			return err
		}
	}
	for _, v := range g.vars {
		if err := check(v); err != nil {
			return err
		}
	}
	return nil
}

// CheckDesignDrivers runs CheckDrivers over top and every module reachable
// through instantiation, each exactly once, failing on the first conflict.
func CheckDesignDrivers(top *Generator) error {
	visited := make(map[*Generator]struct{})
	var visit func(*Generator) error
	visit = func(g *Generator) error {
		if g == nil {
			return nil
		}
		if _, ok := visited[g]; ok {
			return nil
		}
		visited[g] = struct{}{}
		if err := g.CheckDrivers(); err != nil {
			return err
		}
		for _, child := range g.children {
			if err := visit(child.Module); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(top)
}

// assignSinks filters a driver set down to assignment statements, dropping
// debug-only registrations.
func assignSinks(s Signal) []*AssignStmt {
	var out []*AssignStmt
	for _, sink := range s.Sinks() {
		if a, ok := sink.(*AssignStmt); ok {
			out = append(out, a)
		}
	}
	return out
}

func driverNodes(s Signal, drivers []*AssignStmt) []diag.Node {
	nodes := []diag.Node{s}
	for _, d := range drivers {
		nodes = append(nodes, d)
	}
	return nodes
}

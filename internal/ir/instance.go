package ir

import (
	"fmt"

	"silica/internal/diag"
)

// PortConnection binds one child port to a signal of the instantiating
// module.
type PortConnection struct {
	Port   *Port
	Signal Signal
}

// InstanceStmt instantiates a child module inside a parent module and
// carries the named port connections, in the order they were added.
type InstanceStmt struct {
	stmtBase
	parent       *Generator
	target       *Generator
	instanceName string
	connections  []PortConnection
}

// NewInstance creates an instantiation of target inside parent under
// instanceName. Connections are added afterwards with Connect.
func NewInstance(parent, target *Generator, instanceName string) (*InstanceStmt, error) {
	if parent == nil || target == nil {
		return nil, diag.Userf("instance needs both a parent and a target module")
	}
	if parent.ctx != target.ctx {
		return nil, diag.Generatorf([]diag.Node{parent, target},
			"cannot instantiate %s: different construction contexts", target.Name())
	}
	if parent == target {
		return nil, diag.Generatorf([]diag.Node{parent}, "%s cannot instantiate itself", parent.Name())
	}
	if err := parent.addChild(instanceName, target); err != nil {
		return nil, err
	}
	s := &InstanceStmt{parent: parent, target: target, instanceName: instanceName}
	s.kind = StmtKindInstance
	if err := parent.ctx.register(s, &s.id); err != nil {
		return nil, err
	}
	return s, nil
}

// Target returns the instantiated module.
func (s *InstanceStmt) Target() *Generator { return s.target }

// InstanceName returns the instance label.
func (s *InstanceStmt) InstanceName() string { return s.instanceName }

// Connections returns the port bindings in the order they were added.
func (s *InstanceStmt) Connections() []PortConnection { return s.connections }

// Connect binds the target's port named portName to sig. Width and
// signedness must match; a port connects at most once.
func (s *InstanceStmt) Connect(portName string, sig Signal) error {
	port := s.target.GetPort(portName)
	if port == nil {
		return diag.Generatorf([]diag.Node{s.target},
			"%s has no port named %s", s.target.Name(), portName)
	}
	if sig == nil {
		return diag.Userf("%s.%s is connected to nothing", s.target.Name(), portName)
	}
	for _, c := range s.connections {
		if c.Port == port {
			return diag.Stmtf([]diag.Node{s, port},
				"%s.%s is connected twice", s.target.Name(), portName)
		}
	}
	if port.Width() != sig.Width() {
		return diag.Varf([]diag.Node{port, sig},
			"%s.%s width mismatch: %d and %d", s.target.Name(), portName, port.Width(), sig.Width())
	}
	if port.Signed() != sig.Signed() {
		return diag.Varf([]diag.Node{port, sig},
			"%s.%s sign mismatch", s.target.Name(), portName)
	}
	s.connections = append(s.connections, PortConnection{Port: port, Signal: sig})
	return nil
}

func (s *InstanceStmt) String() string {
	return fmt.Sprintf("%s %s (...)", s.target.Name(), s.instanceName)
}

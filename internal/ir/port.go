package ir

import "silica/internal/diag"

// PortDirection enumerates port directions.
type PortDirection uint8

const (
	// In is an input port.
	In PortDirection = iota
	// Out is an output port.
	Out
)

func (d PortDirection) String() string {
	if d == In {
		return "input"
	}
	return "output"
}

// PortType classifies a port's role in the design.
type PortType uint8

const (
	// Data is an ordinary data port.
	Data PortType = iota
	// Clock is a clock input.
	Clock
	// AsyncReset is an asynchronous reset.
	AsyncReset
	// Reset is a synchronous reset.
	Reset
	// ClockEnable gates a clock.
	ClockEnable
)

func (t PortType) String() string {
	switch t {
	case Data:
		return "data"
	case Clock:
		return "clock"
	case AsyncReset:
		return "async_reset"
	case Reset:
		return "reset"
	case ClockEnable:
		return "clock_enable"
	}
	return "unknown"
}

// Port is a module boundary signal.
type Port struct {
	varBase
	direction PortDirection
	portType  PortType
}

// Direction returns the port direction.
func (p *Port) Direction() PortDirection { return p.direction }

// Type returns the port's role.
func (p *Port) Type() PortType { return p.portType }

func (p *Port) String() string { return p.name }

func newPort(gen *Generator, direction PortDirection, name string, width uint32, portType PortType, signed bool) (*Port, error) {
	if portType != Data && width > 1 {
		return nil, diag.Userf("%s's width has to be 1, got %d", name, width)
	}
	p := &Port{direction: direction, portType: portType}
	p.init(gen, p, name, width, signed, KindPortIO)
	if err := gen.ctx.register(p, &p.id); err != nil {
		return nil, err
	}
	return p, nil
}

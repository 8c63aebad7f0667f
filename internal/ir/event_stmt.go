package ir

import "fmt"

// EventActionType classifies what an event fire marks.
type EventActionType uint8

const (
	// ActionNone is a plain occurrence.
	ActionNone EventActionType = iota
	// ActionStart opens a transaction.
	ActionStart
	// ActionEnd closes a transaction.
	ActionEnd
)

func (t EventActionType) String() string {
	switch t {
	case ActionNone:
		return "none"
	case ActionStart:
		return "start"
	case ActionEnd:
		return "end"
	}
	return "unknown"
}

// EventField is one named signal captured at fire time. Fields keep the
// order they were supplied in.
type EventField struct {
	Name   string
	Signal Signal
}

// EventTracingStmt records a named debug occurrence and a field snapshot.
// It is excluded from synthesizable output: the extraction pass harvests
// and removes it before lowering. Creation registers the statement in every
// field signal's driver set so the signals stay observably used; Detach
// retracts those registrations.
type EventTracingStmt struct {
	stmtBase
	eventName   string
	transaction string
	action      EventActionType
	fields      []EventField
}

// NewEventTracingStmt builds a fire statement for eventName capturing
// fields.
func NewEventTracingStmt(ctx *Context, eventName string, fields []EventField) (*EventTracingStmt, error) {
	s := &EventTracingStmt{eventName: eventName, fields: fields}
	s.kind = StmtKindEventTrace
	if err := ctx.register(s, &s.id); err != nil {
		return nil, err
	}
	for _, f := range fields {
		f.Signal.base().addSink(s)
	}
	return s, nil
}

// EventName returns the fired event's name.
func (s *EventTracingStmt) EventName() string { return s.eventName }

// Transaction returns the optional transaction label.
func (s *EventTracingStmt) Transaction() string { return s.transaction }

// SetTransaction labels the fire with a transaction and an action kind.
func (s *EventTracingStmt) SetTransaction(label string, action EventActionType) {
	s.transaction = label
	s.action = action
}

// Action returns the fire's action classification.
func (s *EventTracingStmt) Action() EventActionType { return s.action }

// Fields returns the captured snapshot in supplied order.
func (s *EventTracingStmt) Fields() []EventField { return s.fields }

// Detach retracts the driver-set registrations made at creation. The
// extraction pass calls this when deleting the statement from the tree.
func (s *EventTracingStmt) Detach() {
	for _, f := range s.fields {
		f.Signal.base().removeSink(s)
	}
}

func (s *EventTracingStmt) String() string {
	return fmt.Sprintf("event %s (%d fields)", s.eventName, len(s.fields))
}

// Package diag defines the error taxonomy shared by IR construction and
// lowering. Errors fail fast at the point of detection and carry references
// to the offending nodes so a front end can reconstruct a trace; the core
// itself never formats beyond making nodes printable.
package diag

import (
	"fmt"
	"strings"
)

// Kind classifies an error per the compiler taxonomy.
type Kind uint8

const (
	// KindVar is an invalid operation on a signal.
	KindVar Kind = iota
	// KindStmt is an invalid statement construction.
	KindStmt
	// KindGenerator is a semantic violation at the module level.
	KindGenerator
	// KindInternal is a violated compiler invariant. It indicates a bug in
	// the core, not in caller input.
	KindInternal
	// KindUser is a caller-facing misuse surfaced without wrapping.
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindVar:
		return "var"
	case KindStmt:
		return "stmt"
	case KindGenerator:
		return "generator"
	case KindInternal:
		return "internal"
	case KindUser:
		return "user"
	}
	return "unknown"
}

// Node is the printable surface of an IR node as seen from diagnostics.
// The association is read-only; diag never owns or mutates nodes.
type Node interface {
	fmt.Stringer
}

// Error is a typed construction or lowering failure. Nodes lists the IR
// nodes implicated in the failure, in the order they were involved.
type Error struct {
	Kind    Kind
	Message string
	Nodes   []Node
}

func (e *Error) Error() string {
	if len(e.Nodes) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	parts := make([]string, 0, len(e.Nodes))
	for _, n := range e.Nodes {
		if n == nil {
			continue
		}
		parts = append(parts, n.String())
	}
	return fmt.Sprintf("%s: %s [%s]", e.Kind, e.Message, strings.Join(parts, "; "))
}

// Is reports kind equality so callers can match with errors.Is against the
// sentinel helpers below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is matching by kind.
var (
	ErrVar       = &Error{Kind: KindVar}
	ErrStmt      = &Error{Kind: KindStmt}
	ErrGenerator = &Error{Kind: KindGenerator}
	ErrInternal  = &Error{Kind: KindInternal}
	ErrUser      = &Error{Kind: KindUser}
)

// Varf builds a signal error.
func Varf(nodes []Node, format string, args ...any) *Error {
	return &Error{Kind: KindVar, Message: fmt.Sprintf(format, args...), Nodes: nodes}
}

// Stmtf builds a statement error.
func Stmtf(nodes []Node, format string, args ...any) *Error {
	return &Error{Kind: KindStmt, Message: fmt.Sprintf(format, args...), Nodes: nodes}
}

// Generatorf builds a module-level error.
func Generatorf(nodes []Node, format string, args ...any) *Error {
	return &Error{Kind: KindGenerator, Message: fmt.Sprintf(format, args...), Nodes: nodes}
}

// Internalf builds an internal consistency error.
func Internalf(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// Userf builds a caller-facing misuse error.
func Userf(format string, args ...any) *Error {
	return &Error{Kind: KindUser, Message: fmt.Sprintf(format, args...)}
}

// Package ir implements the in-memory representation of a hardware design:
// typed signals, expression trees, statements and the module containers that
// own them. Nodes are created through factory methods on a Context or a
// Generator and stay valid for the lifetime of their Context.
package ir

// NodeID identifies a node within its Context. IDs are assigned in creation
// order and are stable for the Context's lifetime; the serialization layer
// uses them to preserve sharing across a round trip.
type NodeID uint32

// Node is the capability shared by every IR node: enumerable children for
// generic tree walks plus a Context-stable identity.
type Node interface {
	// ID returns the node's Context-stable identity.
	ID() NodeID
	// ChildCount returns the number of child nodes.
	ChildCount() int
	// Child returns the child at index i, or nil when out of range.
	Child(i int) Node
}

// Walk visits n and its children in depth-first, declaration order. The
// walk stops descending below any node for which f returns false.
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		return
	}
	if !f(n) {
		return
	}
	count := n.ChildCount()
	for i := 0; i < count; i++ {
		Walk(n.Child(i), f)
	}
}

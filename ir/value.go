// Package ir implements the graph intermediate representation: the
// value/node data model backed by stable-identifier arenas, the tagged
// operator union and its shape-inference rules, and the Model aggregate
// that owns topological ordering.
package ir

import "github.com/zerfoo/onnxrt/tensor"

// ValueId identifies a graph edge. It is opaque, stable for the lifetime of
// the arena that minted it, and never reused for a different Value.
type ValueId int

// Value is a graph edge: an optional name and an optional typed shape. The
// shape is unknown until the shape-inference driver fills it in.
type Value struct {
	Name  string
	Shape *tensor.TypedShape
}

// ValueArena is an append-only store of Values, minting stable ValueIds.
type ValueArena struct {
	values []Value
}

// NewValue allocates an unnamed, unshaped Value and returns its id.
func (a *ValueArena) NewValue() ValueId {
	a.values = append(a.values, Value{})

	return ValueId(len(a.values) - 1)
}

// NewNamedValue allocates a named, unshaped Value.
func (a *ValueArena) NewNamedValue(name string) ValueId {
	a.values = append(a.values, Value{Name: name})

	return ValueId(len(a.values) - 1)
}

// NewNamedShapedValue allocates a named Value with a known typed shape.
func (a *ValueArena) NewNamedShapedValue(name string, shape tensor.TypedShape) ValueId {
	a.values = append(a.values, Value{Name: name, Shape: &shape})

	return ValueId(len(a.values) - 1)
}

// Get returns the Value for id. The caller must only pass ids minted by this arena.
func (a *ValueArena) Get(id ValueId) Value {
	return a.values[id]
}

// SetShape records the inferred shape for id.
func (a *ValueArena) SetShape(id ValueId, shape tensor.TypedShape) {
	a.values[id].Shape = &shape
}

// Len returns the number of values minted so far.
func (a *ValueArena) Len() int { return len(a.values) }

// Valid reports whether id was minted by this arena.
func (a *ValueArena) Valid(id ValueId) bool {
	return id >= 0 && int(id) < len(a.values)
}

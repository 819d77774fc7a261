// Package catalog holds the in-memory model of a nested text-resource catalog
// and the operations that keep several language catalogs in parity: flattening,
// key-set diffing and path merging.
package catalog

import "slices"

// Value is a catalog node: a *Tree, or one of the leaf types Scalar and List.
type Value interface {
	isValue()
}

// Scalar is a single text leaf.
type Scalar string

// List is an ordered list of texts stored under one key. It is a leaf: the
// flattener never descends into it.
type List []string

// Tree is a mapping node. Keys keep their insertion order so that a catalog
// written back to disk keeps the layout it was read with.
type Tree struct {
	keys     []string
	children map[string]Value
}

func (Scalar) isValue() {}
func (List) isValue()   {}
func (*Tree) isValue()  {}

// NewTree returns an empty mapping node.
func NewTree() *Tree {
	return &Tree{children: make(map[string]Value)}
}

// Keys returns the child segments in insertion order.
func (t *Tree) Keys() []string {
	return slices.Clone(t.keys)
}

// Len returns the number of direct children.
func (t *Tree) Len() int {
	return len(t.keys)
}

// Get returns the child stored under seg.
func (t *Tree) Get(seg string) (Value, bool) {
	v, ok := t.children[seg]
	return v, ok
}

// Set stores v under seg. A new segment is appended after the existing ones;
// replacing an existing segment keeps its position.
func (t *Tree) Set(seg string, v Value) {
	if t.children == nil {
		t.children = make(map[string]Value)
	}
	if _, ok := t.children[seg]; !ok {
		t.keys = append(t.keys, seg)
	}
	t.children[seg] = v
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	out := &Tree{
		keys:     slices.Clone(t.keys),
		children: make(map[string]Value, len(t.children)),
	}
	for k, v := range t.children {
		out.children[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v Value) Value {
	switch v := v.(type) {
	case *Tree:
		return v.Clone()
	case List:
		return slices.Clone(v)
	default:
		return v
	}
}

// IsLeaf reports whether v is a Scalar or a List.
func IsLeaf(v Value) bool {
	switch v.(type) {
	case Scalar, List:
		return true
	}
	return false
}

// IsEmptyLeaf reports whether v is an empty Scalar or an empty List.
func IsEmptyLeaf(v Value) bool {
	switch v := v.(type) {
	case Scalar:
		return v == ""
	case List:
		return len(v) == 0
	}
	return false
}

// Equal compares two values structurally. Trees are equal when they hold the
// same segments with equal children, regardless of key order.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Scalar:
		b, ok := b.(Scalar)
		return ok && a == b
	case List:
		b, ok := b.(List)
		return ok && slices.Equal(a, b)
	case *Tree:
		b, ok := b.(*Tree)
		if !ok || a.Len() != b.Len() {
			return false
		}
		for k, av := range a.children {
			bv, ok := b.children[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

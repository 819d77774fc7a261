package catalog

import (
	"fmt"
	"slices"
	"sort"
)

// FlatMap maps a dotted key-path to the leaf stored there. It is a set of
// pairs: iteration order carries no meaning.
type FlatMap map[string]Value

// Keys returns the key-paths in sorted order.
func (m FlatMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flatten walks root depth-first and records every leaf under its dotted
// key-path. Lists are recorded whole.
func Flatten(root *Tree) FlatMap {
	out := make(FlatMap)
	flattenInto(out, root, "")
	return out
}

func flattenInto(out FlatMap, node *Tree, prefix string) {
	for _, k := range node.keys {
		path := k
		if prefix != "" {
			path = prefix + Separator + k
		}
		switch v := node.children[k].(type) {
		case *Tree:
			flattenInto(out, v, path)
		case List:
			out[path] = slices.Clone(v)
		default:
			out[path] = v
		}
	}
}

// Unflatten rebuilds a catalog from a flat map by merging every entry in
// sorted key order.
func Unflatten(m FlatMap) (*Tree, error) {
	root := NewTree()
	for _, k := range m.Keys() {
		path, err := ParseKeyPath(k)
		if err != nil {
			return nil, err
		}
		if _, err := Merge(root, path, m[k], PolicyFill); err != nil {
			return nil, fmt.Errorf("unflatten %s: %w", k, err)
		}
	}
	return root, nil
}

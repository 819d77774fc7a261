package catalog

import (
	"fmt"
	"strings"

	"localesync/internal/domain"
)

// Separator joins key-path segments in the flat representation.
const Separator = "."

// KeyPath addresses one node of a catalog, one mapping segment at a time.
type KeyPath []string

// ParseKeyPath splits s on Separator. Empty paths and empty segments are rejected.
func ParseKeyPath(s string) (KeyPath, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidKeyPath)
	}
	segs := strings.Split(s, Separator)
	for i, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment at position %d", domain.ErrInvalidKeyPath, s, i)
		}
	}
	return KeyPath(segs), nil
}

// MustParseKeyPath is ParseKeyPath for literals known to be valid.
func MustParseKeyPath(s string) KeyPath {
	p, err := ParseKeyPath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p KeyPath) String() string {
	return strings.Join(p, Separator)
}

// Child returns a new path with seg appended.
func (p KeyPath) Child(seg string) KeyPath {
	out := make(KeyPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Lookup follows path from root and returns the node it reaches.
func Lookup(root *Tree, path KeyPath) (Value, bool) {
	if len(path) == 0 {
		return nil, false
	}
	var cur Value = root
	for _, seg := range path {
		node, ok := cur.(*Tree)
		if !ok {
			return nil, false
		}
		if cur, ok = node.Get(seg); !ok {
			return nil, false
		}
	}
	return cur, true
}

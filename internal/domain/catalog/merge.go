package catalog

import (
	"fmt"

	"localesync/internal/domain"
)

// Policy decides what Merge does when the target already holds a leaf.
type Policy int

const (
	// PolicyFill only writes absent keys and empty leaves. A different
	// non-empty leaf is reported as domain.ErrDuplicateKey.
	PolicyFill Policy = iota
	// PolicyOverwrite replaces existing leaves.
	PolicyOverwrite
)

// ParsePolicy maps "fill" and "overwrite" to their Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "fill", "":
		return PolicyFill, nil
	case "overwrite":
		return PolicyOverwrite, nil
	}
	return PolicyFill, fmt.Errorf("unknown merge policy %q (want fill or overwrite)", s)
}

func (p Policy) String() string {
	if p == PolicyOverwrite {
		return "overwrite"
	}
	return "fill"
}

// Outcome describes the effect of a successful Merge.
type Outcome int

const (
	OutcomeAdded Outcome = iota
	OutcomeFilled
	OutcomeOverwritten
	OutcomeUnchanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeFilled:
		return "filled"
	case OutcomeOverwritten:
		return "overwritten"
	case OutcomeUnchanged:
		return "unchanged"
	}
	return "unknown"
}

// Changed reports whether the catalog was modified.
func (o Outcome) Changed() bool {
	return o != OutcomeUnchanged
}

// MergeError is returned by Merge. Err is domain.ErrStructuralConflict or
// domain.ErrDuplicateKey; Segment is the prefix of Path where the conflict sits.
type MergeError struct {
	Path    KeyPath
	Segment KeyPath
	Err     error
}

func (e *MergeError) Error() string {
	if len(e.Segment) > 0 && len(e.Segment) < len(e.Path) {
		return fmt.Sprintf("%s: %v at %s", e.Path, e.Err, e.Segment)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }

// Merge writes value at path inside root, creating intermediate mappings as
// needed. Siblings are left alone. On error root is not modified.
//
// A segment before the last that holds a leaf, or a last segment that holds a
// mapping, is a structural conflict. value must be a leaf.
func Merge(root *Tree, path KeyPath, value Value, policy Policy) (Outcome, error) {
	if len(path) == 0 {
		return 0, fmt.Errorf("%w: empty path", domain.ErrInvalidKeyPath)
	}
	for i, seg := range path {
		if seg == "" {
			return 0, fmt.Errorf("%w: %q has an empty segment at position %d", domain.ErrInvalidKeyPath, path.String(), i)
		}
	}
	if !IsLeaf(value) {
		return 0, &MergeError{Path: path, Segment: path, Err: domain.ErrStructuralConflict}
	}

	// Validate the whole path first so a conflict leaves root untouched.
	node := root
	depth := 0
	for ; depth < len(path)-1; depth++ {
		child, ok := node.Get(path[depth])
		if !ok {
			break
		}
		sub, ok := child.(*Tree)
		if !ok {
			return 0, &MergeError{Path: path, Segment: path[:depth+1], Err: domain.ErrStructuralConflict}
		}
		node = sub
	}

	last := path[len(path)-1]
	outcome := OutcomeAdded
	if depth == len(path)-1 {
		if existing, ok := node.Get(last); ok {
			switch {
			case !IsLeaf(existing):
				return 0, &MergeError{Path: path, Segment: path, Err: domain.ErrStructuralConflict}
			case Equal(existing, value):
				return OutcomeUnchanged, nil
			case IsEmptyLeaf(existing):
				outcome = OutcomeFilled
			case policy == PolicyOverwrite:
				outcome = OutcomeOverwritten
			default:
				return 0, &MergeError{Path: path, Segment: path, Err: domain.ErrDuplicateKey}
			}
		}
	}

	for ; depth < len(path)-1; depth++ {
		sub := NewTree()
		node.Set(path[depth], sub)
		node = sub
	}
	node.Set(last, cloneValue(value))
	return outcome, nil
}

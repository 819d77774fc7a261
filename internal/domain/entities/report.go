package entities

import (
	"localesync/internal/domain/catalog"
)

// Stages at which a language can fail.
const (
	StageLoad = "load"
	StageSave = "save"
)

// Failure records a language whose catalog could not be read or written.
type Failure struct {
	Language string
	Stage    string
	Code     string
	Err      error
}

// Analysis is the result of comparing the configured catalogs.
type Analysis struct {
	Report   catalog.DiffReport
	Failures []Failure
}

// Conflict records a merge that was refused for one language.
type Conflict struct {
	Language string
	KeyPath  string
	Code     string
	Err      error
}

// LanguageMerge counts the merge outcomes of one catalog.
type LanguageMerge struct {
	Added       int
	Filled      int
	Overwritten int
	Unchanged   int
	// FromGlossary counts the changes supplied by the glossary pass.
	FromGlossary int
	Saved        bool
	// Preview is a JSON merge patch of the changes, set on dry runs.
	Preview []byte
}

// Changed returns the number of writes into the catalog.
func (m LanguageMerge) Changed() int {
	return m.Added + m.Filled + m.Overwritten
}

// MergeReport is the result of a merge pass.
type MergeReport struct {
	Policy    catalog.Policy
	DryRun    bool
	Languages map[string]*LanguageMerge
	Conflicts []Conflict
	Failures  []Failure
	// Remaining is the key-set diff after merging.
	Remaining catalog.DiffReport
}

// TotalChanged sums the writes over every language.
func (r *MergeReport) TotalChanged() int {
	n := 0
	for _, m := range r.Languages {
		n += m.Changed()
	}
	return n
}

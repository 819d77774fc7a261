package entities

// Script is a bit set of the writing systems detected in a literal.
type Script uint8

const (
	ScriptHebrew Script = 1 << iota
	ScriptFrench
)

// Has reports whether s contains every bit of other.
func (s Script) Has(other Script) bool {
	return other != 0 && s&other == other
}

// Candidate is a literal string found in a source file that looks like UI text.
type Candidate struct {
	File   string
	Line   int
	Text   string
	Script Script
}

// FileCandidates groups the candidates of one file.
type FileCandidates struct {
	File       string
	Candidates []Candidate
	French     int
	Hebrew     int
}

// ScanReport is the result of a source scan.
type ScanReport struct {
	Files  []FileCandidates // sorted by path
	Top    []FileCandidates // most candidates first
	French int
	Hebrew int
}

// Package scanner looks for hardcoded UI text in a front-end source tree.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	logging "github.com/ipfs/go-log/v2"

	"localesync/internal/domain/entities"
	"localesync/internal/ports/output"
)

var log = logging.Logger("scanner")

var _ output.SourceScanner = (*Scanner)(nil)

// DefaultExtensions are scanned when none are configured.
var DefaultExtensions = []string{".tsx"}

var skipDirs = map[string]bool{
	"node_modules": true,
	".next":        true,
	".git":         true,
}

var literalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`'([^']{3,})'`),
	regexp.MustCompile(`"([^"]{3,})"`),
	regexp.MustCompile("`([^`$]{3,})`"),
}

var (
	constantName = regexp.MustCompile(`^[A-Z_]+$`)
	identifier   = regexp.MustCompile(`^[a-z_]+$`)
	digitsOnly   = regexp.MustCompile(`^[0-9]+$`)
)

var ignoredPrefixes = []string{"http", "/", "@", "#", "admin.", "booking.", "errors."}

var ignoredWords = map[string]bool{"ltr": true, "rtl": true, "light": true, "dark": true}

// Scanner walks root and reports classified literals from files whose
// extension is in exts.
type Scanner struct {
	root       string
	exts       map[string]bool
	classifier output.Classifier
}

func New(root string, exts []string, classifier output.Classifier) *Scanner {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	if classifier == nil {
		classifier = HeuristicClassifier{}
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return &Scanner{root: root, exts: set, classifier: classifier}
}

func (s *Scanner) Scan(ctx context.Context) ([]entities.Candidate, error) {
	var found []entities.Candidate
	files := 0
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files++
		found = append(found, s.extract(path, string(data))...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}
	log.Debugw("source scanned", "root", s.root, "files", files, "candidates", len(found))
	return found, nil
}

// extract returns the classified literals of one file.
func (s *Scanner) extract(path, content string) []entities.Candidate {
	var lines []int
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, i)
		}
	}

	var out []entities.Candidate
	for _, re := range literalPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
			text := content[m[2]:m[3]]
			if ignored(text) {
				continue
			}
			script := s.classifier.Classify(text)
			if script == 0 {
				continue
			}
			out = append(out, entities.Candidate{
				File:   path,
				Line:   sort.SearchInts(lines, m[0]) + 1,
				Text:   text,
				Script: script,
			})
		}
	}
	return out
}

func ignored(text string) bool {
	for _, p := range ignoredPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return ignoredWords[text] ||
		strings.Contains(text, "{{") ||
		digitsOnly.MatchString(text) ||
		constantName.MatchString(text) ||
		identifier.MatchString(text)
}

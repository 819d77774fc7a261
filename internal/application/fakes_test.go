package application_test

import (
	"context"
	"errors"
	"fmt"

	"localesync/internal/domain"
	"localesync/internal/domain/catalog"
	"localesync/internal/domain/entities"
)

type memCatalogs struct {
	trees   map[string]*catalog.Tree
	loadErr map[string]error
	saveErr map[string]error
	saved   map[string]*catalog.Tree
}

func newMemCatalogs() *memCatalogs {
	return &memCatalogs{
		trees:   map[string]*catalog.Tree{},
		loadErr: map[string]error{},
		saveErr: map[string]error{},
		saved:   map[string]*catalog.Tree{},
	}
}

func (m *memCatalogs) Load(_ context.Context, lang string) (*catalog.Tree, error) {
	if err := m.loadErr[lang]; err != nil {
		return nil, err
	}
	t, ok := m.trees[lang]
	if !ok {
		return nil, fmt.Errorf("%s.json: %w", lang, domain.ErrMissingFile)
	}
	return t.Clone(), nil
}

func (m *memCatalogs) Save(_ context.Context, lang string, tree *catalog.Tree) error {
	if err := m.saveErr[lang]; err != nil {
		return err
	}
	m.saved[lang] = tree.Clone()
	return nil
}

type staticSource struct {
	table *entities.TranslationTable
	err   error
}

func (s staticSource) Table(context.Context) (*entities.TranslationTable, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.table == nil {
		return &entities.TranslationTable{}, nil
	}
	return s.table, nil
}

type memRuns struct {
	runs []entities.Run
	err  error
}

func (m *memRuns) Record(_ context.Context, run *entities.Run) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memRuns) Latest(_ context.Context, command string, limit int) ([]entities.Run, error) {
	var out []entities.Run
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if command == "" || m.runs[i].Command == command {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}

type recordingNotifier struct {
	got []*entities.Analysis
}

func (n *recordingNotifier) NotifyAnalysis(_ context.Context, a *entities.Analysis) error {
	n.got = append(n.got, a)
	return nil
}

type keyCountPreviewer struct{}

func (keyCountPreviewer) Preview(before, after *catalog.Tree) ([]byte, error) {
	if before == nil || after == nil {
		return nil, errors.New("nil tree")
	}
	return fmt.Appendf(nil, "%d->%d", len(catalog.Flatten(before)), len(catalog.Flatten(after))), nil
}

type staticScanner struct {
	candidates []entities.Candidate
	err        error
}

func (s staticScanner) Scan(context.Context) ([]entities.Candidate, error) {
	return s.candidates, s.err
}

// nested builds a catalog from dotted key-path/value pairs.
func nested(pairs ...string) *catalog.Tree {
	root := catalog.NewTree()
	for i := 0; i < len(pairs); i += 2 {
		if _, err := catalog.Merge(root, catalog.MustParseKeyPath(pairs[i]), catalog.Scalar(pairs[i+1]), catalog.PolicyFill); err != nil {
			panic(err)
		}
	}
	return root
}

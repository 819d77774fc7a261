package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"localesync/internal/domain"
	"localesync/internal/domain/catalog"
	"localesync/internal/domain/entities"
	"localesync/internal/infrastructure/i18n"
)

func newReporter(locale string) (*Reporter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewReporter(&buf, i18n.NewTranslator("fr"), locale, []string{"he", "fr", "en"}), &buf
}

func TestReporterAnalysisParity(t *testing.T) {
	t.Parallel()

	r, buf := newReporter("fr")
	r.Analysis(&entities.Analysis{Report: catalog.Diff(map[string]catalog.FlatMap{
		"he": {"a": catalog.Scalar("א")},
		"fr": {"a": catalog.Scalar("A")},
		"en": {"a": catalog.Scalar("A")},
	})})
	out := buf.String()

	require.Contains(t, out, "✓ PARFAIT ! Toutes les clés sont présentes dans les 3 langues.")
	require.Contains(t, out, "✓ Aucune clé unique à une seule langue")
	require.Contains(t, out, "CLÉS MANQUANTES EN HÉBREU (he)")
	// Configured order, not alphabetical.
	he := strings.Index(out, "Total clés en hébreu")
	fr := strings.Index(out, "Total clés en français")
	en := strings.Index(out, "Total clés en anglais")
	require.True(t, he < fr && fr < en, out)
}

func TestReporterMerge(t *testing.T) {
	t.Parallel()

	r, buf := newReporter("en")
	r.Merge(&entities.MergeReport{
		Policy: catalog.PolicyFill,
		DryRun: true,
		Languages: map[string]*entities.LanguageMerge{
			"fr": {Added: 1, Filled: 1, FromGlossary: 1, Preview: []byte(`{"a":"b"}`)},
			"en": {Unchanged: 2},
		},
		Conflicts: []entities.Conflict{{
			Language: "en",
			KeyPath:  "a.b",
			Err:      &catalog.MergeError{Path: catalog.MustParseKeyPath("a.b"), Err: domain.ErrDuplicateKey},
		}},
		Remaining: catalog.Diff(map[string]catalog.FlatMap{
			"fr": {"a": catalog.Scalar("A"), "b": catalog.Scalar("B")},
			"en": {"a": catalog.Scalar("A")},
		}),
	})
	out := buf.String()

	require.Contains(t, out, "Policy: fill")
	require.Contains(t, out, "Dry run: no file was modified.")
	require.Contains(t, out, "+ French: 1 added, 1 filled, 0 overwritten, 0 unchanged, 1 from the glossary")
	require.Contains(t, out, "✓ English: 0 added, 0 filled, 0 overwritten, 2 unchanged, 0 from the glossary")
	require.Contains(t, out, `{"a":"b"}`)
	require.Contains(t, out, "CONFLICTS (1)")
	require.Contains(t, out, "✗ English a.b: a different translation already exists")
	require.Contains(t, out, "STILL TO TRANSLATE")
	require.Contains(t, out, "KEYS MISSING IN ENGLISH (en)")
	require.Less(t, strings.Index(out, "French:"), strings.Index(out, "English:"))
}

func TestReporterScan(t *testing.T) {
	t.Parallel()

	file := entities.FileCandidates{File: "src/app/page.tsx"}
	for i := 0; i < 7; i++ {
		file.Candidates = append(file.Candidates, entities.Candidate{
			File:   file.File,
			Line:   i + 1,
			Text:   fmt.Sprintf("Texte numéro %d %s", i, strings.Repeat("x", 60)),
			Script: entities.ScriptFrench,
		})
	}
	file.French = 7

	r, buf := newReporter("fr")
	r.Scan(&entities.ScanReport{Files: []entities.FileCandidates{file}, Top: []entities.FileCandidates{file}, French: 7})
	out := buf.String()

	require.Contains(t, out, "📁 src/app/page.tsx")
	require.Contains(t, out, "7 textes en FRANÇAIS, 0 en HÉBREU")
	require.Contains(t, out, "Ligne 5 : 🇫🇷 FR 'Texte numéro 4 xxxx")
	require.NotContains(t, out, "Ligne 6 :")
	require.Contains(t, out, "... et 2 autres")
	require.Contains(t, out, "...'")
	require.Contains(t, out, "TOTAL : 7 textes FRANÇAIS hardcodés, 0 HÉBREU hardcodés")
	require.Contains(t, out, "1. src/app/page.tsx : 7 textes hardcodés")
}

func TestReporterHistory(t *testing.T) {
	t.Parallel()

	r, buf := newReporter("en")
	r.History(nil, time.UTC)
	require.Contains(t, buf.String(), "No recorded run")

	r, buf = newReporter("en")
	start := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	r.History([]entities.Run{{
		ID:           uuid.New(),
		Command:      "merge",
		Languages:    []string{"he", "fr"},
		MissingTotal: 2,
		Merged:       5,
		StartedAt:    start,
		FinishedAt:   start.Add(1500 * time.Millisecond),
	}}, time.UTC)
	require.Contains(t, buf.String(), "2026-05-04 08:00 UTC  merge [he,fr]: 2 missing, 5 merged, 0 conflict(s) in 1.5s")
}

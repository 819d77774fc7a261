package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"localesync/internal/application"
	"localesync/internal/domain"
	"localesync/internal/domain/catalog"
	"localesync/internal/domain/entities"
	"localesync/internal/ports/input"
)

var langs = []string{"he", "fr", "en"}

func threeCatalogs() *memCatalogs {
	repo := newMemCatalogs()
	repo.trees["he"] = nested("a.x", "1")
	repo.trees["fr"] = nested("a.x", "1", "a.y", "2")
	repo.trees["en"] = nested("a.x", "1")
	return repo
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	t.Run("reports missing and exclusive keys", func(t *testing.T) {
		t.Parallel()
		svc := application.NewCatalogService(threeCatalogs(), staticSource{})

		a, err := svc.Analyze(context.Background(), langs)
		require.NoError(t, err)
		require.Empty(t, a.Failures)
		require.Equal(t, []string{"a.y"}, a.Report.Missing["he"])
		require.Equal(t, []string{"a.y"}, a.Report.Missing["en"])
		require.Empty(t, a.Report.Missing["fr"])
		require.Equal(t, []string{"a.y"}, a.Report.Exclusive["fr"])
	})

	t.Run("a broken language does not stop the others", func(t *testing.T) {
		t.Parallel()
		repo := threeCatalogs()
		repo.loadErr["en"] = errors.Join(domain.ErrMalformedCatalog, errors.New("unexpected token"))
		svc := application.NewCatalogService(repo, staticSource{})

		a, err := svc.Analyze(context.Background(), langs)
		require.NoError(t, err)
		require.Equal(t, []string{"fr", "he"}, a.Report.Languages)
		require.Len(t, a.Failures, 1)
		require.Equal(t, "en", a.Failures[0].Language)
		require.Equal(t, entities.StageLoad, a.Failures[0].Stage)
		require.Equal(t, "malformed_catalog", a.Failures[0].Code)
	})

	t.Run("nothing loads", func(t *testing.T) {
		t.Parallel()
		svc := application.NewCatalogService(newMemCatalogs(), staticSource{})

		_, err := svc.Analyze(context.Background(), langs)
		require.ErrorIs(t, err, domain.ErrNoCatalogs)
		require.ErrorIs(t, err, domain.ErrMissingFile)
	})

	t.Run("no languages", func(t *testing.T) {
		t.Parallel()
		svc := application.NewCatalogService(threeCatalogs(), staticSource{})

		_, err := svc.Analyze(context.Background(), nil)
		require.ErrorIs(t, err, domain.ErrNoCatalogs)
	})

	t.Run("records the run", func(t *testing.T) {
		t.Parallel()
		runs := &memRuns{}
		now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		svc := application.NewCatalogService(threeCatalogs(), staticSource{},
			application.WithRunRepository(runs),
			application.WithClock(func() time.Time { return now }),
		)

		_, err := svc.Analyze(context.Background(), langs)
		require.NoError(t, err)
		require.Len(t, runs.runs, 1)
		run := runs.runs[0]
		require.Equal(t, "analyze", run.Command)
		require.Equal(t, 2, run.MissingTotal)
		require.NotZero(t, run.ID)
		require.Equal(t, now, run.StartedAt)

		history, err := svc.History(context.Background(), "analyze", 5)
		require.NoError(t, err)
		require.Len(t, history, 1)
	})

	t.Run("recording failures are not fatal", func(t *testing.T) {
		t.Parallel()
		svc := application.NewCatalogService(threeCatalogs(), staticSource{},
			application.WithRunRepository(&memRuns{err: errors.New("db down")}),
		)

		_, err := svc.Analyze(context.Background(), langs)
		require.NoError(t, err)
	})
}

func TestPublish(t *testing.T) {
	t.Parallel()

	svc := application.NewCatalogService(threeCatalogs(), staticSource{})
	require.ErrorIs(t, svc.Publish(context.Background(), &entities.Analysis{}), application.ErrNoNotifier)

	n := &recordingNotifier{}
	svc = application.NewCatalogService(threeCatalogs(), staticSource{}, application.WithNotifier(n))
	a, err := svc.Analyze(context.Background(), langs)
	require.NoError(t, err)
	require.NoError(t, svc.Publish(context.Background(), a))
	require.Len(t, n.got, 1)
}

func TestMergeMissing(t *testing.T) {
	t.Parallel()

	t.Run("fills the gaps from keyed entries", func(t *testing.T) {
		t.Parallel()
		repo := threeCatalogs()
		svc := application.NewCatalogService(repo, staticSource{table: &entities.TranslationTable{
			Entries: []entities.TranslationEntry{
				{KeyPath: "a.y", Texts: map[string]string{"he": "2", "en": "2"}},
			},
		}})

		r, err := svc.MergeMissing(context.Background(), langs, input.MergeOptions{Policy: catalog.PolicyFill})
		require.NoError(t, err)
		require.Empty(t, r.Conflicts)
		require.Equal(t, 1, r.Languages["he"].Added)
		require.Equal(t, 1, r.Languages["en"].Added)
		require.Equal(t, 0, r.Languages["fr"].Changed())
		require.True(t, r.Remaining.InParity())
		require.Equal(t, 2, r.TotalChanged())

		for _, lang := range []string{"he", "en"} {
			f := catalog.Flatten(repo.saved[lang])
			require.Equal(t, catalog.Scalar("2"), f["a.y"], lang)
			require.Equal(t, catalog.Scalar("1"), f["a.x"], lang)
			require.True(t, r.Languages[lang].Saved)
		}
		require.NotContains(t, repo.saved, "fr")
	})

	t.Run("conflicts are collected per language", func(t *testing.T) {
		t.Parallel()
		repo := newMemCatalogs()
		repo.trees["he"] = nested("a", "scalar")
		repo.trees["fr"] = nested("a.b", "existant")
		repo.trees["en"] = nested("z", "z")
		svc := application.NewCatalogService(repo, staticSource{table: &entities.TranslationTable{
			Entries: []entities.TranslationEntry{
				{KeyPath: "a.b", Texts: map[string]string{"he": "ב", "fr": "nouveau", "en": "new"}},
			},
		}})

		r, err := svc.MergeMissing(context.Background(), langs, input.MergeOptions{Policy: catalog.PolicyFill})
		require.NoError(t, err)
		require.Len(t, r.Conflicts, 2)

		codes := map[string]string{}
		for _, c := range r.Conflicts {
			codes[c.Language] = c.Code
		}
		require.Equal(t, map[string]string{"he": "structural_conflict", "fr": "duplicate_key"}, codes)
		require.Equal(t, 1, r.Languages["en"].Added)
		require.Contains(t, repo.saved, "en")
		require.NotContains(t, repo.saved, "he")
		require.NotContains(t, repo.saved, "fr")
	})

	t.Run("overwrite policy replaces existing text", func(t *testing.T) {
		t.Parallel()
		repo := newMemCatalogs()
		repo.trees["fr"] = nested("a.b", "ancien")
		svc := application.NewCatalogService(repo, staticSource{table: &entities.TranslationTable{
			Entries: []entities.TranslationEntry{{KeyPath: "a.b", Texts: map[string]string{"fr": "nouveau"}}},
		}})

		r, err := svc.MergeMissing(context.Background(), []string{"fr"}, input.MergeOptions{Policy: catalog.PolicyOverwrite})
		require.NoError(t, err)
		require.Equal(t, 1, r.Languages["fr"].Overwritten)
		require.Equal(t, catalog.Scalar("nouveau"), catalog.Flatten(repo.saved["fr"])["a.b"])
	})

	t.Run("glossary translates the source text", func(t *testing.T) {
		t.Parallel()
		repo := newMemCatalogs()
		repo.trees["he"] = nested("admin.stats.hourly", "הכנסות לפי שעה", "admin.stats.other", "משהו")
		repo.trees["fr"] = catalog.NewTree()
		repo.trees["en"] = nested("admin.stats.hourly", "Revenue per hour")
		svc := application.NewCatalogService(repo, staticSource{table: &entities.TranslationTable{
			SourceLanguage: "he",
			Glossary: map[string]map[string]string{
				"הכנסות לפי שעה": {"fr": "Revenus par heure", "en": "Revenue by hour"},
			},
		}})

		r, err := svc.MergeMissing(context.Background(), langs, input.MergeOptions{})
		require.NoError(t, err)
		require.Equal(t, 1, r.Languages["fr"].FromGlossary)
		require.Equal(t, 0, r.Languages["en"].Changed())
		require.Equal(t, catalog.Scalar("Revenus par heure"), catalog.Flatten(repo.saved["fr"])["admin.stats.hourly"])
		require.Equal(t, []string{"admin.stats.other"}, r.Remaining.Missing["fr"])
		require.Equal(t, []string{"admin.stats.other"}, r.Remaining.Missing["en"])
	})

	t.Run("dry run saves nothing and previews changes", func(t *testing.T) {
		t.Parallel()
		repo := threeCatalogs()
		svc := application.NewCatalogService(repo, staticSource{table: &entities.TranslationTable{
			Entries: []entities.TranslationEntry{{KeyPath: "a.y", Texts: map[string]string{"he": "2"}}},
		}}, application.WithPreviewer(keyCountPreviewer{}))

		r, err := svc.MergeMissing(context.Background(), langs, input.MergeOptions{DryRun: true})
		require.NoError(t, err)
		require.Empty(t, repo.saved)
		require.Equal(t, "1->2", string(r.Languages["he"].Preview))
		require.False(t, r.Languages["he"].Saved)
		require.Equal(t, []string{"a.y"}, r.Remaining.Missing["en"])
	})

	t.Run("save failures are reported per language", func(t *testing.T) {
		t.Parallel()
		repo := threeCatalogs()
		repo.saveErr["he"] = errors.New("read-only file system")
		svc := application.NewCatalogService(repo, staticSource{table: &entities.TranslationTable{
			Entries: []entities.TranslationEntry{{KeyPath: "a.y", Texts: map[string]string{"he": "2", "en": "2"}}},
		}})

		r, err := svc.MergeMissing(context.Background(), langs, input.MergeOptions{})
		require.NoError(t, err)
		require.Len(t, r.Failures, 1)
		require.Equal(t, entities.StageSave, r.Failures[0].Stage)
		require.Contains(t, repo.saved, "en")
	})

	t.Run("entries for unloaded languages are skipped", func(t *testing.T) {
		t.Parallel()
		repo := newMemCatalogs()
		repo.trees["he"] = nested("a.x", "1")
		svc := application.NewCatalogService(repo, staticSource{table: &entities.TranslationTable{
			Entries: []entities.TranslationEntry{{KeyPath: "a.y", Texts: map[string]string{"he": "2", "de": "2"}}},
		}})

		r, err := svc.MergeMissing(context.Background(), []string{"he", "fr"}, input.MergeOptions{})
		require.NoError(t, err)
		require.Empty(t, r.Conflicts)
		require.Len(t, r.Failures, 1)
		require.Equal(t, 1, r.Languages["he"].Added)
	})

	t.Run("invalid key paths are conflicts", func(t *testing.T) {
		t.Parallel()
		svc := application.NewCatalogService(threeCatalogs(), staticSource{table: &entities.TranslationTable{
			Entries: []entities.TranslationEntry{{KeyPath: "a..y", Texts: map[string]string{"he": "2"}}},
		}})

		r, err := svc.MergeMissing(context.Background(), langs, input.MergeOptions{})
		require.NoError(t, err)
		require.Len(t, r.Conflicts, 1)
		require.Equal(t, "invalid_key_path", r.Conflicts[0].Code)
	})

	t.Run("table errors abort", func(t *testing.T) {
		t.Parallel()
		svc := application.NewCatalogService(threeCatalogs(), staticSource{err: errors.New("no table")})

		_, err := svc.MergeMissing(context.Background(), langs, input.MergeOptions{})
		require.Error(t, err)
	})
}

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"localesync/internal/config"
	"localesync/internal/domain"
	"localesync/internal/domain/catalog"
	"localesync/internal/infrastructure/i18n"
)

var fixtures = map[string]string{
	"he.json": `{"common": {"save": "שמור", "cancel": "בטל"}, "only": {"he": "x"}}`,
	"fr.json": `{"common": {"save": "Enregistrer"}}`,
	"en.json": `{"common": {"save": "Save", "cancel": "Cancel"}}`,
}

const table = `{
  "entries": {
    "common.cancel": {"fr": "Annuler"},
    "only.he": {"fr": "x fr", "en": "x en"}
  }
}`

func setup(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	locales := filepath.Join(dir, "locales")
	require.NoError(t, os.MkdirAll(locales, 0o755))
	for name, content := range fixtures {
		require.NoError(t, os.WriteFile(filepath.Join(locales, name), []byte(content), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "translations.json"), []byte(table), 0o644))

	cfg := &config.Config{
		LocalesDir:       locales,
		Languages:        []string{"he", "fr", "en"},
		CatalogFormat:    "json",
		TranslationsFile: filepath.Join(dir, "translations.json"),
		MergePolicy:      catalog.PolicyFill,
		SourceDir:        filepath.Join(dir, "src"),
		SourceExtensions: []string{".tsx"},
		ReportLocale:     "en",
		ReportTimezone:   time.UTC,
	}
	return cfg, dir
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp(cfg, i18n.NewTranslator("fr"), &out)
	err := app.RunContext(context.Background(), append([]string{"localesync"}, args...))
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	t.Parallel()
	cfg, _ := setup(t)

	out, err := run(t, cfg, "analyze")
	require.NoError(t, err)
	require.Contains(t, out, "TRANSLATION ANALYSIS REPORT")
	require.Contains(t, out, "Total keys in Hebrew (he): 3")
	require.Contains(t, out, "KEYS MISSING IN FRENCH (fr)")
	require.Contains(t, out, "  - common.cancel")
	require.Contains(t, out, "Only in Hebrew (1 keys):")
	require.Contains(t, out, "3 missing key(s) in total")

	_, err = run(t, cfg, "analyze", "--strict")
	require.ErrorIs(t, err, ErrMissingKeys)

	out, err = run(t, cfg, "--report-locale", "fr", "analyze", "--languages", "he,en,de")
	require.NoError(t, err)
	require.Contains(t, out, "LANGUES EN ÉCHEC")
	require.Contains(t, out, "de (load) : fichier introuvable")

	_, err = run(t, cfg, "analyze", "--languages", "de,it")
	require.ErrorIs(t, err, domain.ErrNoCatalogs)

	_, err = run(t, cfg, "analyze", "--notify")
	require.ErrorContains(t, err, "DISCORD_WEBHOOK_ID")
}

func TestMergeCommand(t *testing.T) {
	t.Parallel()
	cfg, _ := setup(t)
	frPath := filepath.Join(cfg.LocalesDir, "fr.json")

	out, err := run(t, cfg, "merge", "--dry-run")
	require.NoError(t, err)
	require.Contains(t, out, "Dry run: no file was modified.")
	require.Contains(t, out, `"cancel":"Annuler"`)
	data, err := os.ReadFile(frPath)
	require.NoError(t, err)
	require.Equal(t, fixtures["fr.json"], string(data))

	out, err = run(t, cfg, "merge", "--strict")
	require.NoError(t, err)
	require.Contains(t, out, "French: 2 added, 0 filled, 0 overwritten, 0 unchanged, 0 from the glossary")
	require.Contains(t, out, "No conflict")
	require.Contains(t, out, "3 translation(s) added")

	data, err = os.ReadFile(frPath)
	require.NoError(t, err)
	require.Equal(t, `{
  "common": {
    "save": "Enregistrer",
    "cancel": "Annuler"
  },
  "only": {
    "he": "x fr"
  }
}
`, string(data))

	out, err = run(t, cfg, "merge", "--policy", "overwrite")
	require.NoError(t, err)
	require.Contains(t, out, "Policy: overwrite")

	_, err = run(t, cfg, "merge", "--policy", "replace")
	require.Error(t, err)

	_, err = run(t, cfg, "merge", "--table", filepath.Join(t.TempDir(), "none.json"))
	require.ErrorIs(t, err, domain.ErrMissingFile)

	_, err = run(t, cfg, "merge", "--from-db")
	require.ErrorIs(t, err, ErrNoDatabase)
}

func TestScanCommand(t *testing.T) {
	t.Parallel()
	cfg, _ := setup(t)
	require.NoError(t, os.MkdirAll(cfg.SourceDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.SourceDir, "page.tsx"),
		[]byte("<p title=\"Réservation confirmée\">{'שלום עולם'}</p>\n"), 0o644))

	out, err := run(t, cfg, "scan", "--top", "3")
	require.NoError(t, err)
	require.Contains(t, out, "1 FRENCH texts, 1 HEBREW")
	require.Contains(t, out, "TOTAL: 1 hardcoded FRENCH texts, 1 hardcoded HEBREW")
	require.Contains(t, out, "1. "+filepath.Join(cfg.SourceDir, "page.tsx")+": 2 hardcoded texts")
}

func TestDBCommandsNeedDatabase(t *testing.T) {
	t.Parallel()
	cfg, _ := setup(t)

	_, err := run(t, cfg, "db", "migrate")
	require.ErrorIs(t, err, ErrNoDatabase)
	_, err = run(t, cfg, "db", "history")
	require.ErrorIs(t, err, ErrNoDatabase)
	_, err = run(t, cfg, "db", "import-table")
	require.ErrorIs(t, err, ErrNoDatabase)
}

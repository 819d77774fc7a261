package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"localesync/internal/domain/catalog"
	"localesync/internal/infrastructure/catalogfs"
	"localesync/pkg/tz"
)

type Config struct {
	LocalesDir       string
	Languages        []string
	CatalogFormat    string
	TranslationsFile string
	MergePolicy      catalog.Policy
	SourceDir        string
	SourceExtensions []string
	ReportLocale     string
	ReportTimezone   *time.Location
	Strict           bool
	DatabaseURL      string
	WebhookID        string
	WebhookToken     string
	LogLevel         logging.LogLevel

	rawPolicy   string
	rawTimezone string
	rawStrict   string
	rawLogLevel string
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	// .env est optionnel lorsque les variables sont fournies par l'environnement (CI, etc.).
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv lit uniquement les variables d'environnement.
func FromEnv() (*Config, error) {
	cfg := &Config{
		LocalesDir:       env("LOCALES_DIR", "src/i18n/locales"),
		Languages:        list(env("LANGUAGES", "he,fr,en")),
		CatalogFormat:    strings.ToLower(env("CATALOG_FORMAT", "json")),
		TranslationsFile: env("TRANSLATIONS_FILE", "translations.json"),
		SourceDir:        env("SOURCE_DIR", "src"),
		SourceExtensions: list(env("SOURCE_EXTENSIONS", ".tsx")),
		ReportLocale:     env("REPORT_LOCALE", "fr"),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		WebhookID:        strings.TrimSpace(os.Getenv("DISCORD_WEBHOOK_ID")),
		WebhookToken:     strings.TrimSpace(os.Getenv("DISCORD_WEBHOOK_TOKEN")),

		rawPolicy:   env("MERGE_POLICY", "fill"),
		rawTimezone: env("REPORT_TIMEZONE", "UTC"),
		rawStrict:   env("STRICT", "false"),
		rawLogLevel: env("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NotifyEnabled reports whether a Discord webhook is configured.
func (c *Config) NotifyEnabled() bool {
	return c.WebhookID != "" && c.WebhookToken != ""
}

// validate applique toutes les règles sur la configuration chargée.
func (c *Config) validate() error {
	if c.LocalesDir == "" {
		return fmt.Errorf("config: LOCALES_DIR ne peut pas être vide")
	}

	if len(c.Languages) == 0 {
		return fmt.Errorf("config: LANGUAGES doit contenir au moins une langue")
	}
	seen := make(map[string]bool, len(c.Languages))
	for _, lang := range c.Languages {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("config: LANGUAGES contient un code invalide (%q): %w", lang, err)
		}
		if seen[lang] {
			return fmt.Errorf("config: LANGUAGES contient %q plusieurs fois", lang)
		}
		seen[lang] = true
	}

	if _, err := catalogfs.NewRepository(c.LocalesDir, c.CatalogFormat); err != nil {
		return fmt.Errorf("config: CATALOG_FORMAT invalide (%q), attendu %s", c.CatalogFormat, strings.Join(catalogfs.Formats, ", "))
	}

	policy, err := catalog.ParsePolicy(c.rawPolicy)
	if err != nil {
		return fmt.Errorf("config: MERGE_POLICY invalide (%q), attendu fill ou overwrite", c.rawPolicy)
	}
	c.MergePolicy = policy

	if len(c.SourceExtensions) == 0 {
		return fmt.Errorf("config: SOURCE_EXTENSIONS doit contenir au moins une extension")
	}
	for _, ext := range c.SourceExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("config: SOURCE_EXTENSIONS invalide (%q): doit commencer par un point", ext)
		}
	}

	if _, err := language.Parse(c.ReportLocale); err != nil {
		return fmt.Errorf("config: REPORT_LOCALE invalide (%q): %w", c.ReportLocale, err)
	}

	loc, err := tz.Load(c.rawTimezone)
	if err != nil {
		return fmt.Errorf("config: REPORT_TIMEZONE invalide (%q): %w", c.rawTimezone, err)
	}
	c.ReportTimezone = loc

	strict, err := strconv.ParseBool(c.rawStrict)
	if err != nil {
		return fmt.Errorf("config: STRICT invalide (%q): attendu true ou false", c.rawStrict)
	}
	c.Strict = strict

	if c.DatabaseURL != "" {
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: DATABASE_URL invalide: %w", err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL invalide: scheme ou host manquant")
		}
	}

	if (c.WebhookID == "") != (c.WebhookToken == "") {
		return fmt.Errorf("config: DISCORD_WEBHOOK_ID et DISCORD_WEBHOOK_TOKEN vont ensemble")
	}

	level, err := logging.LevelFromString(c.rawLogLevel)
	if err != nil {
		return fmt.Errorf("config: LOG_LEVEL invalide (%q): %w", c.rawLogLevel, err)
	}
	c.LogLevel = level

	return nil
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// list splits a comma-separated value, dropping blanks.
func list(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Package cli is the command-line adapter: it wires the infrastructure into
// the application services and prints localized reports.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"localesync/internal/adapters/discord"
	"localesync/internal/application"
	"localesync/internal/config"
	"localesync/internal/domain/catalog"
	"localesync/internal/infrastructure/catalogfs"
	"localesync/internal/infrastructure/database"
	"localesync/internal/infrastructure/scanner"
	"localesync/internal/infrastructure/translations"
	"localesync/internal/ports/input"
	"localesync/internal/ports/output"
)

var log = logging.Logger("cli")

// ErrMissingKeys is returned in strict mode when catalogs are not in parity.
var ErrMissingKeys = errors.New("missing keys remain")

// ErrNoDatabase is returned by commands that need DATABASE_URL.
var ErrNoDatabase = errors.New("DATABASE_URL is not set")

// runner holds what every command shares.
type runner struct {
	cfg *config.Config
	t   output.T
	out io.Writer
}

// NewApp builds the localesync command tree. Flags default to cfg.
func NewApp(cfg *config.Config, t output.T, out io.Writer) *cli.App {
	r := &runner{cfg: cfg, t: t, out: out}

	app := &cli.App{
		Name:  "localesync",
		Usage: "keep translation catalogs in parity",
		Description: `localesync compares the per-language translation catalogs of a front-end,
   merges curated translations into them and finds hardcoded UI text.

   Every flag defaults from the environment (see .env).`,
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "report-locale",
				Usage: "language of the printed report",
				Value: cfg.ReportLocale,
			},
		},
		Commands: []*cli.Command{
			r.analyzeCmd(),
			r.mergeCmd(),
			r.scanCmd(),
			r.dbCmd(),
		},
	}

	sort.Sort(cli.CommandsByName(app.Commands))
	for _, c := range app.Commands {
		sort.Sort(cli.FlagsByName(c.Flags))
	}
	return app
}

func (r *runner) reporter(c *cli.Context) *Reporter {
	return NewReporter(r.out, r.t, c.String("report-locale"), r.cfg.Languages)
}

func catalogFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      "locales",
			Usage:     "directory holding one catalog file per language",
			Value:     cfg.LocalesDir,
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "languages",
			Usage: "comma-separated languages to compare",
			Value: strings.Join(cfg.Languages, ","),
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "catalog file format: " + strings.Join(catalogfs.Formats, ", "),
			Value: cfg.CatalogFormat,
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "exit with an error when missing keys remain",
			Value: cfg.Strict,
		},
	}
}

func (r *runner) analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "report missing and exclusive keys per language",
		Flags: append(catalogFlags(r.cfg), &cli.BoolFlag{
			Name:  "notify",
			Usage: "post the summary to the Discord webhook",
		}),
		Action: r.analyze,
	}
}

func (r *runner) analyze(c *cli.Context) error {
	ctx := c.Context
	repo, err := catalogfs.NewRepository(c.String("locales"), c.String("format"))
	if err != nil {
		return err
	}

	opts, closeDB := r.runOptions(ctx)
	defer closeDB()

	if c.Bool("notify") {
		if !r.cfg.NotifyEnabled() {
			return errors.New("--notify needs DISCORD_WEBHOOK_ID and DISCORD_WEBHOOK_TOKEN")
		}
		n, err := discord.NewWebhookNotifier(r.cfg.WebhookID, r.cfg.WebhookToken, r.t, c.String("report-locale"), r.cfg.ReportTimezone)
		if err != nil {
			return err
		}
		opts = append(opts, application.WithNotifier(n))
	}

	svc := application.NewCatalogService(repo, nil, opts...)
	var uc input.CatalogUseCase = svc
	analysis, err := uc.Analyze(ctx, languages(c))
	if err != nil {
		return err
	}
	r.reporter(c).Analysis(analysis)

	if c.Bool("notify") {
		if err := svc.Publish(ctx, analysis); err != nil {
			return err
		}
	}
	if c.Bool("strict") && analysis.Report.TotalMissing() > 0 {
		return fmt.Errorf("%w: %d", ErrMissingKeys, analysis.Report.TotalMissing())
	}
	return nil
}

func (r *runner) mergeCmd() *cli.Command {
	return &cli.Command{
		Name:  "merge",
		Usage: "fill catalogs from the curated translation table",
		Flags: append(catalogFlags(r.cfg),
			&cli.StringFlag{
				Name:      "table",
				Usage:     "translation table file (.json, .yaml or .toml)",
				Value:     r.cfg.TranslationsFile,
				TakesFile: true,
			},
			&cli.BoolFlag{
				Name:  "from-db",
				Usage: "read the translation table from the database instead of --table",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "fill keeps existing texts, overwrite replaces them",
				Value: r.cfg.MergePolicy.String(),
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print the changes as JSON merge patches without writing",
			},
		),
		Action: r.merge,
	}
}

func (r *runner) merge(c *cli.Context) error {
	ctx := c.Context
	policy, err := catalog.ParsePolicy(c.String("policy"))
	if err != nil {
		return err
	}
	repo, err := catalogfs.NewRepository(c.String("locales"), c.String("format"))
	if err != nil {
		return err
	}

	opts, closeDB := r.runOptions(ctx)
	defer closeDB()

	var source output.TranslationSource
	if c.Bool("from-db") {
		pool, err := r.pool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		source = database.NewTranslationRepository(pool)
	} else {
		source = translations.NewFileSource(c.String("table"))
	}

	opts = append(opts, application.WithPreviewer(catalogfs.MergePatchPreviewer{}))
	var uc input.CatalogUseCase = application.NewCatalogService(repo, source, opts...)
	report, err := uc.MergeMissing(ctx, languages(c), input.MergeOptions{Policy: policy, DryRun: c.Bool("dry-run")})
	if err != nil {
		return err
	}
	r.reporter(c).Merge(report)

	if c.Bool("strict") && report.Remaining.TotalMissing() > 0 {
		return fmt.Errorf("%w: %d", ErrMissingKeys, report.Remaining.TotalMissing())
	}
	return nil
}

func (r *runner) scanCmd() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "find hardcoded French and Hebrew text in the source tree",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      "src",
				Usage:     "source directory to walk",
				Value:     r.cfg.SourceDir,
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:  "ext",
				Usage: "comma-separated file extensions to scan",
				Value: strings.Join(r.cfg.SourceExtensions, ","),
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "number of files to rank",
				Value: 10,
			},
		},
		Action: func(c *cli.Context) error {
			sc := scanner.New(c.String("src"), split(c.String("ext")), scanner.HeuristicClassifier{})
			var uc input.ScanUseCase = application.NewScanService(sc)
			report, err := uc.Scan(c.Context, c.Int("top"))
			if err != nil {
				return err
			}
			r.reporter(c).Scan(report)
			return nil
		},
	}
}

func (r *runner) dbCmd() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "manage the translation database",
		Subcommands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply pending schema migrations",
				Action: func(c *cli.Context) error {
					if r.cfg.DatabaseURL == "" {
						return ErrNoDatabase
					}
					version, err := database.RunMigrations(r.cfg.DatabaseURL)
					if err != nil {
						return err
					}
					fmt.Fprintf(r.out, "schema version %d\n", version)
					return nil
				},
			},
			{
				Name:  "import-table",
				Usage: "replace the stored translation table with a table file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "table",
						Usage:     "translation table file (.json, .yaml or .toml)",
						Value:     r.cfg.TranslationsFile,
						TakesFile: true,
					},
				},
				Action: func(c *cli.Context) error {
					table, err := translations.NewFileSource(c.String("table")).Table(c.Context)
					if err != nil {
						return err
					}
					pool, err := r.pool(c.Context)
					if err != nil {
						return err
					}
					defer pool.Close()
					if err := database.NewTranslationRepository(pool).Import(c.Context, table); err != nil {
						return err
					}
					fmt.Fprintf(r.out, "%d entries, %d glossary terms imported\n", len(table.Entries), len(table.Glossary))
					return nil
				},
			},
			{
				Name:  "history",
				Usage: "list the latest recorded runs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "command",
						Usage: "only runs of this command (analyze, merge, merge-dry-run)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "number of runs to list",
						Value: 10,
					},
				},
				Action: func(c *cli.Context) error {
					pool, err := r.pool(c.Context)
					if err != nil {
						return err
					}
					defer pool.Close()
					svc := application.NewCatalogService(nil, nil, application.WithRunRepository(database.NewRunRepository(pool)))
					runs, err := svc.History(c.Context, c.String("command"), c.Int("limit"))
					if err != nil {
						return err
					}
					r.reporter(c).History(runs, r.cfg.ReportTimezone)
					return nil
				},
			},
		},
	}
}

func (r *runner) pool(ctx context.Context) (*pgxpool.Pool, error) {
	if r.cfg.DatabaseURL == "" {
		return nil, ErrNoDatabase
	}
	return database.NewPool(ctx, r.cfg.DatabaseURL)
}

// runOptions records runs in the database when one is configured. A database
// that cannot be reached only disables recording.
func (r *runner) runOptions(ctx context.Context) ([]application.CatalogOption, func()) {
	if r.cfg.DatabaseURL == "" {
		return nil, func() {}
	}
	pool, err := database.NewPool(ctx, r.cfg.DatabaseURL)
	if err != nil {
		log.Warnw("run history disabled", "error", err)
		return nil, func() {}
	}
	return []application.CatalogOption{application.WithRunRepository(database.NewRunRepository(pool))}, pool.Close
}

func languages(c *cli.Context) []string {
	return split(c.String("languages"))
}

func split(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

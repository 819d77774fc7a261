package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/multierr"

	"localesync/internal/domain"
	"localesync/internal/domain/catalog"
	"localesync/internal/domain/entities"
	"localesync/internal/ports/input"
	"localesync/internal/ports/output"
)

var log = logging.Logger("application")

var _ input.CatalogUseCase = (*CatalogService)(nil)

// ErrNoNotifier is returned by Publish when no notifier was configured.
var ErrNoNotifier = errors.New("application: no notifier configured")

// CatalogService compares language catalogs and merges curated translations into them.
type CatalogService struct {
	catalogs  output.CatalogRepository
	source    output.TranslationSource
	previewer output.ChangePreviewer
	runs      output.RunRepository
	notifier  output.Notifier
	now       func() time.Time
}

// CatalogOption configures optional collaborators of a CatalogService.
type CatalogOption func(*CatalogService)

// WithPreviewer renders dry-run merges.
func WithPreviewer(p output.ChangePreviewer) CatalogOption {
	return func(s *CatalogService) { s.previewer = p }
}

// WithRunRepository records every analyze and merge run.
func WithRunRepository(r output.RunRepository) CatalogOption {
	return func(s *CatalogService) { s.runs = r }
}

// WithNotifier enables Publish.
func WithNotifier(n output.Notifier) CatalogOption {
	return func(s *CatalogService) { s.notifier = n }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CatalogOption {
	return func(s *CatalogService) { s.now = now }
}

func NewCatalogService(catalogs output.CatalogRepository, source output.TranslationSource, opts ...CatalogOption) *CatalogService {
	s := &CatalogService{
		catalogs: catalogs,
		source:   source,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze loads every language and computes missing and exclusive keys. A
// language that fails to load is reported and left out of the comparison;
// only a run where nothing loads is an error.
func (s *CatalogService) Analyze(ctx context.Context, langs []string) (*entities.Analysis, error) {
	started := s.now()
	trees, failures, err := s.loadAll(ctx, langs)
	if err != nil {
		return nil, err
	}

	analysis := &entities.Analysis{
		Report:   catalog.Diff(flattenAll(trees)),
		Failures: failures,
	}
	log.Infow("analysis done", "languages", analysis.Report.Languages, "keys", len(analysis.Report.AllKeys), "missing", analysis.Report.TotalMissing())

	s.record(ctx, &entities.Run{
		Command:      "analyze",
		Languages:    langs,
		MissingTotal: analysis.Report.TotalMissing(),
		StartedAt:    started,
	})
	return analysis, nil
}

// Publish sends the analysis to the configured notifier.
func (s *CatalogService) Publish(ctx context.Context, analysis *entities.Analysis) error {
	if s.notifier == nil {
		return ErrNoNotifier
	}
	if err := s.notifier.NotifyAnalysis(ctx, analysis); err != nil {
		return fmt.Errorf("notify analysis: %w", err)
	}
	return nil
}

// History returns the latest recorded runs of command, newest first.
func (s *CatalogService) History(ctx context.Context, command string, limit int) ([]entities.Run, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.Latest(ctx, command, limit)
}

func (s *CatalogService) loadAll(ctx context.Context, langs []string) (map[string]*catalog.Tree, []entities.Failure, error) {
	trees := make(map[string]*catalog.Tree, len(langs))
	var failures []entities.Failure
	var errs error

	for _, lang := range langs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		tree, err := s.catalogs.Load(ctx, lang)
		if err != nil {
			log.Warnw("catalog not loaded", "language", lang, "error", err)
			failures = append(failures, entities.Failure{
				Language: lang,
				Stage:    entities.StageLoad,
				Code:     domain.Code(err),
				Err:      err,
			})
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", lang, err))
			continue
		}
		trees[lang] = tree
	}

	if len(trees) == 0 {
		if errs == nil {
			return nil, failures, domain.ErrNoCatalogs
		}
		return nil, failures, fmt.Errorf("%w: %w", domain.ErrNoCatalogs, errs)
	}
	return trees, failures, nil
}

func (s *CatalogService) record(ctx context.Context, run *entities.Run) {
	if s.runs == nil {
		return
	}
	run.ID = uuid.New()
	run.FinishedAt = s.now()
	if err := s.runs.Record(ctx, run); err != nil {
		log.Warnw("run not recorded", "command", run.Command, "error", err)
	}
}

func flattenAll(trees map[string]*catalog.Tree) map[string]catalog.FlatMap {
	out := make(map[string]catalog.FlatMap, len(trees))
	for lang, tree := range trees {
		out[lang] = catalog.Flatten(tree)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package application

import (
	"context"
	"fmt"

	"localesync/internal/domain"
	"localesync/internal/domain/catalog"
	"localesync/internal/domain/entities"
	"localesync/internal/ports/input"
)

// MergeMissing applies the translation table to every loaded catalog, then
// fills the keys still missing from the glossary, and saves what changed.
//
// Each (language, key-path) pair is an independent merge: a conflict is
// recorded in the report and the pass goes on.
func (s *CatalogService) MergeMissing(ctx context.Context, langs []string, opts input.MergeOptions) (*entities.MergeReport, error) {
	started := s.now()
	table, err := s.source.Table(ctx)
	if err != nil {
		return nil, fmt.Errorf("load translation table: %w", err)
	}
	trees, failures, err := s.loadAll(ctx, langs)
	if err != nil {
		return nil, err
	}

	report := &entities.MergeReport{
		Policy:    opts.Policy,
		DryRun:    opts.DryRun,
		Languages: make(map[string]*entities.LanguageMerge, len(trees)),
		Failures:  failures,
	}
	var before map[string]*catalog.Tree
	if opts.DryRun {
		before = make(map[string]*catalog.Tree, len(trees))
	}
	for lang, tree := range trees {
		report.Languages[lang] = &entities.LanguageMerge{}
		if before != nil {
			before[lang] = tree.Clone()
		}
	}

	for _, entry := range table.Entries {
		path, err := catalog.ParseKeyPath(entry.KeyPath)
		for _, lang := range sortedKeys(entry.Texts) {
			if _, ok := trees[lang]; !ok {
				continue
			}
			if err != nil {
				report.Conflicts = append(report.Conflicts, conflict(lang, entry.KeyPath, err))
				continue
			}
			s.apply(report, lang, trees[lang], path, catalog.Scalar(entry.Texts[lang]), opts.Policy, false)
		}
	}

	s.applyGlossary(report, table, trees, opts.Policy)

	for _, lang := range sortedKeys(trees) {
		m := report.Languages[lang]
		if m.Changed() == 0 {
			continue
		}
		if opts.DryRun {
			if s.previewer == nil {
				continue
			}
			preview, err := s.previewer.Preview(before[lang], trees[lang])
			if err != nil {
				log.Warnw("preview failed", "language", lang, "error", err)
				continue
			}
			m.Preview = preview
			continue
		}
		if err := s.catalogs.Save(ctx, lang, trees[lang]); err != nil {
			log.Errorw("catalog not saved", "language", lang, "error", err)
			report.Failures = append(report.Failures, entities.Failure{
				Language: lang,
				Stage:    entities.StageSave,
				Code:     domain.Code(err),
				Err:      err,
			})
			continue
		}
		m.Saved = true
		log.Infow("catalog saved", "language", lang, "changed", m.Changed())
	}

	report.Remaining = catalog.Diff(flattenAll(trees))

	command := "merge"
	if opts.DryRun {
		command = "merge-dry-run"
	}
	s.record(ctx, &entities.Run{
		Command:      command,
		Languages:    langs,
		MissingTotal: report.Remaining.TotalMissing(),
		Merged:       report.TotalChanged(),
		Conflicts:    len(report.Conflicts),
		StartedAt:    started,
	})
	return report, nil
}

// applyGlossary translates the source-language text of every key a language
// is missing, when the glossary knows that text in the target language.
func (s *CatalogService) applyGlossary(report *entities.MergeReport, table *entities.TranslationTable, trees map[string]*catalog.Tree, policy catalog.Policy) {
	if len(table.Glossary) == 0 || table.SourceLanguage == "" {
		return
	}
	src, ok := trees[table.SourceLanguage]
	if !ok {
		log.Warnw("glossary skipped: source catalog not loaded", "language", table.SourceLanguage)
		return
	}

	srcFlat := catalog.Flatten(src)
	diff := catalog.Diff(flattenAll(trees))
	for _, lang := range diff.Languages {
		if lang == table.SourceLanguage {
			continue
		}
		for _, key := range diff.Missing[lang] {
			text, ok := srcFlat[key].(catalog.Scalar)
			if !ok || text == "" {
				continue
			}
			translated, ok := table.Glossary[string(text)][lang]
			if !ok {
				continue
			}
			path, err := catalog.ParseKeyPath(key)
			if err != nil {
				report.Conflicts = append(report.Conflicts, conflict(lang, key, err))
				continue
			}
			s.apply(report, lang, trees[lang], path, catalog.Scalar(translated), policy, true)
		}
	}
}

func (s *CatalogService) apply(report *entities.MergeReport, lang string, tree *catalog.Tree, path catalog.KeyPath, value catalog.Value, policy catalog.Policy, fromGlossary bool) {
	outcome, err := catalog.Merge(tree, path, value, policy)
	if err != nil {
		log.Debugw("merge refused", "language", lang, "key", path.String(), "error", err)
		report.Conflicts = append(report.Conflicts, conflict(lang, path.String(), err))
		return
	}

	m := report.Languages[lang]
	switch outcome {
	case catalog.OutcomeAdded:
		m.Added++
	case catalog.OutcomeFilled:
		m.Filled++
	case catalog.OutcomeOverwritten:
		m.Overwritten++
	case catalog.OutcomeUnchanged:
		m.Unchanged++
	}
	if fromGlossary && outcome.Changed() {
		m.FromGlossary++
	}
}

func conflict(lang, key string, err error) entities.Conflict {
	return entities.Conflict{
		Language: lang,
		KeyPath:  key,
		Code:     domain.Code(err),
		Err:      err,
	}
}

package database

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"localesync/internal/domain/entities"
	"localesync/internal/ports/output"
)

var _ output.TranslationSource = (*TranslationRepository)(nil)

// TranslationRepository stores the translation table in Postgres.
type TranslationRepository struct {
	pool *pgxpool.Pool
}

func NewTranslationRepository(pool *pgxpool.Pool) *TranslationRepository {
	return &TranslationRepository{pool: pool}
}

func (r *TranslationRepository) Table(ctx context.Context) (*entities.TranslationTable, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT key_path, language, text
		FROM translation_entries
		ORDER BY key_path, language`)
	if err != nil {
		return nil, fmt.Errorf("list translation entries: %w", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[entryRow])
	if err != nil {
		return nil, fmt.Errorf("scan translation entries: %w", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT source_language, source_text, language, text
		FROM glossary_entries
		ORDER BY source_text, language`)
	if err != nil {
		return nil, fmt.Errorf("list glossary entries: %w", err)
	}
	terms, err := pgx.CollectRows(rows, pgx.RowToStructByName[glossaryRow])
	if err != nil {
		return nil, fmt.Errorf("scan glossary entries: %w", err)
	}

	table := &entities.TranslationTable{Entries: entriesToDomain(entries)}
	for _, g := range terms {
		if table.SourceLanguage != "" && table.SourceLanguage != g.SourceLanguage {
			return nil, fmt.Errorf("glossary mixes source languages %q and %q", table.SourceLanguage, g.SourceLanguage)
		}
		table.SourceLanguage = g.SourceLanguage
		if table.Glossary == nil {
			table.Glossary = map[string]map[string]string{}
		}
		if table.Glossary[g.SourceText] == nil {
			table.Glossary[g.SourceText] = map[string]string{}
		}
		table.Glossary[g.SourceText][g.Language] = g.Text
	}
	return table, nil
}

// Import replaces the stored table with t in a single transaction.
func (r *TranslationRepository) Import(ctx context.Context, t *entities.TranslationTable) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM translation_entries`); err != nil {
		return fmt.Errorf("clear translation entries: %w", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM glossary_entries`); err != nil {
		return fmt.Errorf("clear glossary entries: %w", err)
	}

	entries, err := tx.CopyFrom(ctx,
		pgx.Identifier{"translation_entries"},
		[]string{"key_path", "language", "text"},
		pgx.CopyFromRows(entriesToRows(t.Entries)),
	)
	if err != nil {
		return fmt.Errorf("copy translation entries: %w", err)
	}
	terms, err := tx.CopyFrom(ctx,
		pgx.Identifier{"glossary_entries"},
		[]string{"source_language", "source_text", "language", "text"},
		pgx.CopyFromRows(glossaryToRows(t.SourceLanguage, t.Glossary)),
	)
	if err != nil {
		return fmt.Errorf("copy glossary entries: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	log.Infow("translation table imported", "entries", entries, "glossary", terms)
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

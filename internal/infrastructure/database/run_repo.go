package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"localesync/internal/domain/entities"
	"localesync/internal/ports/output"
)

var _ output.RunRepository = (*RunRepository)(nil)

type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

func (r *RunRepository) Record(ctx context.Context, run *entities.Run) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO catalog_runs (id, command, languages, missing_total, merged, conflicts, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.Command, run.Languages,
		int32(run.MissingTotal), int32(run.Merged), int32(run.Conflicts),
		run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Latest returns up to limit runs, most recent first. An empty command
// matches every run.
func (r *RunRepository) Latest(ctx context.Context, command string, limit int) ([]entities.Run, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, command, languages, missing_total, merged, conflicts, started_at, finished_at
		FROM catalog_runs
		WHERE $1::text = '' OR command = $1
		ORDER BY started_at DESC
		LIMIT $2`, command, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[runRow])
	if err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}
	out := make([]entities.Run, 0, len(list))
	for _, row := range list {
		out = append(out, runToDomain(row))
	}
	return out, nil
}

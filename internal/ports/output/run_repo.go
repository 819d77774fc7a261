package output

import (
	"context"

	"localesync/internal/domain/entities"
)

type RunRepository interface {
	Record(ctx context.Context, run *entities.Run) error
	Latest(ctx context.Context, command string, limit int) ([]entities.Run, error)
}

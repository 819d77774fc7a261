package output

import (
	"context"

	"localesync/internal/domain/entities"
)

// Notifier publishes an analysis summary outside the terminal.
type Notifier interface {
	NotifyAnalysis(ctx context.Context, analysis *entities.Analysis) error
}

package output

import (
	"context"

	"localesync/internal/domain/entities"
)

// TranslationSource supplies the curated translation table of a merge pass.
type TranslationSource interface {
	Table(ctx context.Context) (*entities.TranslationTable, error)
}

package input

import (
	"context"

	"localesync/internal/domain/catalog"
	"localesync/internal/domain/entities"
)

type MergeOptions struct {
	Policy catalog.Policy
	DryRun bool
}

type CatalogUseCase interface {
	Analyze(ctx context.Context, langs []string) (*entities.Analysis, error)
	MergeMissing(ctx context.Context, langs []string, opts MergeOptions) (*entities.MergeReport, error)
}

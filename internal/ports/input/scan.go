package input

import (
	"context"

	"localesync/internal/domain/entities"
)

type ScanUseCase interface {
	Scan(ctx context.Context, top int) (*entities.ScanReport, error)
}

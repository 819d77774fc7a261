package output

import (
	"context"

	"localesync/internal/domain/catalog"
)

// CatalogRepository loads and persists one catalog per language.
type CatalogRepository interface {
	Load(ctx context.Context, lang string) (*catalog.Tree, error)
	Save(ctx context.Context, lang string, tree *catalog.Tree) error
}

// ChangePreviewer renders the difference between two versions of a catalog.
type ChangePreviewer interface {
	Preview(before, after *catalog.Tree) ([]byte, error)
}

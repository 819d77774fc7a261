package output

import (
	"context"

	"localesync/internal/domain/entities"
)

// Classifier guesses which writing systems a literal is written in.
type Classifier interface {
	Classify(text string) entities.Script
}

// SourceScanner finds literal strings in a source tree that look like UI text.
type SourceScanner interface {
	Scan(ctx context.Context) ([]entities.Candidate, error)
}

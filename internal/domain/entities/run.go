package entities

import (
	"time"

	"github.com/google/uuid"
)

// Run is the history record of one analyze or merge invocation.
type Run struct {
	ID           uuid.UUID
	Command      string
	Languages    []string
	MissingTotal int
	Merged       int
	Conflicts    int
	StartedAt    time.Time
	FinishedAt   time.Time
}

package ports

import (
	"context"

	"github.com/aretw0/wellplan/pkg/domain"
)

// RunStore persists run snapshots for end-of-run review and to resume an interrupted run.
// Implementations must be safe for concurrent use: the report server reads while a runner writes.
type RunStore interface {
	// Save persists the snapshot under state.RunID, replacing any previous one.
	Save(ctx context.Context, state *domain.RunState) error

	// Load retrieves the snapshot for a run.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.RunState, error)

	// Delete removes a run. Deleting an unknown run is not an error.
	Delete(ctx context.Context, runID string) error

	// List returns the IDs of every stored run.
	List(ctx context.Context) ([]string, error)
}

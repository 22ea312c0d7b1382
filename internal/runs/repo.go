package runs

import "context"

// Repo defines persistence operations for runs. All lookups are scoped to
// the owning session.
type Repo interface {
	Create(ctx context.Context, run Run) error
	GetByID(ctx context.Context, sessionID, runID string) (Run, error)
	Update(ctx context.Context, run Run) error
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Run, error)
}

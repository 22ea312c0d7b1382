package runs

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Run // sessionId -> runs
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Run),
	}
}

// Create stores a new run for a session.
func (r *MemoryRepo) Create(ctx context.Context, run Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[run.SessionID] = append(r.data[run.SessionID], run)
	return nil
}

// GetByID returns a run by ID for a session.
func (r *MemoryRepo) GetByID(ctx context.Context, sessionID, runID string) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, run := range r.data[sessionID] {
		if run.ID == runID {
			return run, nil
		}
	}
	return Run{}, ErrNotFound
}

// Update overwrites a stored run.
func (r *MemoryRepo) Update(ctx context.Context, run Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.data[run.SessionID]
	for i := range stored {
		if stored[i].ID == run.ID {
			stored[i] = run
			r.data[run.SessionID] = stored
			return nil
		}
	}
	return ErrNotFound
}

// ListBySession returns runs for a session, newest first, honoring
// limit/offset. A non-positive limit defaults to 20 and limits above
// 100 are capped, matching the SQL repository.
func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	stored := r.data[sessionID]
	r.mu.RUnlock()

	if len(stored) == 0 || offset >= len(stored) {
		return []Run{}, nil
	}

	out := make([]Run, len(stored))
	copy(out, stored)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	end := len(out)
	if offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)

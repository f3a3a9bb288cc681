package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/artpar/tiger/domain/run"
	"github.com/artpar/tiger/ports"
)

// RunStore is an in-memory implementation of ports.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs []run.Run
}

var _ ports.RunStore = (*RunStore)(nil)

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Record stores a finished run.
func (s *RunStore) Record(ctx context.Context, r run.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, r)
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]run.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]run.Run, len(s.runs))
	copy(result, s.runs)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

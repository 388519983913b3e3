package store

import (
	"context"
	"sort"
	"sync"

	"github.com/hersouls/AI-Biz-Eyes-v1.0-sub001/internal/model"
)

const DefaultMaxRuns = 500

// MemoryStore is an in-memory StatusStore. It keeps at most maxRuns runs and
// drops the oldest first.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    []model.RelayRun
	latest  map[model.DataKind]model.RelayOutcome
	maxRuns int
}

func NewMemoryStore(maxRuns int) *MemoryStore {
	if maxRuns <= 0 {
		maxRuns = DefaultMaxRuns
	}
	return &MemoryStore{
		latest:  make(map[model.DataKind]model.RelayOutcome),
		maxRuns: maxRuns,
	}
}

func (s *MemoryStore) RecordRun(ctx context.Context, run model.RelayRun) error {
	if err := validateRun(run); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run.Outcomes = append([]model.RelayOutcome(nil), run.Outcomes...)
	s.runs = append(s.runs, run)
	if len(s.runs) > s.maxRuns {
		s.runs = s.runs[len(s.runs)-s.maxRuns:]
	}
	for _, o := range run.Outcomes {
		s.latest[o.Kind] = o
	}
	return nil
}

func (s *MemoryStore) LatestOutcomes(ctx context.Context) (map[model.DataKind]model.RelayOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[model.DataKind]model.RelayOutcome, len(s.latest))
	for k, v := range s.latest {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) ListRuns(ctx context.Context, limit int) ([]model.RelayRun, error) {
	s.mu.RLock()
	runs := make([]model.RelayRun, 0, len(s.runs))
	for i := len(s.runs) - 1; i >= 0; i-- {
		runs = append(runs, s.runs[i])
	}
	s.mu.RUnlock()

	// Sort by started_at descending, later inserts first on ties
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	limit = listLimit(limit)
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

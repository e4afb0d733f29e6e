package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

// MemoryStore keeps run history in memory. The default backend: verification
// results are session-scoped unless an operator opts into a database.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    map[string]*Run
	order   []string
	records map[string][]verify.Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		runs:    make(map[string]*Run),
		records: make(map[string][]verify.Record),
	}
}

func (s *MemoryStore) CreateRun(_ context.Context, label string) (*Run, error) {
	r := &Run{
		ID:        uuid.New().String(),
		Label:     label,
		Status:    RunStatusRunning,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.runs[r.ID] = r
	s.order = append(s.order, r.ID)
	s.mu.Unlock()
	return r, nil
}

func (s *MemoryStore) CompleteRun(_ context.Context, runID string, succeeded, failed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[runID]
	if !ok {
		return eris.Errorf("store: run not found: %s", runID)
	}
	now := time.Now().UTC()
	r.Succeeded = succeeded
	r.Failed = failed
	r.CompletedAt = &now
	if succeeded == 0 && failed > 0 {
		r.Status = RunStatusFailed
	} else {
		r.Status = RunStatusCompleted
	}
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, runID string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[runID]
	if !ok {
		return nil, eris.Errorf("store: run not found: %s", runID)
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, filter RunFilter) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Run
	// Newest first, matching the database drivers.
	for i := len(s.order) - 1; i >= 0; i-- {
		r := s.runs[s.order[i]]
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, *r)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) SaveRecord(_ context.Context, runID string, rec verify.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return eris.Errorf("store: run not found: %s", runID)
	}
	s.records[runID] = append(s.records[runID], rec)
	return nil
}

func (s *MemoryStore) SaveRecords(_ context.Context, runID string, recs []verify.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return eris.Errorf("store: run not found: %s", runID)
	}
	s.records[runID] = append(s.records[runID], recs...)
	return nil
}

func (s *MemoryStore) ListRecords(_ context.Context, runID string) ([]verify.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.records[runID]
	out := make([]verify.Record, len(recs))
	copy(out, recs)
	return out, nil
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

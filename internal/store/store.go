// Package store persists generation records. The orchestrator appends
// every terminal record to a RecordStore; the in-memory implementation
// backs single-process runs and tests, the SQLite one survives restarts.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/jonesrussell/sourcegen/internal/models"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// RecordStore is an append-only history of generation records, ordered
// by insertion. Clear is the only way to shrink it.
type RecordStore interface {
	Save(ctx context.Context, record models.GenerationRecord) error
	List(ctx context.Context) ([]models.GenerationRecord, error)
	Get(ctx context.Context, id string) (models.GenerationRecord, error)
	Clear(ctx context.Context) error
}

// MemoryStore keeps records in insertion order in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.GenerationRecord
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, record models.GenerationRecord) error {
	if record.ID == "" {
		return errors.New("record id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// List returns a copy, so callers can range freely while generation
// continues appending.
func (s *MemoryStore) List(_ context.Context) ([]models.GenerationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.GenerationRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.GenerationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return models.GenerationRecord{}, ErrNotFound
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

// Package memory provides an in-memory law store for development/testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/brlaws/leiscache/internal/law"
)

// Store implements law.Store with a mutex-guarded map. Contents do not
// survive restarts; production deployments use the sqlite store.
type Store struct {
	mu      sync.RWMutex
	records map[string]law.Record
	clock   law.Clock
}

// New constructs a Store. A nil clock falls back to time.Now.
func New(clock law.Clock) *Store {
	return &Store{
		records: make(map[string]law.Record),
		clock:   clock,
	}
}

// Upsert inserts or replaces the record for lawType.
func (s *Store) Upsert(_ context.Context, lawType, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[lawType] = law.Record{
		LawType:   lawType,
		Content:   content,
		UpdatedAt: s.now(),
	}
	return nil
}

// GetLatest returns the record for lawType or law.ErrNotFound.
func (s *Store) GetLatest(_ context.Context, lawType string) (law.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[lawType]
	if !ok {
		return law.Record{}, law.ErrNotFound
	}
	return record, nil
}

// ListLaws returns all records ordered by law type, content omitted.
func (s *Store) ListLaws(_ context.Context) ([]law.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]law.Record, 0, len(s.records))
	for _, record := range s.records {
		record.Content = ""
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LawType < out[j].LawType })
	return out, nil
}

// Ping always succeeds for the in-memory store.
func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) now() time.Time {
	if s.clock != nil {
		return s.clock.Now()
	}
	return time.Now().UTC()
}

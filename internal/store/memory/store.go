// Package memory provides the in-memory result store used by default.
package memory

import (
	"context"
	"sync"

	"github.com/newsreach/newsreach/internal/scraper"
)

// Store accumulates records in insertion order. It is safe for one writer and
// many concurrent readers; List returns a copy so readers never observe a
// partially written record.
type Store struct {
	mu      sync.RWMutex
	records []scraper.Record
}

// New constructs an empty Store.
func New() *Store {
	return &Store{}
}

// Append adds a record to the end of the set.
func (s *Store) Append(_ context.Context, rec scraper.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// List returns a snapshot of all records in insertion order.
func (s *Store) List(_ context.Context) ([]scraper.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]scraper.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Clear removes all records.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

// Package memory provides an in-process employee.Store for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spigell/skillmatch/internal/employee"
)

// Store keeps records in a map keyed by name.
type Store struct {
	mu      sync.RWMutex
	records map[string]employee.Record
	now     func() time.Time
}

func New() *Store {
	return &Store{
		records: make(map[string]employee.Record),
		now:     time.Now,
	}
}

// WithClock replaces the write-time clock.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *Store) Upsert(ctx context.Context, record employee.Record) error {
	if err := ctx.Err(); err != nil {
		return &employee.StoreError{Op: "upsert", Name: record.Name, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record.Tags = append([]string{}, record.Tags...)
	record.UpdatedAt = s.now().UTC()
	s.records[record.Name] = record
	return nil
}

// ListAll returns copies of every record ordered by name.
func (s *Store) ListAll(ctx context.Context) ([]employee.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, &employee.StoreError{Op: "list", Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]employee.Record, 0, len(s.records))
	for _, r := range s.records {
		r.Tags = append([]string{}, r.Tags...)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

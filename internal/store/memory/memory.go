// Package memory keeps extracted swatches in-memory; it backs tests and dry
// runs where no database is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/swatchbook/pantone-scraper/internal/swatch"
)

// Row is one stored swatch with its position in the run.
type Row struct {
	Position int
	Record   swatch.Record
}

// Store accumulates swatch rows per run.
type Store struct {
	mu   sync.RWMutex
	runs map[string][]Row
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{runs: make(map[string][]Row)}
}

// SaveSwatch appends the record under the run ID.
func (s *Store) SaveSwatch(_ context.Context, runID string, position int, rec swatch.Record) error {
	if runID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validate swatch: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = append(s.runs[runID], Row{Position: position, Record: rec})
	return nil
}

// Rows returns a copy of the rows stored for the run, in insertion order.
func (s *Store) Rows(runID string) []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Row(nil), s.runs[runID]...)
}

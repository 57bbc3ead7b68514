package sinks

import (
	"context"
	"sync"
	"time"

	"github.com/swatchbook/pantone-scraper/internal/progress"
)

// RunView is a point-in-time aggregate of a scrape run, suitable for serving
// from the status API without touching durable storage.
type RunView struct {
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PagesFetched  int64 `json:"pages_fetched"`
	Swatches      int64 `json:"swatches"`
	PagesSkipped  int64 `json:"pages_skipped"`
	BytesFetched  int64 `json:"bytes_fetched"`
	HeadlessPages int64 `json:"headless_pages"`

	LastURL  string `json:"last_url,omitempty"`
	LastCode string `json:"last_code,omitempty"`
	LastNote string `json:"last_note,omitempty"`

	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// SnapshotSink folds progress events into a RunView that the status API can
// read while the scrape is in flight. It tracks the most recent run only.
type SnapshotSink struct {
	mu   sync.RWMutex
	view RunView
}

// NewSnapshotSink returns an empty snapshot sink.
func NewSnapshotSink() *SnapshotSink {
	return &SnapshotSink{}
}

// Consume applies each event in the batch to the aggregate view.
func (s *SnapshotSink) Consume(_ context.Context, batch []progress.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, evt := range batch {
		s.apply(evt)
	}
	return nil
}

func (s *SnapshotSink) apply(evt progress.Event) {
	if evt.RunID != s.view.RunID {
		s.view = RunView{RunID: evt.RunID}
	}
	s.view.Stage = string(evt.Stage)
	s.view.UpdatedAt = evt.TS

	switch evt.Stage {
	case progress.StageRunStart:
		s.view.StartedAt = evt.TS
	case progress.StagePageFetched:
		s.view.PagesFetched++
		s.view.BytesFetched += evt.Bytes
		if evt.Headless {
			s.view.HeadlessPages++
		}
		s.view.LastURL = evt.URL
	case progress.StagePageParsed:
		s.view.Swatches++
		s.view.LastURL = evt.URL
		s.view.LastCode = evt.Code
	case progress.StagePageSkipped:
		s.view.PagesSkipped++
		s.view.LastURL = evt.URL
		s.view.LastNote = evt.Note
	case progress.StageRunDone:
		s.view.Done = true
	case progress.StageRunError:
		s.view.Done = true
		s.view.Error = evt.Note
	}
}

// Snapshot returns a copy of the current view.
func (s *SnapshotSink) Snapshot() RunView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Close implements the Sink interface; it performs no action.
func (s *SnapshotSink) Close(context.Context) error {
	return nil
}

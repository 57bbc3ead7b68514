package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHubFlushesFullBatches(t *testing.T) {
	t.Parallel()

	sink := newCaptureSink()
	hub := NewHub(Config{
		BufferSize:     8,
		MaxBatchEvents: 2,
		MaxBatchWait:   time.Minute,
	}, sink)
	defer func() {
		require.NoError(t, hub.Close(context.Background()))
	}()

	hub.Emit(pageEvent(StagePageFetched))
	hub.Emit(pageEvent(StagePageFetched))

	require.Eventually(t, func() bool {
		batches := sink.Batches()
		return len(batches) == 1 && len(batches[0]) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestHubFlushesPartialBatchOnTick(t *testing.T) {
	t.Parallel()

	sink := newCaptureSink()
	hub := NewHub(Config{
		BufferSize:     4,
		MaxBatchEvents: 10,
		MaxBatchWait:   25 * time.Millisecond,
	}, sink)
	defer func() {
		require.NoError(t, hub.Close(context.Background()))
	}()

	hub.Emit(pageEvent(StageRunStart))

	require.Eventually(t, func() bool {
		return len(sink.Batches()) == 1
	}, time.Second, 5*time.Millisecond)
}

// A hub nobody drains must still return from Emit immediately; the engine's
// fetch cadence never waits on progress plumbing.
func TestHubEmitNeverBlocks(t *testing.T) {
	t.Parallel()

	hub := &Hub{
		cfg:   Config{}.withDefaults(),
		queue: make(chan Event),
	}

	start := time.Now()
	for i := 0; i < 100; i++ {
		hub.Emit(pageEvent(StagePageFetched))
	}
	require.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestHubCloseDrainsBufferedEvents(t *testing.T) {
	t.Parallel()

	sink := newCaptureSink()
	hub := NewHub(Config{
		BufferSize:     4,
		MaxBatchEvents: 100,
		MaxBatchWait:   time.Minute,
	}, sink)

	hub.Emit(pageEvent(StagePageParsed))

	require.NoError(t, hub.Close(context.Background()))
	batches := sink.Batches()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 1)
}

func TestHubDiscardsMalformedEvents(t *testing.T) {
	t.Parallel()

	sink := newCaptureSink()
	hub := NewHub(Config{
		BufferSize:     4,
		MaxBatchEvents: 1,
		MaxBatchWait:   time.Minute,
	}, sink)

	hub.Emit(Event{Stage: StageRunStart})                              // no run id
	hub.Emit(Event{RunID: "run-1", TS: time.Now(), Stage: "GUESSING"}) // unknown stage

	require.NoError(t, hub.Close(context.Background()))
	require.Empty(t, sink.Batches())
}

func TestHubIgnoresEmitAfterClose(t *testing.T) {
	t.Parallel()

	sink := newCaptureSink()
	hub := NewHub(Config{
		BufferSize:     4,
		MaxBatchEvents: 1,
		MaxBatchWait:   time.Minute,
	}, sink)
	require.NoError(t, hub.Close(context.Background()))

	hub.Emit(pageEvent(StageRunDone))
	require.Empty(t, sink.Batches())
}

// captureSink records every batch it is handed.
type captureSink struct {
	mu      sync.Mutex
	batches [][]Event
}

func newCaptureSink() *captureSink {
	return &captureSink{}
}

func (s *captureSink) Consume(_ context.Context, batch []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]Event(nil), batch...))
	return nil
}

func (s *captureSink) Close(context.Context) error { return nil }

func (s *captureSink) Batches() [][]Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]Event, len(s.batches))
	for i, b := range s.batches {
		out[i] = append([]Event(nil), b...)
	}
	return out
}

func pageEvent(stage Stage) Event {
	evt := Event{
		RunID: "run-1",
		TS:    time.Now(),
		Stage: stage,
	}
	switch stage {
	case StagePageFetched:
		evt.URL = "https://www.pantone.com/color-finder/2995-C"
		evt.StatusClass = Status2xx
		evt.Bytes = 2048
	case StagePageParsed:
		evt.URL = "https://www.pantone.com/color-finder/2995-C"
		evt.Code = "2995 C"
	case StagePageSkipped:
		evt.URL = "https://www.pantone.com/color-finder/2995-C"
		evt.Note = "no swatch data"
	}
	return evt
}

package progress

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config tunes hub buffering. Zero values take the default noted per field.
type Config struct {
	// BufferSize caps queued events before Emit starts dropping (1024).
	BufferSize int
	// MaxBatchEvents flushes a batch once it reaches this size (256).
	MaxBatchEvents int
	// MaxBatchWait bounds how long a partial batch sits unflushed (250ms).
	MaxBatchWait time.Duration
	// SinkTimeout bounds a single sink's Consume call during a flush (5s).
	SinkTimeout time.Duration
	// BaseContext is the parent of every sink call (context.Background()).
	BaseContext context.Context
	// Logger reports drops and sink failures.
	Logger *zap.Logger
}

const dropLogInterval = 5 * time.Second

func (c Config) withDefaults() Config {
	if c.BufferSize <= 0 {
		c.BufferSize = 1024
	}
	if c.MaxBatchEvents <= 0 {
		c.MaxBatchEvents = 256
	}
	if c.MaxBatchWait <= 0 {
		c.MaxBatchWait = 250 * time.Millisecond
	}
	if c.SinkTimeout <= 0 {
		c.SinkTimeout = 5 * time.Second
	}
	if c.BaseContext == nil {
		c.BaseContext = context.Background()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Hub collects run events and fans them out to sinks in batches. Emit never
// blocks the scrape loop; a full buffer drops events instead of stalling the
// fetch cadence.
type Hub struct {
	cfg   Config
	sinks []Sink
	queue chan Event
	quit  chan struct{}
	done  chan struct{}

	dropLog *rate.Limiter
	dropped atomic.Int64
	closing atomic.Bool

	stopOnce sync.Once
	closeCtx context.Context
}

// NewHub starts the batching goroutine over the given sinks. The hub accepts
// events immediately; Close flushes and stops it.
func NewHub(cfg Config, sinks ...Sink) *Hub {
	h := &Hub{
		cfg:     cfg.withDefaults(),
		sinks:   append([]Sink(nil), sinks...),
		dropLog: rate.NewLimiter(rate.Every(dropLogInterval), 1),
	}
	h.queue = make(chan Event, h.cfg.BufferSize)
	h.quit = make(chan struct{})
	h.done = make(chan struct{})
	go h.run()
	return h
}

// Emit queues one event for delivery. Malformed events are discarded, and
// when the buffer is full the event is dropped with a throttled warning.
func (h *Hub) Emit(evt Event) {
	if h == nil || h.closing.Load() {
		return
	}
	if err := evt.Validate(); err != nil {
		h.cfg.Logger.Debug("dropping malformed progress event", zap.Error(err))
		return
	}
	select {
	case h.queue <- evt:
	default:
		n := h.dropped.Add(1)
		if h.dropLog != nil && h.dropLog.Allow() {
			h.cfg.Logger.Warn("progress queue full, events dropped", zap.Int64("dropped", n))
			h.dropped.Store(0)
		}
	}
}

// Close stops intake, drains queued events through the sinks, and waits for
// the background goroutine to finish or ctx to expire. Later calls are no-ops
// that still wait for the first shutdown.
func (h *Hub) Close(ctx context.Context) error {
	if h == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	h.stopOnce.Do(func() {
		h.closing.Store(true)
		h.closeCtx = ctx
		close(h.quit)
	})
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("progress hub close wait: %w", ctx.Err())
	}
}

func (h *Hub) run() {
	defer close(h.done)
	ticker := time.NewTicker(h.cfg.MaxBatchWait)
	defer ticker.Stop()
	batch := make([]Event, 0, h.cfg.MaxBatchEvents)
	for {
		select {
		case evt := <-h.queue:
			if batch = append(batch, evt); len(batch) >= h.cfg.MaxBatchEvents {
				batch = h.dispatch(batch)
			}
		case <-ticker.C:
			batch = h.dispatch(batch)
		case <-h.quit:
			h.shutdown(batch)
			return
		}
	}
}

// dispatch hands a copy of the batch to every sink and returns the slice
// reset for reuse. Empty batches are a no-op.
func (h *Hub) dispatch(batch []Event) []Event {
	if len(batch) == 0 {
		return batch
	}
	out := make([]Event, len(batch))
	copy(out, batch)
	for _, sink := range h.sinks {
		h.consume(sink, out)
	}
	return batch[:0]
}

func (h *Hub) consume(sink Sink, batch []Event) {
	if sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(h.cfg.BaseContext, h.cfg.SinkTimeout)
	defer cancel()
	if err := sink.Consume(ctx, batch); err != nil {
		h.cfg.Logger.Warn("progress sink rejected a batch", zap.Error(err))
	}
}

// shutdown consumes whatever Emit managed to queue before Close won the race,
// pushes the final batch, and closes the sinks.
func (h *Hub) shutdown(batch []Event) {
	for {
		select {
		case evt := <-h.queue:
			if batch = append(batch, evt); len(batch) >= h.cfg.MaxBatchEvents {
				batch = h.dispatch(batch)
			}
		default:
			h.dispatch(batch)
			h.closeSinks()
			return
		}
	}
}

func (h *Hub) closeSinks() {
	ctx := h.closeCtx
	if ctx == nil {
		ctx = context.Background()
	}
	for _, sink := range h.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Close(ctx); err != nil {
			h.cfg.Logger.Warn("progress sink close failed", zap.Error(err))
		}
	}
}

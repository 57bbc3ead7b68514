package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/swatchbook/pantone-scraper/internal/progress"
)

// LogSink mirrors the event stream into structured logs, the only progress
// surface when the terminal bar and status server are both off.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume writes one line per event. Fields that are zero for the stage are
// left out to keep lines short.
func (s *LogSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		fields := make([]zap.Field, 0, 9)
		fields = append(fields,
			zap.String("run_id", evt.RunID),
			zap.String("stage", string(evt.Stage)),
		)
		if evt.URL != "" {
			fields = append(fields, zap.String("url", evt.URL))
		}
		if evt.Code != "" {
			fields = append(fields, zap.String("code", evt.Code))
		}
		if evt.StatusClass != "" {
			fields = append(fields, zap.String("status_class", string(evt.StatusClass)))
		}
		if evt.Bytes > 0 {
			fields = append(fields, zap.Int64("bytes", evt.Bytes))
		}
		if evt.Dur > 0 {
			fields = append(fields, zap.Duration("dur", evt.Dur))
		}
		if evt.Headless {
			fields = append(fields, zap.Bool("headless", true))
		}
		if evt.Note != "" {
			fields = append(fields, zap.String("note", evt.Note))
		}
		s.logger.Info("scrape progress", fields...)
	}
	return nil
}

// Close implements the Sink interface; there is nothing to flush.
func (s *LogSink) Close(context.Context) error {
	return nil
}

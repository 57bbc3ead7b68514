package sinks

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/swatchbook/pantone-scraper/internal/progress"
)

// BarSink renders a terminal progress bar sized to the catalog being scraped.
// Each fetched page advances the bar by one; run completion finalizes it.
type BarSink struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewBarSink builds a bar for total pages writing to out (os.Stderr when nil).
func NewBarSink(total int, out io.Writer) *BarSink {
	if out == nil {
		out = os.Stderr
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("scraping swatches"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	return &BarSink{bar: bar}
}

// Consume advances the bar for page fetches and finalizes it when the run ends.
func (s *BarSink) Consume(_ context.Context, batch []progress.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, evt := range batch {
		switch evt.Stage {
		case progress.StagePageFetched:
			_ = s.bar.Add(1)
		case progress.StageRunDone:
			_ = s.bar.Finish()
		case progress.StageRunError:
			_ = s.bar.Exit()
		}
	}
	return nil
}

// Close stops rendering without forcing the bar to completion.
func (s *BarSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bar.Exit()
}

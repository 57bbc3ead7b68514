// Package ratelimit paces page fetches so the scraper stays polite to the
// one host it visits.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces fetches by a fixed interval. A zero or negative interval
// disables pacing.
type Pacer struct {
	limiter *rate.Limiter
}

// New creates a Pacer permitting one fetch per interval; the first fetch
// passes immediately.
func New(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next fetch may proceed, honoring the context.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("politeness wait: %w", err)
	}
	return nil
}

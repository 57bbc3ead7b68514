package headless

import (
	"context"
	"errors"

	"github.com/swatchbook/pantone-scraper/internal/scraper"
)

// Noop implements scraper.Fetcher but always returns an error, standing in
// when the headless fallback is disabled.
type Noop struct{}

// NewNoop creates a new Noop fetcher.
func NewNoop() *Noop {
	return &Noop{}
}

// Fetch returns an error since headless browsing is not available.
func (Noop) Fetch(_ context.Context, _ scraper.FetchRequest) (scraper.FetchResponse, error) {
	return scraper.FetchResponse{}, errors.New("headless fetcher not configured")
}

package scraper

import (
	"context"
	"io"
	"time"

	"github.com/swatchbook/pantone-scraper/internal/swatch"
)

// Fetcher fetches a URL and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// Detector decides whether a fetched body needs a headless re-fetch before
// swatch data appears.
type Detector interface {
	NeedsJS(body []byte) bool
}

// RobotsPolicy decides whether a URL may be fetched at all.
type RobotsPolicy interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// Pacer spaces page fetches.
type Pacer interface {
	Wait(ctx context.Context) error
}

// PageParser turns fetched bodies into colour records.
type PageParser interface {
	ParsePage(body []byte, fallbackName string) (swatch.Record, error)
	ParseBook(body []byte) ([]swatch.Record, error)
}

// Archiver writes raw page bodies and returns a URI.
type Archiver interface {
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}

// RecordStore persists extracted records as they are collected.
type RecordStore interface {
	SaveSwatch(ctx context.Context, runID string, position int, rec swatch.Record) error
}

// Notifier publishes the run-completion message and returns the message ID.
type Notifier interface {
	Publish(ctx context.Context, payload any) (string, error)
}

// Hasher computes digests for archive keys.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}

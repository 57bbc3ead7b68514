// Package scraper drives the sequential sweep over the colour catalog:
// pace, check robots, fetch, parse, collect, one page at a time.
package scraper

import (
	"net/http"
	"time"
)

// FetchRequest describes one page fetch.
type FetchRequest struct {
	URL     string
	Headers http.Header
}

// FetchResponse is the outcome of one page fetch. HTTP error statuses are
// responses, not errors: the engine decides what a status means for the run.
type FetchResponse struct {
	URL          string
	StatusCode   int
	Headers      http.Header
	Body         []byte
	Duration     time.Duration
	UsedHeadless bool
}

// RunSummary reports what a completed run did. It is the payload of the
// completion notification and the progress snapshot.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Catalog    string    `json:"catalog"`
	Visited    int       `json:"visited"`
	Extracted  int       `json:"extracted"`
	Skipped    int       `json:"skipped"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	CSVPath    string    `json:"csv_path"`
}

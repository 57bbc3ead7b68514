// Package progress defines the event structures emitted by a scrape run.
package progress

import (
	"errors"
	"fmt"
	"time"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageRunStart    Stage = "RUN_START"
	StageRunDone     Stage = "RUN_DONE"
	StageRunError    Stage = "RUN_ERROR"
	StagePageFetched Stage = "PAGE_FETCHED"
	StagePageParsed  Stage = "PAGE_PARSED"
	StagePageSkipped Stage = "PAGE_SKIPPED"
)

// StatusClass is a coarse HTTP response grouping.
type StatusClass string

// Supported HTTP status classes tracked for page fetches.
const (
	Status2xx   StatusClass = "2xx"
	Status3xx   StatusClass = "3xx"
	Status4xx   StatusClass = "4xx"
	Status5xx   StatusClass = "5xx"
	StatusOther StatusClass = "other"
)

// Event captures a single milestone of scrape progress.
type Event struct {
	// RunID identifies the scrape run the event belongs to.
	RunID string
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which lifecycle or page milestone occurred.
	Stage Stage
	// URL is the colour page the milestone refers to, when page-scoped.
	URL string
	// Code carries the extracted colour code for parsed pages.
	Code string
	// StatusClass groups HTTP response codes (2xx, 3xx, etc) for fetches.
	StatusClass StatusClass
	// Bytes carries the response size for fetched pages.
	Bytes int64
	// Dur captures fetch latency or total run wall time.
	Dur time.Duration
	// Headless marks pages that went through the rendering fallback.
	Headless bool
	// Note lets emitters attach low-volume context (skip reason, error text).
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == "" {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone, StageRunError:
	case StagePageFetched:
		if e.URL == "" {
			return errors.New("page fetched requires url")
		}
		if e.StatusClass == "" {
			return errors.New("page fetched requires status class")
		}
	case StagePageParsed:
		if e.URL == "" {
			return errors.New("page parsed requires url")
		}
		if e.Code == "" {
			return errors.New("page parsed requires colour code")
		}
	case StagePageSkipped:
		if e.URL == "" {
			return errors.New("page skipped requires url")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// ClassifyStatus groups HTTP status codes for fetch events.
func ClassifyStatus(code int) StatusClass {
	switch {
	case code >= 200 && code < 300:
		return Status2xx
	case code >= 300 && code < 400:
		return Status3xx
	case code >= 400 && code < 500:
		return Status4xx
	case code >= 500 && code < 600:
		return Status5xx
	default:
		return StatusOther
	}
}

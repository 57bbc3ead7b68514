// Package progress provides the event primitives, non-blocking hub, and emitter
// interfaces the scrape engine uses to report per-page progress. It batches
// events on a background goroutine and fans them out to pluggable sinks such as
// Prometheus metrics, a terminal bar, or structured logs.
package progress

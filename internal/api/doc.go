// Package api hosts the optional status HTTP server that runs alongside a
// long catalog sweep. Notable routes:
//   - GET /healthz and /readyz for probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /v1/progress for a JSON snapshot of the current run.
package api

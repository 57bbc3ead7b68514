// Package archive defines the blob-store interface used to keep raw page
// snapshots and run artifacts. Implementations cover the local filesystem, a
// GCS bucket, and an in-memory store for tests; each returns a URI for the
// stored object.
package archive

import (
	"context"
	"io"
)

// Provider stores a blob under the given key and returns its URI.
type Provider interface {
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}

// NoOp discards everything; it stands in when archiving is disabled.
type NoOp struct{}

// PutObject drains the reader and reports an empty URI.
func (NoOp) PutObject(_ context.Context, _ string, _ string, data io.Reader) (string, error) {
	if data != nil {
		_, _ = io.Copy(io.Discard, data)
	}
	return "", nil
}

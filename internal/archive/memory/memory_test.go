// Package memory_test tests the in-memory archive.
package memory_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swatchbook/pantone-scraper/internal/archive/memory"
)

func TestPutObjectAndGet(t *testing.T) {
	t.Parallel()

	store := memory.New()
	uri, err := store.PutObject(context.Background(), "runs/run-1/pages/abc.html", "text/html", bytes.NewReader([]byte("payload")))
	require.NoError(t, err)
	assert.Equal(t, "memory://runs/run-1/pages/abc.html", uri)

	got, ok := store.Get("runs/run-1/pages/abc.html")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)
	assert.Equal(t, 1, store.Len())

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestGetReturnsCopy(t *testing.T) {
	t.Parallel()

	store := memory.New()
	_, err := store.PutObject(context.Background(), "k", "", bytes.NewReader([]byte("abc")))
	require.NoError(t, err)

	first, ok := store.Get("k")
	require.True(t, ok)
	first[0] = 'z'

	second, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), second)
}

package headless

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/require"

	"github.com/swatchbook/pantone-scraper/internal/scraper"
)

func TestNewChromedpDefaultTimeout(t *testing.T) {
	t.Parallel()

	f := NewChromedp(Config{})
	defer f.Close()
	require.Equal(t, 45*time.Second, f.cfg.NavigationTimeout)
}

func TestToNetworkHeaders(t *testing.T) {
	t.Parallel()

	got := toNetworkHeaders(http.Header{
		"Accept-Language": {"en"},
		"X-Trace":         {"a", "b"},
		"X-Empty":         {},
	})

	require.Equal(t, "en", got["Accept-Language"])
	require.Equal(t, []string{"a", "b"}, got["X-Trace"])
	require.NotContains(t, got, "X-Empty")
}

func TestDocWatchCapturesDocumentResponse(t *testing.T) {
	t.Parallel()

	watch := newDocWatch()
	watch.observe(&network.EventResponseReceived{
		Type: network.ResourceTypeDocument,
		Response: &network.Response{
			Status:  204,
			URL:     "https://www.pantone.com/color-finder/2995-C",
			Headers: network.Headers{"X-Request-ID": "abc"},
		},
	})

	doc := watch.result("https://requested", "")
	require.Equal(t, 204, doc.status)
	require.Equal(t, "abc", doc.headers.Get("X-Request-ID"))
	require.Equal(t, "https://www.pantone.com/color-finder/2995-C", doc.url)
}

func TestDocWatchFallbacks(t *testing.T) {
	t.Parallel()

	doc := newDocWatch().result("https://requested", "https://final")
	require.Equal(t, http.StatusOK, doc.status)
	require.Equal(t, "https://final", doc.url)
	require.NotNil(t, doc.headers)

	doc = newDocWatch().result("https://requested", "")
	require.Equal(t, "https://requested", doc.url)
}

// Subresource responses must not shadow the document's status.
func TestDocWatchIgnoresSubresources(t *testing.T) {
	t.Parallel()

	watch := newDocWatch()
	watch.observe(&network.EventResponseReceived{
		Type: network.ResourceTypeScript,
		Response: &network.Response{
			Status: 500,
			URL:    "https://www.pantone.com/bundle.js",
		},
	})

	doc := watch.result("https://requested", "")
	require.Equal(t, http.StatusOK, doc.status)
	require.Equal(t, "https://requested", doc.url)
}

func TestNoopFetcherError(t *testing.T) {
	t.Parallel()

	_, err := NewNoop().Fetch(context.Background(), scraper.FetchRequest{})
	require.Error(t, err)
}

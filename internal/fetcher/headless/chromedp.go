// Package headless contains the browser-backed fetcher used when a page only
// renders swatch data client-side.
package headless

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/swatchbook/pantone-scraper/internal/scraper"
)

// Config controls the behavior of the headless fetcher.
type Config struct {
	UserAgent         string
	NavigationTimeout time.Duration
}

// settleDelay gives client-side rendering a moment to fill in swatch values
// after the body is ready.
const settleDelay = 500 * time.Millisecond

// Fetcher implements scraper.Fetcher using chromedp and headless Chrome. The
// engine promotes one page at a time, so one shared allocator running a fresh
// tab per fetch is enough.
type Fetcher struct {
	cfg         Config
	allocator   context.Context
	allocCancel context.CancelFunc
}

// NewChromedp creates a headless fetcher backed by chromedp.
func NewChromedp(cfg Config) *Fetcher {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 45 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
		chromedp.WindowSize(1366, 900),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	allocator, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Fetcher{
		cfg:         cfg,
		allocator:   allocator,
		allocCancel: cancel,
	}
}

// Close cancels the allocator context and tears the browser down.
func (f *Fetcher) Close() {
	f.allocCancel()
}

// Fetch renders the page in a fresh tab and returns the settled DOM together
// with the document response's status and headers.
func (f *Fetcher) Fetch(ctx context.Context, request scraper.FetchRequest) (scraper.FetchResponse, error) {
	tab, closeTab := chromedp.NewContext(f.allocator)
	defer closeTab()

	tab, cancel := context.WithTimeout(tab, f.cfg.NavigationTimeout)
	defer cancel()

	// The tab context is parented on the allocator, not on ctx, so the
	// caller's cancellation has to be propagated by hand.
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	watch := newDocWatch()
	chromedp.ListenTarget(tab, watch.observe)

	started := time.Now()
	page, err := f.render(tab, request)
	if err != nil {
		return scraper.FetchResponse{}, err
	}

	doc := watch.result(request.URL, page.location)
	return scraper.FetchResponse{
		URL:          doc.url,
		StatusCode:   doc.status,
		Headers:      doc.headers,
		Body:         []byte(page.html),
		Duration:     time.Since(started),
		UsedHeadless: true,
	}, nil
}

// renderedPage is the outcome of one navigation: the settled DOM and the
// address the browser ended up on after any redirects.
type renderedPage struct {
	html     string
	location string
}

func (f *Fetcher) render(ctx context.Context, request scraper.FetchRequest) (renderedPage, error) {
	var page renderedPage
	err := chromedp.Run(ctx,
		f.prepareSession(request.Headers),
		chromedp.Navigate(request.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.Location(&page.location),
		chromedp.OuterHTML("html", &page.html, chromedp.ByQuery),
	)
	if err != nil {
		return renderedPage{}, fmt.Errorf("render page: %w", err)
	}
	return page, nil
}

func (f *Fetcher) prepareSession(extra http.Header) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if len(extra) > 0 {
			if err := network.SetExtraHTTPHeaders(toNetworkHeaders(extra)).Do(ctx); err != nil {
				return fmt.Errorf("set extra headers: %w", err)
			}
		}
		return nil
	})
}

// docWatch picks the main document response out of the CDP network event
// stream while the page loads.
type docWatch struct {
	mu  sync.Mutex
	doc docInfo
}

// docInfo is what the engine needs from the document response.
type docInfo struct {
	status  int
	headers http.Header
	url     string
}

func newDocWatch() *docWatch {
	return &docWatch{}
}

func (w *docWatch) observe(ev any) {
	resp, ok := ev.(*network.EventResponseReceived)
	if !ok || resp.Type != network.ResourceTypeDocument || resp.Response == nil {
		return
	}
	w.mu.Lock()
	w.doc = docInfo{
		status:  int(resp.Response.Status),
		headers: headerFromCDP(resp.Response.Headers),
		url:     resp.Response.URL,
	}
	w.mu.Unlock()
}

// result returns the captured document response. When navigation produced no
// network event, as happens for cache hits, it falls back to the browser's
// final location (or the request URL) and a 200 status.
func (w *docWatch) result(requestURL, location string) docInfo {
	w.mu.Lock()
	doc := docInfo{status: w.doc.status, headers: w.doc.headers.Clone(), url: w.doc.url}
	w.mu.Unlock()

	if doc.url == "" {
		doc.url = location
	}
	if doc.url == "" {
		doc.url = requestURL
	}
	if doc.status == 0 {
		doc.status = http.StatusOK
	}
	if doc.headers == nil {
		doc.headers = http.Header{}
	}
	return doc
}

// headerFromCDP folds CDP's loosely typed header map into an http.Header.
func headerFromCDP(src network.Headers) http.Header {
	headers := http.Header{}
	for key, value := range src {
		switch v := value.(type) {
		case string:
			headers.Add(key, v)
		case []string:
			for _, entry := range v {
				headers.Add(key, entry)
			}
		case []interface{}:
			for _, entry := range v {
				headers.Add(key, fmt.Sprint(entry))
			}
		default:
			headers.Add(key, fmt.Sprint(v))
		}
	}
	return headers
}

func toNetworkHeaders(h http.Header) network.Headers {
	headers := network.Headers{}
	for key, values := range h {
		if len(values) == 0 {
			continue
		}
		if len(values) == 1 {
			headers[key] = values[0]
		} else {
			headers[key] = append([]string(nil), values...)
		}
	}
	return headers
}

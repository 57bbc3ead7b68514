// Package detector decides when a fetched page needs a headless re-fetch.
package detector

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
)

// appShellMarkers are fragments that identify client-rendered application
// shells. Their presence alone is not enough: the colour finder serves
// script-heavy pages that still carry swatch data server-side.
var appShellMarkers = [][]byte{
	[]byte("__next"),
	[]byte(`id="root"`),
	[]byte(`id="app"`),
	[]byte("data-reactroot"),
}

// Heuristic reports whether a page body is an unrendered shell that a
// headless browser must execute before swatch data appears.
type Heuristic struct {
	minHTMLBytes int
	selectors    []string
}

// NewHeuristic constructs a detector. selectors are the swatch selectors
// whose absence counts as "no data rendered"; minBytes below which a body is
// suspicious regardless of markers (0 picks a default).
func NewHeuristic(minBytes int, selectors []string) *Heuristic {
	if minBytes <= 0 {
		minBytes = 2048
	}
	kept := make([]string, 0, len(selectors))
	for _, sel := range selectors {
		if sel != "" {
			kept = append(kept, sel)
		}
	}
	return &Heuristic{minHTMLBytes: minBytes, selectors: kept}
}

// NeedsJS inspects the body for signals that JS rendering is required. A body
// that already contains any swatch selector never needs JS; one that lacks
// them all needs JS when it is tiny or carries an app-shell marker.
func (d *Heuristic) NeedsJS(body []byte) bool {
	if d == nil {
		return false
	}
	if len(body) == 0 {
		return true
	}
	if d.hasAnySelector(body) {
		return false
	}
	if len(body) < d.minHTMLBytes {
		return true
	}
	return d.containsMarker(body)
}

func (d *Heuristic) hasAnySelector(body []byte) bool {
	if len(d.selectors) == 0 {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return false
	}
	for _, sel := range d.selectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

func (d *Heuristic) containsMarker(body []byte) bool {
	lower := bytes.ToLower(body)
	for _, marker := range appShellMarkers {
		if bytes.Contains(lower, bytes.ToLower(marker)) {
			return true
		}
	}
	return false
}

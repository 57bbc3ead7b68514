// Package catalog enumerates the swatch pages of the Pantone Formula Guide
// Coated book.
package catalog

import "fmt"

// DefaultBaseURL is the public colour finder root.
const DefaultBaseURL = "https://www.pantone.com/color-finder"

// Numbered coated colours are visited as a range rather than a known list so
// every code in print is caught. The upper bound is the highest number in
// the book; pages inside the range that do not exist are skipped by the
// engine, not treated as failures.
const (
	DefaultFirstNumber = 100
	DefaultLastNumber  = 7771
)

// namedColours is the small set of coated colours referred to by name
// rather than number, taken from the index of a physical Formula Guide
// Coated swatchbook.
var namedColours = []string{
	"Black C", "Black 0961 C", "Black 2 C", "Black 3 C", "Black 4 C",
	"Black 5 C", "Black 6 C", "Black 7 C", "Blue 072 C", "Blue 0821 C",
	"Bright Red C", "Cool Gray 1 C", "Cool Gray 2 C", "Cool Gray 3 C",
	"Cool Gray 4 C", "Cool Gray 5 C", "Cool Gray 6 C", "Cool Gray 7 C",
	"Cool Gray 8 C", "Cool Gray 9 C", "Cool Gray 10 C", "Cool Gray 11 C",
	"Dark Blue C", "Green C", "Green 0921 C", "Magenta 0521 C",
	"Medium Purple C", "Orange 021 C", "Pink C", "Process Blue C", "Purple C",
	"Red 032 C", "Red 0331 C", "Reflex Blue C", "Rhodamine Red C", "Violet C",
	"Violet 0631 C", "Warm Gray 1 C", "Warm Gray 2 C", "Warm Gray 3 C",
	"Warm Gray 4 C", "Warm Gray 5 C", "Warm Gray 6 C", "Warm Gray 7 C",
	"Warm Gray 8 C", "Warm Gray 9 C", "Warm Gray 10 C", "Warm Gray 11 C",
	"Warm Red C", "Yellow C", "Yellow 012 C", "Yellow 0131 C",
}

// Entry is one swatch page to visit: the catalog's display name for the
// colour and the page URL. Numbered entries are named by their code.
type Entry struct {
	Name string
	URL  string
}

// Book enumerates the Formula Guide Coated catalog against a colour finder
// base URL.
type Book struct {
	baseURL string
	first   int
	last    int
}

// New builds a Book. The base URL is normalized; the numbered bounds are
// inclusive and must describe a non-empty ascending range.
func New(baseURL string, first, last int) (*Book, error) {
	base, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if first <= 0 || last < first {
		return nil, fmt.Errorf("numbered colour range %d..%d is invalid", first, last)
	}
	return &Book{baseURL: base, first: first, last: last}, nil
}

// Entries returns every swatch page in scrape order: named colours first,
// then the numbered range ascending. The result is freshly allocated.
func (b *Book) Entries() []Entry {
	entries := make([]Entry, 0, b.Len())
	for _, name := range namedColours {
		entries = append(entries, Entry{Name: name, URL: URLForName(b.baseURL, name)})
	}
	for n := b.first; n <= b.last; n++ {
		entries = append(entries, Entry{Name: fmt.Sprintf("%d C", n), URL: URLForNumber(b.baseURL, n)})
	}
	return entries
}

// Len is the number of entries a full sweep visits.
func (b *Book) Len() int {
	return len(namedColours) + (b.last - b.first + 1)
}

// BaseURL returns the normalized colour finder root the book was built with.
func (b *Book) BaseURL() string {
	return b.baseURL
}

// NamedColours returns a copy of the named colour index.
func NamedColours() []string {
	return append([]string(nil), namedColours...)
}

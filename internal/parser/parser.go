// Package parser extracts colour records from colour finder pages.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/swatchbook/pantone-scraper/internal/swatch"
)

// ErrNoSwatch reports a page that rendered without swatch data. The numbered
// catalog range over-covers the book, so a sweep treats these pages as skips;
// explicit-page runs treat them as failures.
var ErrNoSwatch = errors.New("page contains no swatch data")

// Selectors locates swatch data within a detail page. The site's markup is an
// unstable external contract; these are configuration with defaults matching
// the markup observed at the time of writing.
type Selectors struct {
	Name string
	Code string
	Hex  string
	RGB  string
	CMYK string
}

// DefaultSelectors returns the selector set for the current colour finder
// markup. The value divs carry an ASP.NET id prefix, hence the suffix match.
func DefaultSelectors() Selectors {
	return Selectors{
		Name: ".pColorName",
		Code: ".pColorCode",
		Hex:  "div[id$='divHEXValues']",
		RGB:  "div[id$='divRGBValues']",
		CMYK: "div[id$='divCMYKValues']",
	}
}

// Parser extracts swatch records from detail pages and book payloads.
type Parser struct {
	sel Selectors
}

// New constructs a Parser. Empty selector fields fall back to the defaults.
func New(sel Selectors) *Parser {
	def := DefaultSelectors()
	if sel.Name == "" {
		sel.Name = def.Name
	}
	if sel.Code == "" {
		sel.Code = def.Code
	}
	if sel.Hex == "" {
		sel.Hex = def.Hex
	}
	if sel.RGB == "" {
		sel.RGB = def.RGB
	}
	if sel.CMYK == "" {
		sel.CMYK = def.CMYK
	}
	return &Parser{sel: sel}
}

// ParsePage extracts the single colour record from a swatch detail page.
// fallbackName seeds the record's name when the page does not carry one;
// failing that the code doubles as the name. Pages without a code or any
// colour value return ErrNoSwatch; pages with malformed values fail hard.
func (p *Parser) ParsePage(body []byte, fallbackName string) (swatch.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return swatch.Record{}, fmt.Errorf("parse html: %w", err)
	}

	code := textOf(doc, p.sel.Code)
	hex := textOf(doc, p.sel.Hex)
	triple := textOf(doc, p.sel.RGB)
	if code == "" || (hex == "" && triple == "") {
		return swatch.Record{}, ErrNoSwatch
	}

	rec := swatch.Record{Code: code, Name: textOf(doc, p.sel.Name)}
	if rec.Name == "" {
		rec.Name = fallbackName
	}
	if rec.Name == "" {
		rec.Name = code
	}

	if triple != "" {
		rgb, err := parseRGBTriple(triple)
		if err != nil {
			return swatch.Record{}, fmt.Errorf("swatch %q: %w", code, err)
		}
		rec.RGB = rgb
	} else {
		rgb, err := swatch.ParseHex(hex)
		if err != nil {
			return swatch.Record{}, fmt.Errorf("swatch %q: %w", code, err)
		}
		rec.RGB = rgb
	}

	if inks := textOf(doc, p.sel.CMYK); inks != "" {
		cmyk, err := parseCMYKValues(inks)
		if err != nil {
			return swatch.Record{}, fmt.Errorf("swatch %q: %w", code, err)
		}
		rec.CMYK = cmyk
	} else {
		rec.CMYK = rec.RGB.ToCMYK()
	}

	if err := rec.Validate(); err != nil {
		return swatch.Record{}, err
	}
	return rec, nil
}

func textOf(doc *goquery.Document, sel string) string {
	if sel == "" {
		return ""
	}
	return strings.TrimSpace(doc.Find(sel).First().Text())
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// parseRGBTriple reads a channel triple out of forms like "R: 0 G: 169
// B: 224" or "0, 169, 224".
func parseRGBTriple(s string) (swatch.RGB, error) {
	nums := numberPattern.FindAllString(s, -1)
	if len(nums) != 3 {
		return swatch.RGB{}, fmt.Errorf("rgb block %q: want 3 values, got %d", s, len(nums))
	}
	var rgb swatch.RGB
	for i, ch := range []*int{&rgb.R, &rgb.G, &rgb.B} {
		v, err := strconv.Atoi(nums[i])
		if err != nil {
			return swatch.RGB{}, fmt.Errorf("rgb block %q: channel %q is not an integer", s, nums[i])
		}
		*ch = v
	}
	return rgb, nil
}

// parseCMYKValues reads ink percentages out of forms like "C: 100 M: 24.55
// Y: 0 K: 12.16".
func parseCMYKValues(s string) (swatch.CMYK, error) {
	nums := numberPattern.FindAllString(s, -1)
	if len(nums) != 4 {
		return swatch.CMYK{}, fmt.Errorf("cmyk block %q: want 4 values, got %d", s, len(nums))
	}
	var cmyk swatch.CMYK
	for i, ink := range []*float64{&cmyk.C, &cmyk.M, &cmyk.Y, &cmyk.K} {
		v, err := strconv.ParseFloat(nums[i], 64)
		if err != nil {
			return swatch.CMYK{}, fmt.Errorf("cmyk block %q: value %q is not a number", s, nums[i])
		}
		*ink = v
	}
	return cmyk, nil
}

package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/swatchbook/pantone-scraper/internal/swatch"
)

// bookSwatch mirrors one element of the colour finder's book JSON payload.
// The endpoint is loose about which colour forms it includes, so every value
// block is optional and missing ones are derived.
type bookSwatch struct {
	Name string       `json:"name"`
	Code string       `json:"code"`
	Hex  string       `json:"hex"`
	RGB  *swatch.RGB  `json:"rgb"`
	CMYK *swatch.CMYK `json:"cmyk"`
}

// ParseBook decodes a book endpoint's JSON array into records, preserving
// array order.
func (p *Parser) ParseBook(body []byte) ([]swatch.Record, error) {
	var raw []bookSwatch
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode book payload: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoSwatch
	}

	records := make([]swatch.Record, 0, len(raw))
	for i, item := range raw {
		rec, err := item.toRecord()
		if err != nil {
			return nil, fmt.Errorf("book entry %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (b bookSwatch) toRecord() (swatch.Record, error) {
	if b.Code == "" {
		return swatch.Record{}, fmt.Errorf("swatch has no code")
	}
	rec := swatch.Record{Name: b.Name, Code: b.Code}
	if rec.Name == "" {
		rec.Name = b.Code
	}

	switch {
	case b.RGB != nil:
		rec.RGB = *b.RGB
	case b.Hex != "":
		rgb, err := swatch.ParseHex(b.Hex)
		if err != nil {
			return swatch.Record{}, fmt.Errorf("swatch %q: %w", b.Code, err)
		}
		rec.RGB = rgb
	default:
		return swatch.Record{}, fmt.Errorf("swatch %q has no colour values", b.Code)
	}

	if b.CMYK != nil {
		rec.CMYK = *b.CMYK
	} else {
		rec.CMYK = rec.RGB.ToCMYK()
	}

	if err := rec.Validate(); err != nil {
		return swatch.Record{}, err
	}
	return rec, nil
}

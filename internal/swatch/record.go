// Package swatch defines the colour record extracted from a swatch page and
// the conversions between the colour forms the site publishes.
package swatch

import "fmt"

// Record is one extracted swatch: the colour's display name, its code in the
// book (for coated colours the code carries a "C" suffix), and its RGB and
// CMYK values. Records are collected in source page order.
type Record struct {
	Name string `json:"name"`
	Code string `json:"code"`
	RGB  RGB    `json:"rgb"`
	CMYK CMYK   `json:"cmyk"`
}

// Validate reports whether the record is complete enough to serialize.
func (r Record) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("swatch %q: name is required", r.Code)
	}
	if r.Code == "" {
		return fmt.Errorf("swatch %q: code is required", r.Name)
	}
	for _, ch := range []struct {
		label string
		value int
	}{{"r", r.RGB.R}, {"g", r.RGB.G}, {"b", r.RGB.B}} {
		if ch.value < 0 || ch.value > 255 {
			return fmt.Errorf("swatch %q: channel %s out of range: %d", r.Code, ch.label, ch.value)
		}
	}
	for _, ink := range []struct {
		label string
		value float64
	}{{"c", r.CMYK.C}, {"m", r.CMYK.M}, {"y", r.CMYK.Y}, {"k", r.CMYK.K}} {
		if ink.value < 0 || ink.value > 100 {
			return fmt.Errorf("swatch %q: ink %s out of range: %g", r.Code, ink.label, ink.value)
		}
	}
	return nil
}

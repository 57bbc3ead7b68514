package swatch

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB holds 8-bit channel values as parsed from a swatch page.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// CMYK holds ink coverage percentages in the range 0-100.
type CMYK struct {
	C float64 `json:"c"`
	M float64 `json:"m"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// ParseHex converts a six-digit hex colour such as "00A9E0" or "#00a9e0"
// into an RGB triple.
func ParseHex(s string) (RGB, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 {
		return RGB{}, fmt.Errorf("parse hex %q: want 6 hex digits, got %d", s, len(raw))
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("parse hex %q: %w", s, err)
	}
	return RGB{
		R: int(v >> 16 & 0xFF),
		G: int(v >> 8 & 0xFF),
		B: int(v & 0xFF),
	}, nil
}

// Hex renders the triple as the uppercase six-digit form used on the site.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ToCMYK derives ink percentages from the RGB triple with the naive
// device conversion. Swatch pages usually carry their own CMYK block;
// this is the fallback when they do not. Values are rounded to two
// decimal places so derived records stay stable across runs.
func (c RGB) ToCMYK() CMYK {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	k := 1 - math.Max(r, math.Max(g, b))
	if k >= 1 {
		return CMYK{K: 100}
	}
	return CMYK{
		C: round2((1 - r - k) / (1 - k) * 100),
		M: round2((1 - g - k) / (1 - k) * 100),
		Y: round2((1 - b - k) / (1 - k) * 100),
		K: round2(k * 100),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swatchbook/pantone-scraper/internal/swatch"
)

const bookPayload = `[
  {"name": "PANTONE Yellow C", "code": "Yellow C", "hex": "FEDD00",
   "rgb": {"r": 254, "g": 221, "b": 0}, "cmyk": {"c": 0, "m": 1, "y": 100, "k": 0}},
  {"name": "PANTONE Warm Red C", "code": "Warm Red C", "hex": "F9423A",
   "rgb": {"r": 249, "g": 66, "b": 58}, "cmyk": {"c": 0, "m": 83, "y": 80, "k": 0}},
  {"code": "186 C", "hex": "C8102E"}
]`

func TestParseBook(t *testing.T) {
	t.Parallel()

	p := New(Selectors{})

	records, err := p.ParseBook([]byte(bookPayload))
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, swatch.Record{
		Name: "PANTONE Yellow C",
		Code: "Yellow C",
		RGB:  swatch.RGB{R: 254, G: 221, B: 0},
		CMYK: swatch.CMYK{C: 0, M: 1, Y: 100, K: 0},
	}, records[0])
	require.Equal(t, "Warm Red C", records[1].Code)

	// The third entry carries only a hex value: name falls back to the code
	// and the colour forms are derived.
	require.Equal(t, "186 C", records[2].Name)
	require.Equal(t, swatch.RGB{R: 200, G: 16, B: 46}, records[2].RGB)
	require.Equal(t, records[2].RGB.ToCMYK(), records[2].CMYK)
}

func TestParseBookPreservesOrder(t *testing.T) {
	t.Parallel()

	p := New(Selectors{})

	records, err := p.ParseBook([]byte(bookPayload))
	require.NoError(t, err)

	codes := make([]string, 0, len(records))
	for _, rec := range records {
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []string{"Yellow C", "Warm Red C", "186 C"}, codes)
}

func TestParseBookErrors(t *testing.T) {
	t.Parallel()

	p := New(Selectors{})

	tests := []struct {
		name     string
		body     string
		noSwatch bool
	}{
		{name: "not json", body: "<html></html>"},
		{name: "empty array", body: "[]", noSwatch: true},
		{name: "entry without code", body: `[{"name": "x", "hex": "00A9E0"}]`},
		{name: "entry without colour values", body: `[{"code": "186 C"}]`},
		{name: "entry with bad hex", body: `[{"code": "186 C", "hex": "ZZZZZZ"}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := p.ParseBook([]byte(tc.body))
			require.Error(t, err)
			if tc.noSwatch {
				require.ErrorIs(t, err, ErrNoSwatch)
			}
		})
	}
}

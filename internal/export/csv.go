package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/swatchbook/pantone-scraper/internal/swatch"
)

// csvColumns is the fixed header row of the CSV artifact.
var csvColumns = []string{"name", "code", "r", "g", "b", "c", "m", "y", "k"}

// EncodeCSV renders records as CSV bytes: the fixed header followed by one
// row per record in input order. Records are validated before encoding; the
// first invalid record aborts the export.
func EncodeCSV(records []swatch.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvColumns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i := range records {
		rec := &records[i]
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.Code, err)
		}
		if err := w.Write(csvRow(rec)); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCSV writes the CSV artifact to path, truncating any previous file so
// identical inputs always produce byte-identical output.
func WriteCSV(path string, records []swatch.Record) error {
	payload, err := EncodeCSV(records)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create csv dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	return nil
}

func csvRow(rec *swatch.Record) []string {
	return []string{
		rec.Name,
		rec.Code,
		strconv.Itoa(rec.RGB.R),
		strconv.Itoa(rec.RGB.G),
		strconv.Itoa(rec.RGB.B),
		formatInk(rec.CMYK.C),
		formatInk(rec.CMYK.M),
		formatInk(rec.CMYK.Y),
		formatInk(rec.CMYK.K),
	}
}

// formatInk renders ink percentages with the shortest exact representation,
// so values survive a write/read cycle unchanged.
func formatInk(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadCSV parses CSV produced by EncodeCSV back into records.
func ReadCSV(r io.Reader) ([]swatch.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvColumns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, col := range csvColumns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected csv header column %d: got %q, want %q", i, header[i], col)
		}
	}

	var records []swatch.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadCSVFile opens path and parses it via ReadCSV.
func ReadCSVFile(path string) ([]swatch.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()
	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	return records, nil
}

func recordFromRow(row []string) (swatch.Record, error) {
	var rec swatch.Record
	rec.Name = row[0]
	rec.Code = row[1]

	channels := []struct {
		label string
		raw   string
		dest  *int
	}{
		{"r", row[2], &rec.RGB.R},
		{"g", row[3], &rec.RGB.G},
		{"b", row[4], &rec.RGB.B},
	}
	for _, ch := range channels {
		v, err := strconv.Atoi(ch.raw)
		if err != nil {
			return swatch.Record{}, fmt.Errorf("parse %s channel %q: %w", ch.label, ch.raw, err)
		}
		*ch.dest = v
	}

	inks := []struct {
		label string
		raw   string
		dest  *float64
	}{
		{"c", row[5], &rec.CMYK.C},
		{"m", row[6], &rec.CMYK.M},
		{"y", row[7], &rec.CMYK.Y},
		{"k", row[8], &rec.CMYK.K},
	}
	for _, ink := range inks {
		v, err := strconv.ParseFloat(ink.raw, 64)
		if err != nil {
			return swatch.Record{}, fmt.Errorf("parse %s ink %q: %w", ink.label, ink.raw, err)
		}
		*ink.dest = v
	}

	if err := rec.Validate(); err != nil {
		return swatch.Record{}, err
	}
	return rec, nil
}

package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/swatchbook/pantone-scraper/internal/swatch"
)

// jsonlRecord is the JSON Lines shape: the full record plus the hex form,
// which the CSV artifact intentionally omits.
type jsonlRecord struct {
	Name string      `json:"name"`
	Code string      `json:"code"`
	Hex  string      `json:"hex"`
	RGB  swatch.RGB  `json:"rgb"`
	CMYK swatch.CMYK `json:"cmyk"`
}

// EncodeJSONL renders records as JSON Lines, one object per record in input
// order.
func EncodeJSONL(records []swatch.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range records {
		rec := &records[i]
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.Code, err)
		}
		line := jsonlRecord{
			Name: rec.Name,
			Code: rec.Code,
			Hex:  rec.RGB.Hex(),
			RGB:  rec.RGB,
			CMYK: rec.CMYK,
		}
		if err := enc.Encode(line); err != nil {
			return nil, fmt.Errorf("encode jsonl record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// WriteJSONL writes the JSON Lines artifact to path, truncating any previous
// file.
func WriteJSONL(path string, records []swatch.Record) error {
	payload, err := EncodeJSONL(records)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create jsonl dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write jsonl %s: %w", path, err)
	}
	return nil
}

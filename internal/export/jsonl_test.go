package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeJSONL(t *testing.T) {
	t.Parallel()

	payload, err := EncodeJSONL(sampleRecords())
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimRight(payload, "\n"), []byte("\n"))
	require.Len(t, lines, 3)
	require.JSONEq(
		t,
		`{"name":"Black C","code":"Black C","hex":"2D2926","rgb":{"r":45,"g":41,"b":38},"cmyk":{"c":63.16,"m":62.23,"y":59.07,"k":94.22}}`,
		string(lines[0]),
	)

	var second jsonlRecord
	require.NoError(t, json.Unmarshal(lines[1], &second))
	require.Equal(t, "100 C", second.Code)
	require.Equal(t, "F6EB61", second.Hex)
	require.Equal(t, 246, second.RGB.R)
}

func TestEncodeJSONLRejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	bad := sampleRecords()
	bad[0].Code = ""
	_, err := EncodeJSONL(bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "code is required")
}

func TestWriteJSONL(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "swatches.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))
	require.NoError(t, WriteJSONL(path, sampleRecords()))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(got), "stale")

	lines := bytes.Split(bytes.TrimRight(got, "\n"), []byte("\n"))
	require.Len(t, lines, 3)
}

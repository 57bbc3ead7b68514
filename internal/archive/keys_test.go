package archive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	t.Parallel()

	require.Equal(t, "runs/run-1/pages/abc123.html", PageKey("", "run-1", "abc123"))
	require.Equal(t, "pantone/runs/run-1/pages/abc123.html", PageKey("pantone", "run-1", "abc123"))
	require.Equal(t, "runs/run-1/swatches.csv", ArtifactKey("", "run-1", "swatches.csv"))
	require.Equal(t, "pantone/runs/run-1/swatches.csv", ArtifactKey("pantone", "run-1", "swatches.csv"))
}

package archive

import "fmt"

// PageKey builds the object key for a raw page snapshot. The digest keys the
// body content so re-runs of the same page land on the same object.
func PageKey(prefix, runID, digest string) string {
	return join(prefix, fmt.Sprintf("runs/%s/pages/%s.html", runID, digest))
}

// ArtifactKey builds the object key for a run-level artifact such as the CSV
// or JSONL output.
func ArtifactKey(prefix, runID, filename string) string {
	return join(prefix, fmt.Sprintf("runs/%s/%s", runID, filename))
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

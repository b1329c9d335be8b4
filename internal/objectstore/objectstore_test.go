package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathRequiresScheme(t *testing.T) {
	_, _, err := ParsePath("bucket/key.ndjson")
	require.Error(t, err)

	bucket, key, err := ParsePath("s3://my-bucket/inputs/batch.ndjson")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "inputs/batch.ndjson", key)
}

func TestResultKeysLayout(t *testing.T) {
	matches, summary := ResultKeys("job-123")
	assert.Equal(t, filepath.Join("job-123", "matches.json"), matches)
	assert.Equal(t, filepath.Join("job-123", "summary.json"), summary)
}

func TestScanNDJSONSkipsBlankLinesAndCountsLines(t *testing.T) {
	input := "{\"a\":1}\n\n{\"a\":2}\n   \n{\"a\":3}"
	var seen []int
	err := ScanNDJSON(strings.NewReader(input), func(lineNo int, raw []byte) error {
		seen = append(seen, lineNo)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, seen)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.WriteJSON(ctx, "job-1/summary.json", map[string]int{"x": 1}))
	raw, ok := store.Get("job-1/summary.json")
	require.True(t, ok)
	assert.JSONEq(t, `{"x":1}`, string(raw))

	store.Put("input.ndjson", []byte("{\"requestId\":\"r1\"}\n"))
	rc, err := store.OpenNDJSON(ctx, "input.ndjson")
	require.NoError(t, err)
	defer rc.Close()

	_, err = store.OpenNDJSON(ctx, "missing.ndjson")
	assert.Error(t, err)
}

func TestFilesystemStoreWritesUnderRoot(t *testing.T) {
	dir := t.TempDir()
	store := NewFilesystemStore(dir)
	ctx := context.Background()

	require.NoError(t, store.WriteJSON(ctx, "job-2/matches.json", []int{1, 2, 3}))
	data, err := os.ReadFile(filepath.Join(dir, "job-2", "matches.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[1,2,3]", string(data))
}

func TestFilesystemStoreTraversalIsNeutralized(t *testing.T) {
	dir := t.TempDir()
	store := NewFilesystemStore(dir)
	resolved := store.resolve("../../etc/passwd")
	rel, err := filepath.Rel(dir, resolved)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(rel, ".."))
}

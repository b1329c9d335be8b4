// Package objectstore defines the thin external-collaborator
// interface the bulk job manager uses to stream NDJSON input and write
// JSON result artifacts, plus an in-memory and a filesystem-backed
// implementation of it.
package objectstore

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"path"
	"strings"

	"github.com/sentineltrust/screening-engine/internal/apperr"
)

// Scheme is the required prefix of every object-store path this
// package accepts.
const Scheme = "s3://"

// Store is the collaborator the bulk job manager depends on: stream an
// NDJSON input by path, write a JSON-encodable value to a path.
type Store interface {
	// OpenNDJSON opens key for line-by-line reading. The caller must
	// Close the returned ReadCloser.
	OpenNDJSON(ctx context.Context, key string) (io.ReadCloser, error)
	// WriteJSON marshals v and writes it to key, overwriting any
	// existing object.
	WriteJSON(ctx context.Context, key string, v interface{}) error
}

// ParsePath validates that raw begins with the s3:// scheme and
// returns the bucket and key; InvalidInput otherwise.
func ParsePath(raw string) (bucket, key string, err error) {
	if !strings.HasPrefix(raw, Scheme) {
		return "", "", apperr.InvalidInput("s3InputPath", "must begin with s3://")
	}
	rest := strings.TrimPrefix(raw, Scheme)
	rest = strings.TrimPrefix(rest, "/")
	idx := strings.IndexByte(rest, '/')
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", apperr.InvalidInput("s3InputPath", "must be of the form s3://bucket/key")
	}
	return rest[:idx], rest[idx+1:], nil
}

// sanitizeKey mirrors the teacher's blob-storage key sanitation: strip
// leading slashes, clean the path, and neutralize traversal segments.
func sanitizeKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	key = path.Clean(key)
	key = strings.ReplaceAll(key, "..", "_")
	return key
}

// ResultKeys returns the object-store keys a completed bulk job writes
// its matches and summary artifacts to, per {jobId}/matches.json and
// {jobId}/summary.json.
func ResultKeys(jobID string) (matches, summary string) {
	base := sanitizeKey(jobID)
	return path.Join(base, "matches.json"), path.Join(base, "summary.json")
}

// ScanNDJSON reads r line by line, invoking onLine for every non-blank
// line with its 1-based line number. It does not itself decide what
// counts as malformed; callers attempt to unmarshal each line and
// count and skip the lines that fail, since that classification
// belongs to the record schema, not the stream reader.
func ScanNDJSON(r io.Reader, onLine func(lineNo int, raw []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if err := onLine(lineNo, append([]byte(nil), line...)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// DecodeNDJSONLine is a per-line decode helper for callers of
// ScanNDJSON: unmarshal raw into v, wrapping any failure as a
// MalformedRecord. The bulk job manager and the index loader decode
// with json.Unmarshal directly and do not use it.
func DecodeNDJSONLine(lineNo int, raw []byte, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return apperr.MalformedRecord(lineNo, err)
	}
	return nil
}

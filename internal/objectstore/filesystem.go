package objectstore

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/sentineltrust/screening-engine/internal/apperr"
)

// FilesystemStore is a Store backed by a local directory, standing in
// for a real bucket so the bulk job manager can be exercised without a
// cloud SDK dependency. Bucket is ignored beyond path sanitation: every
// key resolves under Root.
type FilesystemStore struct {
	Root string
}

// NewFilesystemStore returns a Store rooted at dir. dir is created
// lazily on first write.
func NewFilesystemStore(dir string) *FilesystemStore {
	return &FilesystemStore{Root: dir}
}

var (
	_ Store = (*FilesystemStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

func (f *FilesystemStore) resolve(key string) string {
	return filepath.Join(f.Root, sanitizeKey(key))
}

func (f *FilesystemStore) OpenNDJSON(_ context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(f.resolve(key))
	if err != nil {
		return nil, apperr.StorageUnavailable("open", err)
	}
	return file, nil
}

func (f *FilesystemStore) WriteJSON(_ context.Context, key string, v interface{}) error {
	dest := f.resolve(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return apperr.StorageUnavailable("mkdir", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return apperr.StorageUnavailable("marshal", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return apperr.StorageUnavailable("write", err)
	}
	return nil
}

package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/sentineltrust/screening-engine/internal/apperr"
)

// MemoryStore is an in-process Store backed by a map, used in tests
// in place of an external bucket.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Put seeds key with raw bytes, for test fixtures.
func (m *MemoryStore) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[sanitizeKey(key)] = data
}

func (m *MemoryStore) OpenNDJSON(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	data, ok := m.objects[sanitizeKey(key)]
	m.mu.RUnlock()
	if !ok {
		return nil, apperr.StorageUnavailable("open", errNotFound(key))
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryStore) WriteJSON(_ context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperr.StorageUnavailable("write", err)
	}
	m.mu.Lock()
	m.objects[sanitizeKey(key)] = data
	m.mu.Unlock()
	return nil
}

// Get returns the raw bytes stored at key, for assertions in tests.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[sanitizeKey(key)]
	return data, ok
}

type notFoundError string

func (e notFoundError) Error() string { return "object not found: " + string(e) }

func errNotFound(key string) error { return notFoundError(key) }

// Package storagetest provides BlobStore doubles for tests.
package storagetest

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/photoapp/photoapp/internal/storage"
)

// Memory is an in-memory BlobStore. The *Err fields, when set, are returned
// instead of performing the operation.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	calls   int

	UploadErr   error
	DownloadErr error
	DeleteErr   error
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.UploadErr != nil {
		return m.UploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.objects[objectName] = data
	return nil
}

func (m *Memory) Download(_ context.Context, objectName string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.DownloadErr != nil {
		return nil, m.DownloadErr
	}
	data, ok := m.objects[objectName]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Delete(_ context.Context, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.objects, objectName)
	return nil
}

// Put stores an object directly, bypassing failure injection and call counting.
func (m *Memory) Put(objectName string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = append([]byte(nil), data...)
}

// Remove drops an object directly, simulating out-of-band deletion.
func (m *Memory) Remove(objectName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectName)
}

func (m *Memory) Has(objectName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[objectName]
	return ok
}

func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Calls reports how many BlobStore methods were invoked.
func (m *Memory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

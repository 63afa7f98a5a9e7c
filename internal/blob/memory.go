package blob

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps blobs in process. URLs point at BaseURL/<storageId>,
// which the api package serves when this backend is selected. Ids handed out
// by UploadURL stay reserved until Fulfill writes them once.
type MemoryStore struct {
	BaseURL string

	mu       sync.RWMutex
	objects  map[string]memoryObject
	reserved map[string]struct{}
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		objects:  make(map[string]memoryObject),
		reserved: make(map[string]struct{}),
	}
}

func (m *MemoryStore) objectURL(storageID string) string {
	return m.BaseURL + "/" + url.PathEscape(storageID)
}

func (m *MemoryStore) UploadURL(_ context.Context, _ string) (string, string, error) {
	id := NewStorageID()
	m.mu.Lock()
	m.reserved[id] = struct{}{}
	m.mu.Unlock()
	return m.objectURL(id), id, nil
}

func (m *MemoryStore) Put(_ context.Context, r io.Reader, _ int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	id := NewStorageID()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[id] = memoryObject{data: data, contentType: contentType}
	return id, nil
}

// Fulfill stores r under an id reserved by UploadURL. Unknown ids return
// ErrNotFound and ids already written return ErrAlreadyWritten.
func (m *MemoryStore) Fulfill(_ context.Context, storageID string, r io.Reader, contentType string) error {
	if err := m.checkReserved(storageID); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[storageID]; ok {
		return ErrAlreadyWritten
	}
	if _, ok := m.reserved[storageID]; !ok {
		return ErrNotFound
	}
	delete(m.reserved, storageID)
	m.objects[storageID] = memoryObject{data: data, contentType: contentType}
	return nil
}

func (m *MemoryStore) checkReserved(storageID string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[storageID]; ok {
		return ErrAlreadyWritten
	}
	if _, ok := m.reserved[storageID]; !ok {
		return ErrNotFound
	}
	return nil
}

func (m *MemoryStore) URL(_ context.Context, storageID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[storageID]; !ok {
		return "", ErrNotFound
	}
	return m.objectURL(storageID), nil
}

func (m *MemoryStore) Open(_ context.Context, storageID string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[storageID]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *MemoryStore) Stat(_ context.Context, storageID string) (Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[storageID]
	if !ok {
		return Info{}, ErrNotFound
	}
	return Info{StorageID: storageID, ContentType: obj.contentType, Size: int64(len(obj.data))}, nil
}

func (m *MemoryStore) Delete(_ context.Context, storageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[storageID]; !ok {
		return ErrNotFound
	}
	delete(m.objects, storageID)
	return nil
}

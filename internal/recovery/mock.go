package recovery

import "sync"

// MockBlobStore is an in-memory BlobStore for tests.
type MockBlobStore struct {
	mu    sync.Mutex
	blobs map[string]string

	GetBlobFunc func(key string) (string, bool)
	SetBlobFunc func(key, value string) error

	GetBlobCalls []string
	SetBlobCalls []struct {
		Key   string
		Value string
	}
}

// NewMockBlobStore creates an empty mock store, optionally pre-seeded.
func NewMockBlobStore(seed map[string]string) *MockBlobStore {
	blobs := make(map[string]string, len(seed))
	for k, v := range seed {
		blobs[k] = v
	}
	return &MockBlobStore{blobs: blobs}
}

func (m *MockBlobStore) GetBlob(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetBlobCalls = append(m.GetBlobCalls, key)
	if m.GetBlobFunc != nil {
		return m.GetBlobFunc(key)
	}
	val, ok := m.blobs[key]
	return val, ok
}

func (m *MockBlobStore) SetBlob(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetBlobCalls = append(m.SetBlobCalls, struct {
		Key   string
		Value string
	}{key, value})
	if m.SetBlobFunc != nil {
		return m.SetBlobFunc(key, value)
	}
	m.blobs[key] = value
	return nil
}

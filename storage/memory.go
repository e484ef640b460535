package storage

import "sync"

// MemoryStore is an in-memory Store used in tests and throwaway sessions.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Save implements Store.Save.
func (ms *MemoryStore) Save(key, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.values[key] = value
	return nil
}

// Load implements Store.Load.
func (ms *MemoryStore) Load(key string) (string, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	value, ok := ms.values[key]
	return value, ok, nil
}

package credstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and for running without
// persistence ("don't remember me" installs).
type MemoryStore struct {
	creds *Credentials
	mode  string
	mu    sync.Mutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save overwrites the stored pair.
func (ms *MemoryStore) Save(ctx context.Context, creds Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return ErrIncomplete
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	c := creds
	ms.creds = &c
	return nil
}

// Load returns the stored pair or ErrNotFound.
func (ms *MemoryStore) Load(ctx context.Context) (Credentials, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.creds == nil {
		return Credentials{}, ErrNotFound
	}
	return *ms.creds, nil
}

// Clear removes the stored pair. Idempotent.
func (ms *MemoryStore) Clear(ctx context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.creds = nil
	return nil
}

// SaveMode persists the last known session mode.
func (ms *MemoryStore) SaveMode(ctx context.Context, mode string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.mode = mode
	return nil
}

// LoadMode returns the persisted mode or ErrNotFound.
func (ms *MemoryStore) LoadMode(ctx context.Context) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.mode == "" {
		return "", ErrNotFound
	}
	return ms.mode, nil
}

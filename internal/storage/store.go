// Package storage implements the persistence layer for invoices and
// customers: in-memory collections mirrored to a durable key-value store on
// every mutation.
//
// Collections are encoded as whole-collection JSON blobs. A blob that fails
// to decode on startup is discarded and the collection starts empty; nothing
// in this package panics or aborts the process over corrupted data.
package storage

import (
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by Store.Get when the key has no value.
var ErrKeyNotFound = errors.New("key not found")

// Store is the durable key-value substrate collections are mirrored to.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(key string) ([]byte, error)

	// Put writes the value for key, replacing any previous value.
	Put(key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
}

// MemoryStore is an in-memory Store used by tests.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Put implements Store.
func (s *MemoryStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.values[key] = stored
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

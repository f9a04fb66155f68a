package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps variants in process memory. Used by the CLI and in
// tests; API deployments use MongoStore.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

// Put inserts or replaces the variant for doc.Config.
func (s *MemoryStore) Put(_ context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Config] = doc
	return nil
}

// Get retrieves the variant for a configuration.
func (s *MemoryStore) Get(_ context.Context, config string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[config]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// List returns all stored variants, newest first.
func (s *MemoryStore) List(_ context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a variant.
func (s *MemoryStore) Delete(_ context.Context, config string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[config]; !ok {
		return ErrNotFound
	}
	delete(s.docs, config)
	return nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close(_ context.Context) error { return nil }

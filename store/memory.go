// store/memory.go
package store

import (
	"context"
	"sync"

	"fest-score-system/models"
)

// MemoryStore keeps documents in a mutex-guarded map. It backs tests and
// has the same subscribe/set semantics as DocumentStore, including
// last-writer-wins replacement.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*models.EventDocument
	bc   *broadcaster
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: map[string]*models.EventDocument{},
		bc:   newBroadcaster(),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*models.EventDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[key].Clone(), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, doc *models.EventDocument) error {
	doc = models.Normalize(doc.Clone())
	s.mu.Lock()
	s.docs[key] = doc
	s.mu.Unlock()
	s.bc.notify(key, doc.Clone())
	return nil
}

func (s *MemoryStore) Subscribe(key string, fn ChangeFunc) *Subscription {
	sub := s.bc.add(key, fn)
	doc, _ := s.Get(context.Background(), key)
	fn(doc)
	return sub
}

func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	return keys, nil
}

// store/store.go
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"fest-score-system/models"
)

// ChangeFunc receives the full document on every change for a key. The
// document is nil when nothing has ever been written yet; consumers
// substitute the empty document via models.Normalize.
type ChangeFunc func(doc *models.EventDocument)

// Store is the realtime document store boundary: one document per event
// key, replaced wholesale on every write. Set is last-writer-wins: two
// concurrent admin sessions race and the later write silently discards the
// earlier one. That is the documented single-writer assumption, not a bug.
type Store interface {
	// Get returns the current document for key, or nil if never written.
	Get(ctx context.Context, key string) (*models.EventDocument, error)

	// Set replaces the whole document and notifies subscribers of key.
	Set(ctx context.Context, key string, doc *models.EventDocument) error

	// Subscribe registers fn for key. It is invoked immediately with the
	// current state and again after every subsequent Set.
	Subscribe(key string, fn ChangeFunc) *Subscription

	// Keys lists every event key that has been written.
	Keys(ctx context.Context) ([]string, error)
}

// Subscription detaches a ChangeFunc when cancelled.
type Subscription struct {
	key    string
	id     string
	cancel func(key, id string)
}

func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel(s.key, s.id)
	}
}

// broadcaster fans change notifications out to subscribers per key.
// Notifications run synchronously on the writer's goroutine: the engine
// always recomputes from the latest full snapshot, so delivery order
// follows commit order.
type broadcaster struct {
	mu   sync.Mutex
	subs map[string]map[string]ChangeFunc
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: map[string]map[string]ChangeFunc{}}
}

func (b *broadcaster) add(key string, fn ChangeFunc) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[key] == nil {
		b.subs[key] = map[string]ChangeFunc{}
	}
	id := uuid.NewString()
	b.subs[key][id] = fn
	return &Subscription{key: key, id: id, cancel: b.remove}
}

func (b *broadcaster) remove(key, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[key], id)
}

func (b *broadcaster) notify(key string, doc *models.EventDocument) {
	b.mu.Lock()
	fns := make([]ChangeFunc, 0, len(b.subs[key]))
	for _, fn := range b.subs[key] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(doc)
	}
}

// store/document_store.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fest-score-system/models"
)

// EventRecord is one stored event document: the full JSON aggregate in a
// single row, replaced atomically on every write.
type EventRecord struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Doc       []byte    `json:"doc" gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime;index"`
}

// DocumentStore persists event documents in Postgres and pushes change
// notifications to in-process subscribers. Writes from other replicas are
// picked up by the poll worker (workers.PollDocuments).
type DocumentStore struct {
	DB *gorm.DB
	bc *broadcaster
}

func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{DB: db, bc: newBroadcaster()}
}

func (s *DocumentStore) Get(ctx context.Context, key string) (*models.EventDocument, error) {
	var rec EventRecord
	err := s.DB.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %q: %w", key, err)
	}
	return decodeDocument(rec.Doc)
}

func (s *DocumentStore) Set(ctx context.Context, key string, doc *models.EventDocument) error {
	doc = models.Normalize(doc)
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %q: %w", key, err)
	}

	// Whole-row upsert: the stored document is always replaced, never
	// merged. Last write wins.
	rec := EventRecord{Key: key, Doc: raw}
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"doc", "updated_at"}),
	}).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to write document %q: %w", key, err)
	}

	s.bc.notify(key, doc)
	return nil
}

func (s *DocumentStore) Subscribe(key string, fn ChangeFunc) *Subscription {
	sub := s.bc.add(key, fn)
	doc, err := s.Get(context.Background(), key)
	if err != nil {
		// Subscribers still get the initial callback; they see the empty
		// state until the next successful change lands.
		doc = nil
	}
	fn(doc)
	return sub
}

func (s *DocumentStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.DB.WithContext(ctx).Model(&EventRecord{}).Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("failed to list document keys: %w", err)
	}
	return keys, nil
}

// ChangedSince returns records written after the given time. Used by the
// poll worker to observe writes from other processes.
func (s *DocumentStore) ChangedSince(ctx context.Context, since time.Time) ([]EventRecord, error) {
	var recs []EventRecord
	if err := s.DB.WithContext(ctx).
		Where("updated_at > ?", since).
		Order("updated_at ASC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list changed documents: %w", err)
	}
	return recs, nil
}

// Broadcast re-delivers a raw stored document to subscribers of key. A
// local Set already notified once; delivering the same snapshot again is
// harmless since consumers recompute from the full document every time.
func (s *DocumentStore) Broadcast(key string, raw []byte) error {
	doc, err := decodeDocument(raw)
	if err != nil {
		return err
	}
	s.bc.notify(key, doc)
	return nil
}

func decodeDocument(raw []byte) (*models.EventDocument, error) {
	var doc models.EventDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode stored document: %w", err)
	}
	return models.Normalize(&doc), nil
}

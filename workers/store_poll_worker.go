package workers

import (
	"context"
	"log"
	"time"

	"fest-score-system/store"
)

// PollDocuments watches event_documents for rows written by other
// processes and refires store notifications for them, so subscriptions on
// this instance track the store and not just local writes.
//
// Local writes show up here too and get delivered a second time; that is
// harmless, consumers recompute from the full snapshot on every delivery.
func PollDocuments(ctx context.Context, s *store.DocumentStore, pollInterval time.Duration) {
	log.Println("Starting document poll worker...")
	lastSyncTime := time.Now().UTC()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Document poll worker stopped.")
			return
		case <-ticker.C:
			logTime := time.Now().UTC()

			recs, err := s.ChangedSince(ctx, lastSyncTime)
			if err != nil {
				log.Printf("Error polling documents: %v", err)
				// Do NOT advance lastSyncTime on failure, retry the
				// same window next tick
				continue
			}

			for _, rec := range recs {
				if err := s.Broadcast(rec.Key, rec.Doc); err != nil {
					log.Printf("Failed to rebroadcast %s: %v", rec.Key, err)
				}
			}

			lastSyncTime = logTime
		}
	}
}

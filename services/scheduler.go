// services/scheduler.go
package services

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"

	"fest-score-system/utils"
)

// StartExportScheduler periodically uploads the public scoreboard of every
// event to object storage as JSON. Failures are logged and retried on the
// next run; the core never waits on an export.
func (s *PublicService) StartExportScheduler() {
	if !utils.R2Enabled() {
		log.Println("Scoreboard export disabled (no R2 configuration)")
		return
	}

	interval := 10 * time.Minute
	if v := os.Getenv("EXPORT_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = time.Duration(n) * time.Minute
		}
	}

	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			keys, err := s.Store.Keys(ctx)
			if err != nil {
				log.Printf("[Export] failed to list events: %v", err)
				return
			}
			for _, key := range keys {
				doc, err := s.Store.Get(ctx, key)
				if err != nil {
					log.Printf("[Export] failed to load %s: %v", key, err)
					continue
				}
				payload, err := json.Marshal(PublicScoreboard(doc))
				if err != nil {
					log.Printf("[Export] failed to encode %s: %v", key, err)
					continue
				}
				url, err := utils.UploadJSONToR2("scoreboards/"+key+".json", payload)
				if err != nil {
					log.Printf("[Export] upload failed for %s: %v", key, err)
					continue
				}
				log.Printf("[Export] scoreboard for %s uploaded to %s", key, url)
			}
		}),
	)
}

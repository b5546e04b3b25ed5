// services/public_service.go
package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"fest-score-system/models"
	"fest-score-system/store"
)

// PublicService serves the read-only surface. Everything here sits behind
// the publication gate: draft competitions and their results do not exist
// as far as these endpoints are concerned.
type PublicService struct {
	Store store.Store
}

func NewPublicService(s store.Store) *PublicService {
	return &PublicService{Store: s}
}

func (s *PublicService) load(c *fiber.Ctx) (*models.EventDocument, error) {
	doc, err := s.Store.Get(c.Context(), EventKey(c))
	if err != nil {
		return nil, err
	}
	return models.Normalize(doc), nil
}

// GetScoreboard returns the overall leaderboard plus per-category boards
// with zero-score rows filtered out.
func (s *PublicService) GetScoreboard(c *fiber.Ctx) error {
	doc, err := s.load(c)
	if err != nil {
		log.Printf("ERROR fetching document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch scores"})
	}
	return c.JSON(PublicScoreboard(doc))
}

// ListCategories returns only categories with at least one published
// competition.
func (s *PublicService) ListCategories(c *fiber.Ctx) error {
	doc, err := s.load(c)
	if err != nil {
		log.Printf("ERROR fetching document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch categories"})
	}
	return c.JSON(VisibleCategories(doc))
}

// ListCompetitions returns published competitions, optionally restricted
// to one category via ?category_id=.
func (s *PublicService) ListCompetitions(c *fiber.Ctx) error {
	doc, err := s.load(c)
	if err != nil {
		log.Printf("ERROR fetching document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch competitions"})
	}
	return c.JSON(PublishedCompetitions(doc, c.Query("category_id")))
}

// GetCompetitionResults returns one published competition with its results
// in place order. Unpublished competitions 404 here; to the public they
// do not exist.
func (s *PublicService) GetCompetitionResults(c *fiber.Ctx) error {
	doc, err := s.load(c)
	if err != nil {
		log.Printf("ERROR fetching document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch results"})
	}

	comp := doc.FindCompetition(c.Params("id"))
	if comp == nil || !comp.IsPublished {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "competition not found"})
	}

	categoryName := "Unknown"
	if cat := doc.FindCategory(comp.CategoryID); cat != nil {
		categoryName = cat.Name
	}
	return c.JSON(fiber.Map{
		"id":       comp.ID,
		"name":     comp.Name,
		"category": categoryName,
		"results":  SortResultsByPlace(comp.Results),
	})
}

// StreamScoreboard pushes the public scoreboard over SSE: once on connect
// and again on every document change.
func (s *PublicService) StreamScoreboard(c *fiber.Ctx) error {
	key := EventKey(c)

	// Buffered so the synchronous store notification never blocks a
	// writer; a dropped snapshot is superseded by the next one anyway.
	updates := make(chan *models.EventDocument, 8)
	sub := s.Store.Subscribe(key, func(doc *models.EventDocument) {
		select {
		case updates <- doc:
		default:
		}
	})

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer sub.Cancel()

		keepalive := time.NewTicker(15 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case doc := <-updates:
				payload, err := json.Marshal(PublicScoreboard(models.Normalize(doc)))
				if err != nil {
					log.Printf("SSE encode error for %s: %v", key, err)
					continue
				}
				fmt.Fprintf(w, "event: scores\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}
			case <-keepalive.C:
				w.WriteString(":\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}

// services/event_service.go
package services

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"

	"fest-score-system/models"
	"fest-score-system/store"
	"fest-score-system/utils"
)

// EventService owns the admin mutation operations. Every operation reads
// the current document, applies one transformation and persists the whole
// document back, no partial writes.
type EventService struct {
	Store store.Store
}

func NewEventService(s store.Store) *EventService {
	return &EventService{Store: s}
}

// EventKey maps the :event route segment to a store key.
func EventKey(c *fiber.Ctx) string {
	return slug.Make(c.Params("event"))
}

// load fetches and normalizes the event document. A key that has never
// been written yields the empty document; the document is created
// implicitly on first write.
func (s *EventService) load(c *fiber.Ctx) (*models.EventDocument, error) {
	doc, err := s.Store.Get(c.Context(), EventKey(c))
	if err != nil {
		return nil, err
	}
	return models.Normalize(doc), nil
}

func (s *EventService) persist(c *fiber.Ctx, doc *models.EventDocument) error {
	return s.Store.Set(c.Context(), EventKey(c), doc)
}

// mutationStatus maps mutation errors to HTTP statuses: validation
// failures are 400, missing references are 404.
func mutationStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNameRequired), errors.Is(err, models.ErrCategoryRequired):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrCategoryNotFound), errors.Is(err, models.ErrCompetitionNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// GetDocument returns the full document, drafts included. Admin-only: the
// public surface never sees unpublished competitions.
func (s *EventService) GetDocument(c *fiber.Ctx) error {
	doc, err := s.load(c)
	if err != nil {
		log.Printf("ERROR fetching document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch document"})
	}
	return c.JSON(doc)
}

func (s *EventService) CreateCategory(c *fiber.Ctx) error {
	type Req struct {
		Name string `json:"name"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	doc, err := s.load(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch document"})
	}
	cat, err := doc.AddCategory(utils.GenerateID(), req.Name)
	if err != nil {
		return c.Status(mutationStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.persist(c, doc); err != nil {
		log.Printf("ERROR persisting document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save document"})
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (s *EventService) DeleteCategory(c *fiber.Ctx) error {
	doc, err := s.load(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch document"})
	}
	doc.RemoveCategory(c.Params("id"))
	if err := s.persist(c, doc); err != nil {
		log.Printf("ERROR persisting document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save document"})
	}
	return c.JSON(fiber.Map{"message": "category and its competitions deleted"})
}

func (s *EventService) CreateTeam(c *fiber.Ctx) error {
	type Req struct {
		Name string `json:"name"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	doc, err := s.load(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch document"})
	}
	team, err := doc.AddTeam(utils.GenerateID(), req.Name)
	if err != nil {
		return c.Status(mutationStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.persist(c, doc); err != nil {
		log.Printf("ERROR persisting document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save document"})
	}
	return c.Status(fiber.StatusCreated).JSON(team)
}

func (s *EventService) CreateCompetition(c *fiber.Ctx) error {
	type Req struct {
		CategoryID string `json:"categoryId"`
		Name       string `json:"name"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	doc, err := s.load(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch document"})
	}
	comp, err := doc.AddCompetition(utils.GenerateID(), req.CategoryID, req.Name)
	if err != nil {
		return c.Status(mutationStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.persist(c, doc); err != nil {
		log.Printf("ERROR persisting document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save document"})
	}
	return c.Status(fiber.StatusCreated).JSON(comp)
}

func (s *EventService) RenameCompetition(c *fiber.Ctx) error {
	type Req struct {
		Name string `json:"name"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	doc, err := s.load(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch document"})
	}
	if err := doc.RenameCompetition(c.Params("id"), req.Name); err != nil {
		return c.Status(mutationStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.persist(c, doc); err != nil {
		log.Printf("ERROR persisting document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save document"})
	}
	return c.JSON(doc.FindCompetition(c.Params("id")))
}

func (s *EventService) DeleteCompetition(c *fiber.Ctx) error {
	doc, err := s.load(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch document"})
	}
	doc.RemoveCompetition(c.Params("id"))
	if err := s.persist(c, doc); err != nil {
		log.Printf("ERROR persisting document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save document"})
	}
	return c.JSON(fiber.Map{"message": "competition deleted"})
}

// ReplaceResults swaps a competition's result set wholesale. Rows with a
// blank student name are dropped, that is how a slot gets cleared.
func (s *EventService) ReplaceResults(c *fiber.Ctx) error {
	type Req struct {
		Results []models.Result `json:"results"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	doc, err := s.load(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch document"})
	}
	if err := doc.ReplaceResults(c.Params("id"), req.Results); err != nil {
		return c.Status(mutationStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.persist(c, doc); err != nil {
		log.Printf("ERROR persisting document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save document"})
	}
	return c.JSON(doc.FindCompetition(c.Params("id")))
}

func (s *EventService) TogglePublish(c *fiber.Ctx) error {
	doc, err := s.load(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch document"})
	}
	published, err := doc.TogglePublish(c.Params("id"))
	if err != nil {
		return c.Status(mutationStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.persist(c, doc); err != nil {
		log.Printf("ERROR persisting document %s: %v", EventKey(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save document"})
	}
	return c.JSON(fiber.Map{"id": c.Params("id"), "isPublished": published})
}

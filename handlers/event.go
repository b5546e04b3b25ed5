// handlers/event.go
package handlers

import (
	"fest-score-system/middleware"
	"fest-score-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupPublicRoutes registers the read-only surface. Everything here sees
// only published competitions.
func SetupPublicRoutes(app *fiber.App, publicService *services.PublicService) {
	app.Get("/e/:event/scores", publicService.GetScoreboard)
	app.Get("/e/:event/scores/stream", publicService.StreamScoreboard)
	app.Get("/e/:event/categories", publicService.ListCategories)
	app.Get("/e/:event/competitions", publicService.ListCompetitions)
	app.Get("/e/:event/competitions/:id/results", publicService.GetCompetitionResults)
}

// SetupAdminRoutes registers the mutation operations behind the shared
// admin secret.
func SetupAdminRoutes(app *fiber.App, eventService *services.EventService) {
	admin := app.Group("/e/:event/admin", middleware.AdminAuthMiddleware())

	admin.Get("/document", eventService.GetDocument)

	admin.Post("/categories", eventService.CreateCategory)
	admin.Delete("/categories/:id", eventService.DeleteCategory)

	admin.Post("/teams", eventService.CreateTeam)

	admin.Post("/competitions", eventService.CreateCompetition)
	admin.Put("/competitions/:id", eventService.RenameCompetition)
	admin.Delete("/competitions/:id", eventService.DeleteCompetition)
	admin.Put("/competitions/:id/results", eventService.ReplaceResults)
	admin.Post("/competitions/:id/publish", eventService.TogglePublish)
}

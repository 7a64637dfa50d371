package roadmapRoutes

import (
	controllers "lms/controllers/roadmap"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoadmapRoutes sets up roadmap CRUD, item management and generation
func SetupRoadmapRoutes(app *fiber.App) {
	roadmapGroup := app.Group("/roadmap", middleware.SessionRequired, middleware.OrganisationRequired)

	roadmapGroup.Get("/list", controllers.ListRoadmaps)
	roadmapGroup.Post("/create", controllers.CreateRoadmap)
	roadmapGroup.Post("/generate", controllers.GenerateRoadmap)
	roadmapGroup.Get("/:roadmapId", controllers.GetRoadmap)
	roadmapGroup.Put("/rename", controllers.RenameRoadmap)
	roadmapGroup.Delete("/delete", controllers.DeleteRoadmap)

	roadmapGroup.Post("/item/add", controllers.AddRoadmapItem)
	roadmapGroup.Put("/item/move", controllers.MoveRoadmapItem)
	roadmapGroup.Delete("/item/remove", controllers.RemoveRoadmapItem)
}

package taxonomyRoutes

import (
	controllers "lms/controllers/taxonomy"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupTaxonomyRoutes sets up skill, channel, level and tag management.
// Listing is open to every member, mutation is admin only.
func SetupTaxonomyRoutes(app *fiber.App) {
	taxonomyGroup := app.Group("/taxonomy", middleware.SessionRequired, middleware.OrganisationRequired)

	taxonomyGroup.Get("/skills", controllers.ListSkills)
	taxonomyGroup.Post("/skills", middleware.AdminRequired, controllers.CreateSkill)
	taxonomyGroup.Delete("/skills", middleware.AdminRequired, controllers.DeleteSkill)

	taxonomyGroup.Get("/channels", controllers.ListChannels)
	taxonomyGroup.Post("/channels", middleware.AdminRequired, controllers.CreateChannel)
	taxonomyGroup.Delete("/channels", middleware.AdminRequired, controllers.DeleteChannel)

	taxonomyGroup.Get("/levels", controllers.ListLevels)
	taxonomyGroup.Post("/levels", middleware.AdminRequired, controllers.CreateLevel)
	taxonomyGroup.Delete("/levels", middleware.AdminRequired, controllers.DeleteLevel)

	taxonomyGroup.Get("/tags", controllers.ListTags)
	taxonomyGroup.Post("/tags", middleware.AdminRequired, controllers.CreateTag)
	taxonomyGroup.Delete("/tags", middleware.AdminRequired, controllers.DeleteTag)
}

package orgRoutes

import (
	controllers "lms/controllers/org"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupOrgRoutes sets up organisation management routes
func SetupOrgRoutes(app *fiber.App) {
	orgGroup := app.Group("/organisation", middleware.SessionRequired)

	orgGroup.Post("/create", controllers.CreateOrganisation)
	orgGroup.Get("/me", controllers.GetMyOrganisation)
	orgGroup.Put("/settings", middleware.OrganisationRequired, middleware.AdminRequired, controllers.UpdateOrganisationSettings)
}

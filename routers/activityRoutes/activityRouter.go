package activityRoutes

import (
	controllers "lms/controllers/activity"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupActivityRoutes sets up the activity feed endpoints
func SetupActivityRoutes(app *fiber.App) {
	activityGroup := app.Group("/activity", middleware.SessionRequired, middleware.OrganisationRequired)

	activityGroup.Get("/me", controllers.GetMyActivity)
	activityGroup.Get("/org", middleware.AdminRequired, controllers.GetOrgActivity)
}

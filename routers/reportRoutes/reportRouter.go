package reportRoutes

import (
	controllers "lms/controllers/reports"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupReportRoutes sets up learner self-reports and admin reporting
func SetupReportRoutes(app *fiber.App) {
	reportGroup := app.Group("/reports", middleware.SessionRequired, middleware.OrganisationRequired)

	reportGroup.Get("/me", controllers.GetMyReport)
	reportGroup.Get("/overview", middleware.AdminRequired, controllers.GetAdminOverview)
	reportGroup.Get("/user/:userId", middleware.AdminRequired, controllers.GetUserReport)
}

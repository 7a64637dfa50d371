package dashboardRoutes

import (
	controllers "lms/controllers/dashboard"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupDashboardRoutes sets up the learner and admin dashboards
func SetupDashboardRoutes(app *fiber.App) {
	dashboardGroup := app.Group("/dashboard", middleware.SessionRequired, middleware.OrganisationRequired)

	dashboardGroup.Get("/me", controllers.GetUserDashboard)
	dashboardGroup.Get("/admin", middleware.AdminRequired, controllers.GetAdminDashboard)
}

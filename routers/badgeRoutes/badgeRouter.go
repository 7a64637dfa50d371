package badgeRoutes

import (
	controllers "lms/controllers/badge"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupBadgeRoutes sets up badge definition and earned badge listing
func SetupBadgeRoutes(app *fiber.App) {
	badgeGroup := app.Group("/badges", middleware.SessionRequired, middleware.OrganisationRequired)

	badgeGroup.Get("/me", controllers.ListUserBadges)
	badgeGroup.Get("/list", controllers.ListOrgBadges)
	badgeGroup.Post("/frequent", middleware.AdminRequired, controllers.CreateFrequentBadge)
	badgeGroup.Post("/course", middleware.AdminRequired, controllers.CreateCourseBadge)
	badgeGroup.Delete("/delete", middleware.AdminRequired, controllers.DeleteBadge)
}

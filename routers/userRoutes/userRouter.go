package userRoutes

import (
	controllers "lms/controllers/userControllers"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up profile, skill and preference routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.SessionRequired)

	userGroup.Put("/profile", controllers.UpdateProfile)
	userGroup.Put("/password", controllers.UpdatePassword)

	userGroup.Get("/skills", controllers.GetUserSkills)
	userGroup.Post("/skills", controllers.AddUserSkill)
	userGroup.Put("/skills", controllers.UpdateUserSkill)
	userGroup.Delete("/skills", controllers.RemoveUserSkill)

	userGroup.Get("/preferences", controllers.GetUserPreferences)
	userGroup.Put("/preferences", controllers.UpdateUserPreferences)

	adminGroup := app.Group("/admin/users", middleware.SessionRequired, middleware.OrganisationRequired, middleware.AdminRequired)
	adminGroup.Get("/list", controllers.ListOrgUsers)
	adminGroup.Delete("/delete", controllers.DeleteUser)
}

package authRoutes

import (
	controllers "lms/controllers/auth"
	authValidator "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up signup, login, logout and session introspection
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidator.Signup(), controllers.Signup)
	authGroup.Post("/login", authValidator.Login(), controllers.Login)
	authGroup.Post("/logout", controllers.Logout)
	authGroup.Get("/me", controllers.Me)
}

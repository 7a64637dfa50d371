package onboardingRoutes

import (
	controllers "lms/controllers/onboarding"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupOnboardingRoutes sets up onboarding question management and submission
func SetupOnboardingRoutes(app *fiber.App) {
	onboardingGroup := app.Group("/onboarding", middleware.SessionRequired, middleware.OrganisationRequired)

	onboardingGroup.Get("/questions", controllers.ListOnboardingQuestions)
	onboardingGroup.Post("/questions", middleware.AdminRequired, controllers.CreateOnboardingQuestion)
	onboardingGroup.Post("/questions/option", middleware.AdminRequired, controllers.AddOnboardingQuestionOption)
	onboardingGroup.Delete("/questions", middleware.AdminRequired, controllers.DeleteOnboardingQuestion)

	onboardingGroup.Post("/submit", controllers.SubmitOnboarding)
	onboardingGroup.Get("/status", controllers.GetOnboardingStatus)
}

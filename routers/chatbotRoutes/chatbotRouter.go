package chatbotRoutes

import (
	controllers "lms/controllers/chatbot"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupChatbotRoutes sets up the AI assistant endpoints
func SetupChatbotRoutes(app *fiber.App) {
	chatGroup := app.Group("/chatbot", middleware.SessionRequired, middleware.OrganisationRequired)

	chatGroup.Post("/ask", controllers.AskChatbot)
	chatGroup.Get("/history/:moduleId", controllers.GetChatHistory)
	chatGroup.Get("/logs", middleware.AdminRequired, controllers.ListChatLogs)
}

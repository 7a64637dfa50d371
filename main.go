package main

import (
	"log"

	"lms/config"
	"lms/database"
	activityRoutes "lms/routers/activityRoutes"
	authRoutes "lms/routers/authRoutes"
	badgeRoutes "lms/routers/badgeRoutes"
	chatbotRoutes "lms/routers/chatbotRoutes"
	courseRoutes "lms/routers/courseRoutes"
	dashboardRoutes "lms/routers/dashboardRoutes"
	onboardingRoutes "lms/routers/onboardingRoutes"
	orgRoutes "lms/routers/orgRoutes"
	reportRoutes "lms/routers/reportRoutes"
	roadmapRoutes "lms/routers/roadmapRoutes"
	taxonomyRoutes "lms/routers/taxonomyRoutes"
	userRoutes "lms/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded module files
	app.Static("/uploads", config.AppConfig.UploadDir)

	authRoutes.SetupAuthRoutes(app)
	orgRoutes.SetupOrgRoutes(app)
	userRoutes.SetupUserRoutes(app)
	taxonomyRoutes.SetupTaxonomyRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	roadmapRoutes.SetupRoadmapRoutes(app)
	onboardingRoutes.SetupOnboardingRoutes(app)
	reportRoutes.SetupReportRoutes(app)
	dashboardRoutes.SetupDashboardRoutes(app)
	chatbotRoutes.SetupChatbotRoutes(app)
	badgeRoutes.SetupBadgeRoutes(app)
	activityRoutes.SetupActivityRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}

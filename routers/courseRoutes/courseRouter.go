package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up course browsing, enrollment, module progress and
// quiz submission for organisation members.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course", middleware.SessionRequired, middleware.OrganisationRequired)

	courseGroup.Get("/list", controllers.ListCourses)
	courseGroup.Get("/:courseId", controllers.GetCourse)
	courseGroup.Get("/:courseId/modules", controllers.ListModules)
	courseGroup.Get("/:courseId/progress", controllers.GetCourseProgress)

	enrollGroup := app.Group("/enrollment", middleware.SessionRequired, middleware.OrganisationRequired)
	enrollGroup.Get("/list", controllers.ListEnrollments)
	enrollGroup.Post("/enroll", controllers.Enroll)
	enrollGroup.Post("/unenroll", controllers.Unenroll)
	enrollGroup.Post("/module/start", controllers.StartModule)
	enrollGroup.Post("/module/complete", controllers.CompleteModule)
	enrollGroup.Post("/course/complete", controllers.CompleteCourse)
	enrollGroup.Post("/course/uncomplete", controllers.UncompleteCourse)

	moduleGroup := app.Group("/module", middleware.SessionRequired, middleware.OrganisationRequired)
	moduleGroup.Get("/:moduleId", controllers.GetModule)

	quizGroup := app.Group("/quiz", middleware.SessionRequired, middleware.OrganisationRequired)
	quizGroup.Post("/submit", controllers.SubmitQuiz)
	quizGroup.Get("/:quizId/result", controllers.GetQuizResult)

	materialsGroup := app.Group("/materials", middleware.SessionRequired, middleware.OrganisationRequired)
	materialsGroup.Get("/list", controllers.ListMaterials)
	materialsGroup.Get("/recommended", controllers.ListMaterialsByUserTags)
}

// SetupAdminCourseRoutes sets up admin-only course and module management
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.SessionRequired, middleware.OrganisationRequired, middleware.AdminRequired)

	adminGroup.Post("/create", controllers.CreateCourse)
	adminGroup.Put("/update", controllers.UpdateCourse)
	adminGroup.Delete("/delete", controllers.DeleteCourse)

	adminGroup.Post("/module/create", controllers.CreateModule)
	adminGroup.Put("/module/update", controllers.UpdateModule)
	adminGroup.Delete("/module/delete", controllers.DeleteModule)
	adminGroup.Post("/module/:moduleId/upload", controllers.UploadModuleFile)
}

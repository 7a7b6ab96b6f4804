package routes

import (
	"codequest/config"
	"codequest/controllers"
	"codequest/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)
	superAdminMiddleware := middleware.SuperAdminMiddleware(db, cfg)

	// Profile
	app.Get("/api/user/profile", authMiddleware, authController.GetProfile)

	// Practice routes
	practiceController := controllers.NewPracticeController(db, cfg)
	practice := app.Group("/api/practice", authMiddleware)
	practice.Get("/questions", practiceController.ListQuestions)
	practice.Get("/questions/:id", practiceController.GetQuestion)
	practice.Post("/questions/:id/answer", practiceController.SubmitAnswer)
	practice.Get("/dashboard", practiceController.Dashboard)
	practice.Get("/leaderboard", practiceController.Leaderboard)

	// Test routes
	testsController := controllers.NewTestsController(db, cfg)
	tests := app.Group("/api/tests", authMiddleware)
	tests.Get("/", testsController.GetAvailableTests)
	tests.Get("/:id", testsController.GetTestDetails)
	tests.Post("/:id/start", testsController.StartTest)
	tests.Post("/:id/answer", testsController.SubmitTestAnswer)
	tests.Post("/:id/finish", testsController.FinishTest)
	tests.Get("/:id/results", testsController.GetTestResults)

	// Learning content routes
	learnController := controllers.NewLearnController(db, cfg)
	learn := app.Group("/api/learn", authMiddleware)
	learn.Get("/subjects", learnController.GetSubjects)
	learn.Get("/subjects/:id/topics", learnController.GetTopics)
	learn.Get("/topics/:id/notes", learnController.GetNotes)
	learn.Get("/courses", learnController.GetMyCourses)
	learn.Get("/courses/:id", learnController.GetCourseDetails)

	// Admin routes
	adminController := controllers.NewAdminController(db, cfg)
	admin := app.Group("/api/admin", adminMiddleware)
	admin.Get("/questions", adminController.ListQuestions)
	admin.Post("/questions", adminController.CreateQuestion)
	admin.Put("/questions/:id", adminController.UpdateQuestion)
	admin.Delete("/questions/:id", adminController.DeleteQuestion)
	admin.Patch("/questions/:id/toggle", adminController.ToggleQuestion)
	admin.Post("/subjects", adminController.CreateSubject)
	admin.Post("/topics", adminController.CreateTopic)
	admin.Post("/notes", adminController.CreateNote)
	admin.Post("/tests", adminController.CreateTest)
	admin.Put("/tests/:id", adminController.UpdateTest)
	admin.Post("/tests/:id/assign", adminController.AssignTest)
	admin.Get("/tests/:id/results", adminController.GetTestResultsOverview)
	admin.Get("/users", adminController.ListUsers)
	admin.Post("/users/:id/promote", adminController.PromoteUser)
	admin.Post("/users/:id/demote", adminController.DemoteUser)
	admin.Post("/users/:id/super-admin", superAdminMiddleware, adminController.MakeSuperAdmin)
	admin.Get("/analytics", adminController.GetAnalytics)
	admin.Post("/courses", adminController.CreateCourse)
	admin.Put("/courses/:id", adminController.UpdateCourse)
	admin.Post("/courses/:id/enroll", adminController.EnrollStudents)
}

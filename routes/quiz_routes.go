package routes

import (
	"github.com/anjiri1684/quiz_connect/auth"
	"github.com/anjiri1684/quiz_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuizRoutes(app *fiber.App, d Deps) {
	api := app.Group("/api/v1")
	manage := middleware.Require(auth.ManageQuizzes)

	quizzes := api.Group("/quizzes", d.protected())
	quizzes.Get("", d.Quizzes.List)
	quizzes.Post("", manage, d.Quizzes.Create)
	quizzes.Get("/:id", d.Quizzes.Get)
	quizzes.Post("/:id/questions", manage, d.Quizzes.AddQuestion)
	quizzes.Post("/:id/submit", middleware.Require(auth.TakeQuizzes), d.Quizzes.Submit)

	api.Get("/results/:id/certificate", d.protected(), d.Quizzes.Certificate)

	admin := api.Group("/admin/quizzes", d.admin()...)
	admin.Put("/:id", d.Quizzes.Replace)
	admin.Delete("/:id", d.Quizzes.Delete)
	admin.Patch("/:id/status", d.Quizzes.SetStatus)
}

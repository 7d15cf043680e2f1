package routes

import (
	"github.com/gofiber/fiber/v2"
)

func StudentRoutes(app *fiber.App, d Deps) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin/students", d.admin()...)
	admin.Post("", d.Accounts.CreateStudent)
	admin.Get("", d.Accounts.ListStudents)
	admin.Delete("", d.Accounts.BulkDeleteStudents)
	admin.Get("/:id", d.Accounts.GetStudent)
	admin.Delete("/:id", d.Accounts.DeleteStudent)
	admin.Put("/:id/toggle", d.Accounts.ToggleStudent)
	admin.Post("/:id/resend-code", d.Accounts.ResendCode)

	students := api.Group("/students", d.protected())
	students.Get("/:id/results", d.Quizzes.StudentResults)
	students.Get("/:id/payments", d.Payments.StudentPayments)
	students.Get("/:id/notifications", d.Notifications.StudentNotifications)
}

package routes

import (
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App, d Deps) {
	api := app.Group("/api/v1")

	api.Post("/payments", d.protected(), d.Payments.Create)

	admin := api.Group("/admin/payments", d.admin()...)
	admin.Get("", d.Payments.List)
	admin.Post("/:id/validate", d.Payments.Validate)
	admin.Post("/:id/partial", d.Payments.Partial)
	admin.Post("/:id/reject", d.Payments.Reject)
}

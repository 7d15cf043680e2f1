package routes

import (
	"github.com/anjiri1684/quiz_connect/auth"
	"github.com/anjiri1684/quiz_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func DocumentRoutes(app *fiber.App, d Deps) {
	api := app.Group("/api/v1")

	documents := api.Group("/documents", d.protected())
	documents.Get("", d.Documents.List)
	documents.Post("", middleware.Require(auth.ManageDocuments), d.Documents.Upload)
	documents.Get("/:id/download", d.Documents.Download)
	documents.Get("/:id/preview", d.Documents.Preview)

	admin := api.Group("/admin/documents", d.admin()...)
	admin.Post("/cleanup", d.Documents.Cleanup)
	admin.Patch("/:id", d.Documents.Update)
	admin.Delete("/:id", d.Documents.Delete)
}

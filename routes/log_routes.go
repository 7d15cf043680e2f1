package routes

import "github.com/gofiber/fiber/v2"

func LogRoutes(app *fiber.App, d Deps) {
	logs := app.Group("/api/v1/log")
	logs.Post("/access", d.protected(), d.AccessLog.Access)
	logs.Post("/viewer-access", d.protected(), d.AccessLog.Viewer)
}

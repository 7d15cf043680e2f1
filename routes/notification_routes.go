package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(app *fiber.App, d Deps) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin/notifications", d.admin()...)
	admin.Post("", d.Notifications.Create)
	admin.Get("", d.Notifications.List)

	api.Put("/notifications/:id/read", d.protected(), d.Notifications.MarkRead)

	if d.WS != nil {
		api.Use("/ws", d.WS.Upgrade)
		api.Get("/ws", websocket.New(d.WS.ServeWs))
	}
}

package routes

import (
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App, d Deps) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", d.Auth.Register)

	login := []fiber.Handler{}
	if d.LoginLimiter != nil {
		login = append(login, d.LoginLimiter)
	}
	auth.Post("/login/student", append(login, d.Auth.LoginStudent)...)
	auth.Post("/login/admin", append(login, d.Auth.LoginAdmin)...)
	auth.Post("/login", append(login, d.Auth.Login)...)

	auth.Get("/verify", d.protected(), d.Auth.Verify)
}

package routes

import (
	"time"

	"github.com/anjiri1684/quiz_connect/handlers"
	"github.com/anjiri1684/quiz_connect/logger"
	"github.com/anjiri1684/quiz_connect/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Deps carries the handlers and shared middleware the routes are built from.
type Deps struct {
	JWTSecret    string
	LoginLimiter fiber.Handler

	Auth          *handlers.AuthHandler
	Accounts      *handlers.AccountHandler
	Quizzes       *handlers.QuizHandler
	Payments      *handlers.PaymentHandler
	Documents     *handlers.DocumentHandler
	Notifications *handlers.NotificationHandler
	WS            *handlers.WSHandler
	AccessLog     *handlers.AccessLogHandler
}

func (d Deps) protected() fiber.Handler {
	return middleware.Protected(d.JWTSecret)
}

func (d Deps) admin() []fiber.Handler {
	return []fiber.Handler{d.protected(), middleware.AdminRequired()}
}

// NewApp builds the Fiber app with the shared error handler and panic recovery.
func NewApp(name string, log logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       name,
		CaseSensitive: true,
		StrictRouting: true,
		BodyLimit:     200 * 1024 * 1024,
		ReadTimeout:   60 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler(log),
	})
	app.Use(recover.New())
	return app
}

func Setup(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	AuthRoutes(app, d)
	StudentRoutes(app, d)
	QuizRoutes(app, d)
	PaymentRoutes(app, d)
	DocumentRoutes(app, d)
	NotificationRoutes(app, d)
	LogRoutes(app, d)
}

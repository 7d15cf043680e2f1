package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/quiz_connect/configs"
	"github.com/anjiri1684/quiz_connect/database"
	"github.com/anjiri1684/quiz_connect/handlers"
	"github.com/anjiri1684/quiz_connect/jobs"
	applog "github.com/anjiri1684/quiz_connect/logger"
	"github.com/anjiri1684/quiz_connect/middleware"
	"github.com/anjiri1684/quiz_connect/notifications"
	"github.com/anjiri1684/quiz_connect/routes"
	"github.com/anjiri1684/quiz_connect/services"
	"github.com/anjiri1684/quiz_connect/storage"
	"github.com/anjiri1684/quiz_connect/validation"
	"github.com/anjiri1684/quiz_connect/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

func newSender(cfg *config.AppConfig) (notifications.Sender, error) {
	switch cfg.EmailDriver {
	case "brevo":
		if cfg.BrevoAPIKey == "" || cfg.EmailSender == "" {
			return nil, errors.New("BREVO_API_KEY and EMAIL_SENDER must be set")
		}
		return notifications.NewBrevoSender(cfg.BrevoAPIKey, cfg.EmailSender, cfg.EmailSenderName), nil
	case "sendgrid":
		if cfg.SendgridAPIKey == "" || cfg.EmailSender == "" {
			return nil, errors.New("SENDGRID_API_KEY and EMAIL_SENDER must be set")
		}
		return notifications.NewSendGridSender(cfg.SendgridAPIKey, cfg.EmailSender, cfg.EmailSenderName, cfg.AppName), nil
	case "console", "":
		return notifications.NewConsoleSender(log.New(os.Stdout, "[EMAIL] ", log.LstdFlags)), nil
	}
	return nil, errors.Errorf("unknown EMAIL_DRIVER %q", cfg.EmailDriver)
}

func newStore(ctx context.Context, cfg *config.AppConfig) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "cloudinary":
		return storage.NewCloudinaryStore(cfg.CloudinaryURL, "quiz_connect/documents")
	case "b2":
		return storage.NewB2Store(ctx, cfg.B2AccountID, cfg.B2AppKey, cfg.B2Bucket)
	case "disk", "":
		return storage.NewDiskStore(cfg.UploadDir)
	}
	return nil, errors.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("🔥 Failed to load config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("🔥 JWT_SECRET must be set")
	}

	host, _ := os.Hostname()
	appLog := applog.NewRollbarLogger(log.New(os.Stdout, "", log.LstdFlags), cfg.RollbarToken, cfg.Env, host)
	defer appLog.Close()

	db, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	if err := database.SeedAdmin(db, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("🔥 Failed to seed admin: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender, err := newSender(cfg)
	if err != nil {
		log.Fatalf("🔥 Failed to configure email: %v", err)
	}
	mail := notifications.NewDispatcher(sender, appLog)

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("🔥 Failed to configure storage: %v", err)
	}

	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		rdb, err := database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("🔥 Failed to connect to redis: %v", err)
		}
		limiterStorage = database.NewRedisStorage(rdb, "quiz_connect:limiter:")
		log.Println("✅ Login rate limits are kept in Redis")
	}

	hub := websocket.NewHub(appLog)
	go hub.Run(ctx)

	v := validation.New()
	authSvc := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	accounts := services.NewAccountService(db, mail, cfg.AppName, cfg.AuthCodeLength)
	quizzes := services.NewQuizService(db, mail)
	payments := services.NewPaymentService(db, mail, appLog, cfg.AppName, cfg.PartialBalance, cfg.AuthCodeLength)
	documents := services.NewDocumentService(db, store, appLog)
	notes := services.NewNotificationService(db, hub)
	certificates := services.NewCertificateService(quizzes, services.ChromeRenderer{Timeout: cfg.ChromeTimeout}, cfg.AppName)

	c := cron.New()
	if err := jobs.Schedule(c, quizzes, documents, appLog); err != nil {
		log.Fatalf("🔥 Failed to schedule jobs: %v", err)
	}
	c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := routes.NewApp(cfg.AppName, appLog)
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.Setup(app, routes.Deps{
		JWTSecret:     cfg.JWTSecret,
		LoginLimiter:  middleware.LoginLimiter(cfg.LoginRateLimit, limiterStorage),
		Auth:          handlers.NewAuthHandler(authSvc, accounts, v),
		Accounts:      handlers.NewAccountHandler(accounts, v),
		Quizzes:       handlers.NewQuizHandler(quizzes, certificates, v),
		Payments:      handlers.NewPaymentHandler(payments, v),
		Documents:     handlers.NewDocumentHandler(documents, v),
		Notifications: handlers.NewNotificationHandler(notes, v),
		WS:            handlers.NewWSHandler(hub, cfg.JWTSecret, appLog),
		AccessLog:     handlers.NewAccessLogHandler(appLog, v),
	})

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			appLog.Error("Server shutdown failed", err)
		}
	}()

	log.Printf("✅ Server is running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Error("🔥 Server failed to start", err)
	}

	<-c.Stop().Done()
	mail.Wait()
	if limiterStorage != nil {
		_ = limiterStorage.Close()
	}
}

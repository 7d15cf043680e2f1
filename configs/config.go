package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type AppConfig struct {
	AppName string
	Env     string
	Port    string

	DatabaseURL string
	RedisURL    string

	JWTSecret string
	JWTTTL    time.Duration

	AdminEmail    string
	AdminPassword string
	AdminUsername string

	PartialBalance decimal.Decimal
	AuthCodeLength int

	EmailDriver     string
	BrevoAPIKey     string
	SendgridAPIKey  string
	EmailSender     string
	EmailSenderName string

	StorageDriver string
	UploadDir     string
	CloudinaryURL string
	B2AccountID   string
	B2AppKey      string
	B2Bucket      string

	LoginRateLimit int
	RollbarToken   string
	CORSOrigins    string
	ChromeTimeout  time.Duration
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "Quiz Connect")
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("PARTIAL_BALANCE", "25000")
	v.SetDefault("AUTH_CODE_LENGTH", 6)
	v.SetDefault("EMAIL_DRIVER", "console")
	v.SetDefault("EMAIL_SENDER_NAME", "Quiz Connect")
	v.SetDefault("STORAGE_DRIVER", "disk")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("CHROME_TIMEOUT", 30*time.Second)
}

// Load reads .env when present and then the process environment.
func Load() (*AppConfig, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, err
		}
	} else {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	defaults(v)
	v.AutomaticEnv()

	partial, err := decimal.NewFromString(strings.TrimSpace(v.GetString("PARTIAL_BALANCE")))
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		AppName:         v.GetString("APP_NAME"),
		Env:             v.GetString("ENV"),
		Port:            v.GetString("PORT"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		RedisURL:        v.GetString("REDIS_URL"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTTTL:          v.GetDuration("JWT_TTL"),
		AdminEmail:      v.GetString("ADMIN_EMAIL"),
		AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		AdminUsername:   v.GetString("ADMIN_USERNAME"),
		PartialBalance:  partial,
		AuthCodeLength:  v.GetInt("AUTH_CODE_LENGTH"),
		EmailDriver:     strings.ToLower(v.GetString("EMAIL_DRIVER")),
		BrevoAPIKey:     v.GetString("BREVO_API_KEY"),
		SendgridAPIKey:  v.GetString("SENDGRID_API_KEY"),
		EmailSender:     v.GetString("EMAIL_SENDER"),
		EmailSenderName: v.GetString("EMAIL_SENDER_NAME"),
		StorageDriver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
		UploadDir:       v.GetString("UPLOAD_DIR"),
		CloudinaryURL:   v.GetString("CLOUDINARY_URL"),
		B2AccountID:     v.GetString("B2_ACCOUNT_ID"),
		B2AppKey:        v.GetString("B2_APP_KEY"),
		B2Bucket:        v.GetString("B2_BUCKET"),
		LoginRateLimit:  v.GetInt("LOGIN_RATE_LIMIT"),
		RollbarToken:    v.GetString("ROLLBAR_TOKEN"),
		CORSOrigins:     v.GetString("CORS_ORIGINS"),
		ChromeTimeout:   v.GetDuration("CHROME_TIMEOUT"),
	}, nil
}

func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

package database

import (
	"log"
	"time"

	"github.com/anjiri1684/quiz_connect/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func ConnectDB(dsn string) (*gorm.DB, error) {
	db, err := Open(postgres.Open(dsn))
	if err != nil {
		return nil, err
	}
	log.Println("✅ Database connected successfully")
	return db, nil
}

// Open applies the shared GORM settings to any dialector.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Quiz{},
		&models.Question{},
		&models.Result{},
		&models.Payment{},
		&models.Document{},
		&models.Notification{},
	)
}

// SeedAdmin creates the first admin account unless one with the email exists.
func SeedAdmin(db *gorm.DB, username, email, password string) error {
	if email == "" || password == "" {
		log.Println("⚠️ ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed.")
		return nil
	}

	var count int64
	if err := db.Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin user already exists.")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Account{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		Active:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	return nil
}

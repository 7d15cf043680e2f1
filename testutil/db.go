// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/anjiri1684/quiz_connect/database"
	"github.com/anjiri1684/quiz_connect/logger"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OpenDB returns a migrated in-memory database private to the test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("OpenDB(): %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("OpenDB(): %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate(): %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func Logger() logger.Logger {
	return logger.NewRollbarLogger(log.New(io.Discard, "", 0), "", "test", "")
}

func CreateAccount(t *testing.T, db *gorm.DB, username string, role models.Role, active bool, code string) models.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("CreateAccount(): %v", err)
	}
	acc := models.Account{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
		Active:   active,
	}
	if code != "" {
		acc.AuthCode = &code
	}
	if err := db.Create(&acc).Error; err != nil {
		t.Fatalf("CreateAccount(): %v", err)
	}
	return acc
}

// CreateQuiz stores an active quiz open from an hour ago for the given window.
func CreateQuiz(t *testing.T, db *gorm.DB, creator uint, endsIn time.Duration, questions ...models.Question) models.Quiz {
	t.Helper()
	now := time.Now().UTC()
	quiz := models.Quiz{
		Title:           "Quiz",
		Kind:            "exam",
		StartsAt:        now.Add(-time.Hour),
		EndsAt:          now.Add(endsIn),
		DurationMinutes: 30,
		Status:          models.QuizActive,
		CreatedBy:       creator,
		Questions:       questions,
	}
	for _, q := range questions {
		quiz.TotalPoints += q.Points
	}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("CreateQuiz(): %v", err)
	}
	return quiz
}

func CreatePayment(t *testing.T, db *gorm.DB, accountID uint, amount string) models.Payment {
	t.Helper()
	p := models.Payment{
		AccountID:        accountID,
		Method:           "mvola",
		Amount:           decimal.RequireFromString(amount),
		Status:           models.PaymentPending,
		RemainingBalance: decimal.Zero,
		PaidAt:           time.Now().UTC(),
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("CreatePayment(): %v", err)
	}
	return p
}

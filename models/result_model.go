package models

import "time"

const ResultSubmitted = "submitted"

type Result struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AccountID   uint      `gorm:"not null;uniqueIndex:idx_result_account_quiz" json:"account_id"`
	QuizID      uint      `gorm:"not null;uniqueIndex:idx_result_account_quiz;index" json:"quiz_id"`
	Score       int       `gorm:"not null" json:"score"`
	MaxScore    int       `gorm:"not null" json:"max_score"`
	TimeUsed    int       `gorm:"not null;default:0" json:"time_used"`
	Status      string    `gorm:"size:20;not null;default:'submitted'" json:"status"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`

	Quiz    Quiz    `gorm:"foreignKey:QuizID" json:"-"`
	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}

func (r Result) Percentage() float64 {
	if r.MaxScore <= 0 {
		return 0
	}
	return float64(r.Score) / float64(r.MaxScore) * 100
}

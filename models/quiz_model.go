package models

import "time"

type QuizStatus string

const (
	QuizDraft     QuizStatus = "draft"
	QuizActive    QuizStatus = "active"
	QuizScheduled QuizStatus = "scheduled"
	QuizClosed    QuizStatus = "closed"
)

func (s QuizStatus) Valid() bool {
	switch s {
	case QuizDraft, QuizActive, QuizScheduled, QuizClosed:
		return true
	}
	return false
}

type Quiz struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:100;not null" json:"title"`
	Kind            string     `gorm:"size:20;not null" json:"kind"`
	StartsAt        time.Time  `gorm:"not null;index" json:"starts_at"`
	EndsAt          time.Time  `gorm:"not null;index" json:"ends_at"`
	DurationMinutes int        `gorm:"not null" json:"duration_minutes"`
	TotalPoints     int        `gorm:"not null;default:0" json:"total_points"`
	Status          QuizStatus `gorm:"size:20;not null;default:'draft';index" json:"status"`
	CreatedBy       uint       `gorm:"not null" json:"created_by"`

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpenAt reports whether students may see and take the quiz at now.
func (q Quiz) OpenAt(now time.Time) bool {
	return q.Status == QuizActive && !q.StartsAt.After(now) && !q.EndsAt.Before(now)
}

// MaxScore is the sum of the points of every question in the quiz.
func (q Quiz) MaxScore() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

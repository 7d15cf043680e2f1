package models

import "time"

type NotificationTarget string

const (
	TargetAll        NotificationTarget = "all"
	TargetIndividual NotificationTarget = "individual"
)

type Notification struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	Title     string             `gorm:"size:150;not null" json:"title"`
	Message   string             `gorm:"type:text;not null" json:"message"`
	Target    NotificationTarget `gorm:"size:20;not null;default:'all';index" json:"target"`
	AccountID *uint              `gorm:"index" json:"account_id"`
	SentAt    time.Time          `gorm:"not null" json:"sent_at"`
}

// For reports whether the notification is addressed to the account.
func (n Notification) For(accountID uint) bool {
	if n.Target == TargetAll {
		return true
	}
	return n.AccountID != nil && *n.AccountID == accountID
}

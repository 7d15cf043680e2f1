package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentComplete PaymentStatus = "complete"
	PaymentPartial  PaymentStatus = "partial"
	PaymentRejected PaymentStatus = "rejected"
)

type Payment struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	AccountID        uint            `gorm:"not null;index" json:"account_id"`
	Method           string          `gorm:"size:50;not null" json:"method"`
	ReferenceCode    *string         `gorm:"size:100" json:"reference_code"`
	Amount           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status           PaymentStatus   `gorm:"size:20;not null;default:'pending'" json:"status"`
	RemainingBalance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"remaining_balance"`
	PaidAt           time.Time       `gorm:"not null" json:"paid_at"`

	Account Account `gorm:"foreignKey:AccountID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Payment) Resolved() bool {
	return p.Status != PaymentPending
}

package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

type Account struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Username  string  `gorm:"size:80;not null;uniqueIndex" json:"username"`
	Email     string  `gorm:"size:120;not null;uniqueIndex" json:"email"`
	FirstName string  `gorm:"size:80" json:"first_name"`
	LastName  string  `gorm:"size:80" json:"last_name"`
	Phone     *string `gorm:"size:20" json:"phone"`
	Password  string  `gorm:"size:255;not null" json:"-"`
	AuthCode  *string `gorm:"size:20;uniqueIndex" json:"-"`
	Role      Role    `gorm:"size:20;not null;default:'student'" json:"role"`
	Active    bool    `gorm:"not null;default:false" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// DisplayName falls back to the username when no names were recorded.
func (a Account) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Username
	}
	return name
}

func (a Account) Code() string {
	if a.AuthCode == nil {
		return ""
	}
	return *a.AuthCode
}

package models

import "time"

type Document struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:100;not null" json:"title"`
	Type         string    `gorm:"size:20;not null" json:"type"`
	Path         string    `gorm:"size:255;not null" json:"path"`
	Downloadable bool      `gorm:"not null" json:"downloadable"`
	UploadedBy   uint      `gorm:"not null" json:"uploaded_by"`
	UploadedAt   time.Time `gorm:"not null" json:"uploaded_at"`
}

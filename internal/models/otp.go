package models

import "time"

// OTP is a hashed one-time code emailed during portal password reset.
// Codes are single-use; UsedAt marks consumption.
type OTP struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"index;size:255;not null"`
	CodeHash  string    `gorm:"size:255;not null"`
	ExpiresAt time.Time `gorm:"index"`
	UsedAt    *time.Time
	CreatedAt time.Time
}

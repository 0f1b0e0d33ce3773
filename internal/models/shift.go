package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Shift struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	CandidateID uuid.UUID `gorm:"type:char(36);index;not null" json:"candidateId"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	StartTime   time.Time `gorm:"not null" json:"startTime"`
	EndTime     time.Time `gorm:"not null" json:"endTime"`
	Days        string    `gorm:"size:120" json:"days"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *Shift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

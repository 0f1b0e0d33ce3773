package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CandidateGroup bundles candidates so holidays can be managed for the
// whole cohort at once. DefaultHolidays is the holiday set most recently
// assigned to the group; it is applied to members added later.
type CandidateGroup struct {
	ID              uuid.UUID   `gorm:"type:char(36);primaryKey" json:"id"`
	Name            string      `gorm:"size:200;not null" json:"name"`
	Description     string      `gorm:"size:500" json:"description"`
	CreatedBy       uuid.UUID   `gorm:"type:char(36)" json:"createdBy"`
	IsActive        bool        `gorm:"not null;default:true" json:"isActive"`
	Members         []Candidate `gorm:"many2many:group_members" json:"members,omitempty"`
	DefaultHolidays []Holiday   `gorm:"many2many:group_default_holidays" json:"defaultHolidays,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

func (g *CandidateGroup) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (g *CandidateGroup) HasMember(candidateID uuid.UUID) bool {
	for _, m := range g.Members {
		if m.ID == candidateID {
			return true
		}
	}
	return false
}

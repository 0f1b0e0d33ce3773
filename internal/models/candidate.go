package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Candidate struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	FirstName string    `gorm:"size:120;not null" json:"firstName"`
	LastName  string    `gorm:"size:120;not null" json:"lastName"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Position  string    `gorm:"size:120" json:"position"`
	Status    string    `gorm:"size:50;not null;default:active" json:"status"`
	Holidays  []Holiday `gorm:"many2many:candidate_holidays" json:"holidays,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// HasHoliday reports whether the candidate already observes the holiday.
func (c *Candidate) HasHoliday(holidayID uuid.UUID) bool {
	for _, h := range c.Holidays {
		if h.ID == holidayID {
			return true
		}
	}
	return false
}

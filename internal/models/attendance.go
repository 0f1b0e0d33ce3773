package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AttendanceStatusPresent = "Present"
	AttendanceStatusAbsent  = "Absent"
	AttendanceStatusHoliday = "Holiday"
)

// AttendanceRecord holds one row per candidate per calendar day. The
// unique index on (candidate_id, date) is what makes holiday record
// creation idempotent per day rather than per holiday.
type AttendanceRecord struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	CandidateID uuid.UUID  `gorm:"type:char(36);not null;uniqueIndex:idx_attendance_candidate_day" json:"candidateId"`
	Date        time.Time  `gorm:"not null;uniqueIndex:idx_attendance_candidate_day" json:"date"`
	PunchIn     *time.Time `json:"punchIn,omitempty"`
	PunchOut    *time.Time `json:"punchOut,omitempty"`
	Duration    float64    `gorm:"type:decimal(6,2);not null;default:0" json:"duration"`
	Status      string     `gorm:"size:20;index;not null" json:"status"`
	Notes       string     `gorm:"size:500" json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (a *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Date = DayStart(a.Date)
	return nil
}

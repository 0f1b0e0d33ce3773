package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"recruit-backend/internal/middleware"
	"recruit-backend/internal/models"
)

type AttendanceHandler struct {
	DB *gorm.DB
}

type punchInRequest struct {
	CandidateID string `json:"candidateId"`
}

type punchOutRequest struct {
	CandidateID string `json:"candidateId"`
	Notes       string `json:"notes"`
}

func NewAttendanceHandler(db *gorm.DB) *AttendanceHandler {
	return &AttendanceHandler{DB: db}
}

func (h *AttendanceHandler) resolveCandidateID(c *gin.Context, requested string) (uuid.UUID, bool) {
	role, _ := c.Get(middleware.ContextRole)
	if role == "candidate" {
		contextID, ok := c.Get(middleware.ContextCandidateID)
		if !ok || contextID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return uuid.Nil, false
		}
		requested = contextID.(string)
	} else if requested == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidateId required"})
		return uuid.Nil, false
	}

	id, err := uuid.Parse(requested)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidateId"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *AttendanceHandler) List(c *gin.Context) {
	query := h.DB.Model(&models.AttendanceRecord{})

	role, _ := c.Get(middleware.ContextRole)
	if role == "candidate" {
		candidateID, ok := c.Get(middleware.ContextCandidateID)
		if !ok || candidateID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		query = query.Where("candidate_id = ?", candidateID)
	} else if candidateID := c.Query("candidateId"); candidateID != "" {
		id, err := uuid.Parse(candidateID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidateId"})
			return
		}
		query = query.Where("candidate_id = ?", id)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		start, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		query = query.Where("date >= ?", start)
	}
	if to := c.Query("to"); to != "" {
		end, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return
		}
		query = query.Where("date < ?", end.AddDate(0, 0, 1))
	}

	var records []models.AttendanceRecord
	if err := query.Order("date desc").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load attendance"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *AttendanceHandler) PunchIn(c *gin.Context) {
	var req punchInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	candidateID, ok := h.resolveCandidateID(c, req.CandidateID)
	if !ok {
		return
	}

	now := time.Now().UTC()
	dayStart, dayEnd := models.DayRange(now)

	var existing models.AttendanceRecord
	err := h.DB.Where("candidate_id = ? AND date >= ? AND date < ?", candidateID, dayStart, dayEnd).
		First(&existing).Error
	if err == nil {
		if existing.Status == models.AttendanceStatusHoliday {
			c.JSON(http.StatusConflict, gin.H{"error": "today is a holiday"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "already punched in for this day"})
		return
	}
	if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "punch in failed"})
		return
	}

	record := models.AttendanceRecord{
		CandidateID: candidateID,
		Date:        dayStart,
		PunchIn:     &now,
		Status:      models.AttendanceStatusPresent,
	}
	if err := h.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "punch in failed"})
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *AttendanceHandler) PunchOut(c *gin.Context) {
	var req punchOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	candidateID, ok := h.resolveCandidateID(c, req.CandidateID)
	if !ok {
		return
	}

	now := time.Now().UTC()
	dayStart, dayEnd := models.DayRange(now)

	var record models.AttendanceRecord
	if err := h.DB.Where("candidate_id = ? AND date >= ? AND date < ? AND status = ?",
		candidateID, dayStart, dayEnd, models.AttendanceStatusPresent).
		First(&record).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open attendance for today"})
		return
	}
	if record.PunchOut != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "already punched out"})
		return
	}

	record.PunchOut = &now
	if record.PunchIn != nil {
		record.Duration = now.Sub(*record.PunchIn).Hours()
	}
	if req.Notes != "" {
		record.Notes = req.Notes
	}
	if err := h.DB.Save(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "punch out failed"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *AttendanceHandler) Delete(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.DB.Delete(&models.AttendanceRecord{}, "id = ?", recordID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

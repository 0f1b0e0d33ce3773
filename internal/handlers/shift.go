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

type ShiftHandler struct {
	DB *gorm.DB
}

type createShiftRequest struct {
	CandidateID string `json:"candidateId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	Days        string `json:"days"`
}

type updateShiftRequest struct {
	Name      string `json:"name" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Days      string `json:"days"`
	IsActive  *bool  `json:"isActive"`
}

func NewShiftHandler(db *gorm.DB) *ShiftHandler {
	return &ShiftHandler{DB: db}
}

func parseShiftTime(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("15:04", value)
}

func (h *ShiftHandler) List(c *gin.Context) {
	query := h.DB.Order("created_at desc")

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

	var shifts []models.Shift
	if err := query.Find(&shifts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load shifts"})
		return
	}
	c.JSON(http.StatusOK, shifts)
}

func (h *ShiftHandler) Create(c *gin.Context) {
	var req createShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidateId"})
		return
	}

	var candidate models.Candidate
	if err := h.DB.First(&candidate, "id = ?", candidateID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}

	startTime, err := parseShiftTime(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startTime"})
		return
	}
	endTime, err := parseShiftTime(req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endTime"})
		return
	}
	if !endTime.After(startTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endTime must be after startTime"})
		return
	}

	shift := models.Shift{
		CandidateID: candidateID,
		Name:        req.Name,
		StartTime:   startTime,
		EndTime:     endTime,
		Days:        req.Days,
		IsActive:    true,
	}
	if err := h.DB.Create(&shift).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, shift)
}

func (h *ShiftHandler) Update(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var shift models.Shift
	if err := h.DB.First(&shift, "id = ?", shiftID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "shift not found"})
		return
	}

	startTime, err := parseShiftTime(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startTime"})
		return
	}
	endTime, err := parseShiftTime(req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endTime"})
		return
	}
	if !endTime.After(startTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endTime must be after startTime"})
		return
	}

	shift.Name = req.Name
	shift.StartTime = startTime
	shift.EndTime = endTime
	shift.Days = req.Days
	if req.IsActive != nil {
		shift.IsActive = *req.IsActive
	}
	if err := h.DB.Save(&shift).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *ShiftHandler) Delete(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.DB.Delete(&models.Shift{}, "id = ?", shiftID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"recruit-backend/internal/models"
)

type HolidayHandler struct {
	DB *gorm.DB
}

type createHolidayRequest struct {
	Title string `json:"title" binding:"required,min=2"`
	Date  string `json:"date" binding:"required"`
}

type updateHolidayRequest struct {
	Title    string `json:"title" binding:"required,min=2"`
	IsActive *bool  `json:"isActive"`
}

func NewHolidayHandler(db *gorm.DB) *HolidayHandler {
	return &HolidayHandler{DB: db}
}

func (h *HolidayHandler) List(c *gin.Context) {
	query := h.DB.Order("date asc")
	if active := c.Query("active"); active == "true" {
		query = query.Where("is_active = ?", true)
	}
	if year := c.Query("year"); year != "" {
		start, err := time.Parse("2006", year)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		query = query.Where("date >= ? AND date < ?", start, start.AddDate(1, 0, 0))
	}

	var holidays []models.Holiday
	if err := query.Find(&holidays).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load holidays"})
		return
	}
	c.JSON(http.StatusOK, holidays)
}

func (h *HolidayHandler) Create(c *gin.Context) {
	var req createHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	holiday := models.Holiday{
		Title:    req.Title,
		Date:     date,
		IsActive: true,
	}
	if err := h.DB.Create(&holiday).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, holiday)
}

// Update changes title and active flag only. The date stays fixed once
// attendance records may reference it.
func (h *HolidayHandler) Update(c *gin.Context) {
	holidayID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var holiday models.Holiday
	if err := h.DB.First(&holiday, "id = ?", holidayID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "holiday not found"})
		return
	}

	holiday.Title = req.Title
	if req.IsActive != nil {
		holiday.IsActive = *req.IsActive
	}
	if err := h.DB.Save(&holiday).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, holiday)
}

func (h *HolidayHandler) Delete(c *gin.Context) {
	holidayID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var assigned int64
	if err := h.DB.Table("candidate_holidays").Where("holiday_id = ?", holidayID).
		Count(&assigned).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if assigned > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "holiday is assigned to candidates"})
		return
	}

	if err := h.DB.Delete(&models.Holiday{}, "id = ?", holidayID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"recruit-backend/internal/middleware"
	"recruit-backend/internal/models"
	"recruit-backend/internal/services"
	"recruit-backend/internal/utils"
)

type CandidateHandler struct {
	DB   *gorm.DB
	Sync *services.GroupSyncService
}

type createCandidateRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Position  string `json:"position"`
}

type updateCandidateRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
	Position  string `json:"position"`
	Status    string `json:"status" binding:"omitempty,oneof=active inactive hired"`
}

type createCandidateUserRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

func NewCandidateHandler(db *gorm.DB, sync *services.GroupSyncService) *CandidateHandler {
	return &CandidateHandler{DB: db, Sync: sync}
}

func (h *CandidateHandler) List(c *gin.Context) {
	role, _ := c.Get(middleware.ContextRole)
	if role == "candidate" {
		candidateID, ok := c.Get(middleware.ContextCandidateID)
		if !ok || candidateID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		id, err := uuid.Parse(candidateID.(string))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidateId"})
			return
		}
		var candidate models.Candidate
		if err := h.DB.Preload("Holidays").First(&candidate, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
			return
		}
		c.JSON(http.StatusOK, []models.Candidate{candidate})
		return
	}

	query := h.DB.Preload("Holidays").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var candidates []models.Candidate
	if err := query.Find(&candidates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load candidates"})
		return
	}
	c.JSON(http.StatusOK, candidates)
}

func (h *CandidateHandler) Get(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var candidate models.Candidate
	if err := h.DB.Preload("Holidays").First(&candidate, "id = ?", candidateID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}
	c.JSON(http.StatusOK, candidate)
}

func (h *CandidateHandler) Create(c *gin.Context) {
	var req createCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	candidate := models.Candidate{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Position:  strings.TrimSpace(req.Position),
		Status:    "active",
	}
	if err := h.DB.Create(&candidate).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "candidate already exists"})
		return
	}
	c.JSON(http.StatusCreated, candidate)
}

func (h *CandidateHandler) Update(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var candidate models.Candidate
	if err := h.DB.First(&candidate, "id = ?", candidateID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}

	candidate.FirstName = strings.TrimSpace(req.FirstName)
	candidate.LastName = strings.TrimSpace(req.LastName)
	candidate.Phone = strings.TrimSpace(req.Phone)
	candidate.Position = strings.TrimSpace(req.Position)
	if req.Status != "" {
		candidate.Status = req.Status
	}
	if err := h.DB.Save(&candidate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, candidate)
}

func (h *CandidateHandler) Delete(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("candidate_id = ?", candidateID).Delete(&models.AttendanceRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Candidate{}, "id = ?", candidateID).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// CreateUser provisions portal credentials for a candidate.
func (h *CandidateHandler) CreateUser(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req createCandidateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var candidate models.Candidate
	if err := h.DB.First(&candidate, "id = ?", candidateID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}

	var existing models.User
	if err := h.DB.Where("candidate_id = ?", candidateID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists for candidate"})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password error"})
		return
	}

	user := models.User{
		Email:        candidate.Email,
		PasswordHash: passwordHash,
		Name:         candidate.FirstName + " " + candidate.LastName,
		Role:         "candidate",
		CandidateID:  &candidate.ID,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user creation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email, "role": user.Role})
}

func (h *CandidateHandler) AssignHolidays(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req holidayIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	holidayIDs, ok := parseIDList(req.HolidayIDs)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid holidayIds"})
		return
	}

	result, err := h.Sync.AssignHolidaysToCandidate(actorFrom(c), candidateID, holidayIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CandidateHandler) RemoveHolidays(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req holidayIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	holidayIDs, ok := parseIDList(req.HolidayIDs)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid holidayIds"})
		return
	}

	result, err := h.Sync.RemoveHolidaysFromCandidate(actorFrom(c), candidateID, holidayIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

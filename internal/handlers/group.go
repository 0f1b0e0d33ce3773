package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"recruit-backend/internal/models"
	"recruit-backend/internal/services"
)

type GroupHandler struct {
	DB   *gorm.DB
	Sync *services.GroupSyncService
}

type createGroupRequest struct {
	Name        string `json:"name" binding:"required,min=2"`
	Description string `json:"description"`
}

type updateGroupRequest struct {
	Name        string `json:"name" binding:"required,min=2"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

type memberIDsRequest struct {
	CandidateIDs []string `json:"candidateIds" binding:"required,min=1"`
}

type holidayIDsRequest struct {
	HolidayIDs []string `json:"holidayIds" binding:"required,min=1"`
}

func NewGroupHandler(db *gorm.DB, sync *services.GroupSyncService) *GroupHandler {
	return &GroupHandler{DB: db, Sync: sync}
}

func (h *GroupHandler) List(c *gin.Context) {
	query := h.DB.Preload("Members").Preload("DefaultHolidays")
	if active := c.Query("active"); active == "true" {
		query = query.Where("is_active = ?", true)
	}

	var groups []models.CandidateGroup
	if err := query.Order("created_at desc").Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load groups"})
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) Get(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var group models.CandidateGroup
	if err := h.DB.Preload("Members.Holidays").Preload("DefaultHolidays").
		First(&group, "id = ?", groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) Create(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	group := models.CandidateGroup{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actorFrom(c).UserID,
		IsActive:    true,
	}
	if err := h.DB.Create(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) Update(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var group models.CandidateGroup
	if err := h.DB.First(&group, "id = ?", groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}

	group.Name = req.Name
	group.Description = req.Description
	if req.IsActive != nil {
		group.IsActive = *req.IsActive
	}
	if err := h.DB.Save(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.DB.Delete(&models.CandidateGroup{}, "id = ?", groupID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *GroupHandler) AddMembers(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req memberIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	candidateIDs, ok := parseIDList(req.CandidateIDs)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidateIds"})
		return
	}

	result, err := h.Sync.AddMembers(actorFrom(c), groupID, candidateIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GroupHandler) RemoveMembers(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req memberIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	candidateIDs, ok := parseIDList(req.CandidateIDs)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidateIds"})
		return
	}

	result, err := h.Sync.RemoveMembers(actorFrom(c), groupID, candidateIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GroupHandler) AssignHolidays(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
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

	result, err := h.Sync.AssignHolidays(actorFrom(c), groupID, holidayIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GroupHandler) RemoveHolidays(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
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

	result, err := h.Sync.RemoveHolidays(actorFrom(c), groupID, holidayIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruit-backend/internal/storage"
)

type UploadHandler struct {
	Presigner *storage.Presigner
}

type presignUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type presignDownloadRequest struct {
	Key string `json:"key" binding:"required"`
}

func NewUploadHandler(presigner *storage.Presigner) *UploadHandler {
	return &UploadHandler{Presigner: presigner}
}

func (h *UploadHandler) PresignUpload(c *gin.Context) {
	var req presignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	ext := strings.ToLower(path.Ext(req.FileName))
	switch ext {
	case ".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}

	key := "uploads/" + uuid.NewString() + ext
	url, err := h.Presigner.PresignUpload(c.Request.Context(), key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "presign failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploadUrl": url, "key": key})
}

func (h *UploadHandler) PresignDownload(c *gin.Context) {
	var req presignDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	url, err := h.Presigner.PresignDownload(c.Request.Context(), req.Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "presign failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": url, "key": req.Key})
}

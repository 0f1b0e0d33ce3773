package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"recruit-backend/internal/models"
)

// ActivityLogger records every mutating request after it completes. Log
// failures are reported but never fail the request itself.
func ActivityLogger(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			return
		}

		entry := models.ActivityLog{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Status: c.Writer.Status(),
		}
		if userID, ok := c.Get(ContextUserID); ok {
			if parsed, err := uuid.Parse(userID.(string)); err == nil {
				entry.UserID = parsed
			}
		}
		if role, ok := c.Get(ContextRole); ok {
			entry.Role, _ = role.(string)
		}

		if err := db.Create(&entry).Error; err != nil {
			logrus.WithError(err).Warn("activity log write failed")
		}
	}
}

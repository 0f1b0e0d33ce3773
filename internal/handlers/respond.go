package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruit-backend/internal/middleware"
	"recruit-backend/internal/services"
)

func actorFrom(c *gin.Context) services.Actor {
	actor := services.Actor{}
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, err := uuid.Parse(v.(string)); err == nil {
			actor.UserID = id
		}
	}
	if v, ok := c.Get(middleware.ContextRole); ok {
		actor.Role, _ = v.(string)
	}
	return actor
}

func respondServiceError(c *gin.Context, err error) {
	var permErr *services.PermissionError
	var notFoundErr *services.NotFoundError
	var invalidErr *services.InvalidOperationError

	switch {
	case errors.As(err, &permErr):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &invalidErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}

func parseIDList(raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-backend/internal/utils"
)

const testSecret = "test-secret"

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthRequired(testSecret))
	router.GET("/whoami", func(c *gin.Context) {
		userID, _ := c.Get(ContextUserID)
		role, _ := c.Get(ContextRole)
		c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
	})
	router.GET("/admin-only", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.GET("/staff", RequireAnyRole("admin", "recruiter"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func get(router *gin.Engine, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	router := newAuthRouter()
	userID := uuid.NewString()

	token, err := utils.GenerateAccessToken(userID, "recruiter", "", testSecret, 15)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(router, "/whoami", "").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(router, "/whoami", "not.a.jwt").Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		forged, err := utils.GenerateAccessToken(userID, "admin", "", "other-secret", 15)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(router, "/whoami", forged).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := utils.GenerateAccessToken(userID, "admin", "", testSecret, -5)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(router, "/whoami", expired).Code)
	})

	t.Run("valid token populates context", func(t *testing.T) {
		rec := get(router, "/whoami", token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), userID)
		assert.Contains(t, rec.Body.String(), "recruiter")
	})
}

func TestRoleGates(t *testing.T) {
	router := newAuthRouter()

	adminToken, err := utils.GenerateAccessToken(uuid.NewString(), "admin", "", testSecret, 15)
	require.NoError(t, err)
	recruiterToken, err := utils.GenerateAccessToken(uuid.NewString(), "recruiter", "", testSecret, 15)
	require.NoError(t, err)
	candidateToken, err := utils.GenerateAccessToken(uuid.NewString(), "candidate", "", testSecret, 15)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, get(router, "/admin-only", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/admin-only", recruiterToken).Code)

	assert.Equal(t, http.StatusNoContent, get(router, "/staff", adminToken).Code)
	assert.Equal(t, http.StatusNoContent, get(router, "/staff", recruiterToken).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/staff", candidateToken).Code)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recruit-backend/internal/db"
	"recruit-backend/internal/middleware"
	"recruit-backend/internal/models"
	"recruit-backend/internal/services"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	return database
}

func asRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uuid.NewString())
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func newGroupRouter(database *gorm.DB, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewGroupHandler(database, services.NewGroupSyncService(database))

	router := gin.New()
	router.Use(asRole(role))
	router.POST("/groups/:id/members", handler.AddMembers)
	router.DELETE("/groups/:id/members", handler.RemoveMembers)
	router.POST("/groups/:id/holidays", handler.AssignHolidays)
	router.DELETE("/groups/:id/holidays", handler.RemoveHolidays)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedGroup(t *testing.T, database *gorm.DB) (models.CandidateGroup, models.Candidate, models.Holiday) {
	t.Helper()
	group := models.CandidateGroup{Name: "January Intake", CreatedBy: uuid.New(), IsActive: true}
	require.NoError(t, database.Create(&group).Error)
	candidate := models.Candidate{
		FirstName: "Alice", LastName: "Tester",
		Email: fmt.Sprintf("alice.%s@example.com", uuid.NewString()[:8]), Status: "active",
	}
	require.NoError(t, database.Create(&candidate).Error)
	holiday := models.Holiday{Title: "New Year", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: true}
	require.NoError(t, database.Create(&holiday).Error)
	return group, candidate, holiday
}

func TestAddMembersEndpoint(t *testing.T) {
	database := newTestDB(t)
	router := newGroupRouter(database, "admin")
	group, candidate, _ := seedGroup(t, database)

	rec := doJSON(t, router, http.MethodPost, "/groups/"+group.ID.String()+"/members",
		gin.H{"candidateIds": []string{candidate.ID.String()}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result services.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Data.MembersUpdated)
}

func TestAddMembersEndpointNonAdmin(t *testing.T) {
	database := newTestDB(t)
	router := newGroupRouter(database, "recruiter")
	group, candidate, _ := seedGroup(t, database)

	rec := doJSON(t, router, http.MethodPost, "/groups/"+group.ID.String()+"/members",
		gin.H{"candidateIds": []string{candidate.ID.String()}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAddMembersEndpointGroupMissing(t *testing.T) {
	database := newTestDB(t)
	router := newGroupRouter(database, "admin")
	_, candidate, _ := seedGroup(t, database)

	rec := doJSON(t, router, http.MethodPost, "/groups/"+uuid.NewString()+"/members",
		gin.H{"candidateIds": []string{candidate.ID.String()}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddMembersEndpointBadPayload(t *testing.T) {
	database := newTestDB(t)
	router := newGroupRouter(database, "admin")
	group, _, _ := seedGroup(t, database)

	rec := doJSON(t, router, http.MethodPost, "/groups/"+group.ID.String()+"/members",
		gin.H{"candidateIds": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/groups/"+group.ID.String()+"/members",
		gin.H{"candidateIds": []string{"not-a-uuid"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignHolidaysEndpointEmptyGroup(t *testing.T) {
	database := newTestDB(t)
	router := newGroupRouter(database, "admin")
	group, _, holiday := seedGroup(t, database)

	rec := doJSON(t, router, http.MethodPost, "/groups/"+group.ID.String()+"/holidays",
		gin.H{"holidayIds": []string{holiday.ID.String()}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "group has no candidates")
}

func TestHolidayRoundTripEndpoints(t *testing.T) {
	database := newTestDB(t)
	router := newGroupRouter(database, "admin")
	group, candidate, holiday := seedGroup(t, database)

	rec := doJSON(t, router, http.MethodPost, "/groups/"+group.ID.String()+"/members",
		gin.H{"candidateIds": []string{candidate.ID.String()}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/groups/"+group.ID.String()+"/holidays",
		gin.H{"holidayIds": []string{holiday.ID.String()}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var assigned services.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assigned))
	assert.Equal(t, 1, assigned.Data.RecordsCreated)

	rec = doJSON(t, router, http.MethodDelete, "/groups/"+group.ID.String()+"/holidays",
		gin.H{"holidayIds": []string{holiday.ID.String()}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var removed services.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removed))
	assert.Equal(t, 1, removed.Data.RecordsDeleted)

	var count int64
	require.NoError(t, database.Model(&models.AttendanceRecord{}).
		Where("candidate_id = ?", candidate.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

package services

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recruit-backend/internal/db"
	"recruit-backend/internal/models"
)

var admin = Actor{UserID: uuid.New(), Role: "admin"}
var recruiter = Actor{UserID: uuid.New(), Role: "recruiter"}

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

func newCandidate(t *testing.T, database *gorm.DB, first string) models.Candidate {
	t.Helper()
	candidate := models.Candidate{
		FirstName: first,
		LastName:  "Tester",
		Email:     fmt.Sprintf("%s.%s@example.com", first, uuid.NewString()[:8]),
		Status:    "active",
	}
	require.NoError(t, database.Create(&candidate).Error)
	return candidate
}

func newHoliday(t *testing.T, database *gorm.DB, title string, date time.Time) models.Holiday {
	t.Helper()
	holiday := models.Holiday{Title: title, Date: date, IsActive: true}
	require.NoError(t, database.Create(&holiday).Error)
	return holiday
}

func newGroup(t *testing.T, database *gorm.DB, name string) models.CandidateGroup {
	t.Helper()
	group := models.CandidateGroup{Name: name, CreatedBy: admin.UserID, IsActive: true}
	require.NoError(t, database.Create(&group).Error)
	return group
}

func candidateHolidayIDs(t *testing.T, database *gorm.DB, candidateID uuid.UUID) []uuid.UUID {
	t.Helper()
	var candidate models.Candidate
	require.NoError(t, database.Preload("Holidays").First(&candidate, "id = ?", candidateID).Error)
	ids := []uuid.UUID{}
	for _, h := range candidate.Holidays {
		ids = append(ids, h.ID)
	}
	return ids
}

func attendanceCount(t *testing.T, database *gorm.DB, candidateID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, database.Model(&models.AttendanceRecord{}).
		Where("candidate_id = ?", candidateID).Count(&count).Error)
	return count
}

func TestAddMembers(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	c2 := newCandidate(t, database, "Bob")

	result, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID, c2.ID})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Data.MembersUpdated)
	assert.Len(t, result.Data.Group.Members, 2)
}

func TestAddMembersTwiceFails(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")

	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID})
	require.NoError(t, err)

	_, err = svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID})
	var invalidErr *InvalidOperationError
	require.ErrorAs(t, err, &invalidErr)
}

func TestAddMembersMissingCandidateListsIDs(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	bogus := uuid.New()

	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID, bogus})
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, []string{bogus.String()}, notFoundErr.IDs)
	assert.Contains(t, err.Error(), bogus.String())
	assert.NotContains(t, notFoundErr.IDs, c1.ID.String())

	// precondition failure means no membership was written
	var fresh models.CandidateGroup
	require.NoError(t, database.Preload("Members").First(&fresh, "id = ?", group.ID).Error)
	assert.Empty(t, fresh.Members)
}

func TestAddMembersGroupNotFound(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	c1 := newCandidate(t, database, "Alice")
	_, err := svc.AddMembers(admin, uuid.New(), []uuid.UUID{c1.ID})
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "group", notFoundErr.Resource)
}

func TestDefaultHolidayPropagation(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	c2 := newCandidate(t, database, "Bob")
	h1 := newHoliday(t, database, "New Year", time.Date(2025, 1, 1, 12, 30, 0, 0, time.UTC))

	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID})
	require.NoError(t, err)

	_, err = svc.AssignHolidays(admin, group.ID, []uuid.UUID{h1.ID})
	require.NoError(t, err)

	result, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c2.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Data.HolidaysAdded)
	assert.Equal(t, 1, result.Data.RecordsCreated)

	assert.Contains(t, candidateHolidayIDs(t, database, c2.ID), h1.ID)
	assert.EqualValues(t, 1, attendanceCount(t, database, c2.ID))

	var record models.AttendanceRecord
	require.NoError(t, database.Where("candidate_id = ?", c2.ID).First(&record).Error)
	assert.Equal(t, models.AttendanceStatusHoliday, record.Status)
	assert.True(t, record.Date.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Contains(t, record.Notes, "New Year")
	assert.Zero(t, record.Duration)
	assert.Nil(t, record.PunchOut)
}

func TestSymmetricRemoval(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	h1 := newHoliday(t, database, "New Year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID})
	require.NoError(t, err)
	_, err = svc.AssignHolidays(admin, group.ID, []uuid.UUID{h1.ID})
	require.NoError(t, err)
	require.EqualValues(t, 1, attendanceCount(t, database, c1.ID))

	result, err := svc.RemoveMembers(admin, group.ID, []uuid.UUID{c1.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Data.RecordsDeleted)

	assert.NotContains(t, candidateHolidayIDs(t, database, c1.ID), h1.ID)
	assert.EqualValues(t, 0, attendanceCount(t, database, c1.ID))
}

func TestRemoveMembersNoMatch(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID})
	require.NoError(t, err)

	_, err = svc.RemoveMembers(admin, group.ID, []uuid.UUID{uuid.New()})
	var invalidErr *InvalidOperationError
	require.ErrorAs(t, err, &invalidErr)
}

func TestSameDayCollision(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h1 := newHoliday(t, database, "New Year", day)
	h2 := newHoliday(t, database, "Founders Day", day)

	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID})
	require.NoError(t, err)

	result, err := svc.AssignHolidays(admin, group.ID, []uuid.UUID{h1.ID, h2.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Data.HolidaysAdded)
	assert.Equal(t, 1, result.Data.RecordsCreated)
	require.Len(t, result.Data.Skipped, 1)
	assert.Equal(t, "attendance already exists for this date", result.Data.Skipped[0].Reason)
	assert.EqualValues(t, 1, attendanceCount(t, database, c1.ID))
}

func TestDefaultsReplaceNotUnion(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	h1 := newHoliday(t, database, "New Year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	h2 := newHoliday(t, database, "Labour Day", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID})
	require.NoError(t, err)

	_, err = svc.AssignHolidays(admin, group.ID, []uuid.UUID{h1.ID})
	require.NoError(t, err)
	_, err = svc.AssignHolidays(admin, group.ID, []uuid.UUID{h2.ID})
	require.NoError(t, err)

	var fresh models.CandidateGroup
	require.NoError(t, database.Preload("DefaultHolidays").First(&fresh, "id = ?", group.ID).Error)
	require.Len(t, fresh.DefaultHolidays, 1)
	assert.Equal(t, h2.ID, fresh.DefaultHolidays[0].ID)
}

func TestRemoveHolidaysShrinksDefaults(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	h1 := newHoliday(t, database, "New Year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	h2 := newHoliday(t, database, "Labour Day", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID})
	require.NoError(t, err)
	_, err = svc.AssignHolidays(admin, group.ID, []uuid.UUID{h1.ID, h2.ID})
	require.NoError(t, err)

	result, err := svc.RemoveHolidays(admin, group.ID, []uuid.UUID{h1.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Data.RecordsDeleted)

	var fresh models.CandidateGroup
	require.NoError(t, database.Preload("DefaultHolidays").First(&fresh, "id = ?", group.ID).Error)
	require.Len(t, fresh.DefaultHolidays, 1)
	assert.Equal(t, h2.ID, fresh.DefaultHolidays[0].ID)

	assert.NotContains(t, candidateHolidayIDs(t, database, c1.ID), h1.ID)
	assert.Contains(t, candidateHolidayIDs(t, database, c1.ID), h2.ID)
	assert.EqualValues(t, 1, attendanceCount(t, database, c1.ID))
}

func TestRemoveHolidaysTitleMatchIsLoadBearing(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h1 := newHoliday(t, database, "New Year", day)
	h2 := newHoliday(t, database, "Founders Day", day)

	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID})
	require.NoError(t, err)
	_, err = svc.AssignHolidays(admin, group.ID, []uuid.UUID{h1.ID, h2.ID})
	require.NoError(t, err)

	// the single record for the day is tagged with h1's title, so
	// removing h2 must not delete it
	result, err := svc.RemoveHolidays(admin, group.ID, []uuid.UUID{h2.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Data.RecordsDeleted)
	require.Len(t, result.Data.Skipped, 1)
	assert.Equal(t, "no holiday attendance record for this date", result.Data.Skipped[0].Reason)
	assert.EqualValues(t, 1, attendanceCount(t, database, c1.ID))
}

func TestAssignHolidaysEmptyGroup(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "Empty")
	h1 := newHoliday(t, database, "New Year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.AssignHolidays(admin, group.ID, []uuid.UUID{h1.ID})
	var invalidErr *InvalidOperationError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "group has no candidates", invalidErr.Reason)
}

func TestAssignHolidaysInactiveHolidayNotFound(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID})
	require.NoError(t, err)

	inactive := models.Holiday{Title: "Retired", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: false}
	require.NoError(t, database.Create(&inactive).Error)

	_, err = svc.AssignHolidays(admin, group.ID, []uuid.UUID{inactive.ID})
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Contains(t, notFoundErr.IDs, inactive.ID.String())

	// removal does not require the active flag
	_, err = svc.RemoveHolidays(admin, group.ID, []uuid.UUID{inactive.ID})
	require.NoError(t, err)
}

func TestPermissionGate(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	h1 := newHoliday(t, database, "New Year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID})
	require.NoError(t, err)

	operations := map[string]func() (*SyncResult, error){
		"AddMembers": func() (*SyncResult, error) {
			return svc.AddMembers(recruiter, group.ID, []uuid.UUID{c1.ID})
		},
		"RemoveMembers": func() (*SyncResult, error) {
			return svc.RemoveMembers(recruiter, group.ID, []uuid.UUID{c1.ID})
		},
		"AssignHolidays": func() (*SyncResult, error) {
			return svc.AssignHolidays(recruiter, group.ID, []uuid.UUID{h1.ID})
		},
		"RemoveHolidays": func() (*SyncResult, error) {
			return svc.RemoveHolidays(recruiter, group.ID, []uuid.UUID{h1.ID})
		},
	}

	for name, op := range operations {
		t.Run(name, func(t *testing.T) {
			_, err := op()
			var permErr *PermissionError
			require.ErrorAs(t, err, &permErr)
		})
	}

	// nothing mutated
	var fresh models.CandidateGroup
	require.NoError(t, database.Preload("Members").Preload("DefaultHolidays").
		First(&fresh, "id = ?", group.ID).Error)
	assert.Len(t, fresh.Members, 1)
	assert.Empty(t, fresh.DefaultHolidays)
	assert.Empty(t, candidateHolidayIDs(t, database, c1.ID))
	assert.EqualValues(t, 0, attendanceCount(t, database, c1.ID))
}

func TestAddMembersDuplicateIDs(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")

	result, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID, c1.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Data.MembersUpdated)
	assert.Len(t, result.Data.Group.Members, 1)
}

func TestAssignHolidaysDuplicateIDs(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	h1 := newHoliday(t, database, "New Year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID})
	require.NoError(t, err)

	result, err := svc.AssignHolidays(admin, group.ID, []uuid.UUID{h1.ID, h1.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Data.HolidaysAdded)
	assert.Equal(t, 1, result.Data.RecordsCreated)
	assert.EqualValues(t, 1, attendanceCount(t, database, c1.ID))
}

func TestDuplicateIDsStillReportMissing(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	group := newGroup(t, database, "January Intake")
	c1 := newCandidate(t, database, "Alice")
	bogus := uuid.New()

	_, err := svc.AddMembers(admin, group.ID, []uuid.UUID{c1.ID, c1.ID, bogus})
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, []string{bogus.String()}, notFoundErr.IDs)
}

func TestSkipEntryJSONOmitsEmptyDate(t *testing.T) {
	dateless, err := json.Marshal(SkipEntry{CandidateID: uuid.New(), Reason: "holiday assignment failed"})
	require.NoError(t, err)
	assert.NotContains(t, string(dateless), "date")

	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	dated, err := json.Marshal(SkipEntry{CandidateID: uuid.New(), Date: &day, Reason: "attendance already exists for this date"})
	require.NoError(t, err)
	assert.Contains(t, string(dated), "2025-01-01")
}

func TestAttendanceUniquePerDay(t *testing.T) {
	database := newTestDB(t)

	c1 := newCandidate(t, database, "Alice")
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	first := models.AttendanceRecord{CandidateID: c1.ID, Date: day, Status: models.AttendanceStatusHoliday}
	require.NoError(t, database.Create(&first).Error)

	// same candidate, same day: the unique index must reject it
	second := models.AttendanceRecord{CandidateID: c1.ID, Date: day.Add(9 * time.Hour), Status: models.AttendanceStatusPresent}
	assert.Error(t, database.Create(&second).Error)
}

func TestAssignHolidaysToCandidate(t *testing.T) {
	database := newTestDB(t)
	svc := NewGroupSyncService(database)

	c1 := newCandidate(t, database, "Alice")
	h1 := newHoliday(t, database, "New Year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	result, err := svc.AssignHolidaysToCandidate(admin, c1.ID, []uuid.UUID{h1.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Data.RecordsCreated)
	assert.Contains(t, candidateHolidayIDs(t, database, c1.ID), h1.ID)

	result, err = svc.RemoveHolidaysFromCandidate(admin, c1.ID, []uuid.UUID{h1.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Data.RecordsDeleted)
	assert.Empty(t, candidateHolidayIDs(t, database, c1.ID))
}

package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"recruit-backend/internal/models"
)

// Actor identifies the authenticated caller. Mutating operations on
// groups require the admin role.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

type SkipEntry struct {
	CandidateID uuid.UUID  `json:"candidateId"`
	HolidayID   uuid.UUID  `json:"holidayId,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Reason      string     `json:"reason"`
}

type SyncData struct {
	GroupID        uuid.UUID                 `json:"groupId"`
	CandidateIDs   []uuid.UUID               `json:"candidateIds,omitempty"`
	HolidayIDs     []uuid.UUID               `json:"holidayIds,omitempty"`
	MembersUpdated int                       `json:"membersUpdated"`
	HolidaysAdded  int                       `json:"holidaysAdded"`
	RecordsCreated int                       `json:"recordsCreated"`
	RecordsDeleted int                       `json:"recordsDeleted"`
	CreatedRecords []models.AttendanceRecord `json:"createdRecords,omitempty"`
	DeletedRecords []uuid.UUID               `json:"deletedRecords,omitempty"`
	Skipped        []SkipEntry               `json:"skipped,omitempty"`
	Group          *models.CandidateGroup    `json:"group,omitempty"`
}

type SyncResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    SyncData `json:"data"`
}

// GroupSyncService keeps candidate holiday sets and holiday attendance
// records consistent with group membership and the group's default
// holiday set. Validation and permission failures abort before any write;
// once the fan-out over members starts, per-item failures become skip
// entries instead of aborting the batch.
type GroupSyncService struct {
	DB *gorm.DB
}

func NewGroupSyncService(db *gorm.DB) *GroupSyncService {
	return &GroupSyncService{DB: db}
}

func (s *GroupSyncService) requireAdmin(actor Actor) error {
	if actor.Role != "admin" {
		return &PermissionError{Role: actor.Role}
	}
	return nil
}

func (s *GroupSyncService) loadGroup(groupID uuid.UUID) (*models.CandidateGroup, error) {
	var group models.CandidateGroup
	err := s.DB.Preload("Members.Holidays").Preload("DefaultHolidays").
		First(&group, "id = ?", groupID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, &NotFoundError{Resource: "group", IDs: []string{groupID.String()}}
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// dedupeIDs keeps the first occurrence of each id so repeated ids in a
// request resolve once instead of tripping the missing-id check.
func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}

func (s *GroupSyncService) resolveCandidates(ids []uuid.UUID) ([]models.Candidate, error) {
	ids = dedupeIDs(ids)

	var candidates []models.Candidate
	if err := s.DB.Preload("Holidays").Where("id IN ?", ids).Find(&candidates).Error; err != nil {
		return nil, err
	}
	if len(candidates) != len(ids) {
		found := make(map[uuid.UUID]bool, len(candidates))
		for _, c := range candidates {
			found[c.ID] = true
		}
		missing := []string{}
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id.String())
			}
		}
		return nil, &NotFoundError{Resource: "candidate", IDs: missing}
	}
	return candidates, nil
}

func (s *GroupSyncService) resolveHolidays(ids []uuid.UUID, activeOnly bool) ([]models.Holiday, error) {
	ids = dedupeIDs(ids)

	query := s.DB.Where("id IN ?", ids)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var holidays []models.Holiday
	if err := query.Find(&holidays).Error; err != nil {
		return nil, err
	}
	if len(holidays) != len(ids) {
		found := make(map[uuid.UUID]bool, len(holidays))
		for _, h := range holidays {
			found[h.ID] = true
		}
		missing := []string{}
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id.String())
			}
		}
		return nil, &NotFoundError{Resource: "holiday", IDs: missing}
	}
	return holidays, nil
}

// AddMembers appends new candidates to the group and applies the group's
// default holidays to each of them. Re-adding only existing members is an
// invalid operation, not a silent no-op.
func (s *GroupSyncService) AddMembers(actor Actor, groupID uuid.UUID, candidateIDs []uuid.UUID) (*SyncResult, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	group, err := s.loadGroup(groupID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.resolveCandidates(candidateIDs)
	if err != nil {
		return nil, err
	}

	newCandidates := []models.Candidate{}
	for _, c := range candidates {
		if !group.HasMember(c.ID) {
			newCandidates = append(newCandidates, c)
		}
	}
	if len(newCandidates) == 0 {
		return nil, &InvalidOperationError{Reason: "all candidates are already members of this group"}
	}

	toAppend := make([]*models.Candidate, len(newCandidates))
	for i := range newCandidates {
		toAppend[i] = &newCandidates[i]
	}
	if err := s.DB.Model(group).Association("Members").Append(toAppend); err != nil {
		return nil, err
	}

	data := SyncData{GroupID: group.ID}
	for _, c := range newCandidates {
		data.CandidateIDs = append(data.CandidateIDs, c.ID)
	}
	data.MembersUpdated = len(newCandidates)

	if len(group.DefaultHolidays) > 0 {
		s.applyHolidays(newCandidates, group.DefaultHolidays, &data)
	}

	group, err = s.loadGroup(groupID)
	if err != nil {
		return nil, err
	}
	data.Group = group

	return &SyncResult{
		Success: true,
		Message: fmt.Sprintf("%d candidate(s) added to group, %d holiday(s) applied, %d attendance record(s) created",
			data.MembersUpdated, data.HolidaysAdded, data.RecordsCreated),
		Data: data,
	}, nil
}

// RemoveMembers detaches candidates from the group and strips the
// holidays the group was responsible for, along with their holiday
// attendance records.
func (s *GroupSyncService) RemoveMembers(actor Actor, groupID uuid.UUID, candidateIDs []uuid.UUID) (*SyncResult, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	group, err := s.loadGroup(groupID)
	if err != nil {
		return nil, err
	}

	requested := make(map[uuid.UUID]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		requested[id] = true
	}

	removed := []models.Candidate{}
	remaining := []models.Candidate{}
	for _, m := range group.Members {
		if requested[m.ID] {
			removed = append(removed, m)
		} else {
			remaining = append(remaining, m)
		}
	}
	if len(removed) == 0 {
		return nil, &InvalidOperationError{Reason: "no matching members in this group"}
	}

	toDelete := make([]*models.Candidate, len(removed))
	for i := range removed {
		toDelete[i] = &removed[i]
	}
	if err := s.DB.Model(group).Association("Members").Delete(toDelete); err != nil {
		return nil, err
	}

	data := SyncData{GroupID: group.ID}
	for _, c := range removed {
		data.CandidateIDs = append(data.CandidateIDs, c.ID)
	}
	data.MembersUpdated = len(removed)

	holidaysToRemove := holidaysToRemoveOnExit(group.DefaultHolidays, remaining, removed)
	s.stripHolidays(removed, holidaysToRemove, &data)

	group, err = s.loadGroup(groupID)
	if err != nil {
		return nil, err
	}
	data.Group = group

	return &SyncResult{
		Success: true,
		Message: fmt.Sprintf("%d candidate(s) removed from group, %d attendance record(s) deleted",
			data.MembersUpdated, data.RecordsDeleted),
		Data: data,
	}, nil
}

// AssignHolidays gives every member the listed holidays, creates one
// holiday attendance record per member per day, and replaces the group's
// default holiday set with exactly the listed ids.
func (s *GroupSyncService) AssignHolidays(actor Actor, groupID uuid.UUID, holidayIDs []uuid.UUID) (*SyncResult, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	group, err := s.loadGroup(groupID)
	if err != nil {
		return nil, err
	}
	if len(group.Members) == 0 {
		return nil, &InvalidOperationError{Reason: "group has no candidates"}
	}

	holidays, err := s.resolveHolidays(holidayIDs, true)
	if err != nil {
		return nil, err
	}

	data := SyncData{GroupID: group.ID, HolidayIDs: holidayIDs}
	s.applyHolidays(group.Members, holidays, &data)
	data.MembersUpdated = len(group.Members)

	toReplace := make([]*models.Holiday, len(holidays))
	for i := range holidays {
		toReplace[i] = &holidays[i]
	}
	if err := s.DB.Model(group).Association("DefaultHolidays").Replace(toReplace); err != nil {
		return nil, err
	}

	return &SyncResult{
		Success: true,
		Message: fmt.Sprintf("%d candidate(s) updated, %d holiday(s) added, %d attendance record(s) created",
			data.MembersUpdated, data.HolidaysAdded, data.RecordsCreated),
		Data: data,
	}, nil
}

// RemoveHolidays is the inverse of AssignHolidays: it strips the listed
// holidays from every member and removes them from the default set. The
// default set shrinks by set difference rather than being replaced.
func (s *GroupSyncService) RemoveHolidays(actor Actor, groupID uuid.UUID, holidayIDs []uuid.UUID) (*SyncResult, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	group, err := s.loadGroup(groupID)
	if err != nil {
		return nil, err
	}

	holidays, err := s.resolveHolidays(holidayIDs, false)
	if err != nil {
		return nil, err
	}

	data := SyncData{GroupID: group.ID, HolidayIDs: holidayIDs}
	s.stripHolidays(group.Members, holidays, &data)
	data.MembersUpdated = len(group.Members)

	inDefaults := []*models.Holiday{}
	for i := range holidays {
		for _, d := range group.DefaultHolidays {
			if d.ID == holidays[i].ID {
				inDefaults = append(inDefaults, &holidays[i])
				break
			}
		}
	}
	if len(inDefaults) > 0 {
		if err := s.DB.Model(group).Association("DefaultHolidays").Delete(inDefaults); err != nil {
			return nil, err
		}
	}

	return &SyncResult{
		Success: true,
		Message: fmt.Sprintf("%d candidate(s) updated, %d attendance record(s) deleted",
			data.MembersUpdated, data.RecordsDeleted),
		Data: data,
	}, nil
}

// AssignHolidaysToCandidate applies holidays to a single candidate
// outside any group, using the same fan-out rules as group assignment.
func (s *GroupSyncService) AssignHolidaysToCandidate(actor Actor, candidateID uuid.UUID, holidayIDs []uuid.UUID) (*SyncResult, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	candidates, err := s.resolveCandidates([]uuid.UUID{candidateID})
	if err != nil {
		return nil, err
	}
	holidays, err := s.resolveHolidays(holidayIDs, true)
	if err != nil {
		return nil, err
	}

	data := SyncData{CandidateIDs: []uuid.UUID{candidateID}, HolidayIDs: holidayIDs}
	s.applyHolidays(candidates, holidays, &data)

	return &SyncResult{
		Success: true,
		Message: fmt.Sprintf("%d holiday(s) added, %d attendance record(s) created",
			data.HolidaysAdded, data.RecordsCreated),
		Data: data,
	}, nil
}

// RemoveHolidaysFromCandidate strips holidays from a single candidate.
func (s *GroupSyncService) RemoveHolidaysFromCandidate(actor Actor, candidateID uuid.UUID, holidayIDs []uuid.UUID) (*SyncResult, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	candidates, err := s.resolveCandidates([]uuid.UUID{candidateID})
	if err != nil {
		return nil, err
	}
	holidays, err := s.resolveHolidays(holidayIDs, false)
	if err != nil {
		return nil, err
	}

	data := SyncData{CandidateIDs: []uuid.UUID{candidateID}, HolidayIDs: holidayIDs}
	s.stripHolidays(candidates, holidays, &data)

	return &SyncResult{
		Success: true,
		Message: fmt.Sprintf("%d attendance record(s) deleted", data.RecordsDeleted),
		Data: data,
	}, nil
}

// applyHolidays adds each holiday to each candidate's set and creates the
// matching holiday attendance record. A record that already exists for
// the candidate's day becomes a skip entry, so two holidays on the same
// date yield a single record.
func (s *GroupSyncService) applyHolidays(candidates []models.Candidate, holidays []models.Holiday, data *SyncData) {
	for i := range candidates {
		candidate := &candidates[i]
		for _, holiday := range holidays {
			day := models.DayStart(holiday.Date)
			if !candidate.HasHoliday(holiday.ID) {
				if err := s.DB.Model(candidate).Association("Holidays").Append(&holiday); err != nil {
					logrus.WithError(err).WithField("candidateId", candidate.ID).
						Warn("holiday assignment failed, skipping")
					data.Skipped = append(data.Skipped, SkipEntry{
						CandidateID: candidate.ID,
						HolidayID:   holiday.ID,
						Reason:      "holiday assignment failed",
					})
					continue
				}
				candidate.Holidays = append(candidate.Holidays, holiday)
				data.HolidaysAdded++
			}

			record, created, err := s.createHolidayRecord(candidate.ID, holiday)
			if err != nil {
				logrus.WithError(err).WithField("candidateId", candidate.ID).
					Warn("holiday attendance creation failed, skipping")
				data.Skipped = append(data.Skipped, SkipEntry{
					CandidateID: candidate.ID,
					HolidayID:   holiday.ID,
					Date:        &day,
					Reason:      "attendance creation failed",
				})
				continue
			}
			if !created {
				data.Skipped = append(data.Skipped, SkipEntry{
					CandidateID: candidate.ID,
					HolidayID:   holiday.ID,
					Date:        &day,
					Reason:      "attendance already exists for this date",
				})
				continue
			}
			data.CreatedRecords = append(data.CreatedRecords, *record)
			data.RecordsCreated++
		}
	}
}

// stripHolidays removes each holiday from each candidate's set and
// deletes the matching holiday attendance record. Records are matched by
// day range, Holiday status and the holiday's title in the notes; a plain
// status match could delete a record sourced from a different holiday on
// the same day.
func (s *GroupSyncService) stripHolidays(candidates []models.Candidate, holidays []models.Holiday, data *SyncData) {
	for i := range candidates {
		candidate := &candidates[i]
		for _, holiday := range holidays {
			day := models.DayStart(holiday.Date)
			if candidate.HasHoliday(holiday.ID) {
				if err := s.DB.Model(candidate).Association("Holidays").Delete(&holiday); err != nil {
					logrus.WithError(err).WithField("candidateId", candidate.ID).
						Warn("holiday removal failed, skipping")
					data.Skipped = append(data.Skipped, SkipEntry{
						CandidateID: candidate.ID,
						HolidayID:   holiday.ID,
						Reason:      "holiday removal failed",
					})
					continue
				}
			}

			deleted, err := s.deleteHolidayRecord(candidate.ID, holiday)
			if err != nil {
				logrus.WithError(err).WithField("candidateId", candidate.ID).
					Warn("holiday attendance deletion failed, skipping")
				data.Skipped = append(data.Skipped, SkipEntry{
					CandidateID: candidate.ID,
					HolidayID:   holiday.ID,
					Date:        &day,
					Reason:      "attendance deletion failed",
				})
				continue
			}
			if deleted == uuid.Nil {
				data.Skipped = append(data.Skipped, SkipEntry{
					CandidateID: candidate.ID,
					HolidayID:   holiday.ID,
					Date:        &day,
					Reason:      "no holiday attendance record for this date",
				})
				continue
			}
			data.DeletedRecords = append(data.DeletedRecords, deleted)
			data.RecordsDeleted++
		}
	}
}

func (s *GroupSyncService) createHolidayRecord(candidateID uuid.UUID, holiday models.Holiday) (*models.AttendanceRecord, bool, error) {
	dayStart, dayEnd := models.DayRange(holiday.Date)

	var existing models.AttendanceRecord
	err := s.DB.Where("candidate_id = ? AND date >= ? AND date < ?", candidateID, dayStart, dayEnd).
		First(&existing).Error
	if err == nil {
		return nil, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	record := models.AttendanceRecord{
		CandidateID: candidateID,
		Date:        dayStart,
		PunchIn:     &dayStart,
		Duration:    0,
		Status:      models.AttendanceStatusHoliday,
		Notes:       "Holiday: " + holiday.Title,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		// The unique index on (candidate_id, date) closes the window
		// between the existence check and the insert.
		return nil, false, err
	}
	return &record, true, nil
}

func (s *GroupSyncService) deleteHolidayRecord(candidateID uuid.UUID, holiday models.Holiday) (uuid.UUID, error) {
	dayStart, dayEnd := models.DayRange(holiday.Date)

	var record models.AttendanceRecord
	err := s.DB.Where("candidate_id = ? AND date >= ? AND date < ? AND status = ? AND notes LIKE ?",
		candidateID, dayStart, dayEnd, models.AttendanceStatusHoliday, "%"+holiday.Title+"%").
		First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.DB.Delete(&models.AttendanceRecord{}, "id = ?", record.ID).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// holidaysToRemoveOnExit decides which holidays leaving members lose.
// Groups created before default holidays existed have an empty default
// set, so two legacy fallbacks infer one: the holidays every remaining
// member still shares, or, when nobody remains, everything the leaving
// members held. The fallbacks are a compatibility shim and intentionally
// not extended.
func holidaysToRemoveOnExit(defaults []models.Holiday, remaining, removed []models.Candidate) []models.Holiday {
	if len(defaults) > 0 {
		return defaults
	}

	if len(remaining) > 0 {
		counts := map[uuid.UUID]int{}
		byID := map[uuid.UUID]models.Holiday{}
		for _, c := range remaining {
			for _, h := range c.Holidays {
				counts[h.ID]++
				byID[h.ID] = h
			}
		}
		shared := []models.Holiday{}
		for id, n := range counts {
			if n == len(remaining) {
				shared = append(shared, byID[id])
			}
		}
		return shared
	}

	seen := map[uuid.UUID]bool{}
	union := []models.Holiday{}
	for _, c := range removed {
		for _, h := range c.Holidays {
			if !seen[h.ID] {
				seen[h.ID] = true
				union = append(union, h)
			}
		}
	}
	return union
}

package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"recruit-backend/internal/models"
)

func holiday(title string) models.Holiday {
	return models.Holiday{
		ID:       uuid.New(),
		Title:    title,
		Date:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive: true,
	}
}

func withHolidays(holidays ...models.Holiday) models.Candidate {
	return models.Candidate{ID: uuid.New(), Holidays: holidays}
}

func holidayIDs(holidays []models.Holiday) []uuid.UUID {
	ids := []uuid.UUID{}
	for _, h := range holidays {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestHolidaysToRemoveOnExit(t *testing.T) {
	h1 := holiday("New Year")
	h2 := holiday("Labour Day")
	h3 := holiday("Founders Day")

	t.Run("defaults win when present", func(t *testing.T) {
		got := holidaysToRemoveOnExit(
			[]models.Holiday{h1},
			[]models.Candidate{withHolidays(h1, h2)},
			[]models.Candidate{withHolidays(h1, h2, h3)},
		)
		assert.Equal(t, []uuid.UUID{h1.ID}, holidayIDs(got))
	})

	t.Run("no defaults falls back to holidays shared by all remaining", func(t *testing.T) {
		got := holidaysToRemoveOnExit(
			nil,
			[]models.Candidate{withHolidays(h1, h2), withHolidays(h1, h3)},
			[]models.Candidate{withHolidays(h1)},
		)
		assert.ElementsMatch(t, []uuid.UUID{h1.ID}, holidayIDs(got))
	})

	t.Run("partial overlap among remaining is excluded", func(t *testing.T) {
		got := holidaysToRemoveOnExit(
			nil,
			[]models.Candidate{withHolidays(h1), withHolidays(h2)},
			[]models.Candidate{withHolidays(h1, h2)},
		)
		assert.Empty(t, got)
	})

	t.Run("empty group falls back to union of leaving members", func(t *testing.T) {
		got := holidaysToRemoveOnExit(
			nil,
			nil,
			[]models.Candidate{withHolidays(h1, h2), withHolidays(h2, h3)},
		)
		assert.ElementsMatch(t, []uuid.UUID{h1.ID, h2.ID, h3.ID}, holidayIDs(got))
	})

	t.Run("everything empty yields nothing", func(t *testing.T) {
		got := holidaysToRemoveOnExit(nil, nil, nil)
		assert.Empty(t, got)
	})
}

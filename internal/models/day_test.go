package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayStart(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "midday utc",
			in:   time.Date(2025, 1, 1, 12, 30, 45, 999, time.UTC),
			want: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "already midnight",
			in:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "zoned time converts to utc first",
			in:   time.Date(2025, 1, 1, 2, 0, 0, 0, ist),
			want: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, DayStart(tc.in).Equal(tc.want))
		})
	}
}

func TestDayRange(t *testing.T) {
	start, end := DayRange(time.Date(2025, 3, 15, 18, 0, 0, 0, time.UTC))
	assert.True(t, start.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, end.Equal(time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

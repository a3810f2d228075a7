package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_SameCalendarDay(t *testing.T) {
	t.Parallel()

	morning := time.Date(2024, 5, 1, 0, 0, 1, 0, time.Local)
	night := time.Date(2024, 5, 1, 23, 59, 59, 0, time.Local)

	assert.Equal(t, Key(morning), Key(night))
	assert.Equal(t, "2024-05-01", Key(morning))
}

func TestKey_LexicalOrdering(t *testing.T) {
	t.Parallel()

	// Sweep across month and year boundaries.
	d := time.Date(2023, 12, 25, 13, 30, 0, 0, time.Local)
	for i := 0; i < 40; i++ {
		next := AddDays(d, 1)
		assert.Less(t, Key(d), Key(next), "keys must sort chronologically")
		d = next
	}
}

func TestParseKey_RoundTrip(t *testing.T) {
	t.Parallel()

	d, err := ParseKey("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", Key(d))

	_, err = ParseKey("not-a-date")
	assert.Error(t, err)
}

func TestDisplayLabel(t *testing.T) {
	t.Parallel()

	// 2024-05-01 was a Wednesday.
	assert.Equal(t, "Wed, May 1", DisplayLabel("2024-05-01"))
	// Malformed keys pass through untouched.
	assert.Equal(t, "garbage", DisplayLabel("garbage"))
}

func TestWeekStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday maps to itself", time.Date(2024, 4, 29, 9, 0, 0, 0, time.Local), "2024-04-29"},
		{"wednesday maps back to monday", time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local), "2024-04-29"},
		{"sunday maps back six days", time.Date(2024, 5, 5, 9, 0, 0, 0, time.Local), "2024-04-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Key(WeekStart(tt.in)))
		})
	}
}

func TestIsToday(t *testing.T) {
	t.Parallel()

	assert.True(t, IsToday(time.Now()))
	assert.False(t, IsToday(AddDays(time.Now(), -1)))
	assert.False(t, IsToday(AddDays(time.Now(), 1)))
}

func TestIsCurrentWeek(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCurrentWeek(time.Now()))
	assert.False(t, IsCurrentWeek(AddDays(time.Now(), -7)))
}

func TestMonthKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2024-05", MonthKey(time.Date(2024, 5, 31, 0, 0, 0, 0, time.Local)))
}

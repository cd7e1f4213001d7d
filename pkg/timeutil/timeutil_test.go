package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayAdvanced(t *testing.T) {
	completed := DateTime(2026, 3, 14, 23, 59, 0)

	assert.False(t, DayAdvanced(completed, DateTime(2026, 3, 14, 23, 59, 30)))
	assert.True(t, DayAdvanced(completed, DateTime(2026, 3, 15, 0, 0, 0)))
	assert.True(t, DayAdvanced(completed, DateTime(2026, 4, 1, 12, 0, 0)))
	assert.False(t, DayAdvanced(completed, DateTime(2026, 3, 13, 12, 0, 0)))
}

func TestDayAdvancedCrossesTimezones(t *testing.T) {
	// 23:30 in UTC+5 is 18:30 UTC the same day.
	local := time.Date(2026, 3, 14, 23, 30, 0, 0, time.FixedZone("UTC+5", 5*3600))

	assert.False(t, DayAdvanced(local, DateTime(2026, 3, 14, 20, 0, 0)))
	assert.True(t, DayAdvanced(local, DateTime(2026, 3, 15, 0, 0, 0)))
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(DateTime(2026, 3, 14, 0, 0, 0), DateTime(2026, 3, 14, 23, 59, 59)))
	assert.False(t, SameDay(DateTime(2026, 3, 14, 23, 59, 59), DateTime(2026, 3, 15, 0, 0, 0)))
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2026-03-14", DateKey(DateTime(2026, 3, 14, 18, 30, 0)))

	parsed, err := ParseDateKey("2026-03-14")
	assert.NoError(t, err)
	assert.Equal(t, Date(2026, 3, 14), parsed)

	_, err = ParseDateKey("not-a-date")
	assert.Error(t, err)
}

func TestNextMidnight(t *testing.T) {
	assert.Equal(t, Date(2026, 3, 15), NextMidnight(DateTime(2026, 3, 14, 0, 0, 1)))
	assert.Equal(t, Date(2026, 3, 15), NextMidnight(DateTime(2026, 3, 14, 23, 59, 59)))
}

func TestWithinWindow(t *testing.T) {
	now := DateTime(2026, 3, 14, 12, 0, 0)

	assert.True(t, WithinWindow(now.Add(-4*time.Minute), now, 5*time.Minute))
	assert.True(t, WithinWindow(now.Add(-5*time.Minute), now, 5*time.Minute))
	assert.False(t, WithinWindow(now.Add(-6*time.Minute), now, 5*time.Minute))
}

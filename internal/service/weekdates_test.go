package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthavgonda/timetable-gateway/internal/models"
)

func TestWeekDatesFromMondayAnchor(t *testing.T) {
	// 02-03-2026 is a Monday.
	dates := WeekDates("02-03-2026")

	require.Len(t, dates, 6)
	assert.Equal(t, map[string]string{
		"Monday":    "02/03",
		"Tuesday":   "03/03",
		"Wednesday": "04/03",
		"Thursday":  "05/03",
		"Friday":    "06/03",
		"Saturday":  "07/03",
	}, dates)
}

func TestWeekDatesAcceptsISOAnchor(t *testing.T) {
	assert.Equal(t, WeekDates("02-03-2026"), WeekDates("2026-03-02"))
}

func TestWeekDatesSkipsSundays(t *testing.T) {
	// 04-03-2026 is a Wednesday; the walk crosses Sunday 08-03.
	dates := WeekDates("04-03-2026")

	require.Len(t, dates, 6)
	assert.Equal(t, "04/03", dates["Monday"])
	assert.Equal(t, "07/03", dates["Thursday"])
	assert.Equal(t, "09/03", dates["Friday"], "Sunday 08/03 must be skipped")
	assert.Equal(t, "10/03", dates["Saturday"])
	for _, value := range dates {
		assert.NotEqual(t, "08/03", value)
	}
}

func TestWeekDatesZeroPadsDayAndMonth(t *testing.T) {
	dates := WeekDates("01-09-2026")
	for _, value := range dates {
		assert.Len(t, value, 5)
	}
}

func TestWeekDatesEmptyAnchor(t *testing.T) {
	assert.Empty(t, WeekDates(""))
	assert.Empty(t, WeekDates("   "))
}

func TestWeekDatesMalformedAnchor(t *testing.T) {
	assert.Empty(t, WeekDates("02/03/2026"))
	assert.Empty(t, WeekDates("02-03"))
}

func TestWeekDatesGarbageComponentsDoNotPanic(t *testing.T) {
	dates := WeekDates("xx-03-2026")
	assert.Len(t, dates, len(models.Weekdays))
}

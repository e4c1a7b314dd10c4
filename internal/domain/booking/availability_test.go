package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careplushealth/lab-scheduler/internal/models"
)

func labTest(days, slots []string) *models.LabTest {
	return &models.LabTest{
		AvailableDays:      days,
		AvailableTimeSlots: slots,
	}
}

func TestCommonDays(t *testing.T) {
	a := labTest([]string{"Monday", "Wednesday", "Friday"}, nil)
	b := labTest([]string{"Wednesday", "Friday", "Saturday"}, nil)

	assert.Equal(t, []string{"Wednesday", "Friday"}, CommonDays([]*models.LabTest{a, b}))
	assert.Equal(t, a.AvailableDays, CommonDays([]*models.LabTest{a}))
	assert.Nil(t, CommonDays(nil))
}

func TestCommonDaysDisjoint(t *testing.T) {
	a := labTest([]string{"Monday"}, nil)
	b := labTest([]string{"Tuesday"}, nil)

	assert.Empty(t, CommonDays([]*models.LabTest{a, b}))
	// a date can never be offered when no shared weekday exists
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	assert.Empty(t, NextAvailableDates(now, 2, CommonDays([]*models.LabTest{a, b}), 5, 60))
}

func TestCommonSlots(t *testing.T) {
	a := labTest(nil, []string{"9:00 AM", "9:30 AM", "10:00 AM"})
	b := labTest(nil, []string{"9:30 AM", "10:00 AM", "10:30 AM"})

	assert.Equal(t, []string{"9:30 AM", "10:00 AM"}, CommonSlots([]*models.LabTest{a, b}))
}

func TestSubtractBooked(t *testing.T) {
	slots := []string{"9:00 AM", "9:30 AM", "10:00 AM"}

	assert.Equal(t, []string{"9:00 AM", "10:00 AM"}, SubtractBooked(slots, []string{"9:30 AM"}))
	assert.Equal(t, slots, SubtractBooked(slots, nil))
	assert.Empty(t, SubtractBooked(slots, slots))
}

func TestMinBookableDate(t *testing.T) {
	// Friday afternoon
	now := time.Date(2026, 8, 28, 15, 45, 0, 0, time.UTC)

	min := MinBookableDate(now, 2)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), min)

	// today+1 must never pass the window
	assert.False(t, IsWithinAdvanceWindow(now.AddDate(0, 0, 1), now, 2))
	assert.True(t, IsWithinAdvanceWindow(min, now, 2))
	assert.True(t, IsWithinAdvanceWindow(min.AddDate(0, 0, 7), now, 2))
}

func TestMinBookableDateDefault(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, MinBookableDate(now, 2), MinBookableDate(now, 0))
}

func TestNextAvailableDates(t *testing.T) {
	// Friday 2026-08-28; window opens Sunday 2026-08-30
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	dates := NextAvailableDates(now, 2, []string{"Monday"}, 3, 60)
	require.Len(t, dates, 3)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), dates[0])
	for _, d := range dates {
		assert.Equal(t, "Monday", WeekdayName(d))
		assert.True(t, IsWithinAdvanceWindow(d, now, 2))
	}
}

func TestNextAvailableDatesHorizon(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	// only one Monday fits a 7-day horizon
	dates := NextAvailableDates(now, 2, []string{"Monday"}, 5, 7)
	assert.Len(t, dates, 1)

	assert.Nil(t, NextAvailableDates(now, 2, nil, 5, 60))
	assert.Nil(t, NextAvailableDates(now, 2, []string{"Monday"}, 0, 60))
}

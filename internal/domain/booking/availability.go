package booking

import (
	"time"

	"github.com/careplushealth/lab-scheduler/internal/models"
)

// DefaultMinAdvanceDays is the hospital-wide advance-booking window: the
// earliest bookable date is always at least this many calendar days ahead.
const DefaultMinAdvanceDays = 2

// WeekdayName returns the weekday of a date as stored on LabTest
// ("Monday" .. "Sunday").
func WeekdayName(date time.Time) string {
	return date.Weekday().String()
}

// CommonDays intersects AvailableDays across all given tests, keeping the
// first test's ordering. Empty input yields nil.
func CommonDays(tests []*models.LabTest) []string {
	if len(tests) == 0 {
		return nil
	}

	days := tests[0].AvailableDays
	for _, t := range tests[1:] {
		days = intersect(days, t.AvailableDays)
	}
	return days
}

// CommonSlots intersects AvailableTimeSlots across all given tests, keeping
// the first test's ordering.
func CommonSlots(tests []*models.LabTest) []string {
	if len(tests) == 0 {
		return nil
	}

	slots := tests[0].AvailableTimeSlots
	for _, t := range tests[1:] {
		slots = intersect(slots, t.AvailableTimeSlots)
	}
	return slots
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}

	var out []string
	for _, v := range a {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// SubtractBooked removes already-booked time labels from the slot list.
func SubtractBooked(slots, booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, v := range booked {
		taken[v] = struct{}{}
	}

	out := make([]string, 0, len(slots))
	for _, v := range slots {
		if _, ok := taken[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// MinBookableDate returns the earliest offerable date: midnight of
// today + advanceDays in now's location.
func MinBookableDate(now time.Time, advanceDays int) time.Time {
	if advanceDays <= 0 {
		advanceDays = DefaultMinAdvanceDays
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, advanceDays)
}

// IsWithinAdvanceWindow reports whether date satisfies the advance-booking
// rule relative to now.
func IsWithinAdvanceWindow(date, now time.Time, advanceDays int) bool {
	return !date.Before(MinBookableDate(now, advanceDays))
}

// NextAvailableDates walks forward from the advance-window boundary and
// collects up to limit dates whose weekday appears in days, scanning at most
// horizonDays ahead.
func NextAvailableDates(now time.Time, advanceDays int, days []string, limit, horizonDays int) []time.Time {
	if limit <= 0 || len(days) == 0 {
		return nil
	}

	allowed := make(map[string]struct{}, len(days))
	for _, d := range days {
		allowed[d] = struct{}{}
	}

	var out []time.Time
	cur := MinBookableDate(now, advanceDays)

	for i := 0; i < horizonDays && len(out) < limit; i++ {
		if _, ok := allowed[WeekdayName(cur)]; ok {
			out = append(out, cur)
		}
		cur = cur.AddDate(0, 0, 1)
	}

	return out
}

package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/careplushealth/lab-scheduler/internal/domain/booking"
	"github.com/careplushealth/lab-scheduler/internal/httperr"
	"github.com/careplushealth/lab-scheduler/internal/models"
	"github.com/careplushealth/lab-scheduler/internal/timezone"
)

func mondayTest(id uint) *models.LabTest {
	return &models.LabTest{
		ID:                  id,
		Name:                "Complete Blood Count",
		AllowsOnlineBooking: true,
		AvailableDays:       []string{"Monday"},
		AvailableTimeSlots:  []string{"9:00 AM", "9:30 AM", "10:00 AM"},
	}
}

// nextMonday returns the first Monday at or after the advance window.
func nextMonday(t *testing.T) time.Time {
	t.Helper()
	now := timezone.Now()
	d := domain.MinBookableDate(now, 2)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestGetAvailabilityHappyPath(t *testing.T) {
	repo := newFakeRepo()
	repo.tests[1] = mondayTest(1)
	cache := newFakeCache()

	uc := NewGetAvailability(repo, cache)

	slots, err := uc.Execute(context.Background(), 1, nextMonday(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"9:00 AM", "9:30 AM", "10:00 AM"}, slots)
}

func TestGetAvailabilityExcludesBookedSlots(t *testing.T) {
	repo := newFakeRepo()
	repo.tests[1] = mondayTest(1)
	date := nextMonday(t)

	repo.appointments = append(repo.appointments,
		&models.Appointment{ID: 1, Date: date, TimeSlot: "9:30 AM", Status: "pending"},
		&models.Appointment{ID: 2, Date: date, TimeSlot: "10:00 AM", Status: "cancelled"},
	)

	uc := NewGetAvailability(repo, newFakeCache())

	slots, err := uc.Execute(context.Background(), 1, date)
	require.NoError(t, err)

	// pending blocks its slot; cancelled does not
	assert.Equal(t, []string{"9:00 AM", "10:00 AM"}, slots)
}

func TestGetAvailabilityWrongWeekday(t *testing.T) {
	repo := newFakeRepo()
	repo.tests[1] = mondayTest(1)

	uc := NewGetAvailability(repo, newFakeCache())

	tuesday := nextMonday(t).AddDate(0, 0, 1)
	slots, err := uc.Execute(context.Background(), 1, tuesday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetAvailabilityAdvanceWindow(t *testing.T) {
	repo := newFakeRepo()
	repo.tests[1] = mondayTest(1)

	uc := NewGetAvailability(repo, newFakeCache())

	now := timezone.Now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)

	_, err := uc.Execute(context.Background(), 1, tomorrow)
	assert.True(t, httperr.IsBusiness(err, "date_too_soon"))
}

func TestGetAvailabilityNotBookableTest(t *testing.T) {
	repo := newFakeRepo()
	test := mondayTest(1)
	test.AllowsOnlineBooking = false
	test.ContactMessage = "Please call the laboratory."
	repo.tests[1] = test

	uc := NewGetAvailability(repo, newFakeCache())

	_, err := uc.Execute(context.Background(), 1, nextMonday(t))
	assert.True(t, httperr.IsBusiness(err, "booking_not_available"))
}

func TestGetAvailabilityFailsClosed(t *testing.T) {
	repo := newFakeRepo()
	repo.tests[1] = mondayTest(1)
	repo.bookedErr = errors.New("connection refused")

	uc := NewGetAvailability(repo, newFakeCache())

	slots, err := uc.Execute(context.Background(), 1, nextMonday(t))
	assert.Error(t, err)
	assert.Nil(t, slots)
}

func TestGetAvailabilityUsesCache(t *testing.T) {
	repo := newFakeRepo()
	repo.tests[1] = mondayTest(1)
	date := nextMonday(t)

	cache := newFakeCache()
	cache.Set(context.Background(), date, []string{"9:00 AM"})

	// even with the store erroring, a cache hit serves the read path
	repo.bookedErr = errors.New("unreachable")

	uc := NewGetAvailability(repo, cache)

	slots, err := uc.Execute(context.Background(), 1, date)
	require.NoError(t, err)
	assert.Equal(t, []string{"9:30 AM", "10:00 AM"}, slots)
}

func TestNextAvailableDatesPreview(t *testing.T) {
	repo := newFakeRepo()
	repo.tests[1] = mondayTest(1)

	uc := NewNextAvailableDates(repo)

	dates, err := uc.Execute(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, dates, 3)

	now := timezone.Now()
	for _, d := range dates {
		assert.Equal(t, time.Monday, d.Weekday())
		assert.True(t, domain.IsWithinAdvanceWindow(d, now, 2))
	}
}

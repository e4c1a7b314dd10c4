package booking

import (
	"context"
	"time"

	domain "github.com/careplushealth/lab-scheduler/internal/domain/booking"
	"github.com/careplushealth/lab-scheduler/internal/httperr"
	"github.com/careplushealth/lab-scheduler/internal/models"
	"github.com/careplushealth/lab-scheduler/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	cache domain.BookedSlotCache
}

func NewGetAvailability(repo domain.Repository, cache domain.BookedSlotCache) *GetAvailability {
	return &GetAvailability{repo: repo, cache: cache}
}

// Execute returns the bookable time slots for a test on a candidate date.
// Dates inside the advance window are rejected outright; a weekday the test
// does not offer yields an empty list. A failed booked-times fetch fails
// closed: the error propagates instead of offering unverified slots.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	testID uint,
	date time.Time,
) ([]string, error) {

	test, err := uc.repo.GetTest(ctx, testID)
	if err != nil {
		return nil, httperr.ErrBusiness("test_not_found")
	}

	if !test.AllowsOnlineBooking {
		return nil, httperr.ErrBusiness("booking_not_available")
	}

	hospital, err := uc.repo.GetHospital(ctx)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(hospital.Timezone)
	if !domain.IsWithinAdvanceWindow(date, now, hospital.MinAdvanceDays) {
		return nil, httperr.ErrBusiness("date_too_soon")
	}

	selected := []*models.LabTest{test}

	commonDays := domain.CommonDays(selected)
	dayAllowed := false
	for _, d := range commonDays {
		if d == domain.WeekdayName(date) {
			dayAllowed = true
			break
		}
	}
	if !dayAllowed {
		return []string{}, nil
	}

	booked, ok := uc.cache.Get(ctx, date)
	if !ok {
		booked, err = uc.repo.ListBookedTimes(ctx, date)
		if err != nil {
			return nil, err
		}
		uc.cache.Set(ctx, date, booked)
	}

	return domain.SubtractBooked(domain.CommonSlots(selected), booked), nil
}

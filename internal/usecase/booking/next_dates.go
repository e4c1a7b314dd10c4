package booking

import (
	"context"
	"time"

	domain "github.com/careplushealth/lab-scheduler/internal/domain/booking"
	"github.com/careplushealth/lab-scheduler/internal/httperr"
	"github.com/careplushealth/lab-scheduler/internal/timezone"
)

const (
	defaultPreviewLimit = 5
	previewHorizonDays  = 60
)

type NextAvailableDates struct {
	repo domain.Repository
}

func NewNextAvailableDates(repo domain.Repository) *NextAvailableDates {
	return &NextAvailableDates{repo: repo}
}

// Execute previews the next offerable dates for a test, starting at the
// advance-window boundary.
func (uc *NextAvailableDates) Execute(
	ctx context.Context,
	testID uint,
	limit int,
) ([]time.Time, error) {

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

	if limit <= 0 {
		limit = defaultPreviewLimit
	}

	now := timezone.NowIn(hospital.Timezone)
	return domain.NextAvailableDates(
		now,
		hospital.MinAdvanceDays,
		test.AvailableDays,
		limit,
		previewHorizonDays,
	), nil
}

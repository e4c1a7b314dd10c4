package booking

import (
	"context"

	"github.com/careplushealth/lab-scheduler/internal/audit"
	domain "github.com/careplushealth/lab-scheduler/internal/domain/booking"
	"github.com/careplushealth/lab-scheduler/internal/models"
	"github.com/careplushealth/lab-scheduler/internal/timezone"
)

type CancelAppointment struct {
	repo  domain.Repository
	cache domain.BookedSlotCache
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	cache domain.BookedSlotCache,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{repo: repo, cache: cache, audit: audit}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	userID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, timezone.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// the slot is free again
	uc.cache.Invalidate(ctx, ap.Date)

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

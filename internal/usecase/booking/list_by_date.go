package booking

import (
	"context"
	"time"

	domain "github.com/careplushealth/lab-scheduler/internal/domain/booking"
	"github.com/careplushealth/lab-scheduler/internal/models"
)

// ScheduleEntry is the availability-check projection: time and status only,
// no patient data.
type ScheduleEntry struct {
	TimeSlot string `json:"time_slot"`
	Status   string `json:"status"`
}

type ListScheduleByDate struct {
	repo domain.Repository
}

func NewListScheduleByDate(repo domain.Repository) *ListScheduleByDate {
	return &ListScheduleByDate{repo: repo}
}

func (uc *ListScheduleByDate) Execute(
	ctx context.Context,
	date time.Time,
) ([]ScheduleEntry, error) {

	aps, err := uc.repo.ListAppointmentsByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	entries := make([]ScheduleEntry, 0, len(aps))
	for _, ap := range aps {
		entries = append(entries, ScheduleEntry{
			TimeSlot: ap.TimeSlot,
			Status:   ap.Status,
		})
	}
	return entries, nil
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute returns all appointments ordered by date/time descending.
func (uc *ListAppointments) Execute(ctx context.Context) ([]models.Appointment, error) {
	return uc.repo.ListAppointments(ctx)
}

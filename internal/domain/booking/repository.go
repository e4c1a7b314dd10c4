package booking

import (
	"context"
	"time"

	"github.com/careplushealth/lab-scheduler/internal/models"
)

type Repository interface {
	// -------- Hospital --------
	GetHospital(ctx context.Context) (*models.Hospital, error)

	// -------- Test --------
	GetTest(ctx context.Context, id uint) (*models.LabTest, error)

	// -------- Availability --------
	ListBookedTimes(ctx context.Context, date time.Time) ([]string, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointmentIfFree(ctx context.Context, ap *models.Appointment) error

	// -------- Appointment (state change) --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	// -------- Listing --------
	ListAppointmentsByDate(ctx context.Context, date time.Time) ([]models.Appointment, error)
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
}

// DocumentStore accepts an uploaded image and returns a durable reference.
type DocumentStore interface {
	Upload(ctx context.Context, filename string, content []byte) (string, error)
}

// BookedSlotCache is a short-lived read cache over ListBookedTimes. The
// submit path never reads it; it only invalidates after a write.
type BookedSlotCache interface {
	Get(ctx context.Context, date time.Time) ([]string, bool)
	Set(ctx context.Context, date time.Time, times []string)
	Invalidate(ctx context.Context, date time.Time)
}

package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "github.com/careplushealth/lab-scheduler/internal/domain/booking"
	"github.com/careplushealth/lab-scheduler/internal/httperr"
	"github.com/careplushealth/lab-scheduler/internal/models"
)

// ------------------------------------------------------
// in-memory Repository
// ------------------------------------------------------

type fakeRepo struct {
	mu sync.Mutex

	hospital     models.Hospital
	tests        map[uint]*models.LabTest
	appointments []*models.Appointment
	nextID       uint

	bookedErr error
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		hospital: models.Hospital{
			ID:             1,
			Name:           "CarePlus General Hospital",
			Timezone:       "Asia/Manila",
			MinAdvanceDays: 2,
		},
		tests: make(map[uint]*models.LabTest),
	}
}

func (r *fakeRepo) GetHospital(ctx context.Context) (*models.Hospital, error) {
	h := r.hospital
	return &h, nil
}

func (r *fakeRepo) GetTest(ctx context.Context, id uint) (*models.LabTest, error) {
	if t, ok := r.tests[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("record not found")
}

func (r *fakeRepo) ListBookedTimes(ctx context.Context, date time.Time) ([]string, error) {
	if r.bookedErr != nil {
		return nil, r.bookedErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var times []string
	for _, ap := range r.appointments {
		if ap.Date.Equal(date) && ap.Status != string(domain.StatusCancelled) {
			times = append(times, ap.TimeSlot)
		}
	}
	return times, nil
}

func (r *fakeRepo) CreateAppointmentIfFree(ctx context.Context, ap *models.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.appointments {
		if existing.Date.Equal(ap.Date) &&
			existing.TimeSlot == ap.TimeSlot &&
			existing.Status != string(domain.StatusCancelled) {
			return httperr.ErrBusiness("slot_taken")
		}
	}

	r.nextID++
	ap.ID = r.nextID
	ap.CreatedAt = time.Now()
	ap.UpdatedAt = ap.CreatedAt
	r.appointments = append(r.appointments, ap)
	return nil
}

func (r *fakeRepo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ap := range r.appointments {
		if ap.ID == id {
			return ap, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (r *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return nil
}

func (r *fakeRepo) ListAppointmentsByDate(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.Date.Equal(date) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Appointment, 0, len(r.appointments))
	for i := len(r.appointments) - 1; i >= 0; i-- {
		out = append(out, *r.appointments[i])
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// ------------------------------------------------------
// in-memory cache
// ------------------------------------------------------

type fakeCache struct {
	entries     map[string][]string
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]string)}
}

func (c *fakeCache) key(date time.Time) string { return date.Format("2006-01-02") }

func (c *fakeCache) Get(ctx context.Context, date time.Time) ([]string, bool) {
	v, ok := c.entries[c.key(date)]
	return v, ok
}

func (c *fakeCache) Set(ctx context.Context, date time.Time, times []string) {
	c.entries[c.key(date)] = times
}

func (c *fakeCache) Invalidate(ctx context.Context, date time.Time) {
	delete(c.entries, c.key(date))
	c.invalidated = append(c.invalidated, c.key(date))
}

var _ domain.BookedSlotCache = (*fakeCache)(nil)

// ------------------------------------------------------
// in-memory document store
// ------------------------------------------------------

type fakeDocs struct {
	uploads []string
	err     error
}

func (d *fakeDocs) Upload(ctx context.Context, filename string, content []byte) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	ref := "s3://lab-documents/requests/" + filename
	d.uploads = append(d.uploads, ref)
	return ref, nil
}

var _ domain.DocumentStore = (*fakeDocs)(nil)

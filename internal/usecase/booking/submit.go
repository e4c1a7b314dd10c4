package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/careplushealth/lab-scheduler/internal/audit"
	domain "github.com/careplushealth/lab-scheduler/internal/domain/booking"
	"github.com/careplushealth/lab-scheduler/internal/httperr"
	"github.com/careplushealth/lab-scheduler/internal/models"
	"github.com/careplushealth/lab-scheduler/internal/timezone"
	"github.com/careplushealth/lab-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type SubmitAppointmentInput struct {
	Test  *models.LabTest
	Draft domain.Draft
}

// ======================================================
// USE CASE
// ======================================================

// SubmitAppointment finalizes a reviewed draft: it re-checks the slot
// immediately before writing, uploads the supporting document, and persists
// the appointment. Upload and create are two independent calls with no
// compensating rollback; a create failure after a successful upload orphans
// the object, which is logged and accepted.
type SubmitAppointment struct {
	repo  domain.Repository
	docs  domain.DocumentStore
	cache domain.BookedSlotCache
	audit *audit.Dispatcher
}

func NewSubmitAppointment(
	repo domain.Repository,
	docs domain.DocumentStore,
	cache domain.BookedSlotCache,
	audit *audit.Dispatcher,
) *SubmitAppointment {
	return &SubmitAppointment{
		repo:  repo,
		docs:  docs,
		cache: cache,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SubmitAppointment) Execute(
	ctx context.Context,
	in SubmitAppointmentInput,
) (*models.Appointment, error) {

	if in.Test == nil || in.Draft.Document == nil {
		return nil, httperr.ErrBusiness("invalid_submission")
	}

	if !slotOffered(in.Test, in.Draft.Date, in.Draft.TimeSlot) {
		return nil, httperr.ErrBusiness("invalid_time_slot")
	}

	// 1. Fresh re-check, bypassing the cache. Another booking may have
	// landed between slot selection and confirmation.
	booked, err := uc.repo.ListBookedTimes(ctx, in.Draft.Date)
	if err != nil {
		return nil, err
	}
	for _, t := range booked {
		if t == in.Draft.TimeSlot {
			return nil, httperr.ErrBusiness("slot_taken")
		}
	}

	// 2. Upload the supporting document.
	ref, err := uc.docs.Upload(ctx, in.Draft.Document.Filename, in.Draft.Document.Content)
	if err != nil {
		if httperr.BusinessCode(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", httperr.ErrBusiness("upload_failed"), err)
	}

	now := timezone.Now()

	ap := &models.Appointment{
		AppointmentNumber: generateAppointmentNumber(now),
		FirstName:         in.Draft.FirstName,
		LastName:          in.Draft.LastName,
		Email:             in.Draft.Email,
		Phone:             validators.NormalizePhone(in.Draft.Phone),
		LabTestID:         in.Test.ID,
		Date:              in.Draft.Date,
		TimeSlot:          in.Draft.TimeSlot,
		Notes:             in.Draft.Notes,
		DocumentRef:       ref,
		DocumentNotes:     in.Draft.DocumentNotes,
		Status:            string(domain.InitialStatus()),
	}

	// 3. Create behind a second, row-locked check. Two submissions that both
	// passed step 1 cannot both land here.
	if err := uc.repo.CreateAppointmentIfFree(ctx, ap); err != nil {
		logrus.WithField("document_ref", ref).Warn("appointment create failed, uploaded document orphaned")
		if httperr.IsBusiness(err, "slot_taken") {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", httperr.ErrBusiness("create_failed"), err)
	}

	uc.cache.Invalidate(ctx, ap.Date)

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_submitted",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"appointment_number": ap.AppointmentNumber,
			"lab_test_id":        ap.LabTestID,
			"date":               ap.Date.Format("2006-01-02"),
			"time_slot":          ap.TimeSlot,
		},
	})

	return ap, nil
}

// slotOffered checks that the chosen (date, time) pair is one the test
// actually offers, independent of what is already booked.
func slotOffered(test *models.LabTest, date time.Time, slot string) bool {
	dayOK := false
	for _, d := range test.AvailableDays {
		if d == domain.WeekdayName(date) {
			dayOK = true
			break
		}
	}
	if !dayOK {
		return false
	}

	for _, s := range test.AvailableTimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// generateAppointmentNumber builds a human-readable, unique-enough number:
// LAB-<timestamp>-<4 random chars>. Uniqueness is ultimately backed by the
// column's unique index.
func generateAppointmentNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("LAB-%s-%s", now.Format("20060102150405"), suffix)
}

package booking

import (
	"time"

	"github.com/careplushealth/lab-scheduler/internal/httperr"
	"github.com/careplushealth/lab-scheduler/internal/models"
	"github.com/careplushealth/lab-scheduler/internal/validators"
)

// ===============================
// Session States
// ===============================

type State string

const (
	StateSelectingTest    State = "selecting_test"
	StateFillingForm      State = "filling_form"
	StateEligibilityCheck State = "eligibility_check"
	StateReviewing        State = "reviewing"
	StateReviewEditing    State = "review_editing"
	StateSubmitting       State = "submitting"
	StateComplete         State = "complete"
)

// ===============================
// Draft
// ===============================

// Document is the supporting doctor's-request image attached to a draft.
type Document struct {
	Filename string
	Content  []byte
}

// Draft is the in-progress form state for one appointment attempt. It is
// never persisted; it either becomes an Appointment or is discarded.
type Draft struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string

	Date     time.Time // zero = not chosen yet
	TimeSlot string

	Notes         string
	Document      *Document
	DocumentNotes string
}

// ===============================
// Session
// ===============================

// Session drives the booking flow from test selection to a persisted
// appointment. All wizard state lives here so the whole flow can be tested
// without an HTTP harness.
type Session struct {
	State     State
	Test      *models.LabTest
	Draft     Draft
	Screening Screening

	// AppointmentNumber is set once the submission completes.
	AppointmentNumber string

	editDraft *Draft
}

func NewSession() *Session {
	return &Session{
		State:     StateSelectingTest,
		Screening: NewScreening(),
	}
}

func (s *Session) reset() {
	s.Draft = Draft{}
	s.Screening = NewScreening()
	s.editDraft = nil
}

// SelectTest toggles the current selection. Picking the selected test again
// deselects it; picking a different test replaces the selection and resets
// every downstream field, so partially-filled data for one test never leaks
// into a booking for another.
func (s *Session) SelectTest(t *models.LabTest) error {
	if s.State != StateSelectingTest && s.State != StateFillingForm {
		return httperr.ErrBusiness("invalid_state")
	}
	if t == nil {
		return httperr.ErrBusiness("test_not_found")
	}

	if s.Test != nil && s.Test.ID == t.ID {
		s.Test = nil
		s.reset()
		s.State = StateSelectingTest
		return nil
	}

	if !t.AllowsOnlineBooking {
		return httperr.ErrBusiness("booking_not_available")
	}

	s.Test = t
	s.reset()
	s.State = StateFillingForm
	return nil
}

// SubmitForm validates the draft and advances the session. Checks run in a
// fixed order and the first failure is reported alone: phone format, document
// presence, advance window, time slot, then the eligibility requirement.
func (s *Session) SubmitForm(now time.Time, advanceDays int) error {
	if s.State != StateFillingForm {
		return httperr.ErrBusiness("invalid_state")
	}
	if s.Test == nil {
		return httperr.ErrBusiness("no_test_selected")
	}

	if !validators.IsValidPhone(s.Draft.Phone) {
		return httperr.ErrBusiness("invalid_phone")
	}

	if s.Draft.Document == nil || len(s.Draft.Document.Content) == 0 {
		return httperr.ErrBusiness("missing_document")
	}

	if s.Draft.Date.IsZero() || !IsWithinAdvanceWindow(s.Draft.Date, now, advanceDays) {
		return httperr.ErrBusiness("date_too_soon")
	}

	if s.Draft.TimeSlot == "" {
		return httperr.ErrBusiness("missing_time_slot")
	}

	if s.Test.RequiresEligibilityCheck && s.Screening.Status != ScreeningCleared {
		if s.Screening.Status == ScreeningNotStarted {
			s.Screening.Status = ScreeningInProgress
		}
		s.State = StateEligibilityCheck
		return nil
	}

	s.State = StateReviewing
	return nil
}

// AnswerQuestion records a screening answer while in the eligibility step.
func (s *Session) AnswerQuestion(key string, yes bool) error {
	if s.State != StateEligibilityCheck {
		return httperr.ErrBusiness("invalid_state")
	}
	return s.Screening.Answer(key, yes)
}

// FinishScreening settles the screening. A cleared verdict moves the session
// to review; a blocked one keeps it in the eligibility step with the
// screening marked Blocked.
func (s *Session) FinishScreening() (Verdict, error) {
	if s.State != StateEligibilityCheck {
		return Verdict{}, httperr.ErrBusiness("invalid_state")
	}

	v := s.Screening.Finish(s.Test)
	if v.CanProceed {
		s.State = StateReviewing
	}
	return v, nil
}

// ReviseAnswers reopens a blocked screening.
func (s *Session) ReviseAnswers() error {
	if s.State != StateEligibilityCheck {
		return httperr.ErrBusiness("invalid_state")
	}
	return s.Screening.Revise()
}

// BeginEdit enters the scoped edit sub-state with a temporary copy of the
// draft; the working draft is untouched until SaveEdit.
func (s *Session) BeginEdit() error {
	if s.State != StateReviewing {
		return httperr.ErrBusiness("invalid_state")
	}

	copied := s.Draft
	s.editDraft = &copied
	s.State = StateReviewEditing
	return nil
}

// EditDraft exposes the temporary copy for mutation while editing.
func (s *Session) EditDraft() *Draft {
	return s.editDraft
}

func (s *Session) SaveEdit() error {
	if s.State != StateReviewEditing || s.editDraft == nil {
		return httperr.ErrBusiness("invalid_state")
	}

	s.Draft = *s.editDraft
	s.editDraft = nil
	s.State = StateReviewing
	return nil
}

func (s *Session) CancelEdit() error {
	if s.State != StateReviewEditing {
		return httperr.ErrBusiness("invalid_state")
	}

	s.editDraft = nil
	s.State = StateReviewing
	return nil
}

// Confirm moves a reviewed draft into submission.
func (s *Session) Confirm() error {
	if s.State != StateReviewing {
		return httperr.ErrBusiness("invalid_state")
	}

	s.State = StateSubmitting
	return nil
}

// CompleteSubmission clears the draft and records the generated number.
func (s *Session) CompleteSubmission(appointmentNumber string) error {
	if s.State != StateSubmitting {
		return httperr.ErrBusiness("invalid_state")
	}

	s.AppointmentNumber = appointmentNumber
	s.Test = nil
	s.reset()
	s.State = StateComplete
	return nil
}

// FailSubmission returns the user to the form with the draft retained. The
// slot-taken failure additionally clears only the chosen time, forcing a
// fresh time selection while keeping everything else.
func (s *Session) FailSubmission(err error) error {
	if s.State != StateSubmitting {
		return httperr.ErrBusiness("invalid_state")
	}

	if httperr.IsBusiness(err, "slot_taken") {
		s.Draft.TimeSlot = ""
	}

	s.State = StateFillingForm
	return nil
}

// Cancel abandons the attempt and discards all in-memory state. Nothing was
// persisted yet, so there is nothing to undo server-side.
func (s *Session) Cancel() {
	s.Test = nil
	s.reset()
	s.State = StateSelectingTest
}

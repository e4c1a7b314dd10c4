package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careplushealth/lab-scheduler/internal/httperr"
	"github.com/careplushealth/lab-scheduler/internal/models"
)

var testNow = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

func bookableTest(id uint) *models.LabTest {
	return &models.LabTest{
		ID:                  id,
		Name:                "Complete Blood Count",
		AllowsOnlineBooking: true,
		AvailableDays:       []string{"Monday", "Tuesday"},
		AvailableTimeSlots:  []string{"9:00 AM", "9:30 AM"},
	}
}

func validDraft() Draft {
	return Draft{
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria@example.com",
		Phone:     "09171234567",
		Date:      testNow.AddDate(0, 0, 3),
		TimeSlot:  "9:00 AM",
		Document:  &Document{Filename: "request.jpg", Content: []byte("img")},
	}
}

func TestSelectTestToggle(t *testing.T) {
	s := NewSession()
	test := bookableTest(1)

	require.NoError(t, s.SelectTest(test))
	assert.Equal(t, StateFillingForm, s.State)
	assert.Equal(t, test, s.Test)

	// selecting the same test again deselects
	require.NoError(t, s.SelectTest(test))
	assert.Equal(t, StateSelectingTest, s.State)
	assert.Nil(t, s.Test)
}

func TestSelectTestReplaceResetsDraft(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SelectTest(bookableTest(1)))

	s.Draft.Date = testNow.AddDate(0, 0, 5)
	s.Draft.TimeSlot = "9:00 AM"
	s.Draft.Notes = "fasting since midnight"
	s.Draft.Document = &Document{Filename: "a.png", Content: []byte("x")}

	require.NoError(t, s.SelectTest(bookableTest(2)))

	assert.Equal(t, StateFillingForm, s.State)
	assert.True(t, s.Draft.Date.IsZero())
	assert.Empty(t, s.Draft.TimeSlot)
	assert.Empty(t, s.Draft.Notes)
	assert.Nil(t, s.Draft.Document)
}

func TestSelectTestNotBookable(t *testing.T) {
	s := NewSession()
	test := &models.LabTest{
		ID:             3,
		Name:           "Bone Marrow Biopsy",
		ContactMessage: "Please call the laboratory to arrange this procedure.",
	}

	err := s.SelectTest(test)
	assert.True(t, httperr.IsBusiness(err, "booking_not_available"))
	assert.Equal(t, StateSelectingTest, s.State)
}

func TestSubmitFormValidationOrder(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Draft)
		code   string
	}{
		{"bad phone reported first", func(d *Draft) {
			d.Phone = "1234"
			d.Document = nil
			d.Date = time.Time{}
		}, "invalid_phone"},
		{"missing document before date", func(d *Draft) {
			d.Document = nil
			d.Date = time.Time{}
		}, "missing_document"},
		{"date inside advance window", func(d *Draft) {
			d.Date = testNow.AddDate(0, 0, 1)
		}, "date_too_soon"},
		{"missing time slot", func(d *Draft) {
			d.TimeSlot = ""
		}, "missing_time_slot"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession()
			require.NoError(t, s.SelectTest(bookableTest(1)))
			s.Draft = validDraft()
			tc.mutate(&s.Draft)

			err := s.SubmitForm(testNow, 2)
			assert.True(t, httperr.IsBusiness(err, tc.code), "want %s, got %v", tc.code, err)
			assert.Equal(t, StateFillingForm, s.State)
		})
	}
}

func TestSubmitFormFormattedPhoneAccepted(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SelectTest(bookableTest(1)))
	s.Draft = validDraft()
	s.Draft.Phone = "0917-123-4567"

	require.NoError(t, s.SubmitForm(testNow, 2))
	assert.Equal(t, StateReviewing, s.State)
}

func TestSubmitFormRoutesToEligibility(t *testing.T) {
	s := NewSession()
	test := bookableTest(1)
	test.RequiresEligibilityCheck = true
	test.EligibilityQuestions = []models.EligibilityQuestion{
		{Key: "pregnant", RiskLevel: "high", Warning: "X-ray exposure is unsafe during pregnancy."},
	}

	require.NoError(t, s.SelectTest(test))
	s.Draft = validDraft()
	require.NoError(t, s.SubmitForm(testNow, 2))
	assert.Equal(t, StateEligibilityCheck, s.State)

	require.NoError(t, s.AnswerQuestion("pregnant", true))
	v, err := s.FinishScreening()
	require.NoError(t, err)
	assert.False(t, v.CanProceed)
	assert.Equal(t, StateEligibilityCheck, s.State)
	assert.Equal(t, ScreeningBlocked, s.Screening.Status)

	// revise and clear
	require.NoError(t, s.ReviseAnswers())
	require.NoError(t, s.AnswerQuestion("pregnant", false))
	v, err = s.FinishScreening()
	require.NoError(t, err)
	assert.True(t, v.CanProceed)
	assert.Equal(t, StateReviewing, s.State)
}

func TestReviewEditSaveAndCancel(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SelectTest(bookableTest(1)))
	s.Draft = validDraft()
	require.NoError(t, s.SubmitForm(testNow, 2))

	require.NoError(t, s.BeginEdit())
	assert.Equal(t, StateReviewEditing, s.State)

	s.EditDraft().Notes = "changed"
	require.NoError(t, s.CancelEdit())
	assert.Equal(t, StateReviewing, s.State)
	assert.Empty(t, s.Draft.Notes)

	require.NoError(t, s.BeginEdit())
	s.EditDraft().Notes = "kept"
	require.NoError(t, s.SaveEdit())
	assert.Equal(t, "kept", s.Draft.Notes)
	assert.Equal(t, StateReviewing, s.State)
}

func TestSubmissionOutcomes(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SelectTest(bookableTest(1)))
	s.Draft = validDraft()
	require.NoError(t, s.SubmitForm(testNow, 2))
	require.NoError(t, s.Confirm())
	assert.Equal(t, StateSubmitting, s.State)

	// slot conflict clears only the time slot
	require.NoError(t, s.FailSubmission(httperr.ErrBusiness("slot_taken")))
	assert.Equal(t, StateFillingForm, s.State)
	assert.Empty(t, s.Draft.TimeSlot)
	assert.Equal(t, "Maria", s.Draft.FirstName)
	assert.False(t, s.Draft.Date.IsZero())

	// a generic failure keeps the whole draft
	s.Draft.TimeSlot = "9:30 AM"
	require.NoError(t, s.SubmitForm(testNow, 2))
	require.NoError(t, s.Confirm())
	require.NoError(t, s.FailSubmission(httperr.ErrBusiness("create_failed")))
	assert.Equal(t, "9:30 AM", s.Draft.TimeSlot)

	// success clears everything and records the number
	require.NoError(t, s.SubmitForm(testNow, 2))
	require.NoError(t, s.Confirm())
	require.NoError(t, s.CompleteSubmission("LAB-20260831090000-AB12"))
	assert.Equal(t, StateComplete, s.State)
	assert.Equal(t, "LAB-20260831090000-AB12", s.AppointmentNumber)
	assert.Nil(t, s.Test)
	assert.Equal(t, Draft{}, s.Draft)
}

func TestInvalidTransitions(t *testing.T) {
	s := NewSession()

	assert.Error(t, s.SubmitForm(testNow, 2))
	assert.Error(t, s.Confirm())
	assert.Error(t, s.BeginEdit())
	assert.Error(t, s.CompleteSubmission("x"))
	_, err := s.FinishScreening()
	assert.Error(t, err)

	require.NoError(t, s.SelectTest(bookableTest(1)))
	s.Draft = validDraft()
	require.NoError(t, s.SubmitForm(testNow, 2))
	require.NoError(t, s.Confirm())

	// test switching is locked once submission begins
	assert.Error(t, s.SelectTest(bookableTest(2)))
}

func TestCancelDiscardsEverything(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SelectTest(bookableTest(1)))
	s.Draft = validDraft()

	s.Cancel()
	assert.Equal(t, StateSelectingTest, s.State)
	assert.Nil(t, s.Test)
	assert.Equal(t, Draft{}, s.Draft)
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/careplushealth/lab-scheduler/internal/domain/booking"
	"github.com/careplushealth/lab-scheduler/internal/httperr"
	"github.com/careplushealth/lab-scheduler/internal/httpresp"
	"github.com/careplushealth/lab-scheduler/internal/infra/storage"
	"github.com/careplushealth/lab-scheduler/internal/models"
	"github.com/careplushealth/lab-scheduler/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db *gorm.DB

	availabilityUC *booking.GetAvailability
	nextDatesUC    *booking.NextAvailableDates
	submitUC       *booking.SubmitAppointment
	scheduleUC     *booking.ListScheduleByDate
	listUC         *booking.ListAppointments
}

func NewPublicHandler(
	db *gorm.DB,
	availabilityUC *booking.GetAvailability,
	nextDatesUC *booking.NextAvailableDates,
	submitUC *booking.SubmitAppointment,
	scheduleUC *booking.ListScheduleByDate,
	listUC *booking.ListAppointments,
) *PublicHandler {
	return &PublicHandler{
		db:             db,
		availabilityUC: availabilityUC,
		nextDatesUC:    nextDatesUC,
		submitUC:       submitUC,
		scheduleUC:     scheduleUC,
		listUC:         listUC,
	}
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListDepartments(c *gin.Context) {
	var departments []models.Department
	if err := h.db.Order("name ASC").Find(&departments).Error; err != nil {
		httperr.Internal(c, "failed_to_list_departments", "Failed to list departments.")
		return
	}

	httpresp.List(c, departments)
}

func (h *PublicHandler) ListTests(c *gin.Context) {
	departmentSlug := strings.TrimSpace(strings.ToLower(c.Query("department")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.Preload("Department").Where("active = true")

	if departmentSlug != "" {
		q = q.Joins("JOIN departments ON departments.id = lab_tests.department_id").
			Where("departments.slug = ?", departmentSlug)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(lab_tests.name) LIKE ? OR LOWER(lab_tests.description) LIKE ?", like, like)
	}

	var tests []models.LabTest
	if err := q.Order("lab_tests.id ASC").Find(&tests).Error; err != nil {
		httperr.Internal(c, "failed_to_list_tests", "Failed to list tests.")
		return
	}

	httpresp.List(c, tests)
}

func (h *PublicHandler) GetTest(c *gin.Context) {
	id := c.Param("id")

	var test models.LabTest
	if err := h.db.
		Preload("Department").
		Preload("EligibilityQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("active = true").
		First(&test, id).Error; err != nil {
		httperr.NotFound(c, "test_not_found", "Test not found.")
		return
	}

	httpresp.OK(c, test)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	testIDStr := c.Query("test_id")

	if dateStr == "" || testIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Date and test are required.")
		return
	}

	testID, err := strconv.ParseUint(testIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_test_id", "Invalid test.")
		return
	}

	hospital, ok := h.hospital(c)
	if !ok {
		return
	}

	date, err := parseDateInHospital(hospital, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	slots, err := h.availabilityUC.Execute(c.Request.Context(), uint(testID), date)
	if err != nil {
		switch httperr.BusinessCode(err) {
		case "test_not_found":
			httperr.NotFound(c, "test_not_found", "Test not found.")
		case "booking_not_available":
			httperr.BadRequest(c, "booking_not_available", "This test cannot be booked online.")
		case "date_too_soon":
			httperr.BadRequest(c, "date_too_soon", "Appointments must be booked at least two days in advance.")
		default:
			httperr.Internal(c, "availability_failed", "Failed to compute available slots.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

func (h *PublicHandler) NextDates(c *gin.Context) {
	testID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_test_id", "Invalid test.")
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	dates, err := h.nextDatesUC.Execute(c.Request.Context(), uint(testID), limit)
	if err != nil {
		switch httperr.BusinessCode(err) {
		case "test_not_found":
			httperr.NotFound(c, "test_not_found", "Test not found.")
		case "booking_not_available":
			httperr.BadRequest(c, "booking_not_available", "This test cannot be booked online.")
		default:
			httperr.Internal(c, "next_dates_failed", "Failed to compute upcoming dates.")
		}
		return
	}

	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.Format("2006-01-02"))
	}

	c.JSON(http.StatusOK, gin.H{"dates": formatted})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

// CreateAppointment drives the whole booking session server-side from a
// multipart form: test selection, form validation, eligibility screening,
// then submission.
func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	testID, err := strconv.ParseUint(c.PostForm("test_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_test_id", "A test must be selected.")
		return
	}

	var test models.LabTest
	if err := h.db.
		Preload("EligibilityQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("active = true").
		First(&test, testID).Error; err != nil {
		httperr.NotFound(c, "test_not_found", "Test not found.")
		return
	}

	hospital, ok := h.hospital(c)
	if !ok {
		return
	}

	sess := domain.NewSession()
	if err := sess.SelectTest(&test); err != nil {
		if httperr.IsBusiness(err, "booking_not_available") {
			msg := test.ContactMessage
			if msg == "" {
				msg = "This test cannot be booked online. Please contact the hospital directly."
			}
			httperr.BadRequest(c, "booking_not_available", msg)
			return
		}
		httperr.Internal(c, "session_error", "Failed to start booking.")
		return
	}

	sess.Draft = domain.Draft{
		FirstName:     strings.TrimSpace(c.PostForm("first_name")),
		LastName:      strings.TrimSpace(c.PostForm("last_name")),
		Email:         strings.TrimSpace(c.PostForm("email")),
		Phone:         strings.TrimSpace(c.PostForm("phone")),
		TimeSlot:      strings.TrimSpace(c.PostForm("time")),
		Notes:         c.PostForm("notes"),
		DocumentNotes: c.PostForm("document_notes"),
	}

	if sess.Draft.FirstName == "" || sess.Draft.LastName == "" {
		httperr.BadRequest(c, "missing_name", "First and last name are required.")
		return
	}

	if dateStr := c.PostForm("date"); dateStr != "" {
		date, err := parseDateInHospital(hospital, dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Invalid date.")
			return
		}
		sess.Draft.Date = date
	}

	if doc, ok := h.readDocument(c); ok {
		sess.Draft.Document = doc
	} else if c.IsAborted() {
		return
	}

	now := nowInHospital(hospital)
	if err := sess.SubmitForm(now, hospital.MinAdvanceDays); err != nil {
		h.writeValidationError(c, err)
		return
	}

	var warnings []string
	if sess.State == domain.StateEligibilityCheck {
		answers, ok := h.readAnswers(c)
		if !ok {
			return
		}

		for key, yes := range answers {
			if err := sess.AnswerQuestion(key, yes); err != nil {
				httperr.Internal(c, "screening_error", "Failed to record screening answers.")
				return
			}
		}

		verdict, err := sess.FinishScreening()
		if err != nil {
			httperr.Internal(c, "screening_error", "Failed to evaluate screening answers.")
			return
		}

		if !verdict.CanProceed {
			c.JSON(http.StatusForbidden, gin.H{
				"error_code": "eligibility_blocked",
				"message":    "A screening answer indicates this test may not be safe for you. Please contact your healthcare provider directly.",
				"warnings":   verdict.Warnings,
			})
			return
		}

		warnings = verdict.Warnings
	}

	if err := sess.Confirm(); err != nil {
		httperr.Internal(c, "session_error", "Booking session is in an unexpected state.")
		return
	}

	ap, err := h.submitUC.Execute(c.Request.Context(), booking.SubmitAppointmentInput{
		Test:  sess.Test,
		Draft: sess.Draft,
	})
	if err != nil {
		sess.FailSubmission(err)
		h.writeSubmitError(c, err)
		return
	}

	sess.CompleteSubmission(ap.AppointmentNumber)

	c.JSON(http.StatusCreated, gin.H{
		"id":                 ap.ID,
		"appointment_number": ap.AppointmentNumber,
		"date":               ap.Date.Format("2006-01-02"),
		"time":               ap.TimeSlot,
		"status":             ap.Status,
		"warnings":           warnings,
	})
}

////////////////////////////////////////////////////////
// LISTING
////////////////////////////////////////////////////////

// ListAppointments serves the listing contract: with a date filter it
// returns only (time, status) pairs for the availability check; without one
// it returns all appointments ordered by date/time descending.
func (h *PublicHandler) ListAppointments(c *gin.Context) {
	dateStr := c.Query("date")

	if dateStr == "" {
		aps, err := h.listUC.Execute(c.Request.Context())
		if err != nil {
			httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
			return
		}
		httpresp.List(c, aps)
		return
	}

	hospital, ok := h.hospital(c)
	if !ok {
		return
	}

	date, err := parseDateInHospital(hospital, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	entries, err := h.scheduleUC.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	httpresp.List(c, entries)
}

////////////////////////////////////////////////////////
// HELPERS
////////////////////////////////////////////////////////

func (h *PublicHandler) hospital(c *gin.Context) (*models.Hospital, bool) {
	var hospital models.Hospital
	if err := h.db.First(&hospital).Error; err != nil {
		httperr.Internal(c, "hospital_not_found", "Hospital settings not found.")
		return nil, false
	}
	return &hospital, true
}

// readDocument pulls the uploaded file if present. Absence is not an error
// here: the session reports missing_document in its own validation order.
func (h *PublicHandler) readDocument(c *gin.Context) (*domain.Document, bool) {
	file, err := c.FormFile("document")
	if err != nil {
		return nil, false
	}

	f, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_document", "Could not read the uploaded document.")
		c.Abort()
		return nil, false
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, storage.MaxDocumentSize+1))
	if err != nil {
		httperr.BadRequest(c, "invalid_document", "Could not read the uploaded document.")
		c.Abort()
		return nil, false
	}

	return &domain.Document{
		Filename: file.Filename,
		Content:  content,
	}, true
}

func (h *PublicHandler) readAnswers(c *gin.Context) (map[string]bool, bool) {
	raw := c.PostForm("answers")
	if raw == "" {
		return map[string]bool{}, true
	}

	var answers map[string]bool
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		httperr.BadRequest(c, "invalid_answers", "Screening answers must be a JSON object of booleans.")
		return nil, false
	}
	return answers, true
}

func (h *PublicHandler) writeValidationError(c *gin.Context, err error) {
	switch httperr.BusinessCode(err) {
	case "invalid_phone":
		httperr.BadRequest(c, "invalid_phone", "Phone number must be 11 digits and start with 09.")
	case "missing_document":
		httperr.BadRequest(c, "missing_document", "A doctor's request image is required.")
	case "date_too_soon":
		httperr.BadRequest(c, "date_too_soon", "Appointments must be booked at least two days in advance.")
	case "missing_time_slot":
		httperr.BadRequest(c, "missing_time_slot", "A time slot must be selected.")
	default:
		httperr.BadRequest(c, "invalid_request", "Invalid booking request.")
	}
}

func (h *PublicHandler) writeSubmitError(c *gin.Context, err error) {
	switch httperr.BusinessCode(err) {
	case "slot_taken":
		httperr.BadRequest(c, "slot_taken", "That time slot is no longer available. Please pick another time.")
	case "invalid_time_slot":
		httperr.BadRequest(c, "invalid_time_slot", "The selected time is not offered for this test.")
	case "document_too_large":
		httperr.BadRequest(c, "document_too_large", "The uploaded document exceeds the 5MB limit.")
	case "unsupported_document_type":
		httperr.BadRequest(c, "unsupported_document_type", "The uploaded document must be a JPEG, PNG, or WebP image.")
	case "upload_failed":
		httperr.Internal(c, "upload_failed", err.Error())
	default:
		httperr.Internal(c, "create_failed", "Failed to create the appointment. Your entries were kept; please try again.")
	}
}

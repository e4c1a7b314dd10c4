package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careplushealth/lab-scheduler/internal/httperr"
	"github.com/careplushealth/lab-scheduler/internal/httpresp"
	"github.com/careplushealth/lab-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type LabTestHandler struct {
	db *gorm.DB
}

func NewLabTestHandler(db *gorm.DB) *LabTestHandler {
	return &LabTestHandler{db: db}
}

// ======================================================
// REQUESTS
// ======================================================

var weekdayNames = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

type CreateLabTestRequest struct {
	DepartmentID uint    `json:"department_id" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Duration     string  `json:"duration"`
	Turnaround   string  `json:"turnaround"`
	Price        float64 `json:"price"`

	AllowsOnlineBooking      *bool  `json:"allows_online_booking"`
	ContactMessage           string `json:"contact_message"`
	RequiresEligibilityCheck bool   `json:"requires_eligibility_check"`

	AvailableDays      []string `json:"available_days"`
	AvailableTimeSlots []string `json:"available_time_slots"`
}

type UpdateLabTestRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Duration    *string  `json:"duration"`
	Turnaround  *string  `json:"turnaround"`
	Price       *float64 `json:"price"`

	AllowsOnlineBooking      *bool   `json:"allows_online_booking"`
	ContactMessage           *string `json:"contact_message"`
	RequiresEligibilityCheck *bool   `json:"requires_eligibility_check"`
	Active                   *bool   `json:"active"`
}

type UpdateScheduleRequest struct {
	AvailableDays      []string `json:"available_days" binding:"required"`
	AvailableTimeSlots []string `json:"available_time_slots" binding:"required"`
}

type QuestionInput struct {
	Key       string `json:"key" binding:"required"`
	Question  string `json:"question" binding:"required"`
	RiskLevel string `json:"risk_level" binding:"required,oneof=low medium high"`
	Warning   string `json:"warning"`
}

type UpdateQuestionsRequest struct {
	Questions []QuestionInput `json:"questions" binding:"required"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *LabTestHandler) List(c *gin.Context) {
	var tests []models.LabTest
	if err := h.db.
		Preload("Department").
		Preload("EligibilityQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("id ASC").
		Find(&tests).Error; err != nil {
		httperr.Internal(c, "failed_to_list_tests", "Failed to list tests.")
		return
	}

	httpresp.List(c, tests)
}

func (h *LabTestHandler) Create(c *gin.Context) {
	var req CreateLabTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if !validDays(req.AvailableDays) {
		httperr.BadRequest(c, "invalid_days", "Unknown weekday name.")
		return
	}

	allowsBooking := true
	if req.AllowsOnlineBooking != nil {
		allowsBooking = *req.AllowsOnlineBooking
	}

	test := models.LabTest{
		DepartmentID:             req.DepartmentID,
		Name:                     req.Name,
		Description:              req.Description,
		Duration:                 req.Duration,
		Turnaround:               req.Turnaround,
		Price:                    req.Price,
		AllowsOnlineBooking:      allowsBooking,
		ContactMessage:           req.ContactMessage,
		RequiresEligibilityCheck: req.RequiresEligibilityCheck,
		AvailableDays:            req.AvailableDays,
		AvailableTimeSlots:       req.AvailableTimeSlots,
		Active:                   true,
	}

	if err := h.db.Create(&test).Error; err != nil {
		httperr.Internal(c, "failed_to_create_test", "Failed to create test.")
		return
	}

	c.JSON(201, test)
}

func (h *LabTestHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var test models.LabTest
	if err := h.db.First(&test, id).Error; err != nil {
		httperr.NotFound(c, "test_not_found", "Test not found.")
		return
	}

	var req UpdateLabTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		test.Name = *req.Name
	}
	if req.Description != nil {
		test.Description = *req.Description
	}
	if req.Duration != nil {
		test.Duration = *req.Duration
	}
	if req.Turnaround != nil {
		test.Turnaround = *req.Turnaround
	}
	if req.Price != nil {
		test.Price = *req.Price
	}
	if req.AllowsOnlineBooking != nil {
		test.AllowsOnlineBooking = *req.AllowsOnlineBooking
	}
	if req.ContactMessage != nil {
		test.ContactMessage = *req.ContactMessage
	}
	if req.RequiresEligibilityCheck != nil {
		test.RequiresEligibilityCheck = *req.RequiresEligibilityCheck
	}
	if req.Active != nil {
		test.Active = *req.Active
	}

	if err := h.db.Save(&test).Error; err != nil {
		httperr.Internal(c, "failed_to_update_test", "Failed to update test.")
		return
	}

	httpresp.OK(c, test)
}

// UpdateSchedule replaces a test's bookable days and time slots.
func (h *LabTestHandler) UpdateSchedule(c *gin.Context) {
	id := c.Param("id")

	var test models.LabTest
	if err := h.db.First(&test, id).Error; err != nil {
		httperr.NotFound(c, "test_not_found", "Test not found.")
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if !validDays(req.AvailableDays) {
		httperr.BadRequest(c, "invalid_days", "Unknown weekday name.")
		return
	}

	test.AvailableDays = req.AvailableDays
	test.AvailableTimeSlots = req.AvailableTimeSlots

	if err := h.db.Save(&test).Error; err != nil {
		httperr.Internal(c, "failed_to_update_schedule", "Failed to update schedule.")
		return
	}

	httpresp.OK(c, test)
}

// UpdateQuestions replaces a test's screening questionnaire. Question order
// follows the request order.
func (h *LabTestHandler) UpdateQuestions(c *gin.Context) {
	id := c.Param("id")

	var test models.LabTest
	if err := h.db.First(&test, id).Error; err != nil {
		httperr.NotFound(c, "test_not_found", "Test not found.")
		return
	}

	var req UpdateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if test.RequiresEligibilityCheck && len(req.Questions) == 0 {
		httperr.BadRequest(c, "questions_required", "A test requiring eligibility screening needs at least one question.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lab_test_id = ?", test.ID).
			Delete(&models.EligibilityQuestion{}).Error; err != nil {
			return err
		}

		for i, q := range req.Questions {
			question := models.EligibilityQuestion{
				LabTestID: test.ID,
				Key:       q.Key,
				Question:  q.Question,
				RiskLevel: q.RiskLevel,
				Warning:   q.Warning,
				SortOrder: i,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_questions", "Failed to update questions.")
		return
	}

	var questions []models.EligibilityQuestion
	h.db.Where("lab_test_id = ?", test.ID).Order("sort_order ASC").Find(&questions)

	httpresp.List(c, questions)
}

func validDays(days []string) bool {
	for _, d := range days {
		if !weekdayNames[d] {
			return false
		}
	}
	return true
}

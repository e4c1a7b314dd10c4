package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careplushealth/lab-scheduler/internal/httperr"
	"github.com/careplushealth/lab-scheduler/internal/httpresp"
	"github.com/careplushealth/lab-scheduler/internal/middleware"
	"github.com/careplushealth/lab-scheduler/internal/models"
	"github.com/careplushealth/lab-scheduler/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// AppointmentHandler is the staff-facing view of appointments: full records
// and state transitions, behind authentication.
type AppointmentHandler struct {
	db *gorm.DB

	confirmUC  *booking.ConfirmAppointment
	completeUC *booking.CompleteAppointment
	cancelUC   *booking.CancelAppointment
}

func NewAppointmentHandler(
	db *gorm.DB,
	confirmUC *booking.ConfirmAppointment,
	completeUC *booking.CompleteAppointment,
	cancelUC *booking.CancelAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:         db,
		confirmUC:  confirmUC,
		completeUC: completeUC,
		cancelUC:   cancelUC,
	}
}

////////////////////////////////////////////////////////
// LISTING
////////////////////////////////////////////////////////

func (h *AppointmentHandler) List(c *gin.Context) {
	q := h.db.Preload("LabTest")

	if dateStr := c.Query("date"); dateStr != "" {
		hospital, ok := h.hospital(c)
		if !ok {
			return
		}
		date, err := parseDateInHospital(hospital, dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Invalid date.")
			return
		}
		q = q.Where("date = ?", date)
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var aps []models.Appointment
	if err := q.Order("date DESC, time_slot DESC").Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var ap models.Appointment
	if err := h.db.Preload("LabTest").First(&ap, id).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	httpresp.OK(c, ap)
}

////////////////////////////////////////////////////////
// STATE TRANSITIONS
////////////////////////////////////////////////////////

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, func(ctx context.Context, id, userID uint) (*models.Appointment, error) {
		return h.confirmUC.Execute(ctx, id, userID)
	})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, func(ctx context.Context, id, userID uint) (*models.Appointment, error) {
		return h.completeUC.Execute(ctx, id, userID)
	})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, func(ctx context.Context, id, userID uint) (*models.Appointment, error) {
		return h.cancelUC.Execute(ctx, id, userID)
	})
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	exec func(ctx context.Context, id, userID uint) (*models.Appointment, error),
) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	userID, _ := c.Get(middleware.ContextUserID)
	uid, _ := userID.(uint)

	ap, err := exec(c.Request.Context(), uint(id), uid)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		case httperr.IsBusiness(err, "invalid_state"):
			httperr.BadRequest(c, "invalid_state", "The appointment cannot change to that status from its current one.")
		default:
			httperr.Internal(c, "transition_failed", "Failed to update the appointment.")
		}
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) hospital(c *gin.Context) (*models.Hospital, bool) {
	var hospital models.Hospital
	if err := h.db.First(&hospital).Error; err != nil {
		httperr.Internal(c, "hospital_not_found", "Hospital settings not found.")
		return nil, false
	}
	return &hospital, true
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careplushealth/lab-scheduler/internal/httperr"
	"github.com/careplushealth/lab-scheduler/internal/httpresp"
	"github.com/careplushealth/lab-scheduler/internal/models"
	"github.com/careplushealth/lab-scheduler/internal/timezone"
)

type HospitalHandler struct {
	db *gorm.DB
}

func NewHospitalHandler(db *gorm.DB) *HospitalHandler {
	return &HospitalHandler{db: db}
}

func (h *HospitalHandler) Get(c *gin.Context) {
	var hospital models.Hospital
	if err := h.db.First(&hospital).Error; err != nil {
		httperr.Internal(c, "hospital_not_found", "Hospital settings not found.")
		return
	}

	httpresp.OK(c, hospital)
}

type UpdateHospitalRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	Timezone       *string `json:"timezone"`
	MinAdvanceDays *int    `json:"min_advance_days"`
}

func (h *HospitalHandler) Update(c *gin.Context) {
	var hospital models.Hospital
	if err := h.db.First(&hospital).Error; err != nil {
		httperr.Internal(c, "hospital_not_found", "Hospital settings not found.")
		return
	}

	var req UpdateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		hospital.Name = *req.Name
	}
	if req.Phone != nil {
		hospital.Phone = *req.Phone
	}
	if req.Address != nil {
		hospital.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		hospital.Timezone = *req.Timezone
	}
	if req.MinAdvanceDays != nil {
		if *req.MinAdvanceDays < 0 {
			httperr.BadRequest(c, "invalid_advance_days", "Advance days cannot be negative.")
			return
		}
		hospital.MinAdvanceDays = *req.MinAdvanceDays
	}

	if err := h.db.Save(&hospital).Error; err != nil {
		httperr.Internal(c, "failed_to_update_hospital", "Failed to update hospital settings.")
		return
	}

	httpresp.OK(c, hospital)
}

package models

import "time"

type LabTest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DepartmentID uint       `json:"department_id"`
	Department   Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"department"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	// Display strings, e.g. "15 minutes" / "24-48 hours".
	Duration   string `gorm:"size:50" json:"duration"`
	Turnaround string `gorm:"size:50" json:"turnaround"`

	Price float64 `json:"price"`

	AllowsOnlineBooking bool   `gorm:"default:true" json:"allows_online_booking"`
	ContactMessage      string `gorm:"size:255" json:"contact_message"`

	RequiresEligibilityCheck bool                  `gorm:"default:false" json:"requires_eligibility_check"`
	EligibilityQuestions     []EligibilityQuestion `gorm:"constraint:OnDelete:CASCADE;" json:"eligibility_questions,omitempty"`

	// Weekday names ("Monday" .. "Sunday") and ordered time-of-day labels
	// ("9:00 AM", "9:30 AM", ...).
	AvailableDays      []string `gorm:"serializer:json" json:"available_days"`
	AvailableTimeSlots []string `gorm:"serializer:json" json:"available_time_slots"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

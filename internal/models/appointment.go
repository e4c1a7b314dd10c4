package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentNumber string `gorm:"size:40;uniqueIndex;not null" json:"appointment_number"`

	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Email     string `gorm:"size:100" json:"email"`
	Phone     string `gorm:"size:20;not null" json:"phone"`

	LabTestID uint    `json:"lab_test_id"`
	LabTest   LabTest `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"lab_test"`

	// Date is midnight in the hospital timezone; TimeSlot is the slot label
	// the test was booked at ("9:00 AM").
	Date     time.Time `gorm:"index" json:"date"`
	TimeSlot string    `gorm:"size:20;not null" json:"time_slot"`

	Notes         string `gorm:"size:500" json:"notes"`
	DocumentRef   string `gorm:"size:255;not null" json:"document_ref"`
	DocumentNotes string `gorm:"size:255" json:"document_notes"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "time"

type EligibilityQuestion struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	LabTestID uint `gorm:"index:idx_question_key,unique" json:"lab_test_id"`

	Key      string `gorm:"size:50;index:idx_question_key,unique;not null" json:"key"`
	Question string `gorm:"size:255;not null" json:"question"`

	// low | medium | high
	RiskLevel string `gorm:"size:10;not null" json:"risk_level"`
	Warning   string `gorm:"size:255" json:"warning"`

	SortOrder int `json:"sort_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssessmentReport stores one submitted symptom assessment together with the
// raw text the AI service returned for it. Reports are write-once: they are
// created at submission time and never updated afterwards. Deleting the
// owning user removes their reports.
// @Description Persisted AI assessment report
type AssessmentReport struct {
	gorm.Model
	UserID   uint           `json:"user_id" gorm:"index;not null"`
	Payload  datatypes.JSON `json:"payload" gorm:"type:json"`
	AIReport string         `json:"ai_report" gorm:"type:text"`

	User User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

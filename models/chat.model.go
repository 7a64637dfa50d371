package models

import (
	"gorm.io/gorm"
)

// ChatLog persists one chatbot question/answer pair verbatim
type ChatLog struct {
	gorm.Model
	UserID         uint   `json:"user_id" gorm:"index;not null"`
	OrganisationID uint   `json:"organisation_id" gorm:"index;not null"`
	CourseID       uint   `json:"course_id" gorm:"index;not null"`
	ModuleID       uint   `json:"module_id" gorm:"index;not null"`
	Question       string `json:"question" gorm:"type:text"`
	Answer         string `json:"answer" gorm:"type:text"`
}

package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentEnrolled  = "enrolled"
	EnrollmentCompleted = "completed"
)

// Module statuses
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Enrollment tracks a user's registration in a course
type Enrollment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID    uint       `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	Status      string     `json:"status" gorm:"default:'enrolled'"` // enrolled, completed
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// ModuleStatus tracks per-module progress within one enrollment
type ModuleStatus struct {
	gorm.Model
	EnrollmentID uint       `json:"enrollment_id" gorm:"uniqueIndex:idx_enrollment_module;not null"`
	ModuleID     uint       `json:"module_id" gorm:"uniqueIndex:idx_enrollment_module;not null"`
	Status       string     `json:"status" gorm:"default:'not_started'"` // not_started, in_progress, completed
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

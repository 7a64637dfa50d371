package models

import (
	"time"

	"gorm.io/gorm"
)

// Badge is either a frequent badge (NumCoursesCompleted set) or a
// specific-course badge (CourseID set).
type Badge struct {
	gorm.Model
	OrganisationID      uint   `json:"organisation_id" gorm:"index;not null"`
	Name                string `json:"name" gorm:"not null"`
	Description         string `json:"description"`
	NumCoursesCompleted *int   `json:"num_courses_completed"`
	CourseID            *uint  `json:"course_id" gorm:"index"`
}

type UserBadge struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	BadgeID   uint      `json:"badge_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	AwardedAt time.Time `json:"awarded_at"`
}

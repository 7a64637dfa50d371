package course

import (
	"gorm.io/gorm"
)

// Course represents a learning course owned by an organisation
type Course struct {
	gorm.Model
	OrganisationID uint   `json:"organisation_id" gorm:"uniqueIndex:idx_org_course_name;not null"`
	Name           string `json:"name" gorm:"uniqueIndex:idx_org_course_name;not null"`
	Description    string `json:"description"`
	CreatedBy      uint   `json:"created_by" gorm:"index"`
}

// CourseChannel pairs a course with an optional channel and level
type CourseChannel struct {
	gorm.Model
	CourseID  uint  `json:"course_id" gorm:"uniqueIndex;not null"`
	ChannelID uint  `json:"channel_id" gorm:"index;not null"`
	LevelID   *uint `json:"level_id" gorm:"index"`
}

type CourseTag struct {
	gorm.Model
	CourseID uint `json:"course_id" gorm:"uniqueIndex:idx_course_tag;not null"`
	TagID    uint `json:"tag_id" gorm:"uniqueIndex:idx_course_tag;not null"`
}

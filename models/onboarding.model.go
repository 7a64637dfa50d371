package models

import (
	"gorm.io/gorm"
)

type OnboardingQuestion struct {
	gorm.Model
	OrganisationID uint   `json:"organisation_id" gorm:"index;not null"`
	QuestionText   string `json:"question_text" gorm:"not null"`
	Position       int    `json:"position" gorm:"default:0"`
}

// OnboardingQuestionOption may tag a skill, channel or level; selecting it
// feeds the learner's derived preferences.
type OnboardingQuestionOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text" gorm:"not null"`
	TagID      *uint  `json:"tag_id" gorm:"index"`
	SkillID    *uint  `json:"skill_id" gorm:"index"`
	ChannelID  *uint  `json:"channel_id" gorm:"index"`
	LevelID    *uint  `json:"level_id" gorm:"index"`
}

type OnboardingResponse struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_user_option;not null"`
	OptionID uint `json:"option_id" gorm:"uniqueIndex:idx_user_option;not null"`
}

// UserChannel is an explicit learner-set channel preference. It outranks
// onboarding-derived channels in recommendation scoring.
type UserChannel struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"uniqueIndex:idx_user_channel;not null"`
	ChannelID uint `json:"channel_id" gorm:"uniqueIndex:idx_user_channel;not null"`
	Rank      int  `json:"rank" gorm:"default:0"`
}

// UserLevel is an explicit learner-set level preference
type UserLevel struct {
	gorm.Model
	UserID  uint `json:"user_id" gorm:"uniqueIndex:idx_user_level;not null"`
	LevelID uint `json:"level_id" gorm:"uniqueIndex:idx_user_level;not null"`
	Rank    int  `json:"rank" gorm:"default:0"`
}

// UserSkill is a self-declared skill with a proficiency level
type UserSkill struct {
	gorm.Model
	UserID  uint   `json:"user_id" gorm:"uniqueIndex:idx_user_skill;not null"`
	SkillID uint   `json:"skill_id" gorm:"uniqueIndex:idx_user_skill;not null"`
	Level   string `json:"level" gorm:"default:'beginner'"` // beginner, intermediate, advanced, expert
}

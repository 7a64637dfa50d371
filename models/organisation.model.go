package models

import (
	"gorm.io/gorm"
)

type Organisation struct {
	gorm.Model
	Name      string `json:"organisation_name" gorm:"unique;not null"`
	AiEnabled bool   `json:"ai_enabled" gorm:"default:false"`
}

// OrganisationUser links a user to their single organisation with a role.
type OrganisationUser struct {
	gorm.Model
	UserID         uint         `json:"user_id" gorm:"uniqueIndex;not null"`
	OrganisationID uint         `json:"organisation_id" gorm:"index;not null"`
	Role           string       `json:"role" gorm:"default:'employee'"` // admin, employee
	User           User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Organisation   Organisation `gorm:"foreignKey:OrganisationID;constraint:OnDelete:CASCADE"`
}

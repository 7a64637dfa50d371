package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityLog records a user action for the org activity feed
type ActivityLog struct {
	gorm.Model
	UserID          uint           `json:"user_id" gorm:"index;not null"`
	OrganisationID  uint           `json:"organisation_id" gorm:"index;not null"`
	Action          string         `json:"action" gorm:"not null"`
	Metadata        datatypes.JSON `json:"metadata"`
	DisplayMetadata datatypes.JSON `json:"display_metadata"`
}

package models

import (
	"gorm.io/gorm"
)

type Skill struct {
	gorm.Model
	OrganisationID uint   `json:"organisation_id" gorm:"uniqueIndex:idx_org_skill_name;not null"`
	Name           string `json:"name" gorm:"uniqueIndex:idx_org_skill_name;not null"`
	Description    string `json:"description"`
}

type Channel struct {
	gorm.Model
	OrganisationID uint   `json:"organisation_id" gorm:"uniqueIndex:idx_org_channel_name;not null"`
	Name           string `json:"name" gorm:"uniqueIndex:idx_org_channel_name;not null"`
	Description    string `json:"description"`
}

type Level struct {
	gorm.Model
	OrganisationID uint   `json:"organisation_id" gorm:"uniqueIndex:idx_org_level_name;not null"`
	Name           string `json:"name" gorm:"uniqueIndex:idx_org_level_name;not null"`
	Description    string `json:"description"`
	SortOrder      int    `json:"sort_order" gorm:"default:0"`
}

type Tag struct {
	gorm.Model
	OrganisationID uint   `json:"organisation_id" gorm:"uniqueIndex:idx_org_tag_name;not null"`
	Name           string `json:"name" gorm:"uniqueIndex:idx_org_tag_name;not null"`
}

package models

import (
	"gorm.io/gorm"
)

// Roadmap is a learner-owned ordered list of recommended modules
type Roadmap struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"index;not null"`
	Name   string `json:"name" gorm:"not null"`
}

type RoadmapItem struct {
	gorm.Model
	RoadmapID uint `json:"roadmap_id" gorm:"uniqueIndex:idx_roadmap_module;not null"`
	ModuleID  uint `json:"module_id" gorm:"uniqueIndex:idx_roadmap_module;not null"`
	Position  int  `json:"position" gorm:"default:0"`
}

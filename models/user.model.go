package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email                  string `json:"email" gorm:"unique;not null"`
	PasswordHash           string `json:"-" gorm:"not null"`
	Firstname              string `json:"firstname" gorm:"default:''"`
	Lastname               string `json:"lastname" gorm:"default:''"`
	HasCompletedOnboarding bool   `json:"has_completed_onboarding" gorm:"default:false"`
}

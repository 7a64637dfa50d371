package course

import (
	"gorm.io/gorm"
)

// Module types
const (
	ModuleTypeVideo = "video"
	ModuleTypePdf   = "pdf"
	ModuleTypeSlide = "slide"
	ModuleTypeQuiz  = "quiz"
)

// Module is a single content unit inside a course. Non-quiz modules carry a
// file reference; quiz modules own a revision -> quiz -> questions -> options chain.
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ModuleType  string `json:"module_type" gorm:"default:'video'"` // video, pdf, slide, quiz
	Position    int    `json:"position" gorm:"default:0"`
	FileURL     string `json:"file_url"`
}

type ModuleSkill struct {
	gorm.Model
	ModuleID uint `json:"module_id" gorm:"uniqueIndex:idx_module_skill;not null"`
	SkillID  uint `json:"skill_id" gorm:"uniqueIndex:idx_module_skill;not null"`
}

type ModuleTag struct {
	gorm.Model
	ModuleID uint `json:"module_id" gorm:"uniqueIndex:idx_module_tag;not null"`
	TagID    uint `json:"tag_id" gorm:"uniqueIndex:idx_module_tag;not null"`
}

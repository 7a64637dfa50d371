package course

import (
	"gorm.io/gorm"
)

// Revision is a versioned snapshot of a quiz module's question set. A quiz
// module has exactly one current revision; editing quiz content replaces it.
type Revision struct {
	gorm.Model
	ModuleID uint `json:"module_id" gorm:"index;not null"`
	Version  int  `json:"version" gorm:"default:1"`
}

type Quiz struct {
	gorm.Model
	RevisionID uint   `json:"revision_id" gorm:"index;not null"`
	Title      string `json:"title"`
}

type Question struct {
	gorm.Model
	QuizID       uint   `json:"quiz_id" gorm:"index;not null"`
	QuestionText string `json:"question_text"`
	Position     int    `json:"position" gorm:"default:0"`
}

type QuestionOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
}

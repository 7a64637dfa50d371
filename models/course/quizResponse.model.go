package course

import (
	"time"

	"gorm.io/gorm"
)

// QuizResponse is one submission attempt for a quiz
type QuizResponse struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	QuizID      uint      `json:"quiz_id" gorm:"index;not null"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// QuizAnswer is one (question, selected option) pair within a response. A
// question with several selected options yields several answer rows.
type QuizAnswer struct {
	gorm.Model
	ResponseID       uint `json:"response_id" gorm:"index;not null"`
	QuestionID       uint `json:"question_id" gorm:"index;not null"`
	SelectedOptionID uint `json:"selected_option_id" gorm:"index;not null"`
}

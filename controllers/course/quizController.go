package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubmitQuiz records a quiz attempt and force-completes the module's status
// for the learner regardless of its prior state.
func SubmitQuiz(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		QuizID  uint `json:"quizId"`
		Answers []struct {
			QuestionID        uint   `json:"questionId"`
			SelectedOptionIDs []uint `json:"selectedOptionIds"`
		} `json:"answers"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.QuizID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "quizId is required!", nil)
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.First(&quiz, reqData.QuizID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	var revision courseModels.Revision
	if err := database.Database.Db.First(&revision, quiz.RevisionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	status, err := findUserModuleStatus(session.UserID, revision.ModuleID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not enrolled in this module's course!", nil)
	}

	for _, answer := range reqData.Answers {
		var question courseModels.Question
		if err := database.Database.Db.Where("id = ? AND quiz_id = ?", answer.QuestionID, quiz.ID).
			First(&question).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answer references an unknown question!", nil)
		}
		for _, optionID := range answer.SelectedOptionIDs {
			var option courseModels.QuestionOption
			if err := database.Database.Db.Where("id = ? AND question_id = ?", optionID, answer.QuestionID).
				First(&option).Error; err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answer references an unknown option!", nil)
			}
		}
	}

	tx := database.Database.Db.Begin()

	response := courseModels.QuizResponse{
		UserID:      session.UserID,
		QuizID:      quiz.ID,
		SubmittedAt: time.Now(),
	}
	if err := tx.Create(&response).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	for _, answer := range reqData.Answers {
		for _, optionID := range answer.SelectedOptionIDs {
			row := courseModels.QuizAnswer{
				ResponseID:       response.ID,
				QuestionID:       answer.QuestionID,
				SelectedOptionID: optionID,
			}
			if err := tx.Create(&row).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
			}
		}
	}

	// submitting always completes the module
	now := time.Now()
	status.Status = courseModels.StatusCompleted
	if status.StartedAt == nil {
		status.StartedAt = &now
	}
	status.CompletedAt = &now
	if err := tx.Save(status).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	tx.Commit()

	result, err := gradeResponse(database.Database.Db, response.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully!", result)
}

// GetQuizResult grades the user's latest response to a quiz
func GetQuizResult(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	quizID, err := c.ParamsInt("quizId")
	if err != nil || quizID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "quizId is required!", nil)
	}

	var response courseModels.QuizResponse
	if err := database.Database.Db.Where("user_id = ? AND quiz_id = ?", session.UserID, quizID).
		Order("submitted_at DESC, id DESC").First(&response).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No response found for this quiz!", nil)
	}

	result, err := gradeResponse(database.Database.Db, response.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz result fetched successfully!", result)
}

type optionView struct {
	ID         uint   `json:"id"`
	OptionText string `json:"option_text"`
}

type questionResult struct {
	QuestionID      uint         `json:"question_id"`
	QuestionText    string       `json:"question_text"`
	Correct         bool         `json:"correct"`
	CorrectOptions  []optionView `json:"correct_options"`
	SelectedOptions []optionView `json:"selected_options"`
}

type quizResult struct {
	ResponseID     uint             `json:"response_id"`
	QuizID         uint             `json:"quiz_id"`
	TotalQuestions int              `json:"total_questions"`
	CorrectCount   int              `json:"correct_count"`
	Score          float64          `json:"score"`
	Questions      []questionResult `json:"questions"`
	SubmittedAt    time.Time        `json:"submitted_at"`
}

// gradeResponse recomputes a stored response's score on demand. A question is
// correct when the selected option id set equals the correct option id set.
func gradeResponse(db *gorm.DB, responseID uint) (*quizResult, error) {
	var response courseModels.QuizResponse
	if err := db.First(&response, responseID).Error; err != nil {
		return nil, err
	}

	var questions []courseModels.Question
	if err := db.Where("quiz_id = ?", response.QuizID).Order("position").Find(&questions).Error; err != nil {
		return nil, err
	}

	var answers []courseModels.QuizAnswer
	if err := db.Where("response_id = ?", response.ID).Find(&answers).Error; err != nil {
		return nil, err
	}
	selectedByQuestion := make(map[uint]map[uint]bool)
	for _, answer := range answers {
		if selectedByQuestion[answer.QuestionID] == nil {
			selectedByQuestion[answer.QuestionID] = make(map[uint]bool)
		}
		selectedByQuestion[answer.QuestionID][answer.SelectedOptionID] = true
	}

	result := &quizResult{
		ResponseID:     response.ID,
		QuizID:         response.QuizID,
		TotalQuestions: len(questions),
		SubmittedAt:    response.SubmittedAt,
	}

	for _, question := range questions {
		var options []courseModels.QuestionOption
		if err := db.Where("question_id = ?", question.ID).Order("id").Find(&options).Error; err != nil {
			return nil, err
		}
		selected := selectedByQuestion[question.ID]

		correctSet := make(map[uint]bool)
		correctOptions := []optionView{}
		selectedOptions := []optionView{}
		for _, option := range options {
			if option.IsCorrect {
				correctSet[option.ID] = true
				correctOptions = append(correctOptions, optionView{ID: option.ID, OptionText: option.OptionText})
			}
			if selected[option.ID] {
				selectedOptions = append(selectedOptions, optionView{ID: option.ID, OptionText: option.OptionText})
			}
		}

		correct := len(selected) == len(correctSet)
		if correct {
			for id := range correctSet {
				if !selected[id] {
					correct = false
					break
				}
			}
		}

		if correct {
			result.CorrectCount++
		}
		result.Questions = append(result.Questions, questionResult{
			QuestionID:      question.ID,
			QuestionText:    question.QuestionText,
			Correct:         correct,
			CorrectOptions:  correctOptions,
			SelectedOptions: selectedOptions,
		})
	}

	if result.TotalQuestions > 0 {
		result.Score = float64(result.CorrectCount) / float64(result.TotalQuestions) * 100
	}
	return result, nil
}

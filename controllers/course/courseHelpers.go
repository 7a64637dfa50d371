package controllers

import (
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// moduleIDsForCourse returns the ids of every module in a course
func moduleIDsForCourse(tx *gorm.DB, courseID uint) ([]uint, error) {
	var moduleIDs []uint
	err := tx.Model(&courseModels.Module{}).Where("course_id = ?", courseID).Pluck("id", &moduleIDs).Error
	return moduleIDs, err
}

// quizIDsForModule resolves every quiz backing a module through its revisions
func quizIDsForModule(tx *gorm.DB, moduleID uint) ([]uint, error) {
	var quizIDs []uint
	err := tx.Model(&courseModels.Quiz{}).
		Joins("JOIN revisions ON revisions.id = quizzes.revision_id").
		Where("revisions.module_id = ?", moduleID).
		Pluck("quizzes.id", &quizIDs).Error
	return quizIDs, err
}

// purgeQuizResponses deletes responses (and their answers) for the given
// quizzes, optionally restricted to one user.
func purgeQuizResponses(tx *gorm.DB, quizIDs []uint, userID uint) error {
	if len(quizIDs) == 0 {
		return nil
	}

	query := tx.Model(&courseModels.QuizResponse{}).Where("quiz_id IN ?", quizIDs)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	var responseIDs []uint
	if err := query.Pluck("id", &responseIDs).Error; err != nil {
		return err
	}
	if len(responseIDs) == 0 {
		return nil
	}

	if err := tx.Unscoped().Where("response_id IN ?", responseIDs).Delete(&courseModels.QuizAnswer{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("id IN ?", responseIDs).Delete(&courseModels.QuizResponse{}).Error
}

// deleteQuizChain removes the revision -> quiz -> question -> option aggregate
// of a module along with every stored response.
func deleteQuizChain(tx *gorm.DB, moduleID uint) error {
	quizIDs, err := quizIDsForModule(tx, moduleID)
	if err != nil {
		return err
	}

	if err := purgeQuizResponses(tx, quizIDs, 0); err != nil {
		return err
	}

	if len(quizIDs) > 0 {
		var questionIDs []uint
		if err := tx.Model(&courseModels.Question{}).Where("quiz_id IN ?", quizIDs).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Unscoped().Where("question_id IN ?", questionIDs).
				Delete(&courseModels.QuestionOption{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("quiz_id IN ?", quizIDs).Delete(&courseModels.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("id IN ?", quizIDs).Delete(&courseModels.Quiz{}).Error; err != nil {
			return err
		}
	}

	return tx.Unscoped().Where("module_id = ?", moduleID).Delete(&courseModels.Revision{}).Error
}

// createQuizChain writes a fresh revision -> quiz -> questions -> options
// aggregate for a quiz module.
func createQuizChain(tx *gorm.DB, moduleID uint, version int, payload *QuizPayload) error {
	revision := courseModels.Revision{ModuleID: moduleID, Version: version}
	if err := tx.Create(&revision).Error; err != nil {
		return err
	}

	quiz := courseModels.Quiz{RevisionID: revision.ID, Title: payload.Title}
	if err := tx.Create(&quiz).Error; err != nil {
		return err
	}

	for i, q := range payload.Questions {
		question := courseModels.Question{
			QuizID:       quiz.ID,
			QuestionText: q.QuestionText,
			Position:     i + 1,
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for _, o := range q.Options {
			option := courseModels.QuestionOption{
				QuestionID: question.ID,
				OptionText: o.OptionText,
				IsCorrect:  o.IsCorrect,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// deleteModuleData removes a module and everything hanging off it
func deleteModuleData(tx *gorm.DB, moduleID uint) error {
	if err := deleteQuizChain(tx, moduleID); err != nil {
		return err
	}
	if err := tx.Unscoped().Where("module_id = ?", moduleID).Delete(&courseModels.ModuleStatus{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("module_id = ?", moduleID).Delete(&courseModels.ModuleSkill{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("module_id = ?", moduleID).Delete(&courseModels.ModuleTag{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("id = ?", moduleID).Delete(&courseModels.Module{}).Error
}

// seedModuleStatuses inserts a not_started row for every module of a course
// under the given enrollment, skipping pairs that already exist.
func seedModuleStatuses(tx *gorm.DB, enrollmentID, courseID uint) error {
	moduleIDs, err := moduleIDsForCourse(tx, courseID)
	if err != nil {
		return err
	}

	for _, moduleID := range moduleIDs {
		var existing courseModels.ModuleStatus
		if err := tx.Where("enrollment_id = ? AND module_id = ?", enrollmentID, moduleID).
			First(&existing).Error; err == nil {
			continue
		}
		status := courseModels.ModuleStatus{
			EnrollmentID: enrollmentID,
			ModuleID:     moduleID,
			Status:       courseModels.StatusNotStarted,
		}
		if err := tx.Create(&status).Error; err != nil {
			return err
		}
	}

	return nil
}

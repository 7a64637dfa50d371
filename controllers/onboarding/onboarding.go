package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// CreateOnboardingQuestion adds a question with its options. Each option may
// point at a tag, skill, channel or level that selecting it will derive.
func CreateOnboardingQuestion(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		QuestionText string `json:"questionText"`
		Position     int    `json:"position"`
		Options      []struct {
			OptionText string `json:"optionText"`
			TagID      *uint  `json:"tagId"`
			SkillID    *uint  `json:"skillId"`
			ChannelID  *uint  `json:"channelId"`
			LevelID    *uint  `json:"levelId"`
		} `json:"options"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.QuestionText == "" || len(reqData.Options) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "questionText and options are required!", nil)
	}

	tx := database.Database.Db.Begin()

	question := models.OnboardingQuestion{
		OrganisationID: session.Organisation.ID,
		QuestionText:   reqData.QuestionText,
		Position:       reqData.Position,
	}
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	for _, o := range reqData.Options {
		if o.OptionText == "" {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Option text is required!", nil)
		}
		option := models.OnboardingQuestionOption{
			QuestionID: question.ID,
			OptionText: o.OptionText,
			TagID:      o.TagID,
			SkillID:    o.SkillID,
			ChannelID:  o.ChannelID,
			LevelID:    o.LevelID,
		}
		if err := tx.Create(&option).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
		}
	}

	tx.Commit()
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created successfully!", question)
}

// AddOnboardingQuestionOption appends an option to an existing question. Any
// referenced tag, skill, channel or level must belong to the organisation.
func AddOnboardingQuestionOption(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		QuestionID uint   `json:"questionId"`
		OptionText string `json:"optionText"`
		TagID      *uint  `json:"tagId"`
		SkillID    *uint  `json:"skillId"`
		ChannelID  *uint  `json:"channelId"`
		LevelID    *uint  `json:"levelId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.QuestionID == 0 || reqData.OptionText == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "questionId and optionText are required!", nil)
	}

	var question models.OnboardingQuestion
	if err := database.Database.Db.Where("id = ? AND organisation_id = ?", reqData.QuestionID, session.Organisation.ID).
		First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	orgID := session.Organisation.ID
	if reqData.TagID != nil {
		var tag models.Tag
		if err := database.Database.Db.Where("id = ? AND organisation_id = ?", *reqData.TagID, orgID).First(&tag).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tag not found!", nil)
		}
	}
	if reqData.SkillID != nil {
		var skill models.Skill
		if err := database.Database.Db.Where("id = ? AND organisation_id = ?", *reqData.SkillID, orgID).First(&skill).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Skill not found!", nil)
		}
	}
	if reqData.ChannelID != nil {
		var channel models.Channel
		if err := database.Database.Db.Where("id = ? AND organisation_id = ?", *reqData.ChannelID, orgID).First(&channel).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Channel not found!", nil)
		}
	}
	if reqData.LevelID != nil {
		var level models.Level
		if err := database.Database.Db.Where("id = ? AND organisation_id = ?", *reqData.LevelID, orgID).First(&level).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Level not found!", nil)
		}
	}

	option := models.OnboardingQuestionOption{
		QuestionID: question.ID,
		OptionText: reqData.OptionText,
		TagID:      reqData.TagID,
		SkillID:    reqData.SkillID,
		ChannelID:  reqData.ChannelID,
		LevelID:    reqData.LevelID,
	}
	if err := database.Database.Db.Create(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Option created successfully!", option)
}

// ListOnboardingQuestions returns the organisation's questions with options,
// ordered by position.
func ListOnboardingQuestions(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var questions []models.OnboardingQuestion
	if err := database.Database.Db.Where("organisation_id = ?", session.Organisation.ID).
		Order("position").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	items := make([]fiber.Map, 0, len(questions))
	for _, question := range questions {
		var options []models.OnboardingQuestionOption
		database.Database.Db.Where("question_id = ?", question.ID).Order("id").Find(&options)
		items = append(items, fiber.Map{
			"id":           question.ID,
			"questionText": question.QuestionText,
			"position":     question.Position,
			"options":      options,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", fiber.Map{
		"questions": items,
	})
}

// DeleteOnboardingQuestion removes a question, its options and any responses
// pointing at them.
func DeleteOnboardingQuestion(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		QuestionID uint `json:"questionId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.QuestionID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "questionId is required!", nil)
	}

	var question models.OnboardingQuestion
	if err := database.Database.Db.Where("id = ? AND organisation_id = ?", reqData.QuestionID, session.Organisation.ID).
		First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	tx := database.Database.Db.Begin()

	var optionIDs []uint
	if err := tx.Model(&models.OnboardingQuestionOption{}).Where("question_id = ?", question.ID).
		Pluck("id", &optionIDs).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}
	if len(optionIDs) > 0 {
		if err := tx.Unscoped().Where("option_id IN ?", optionIDs).
			Delete(&models.OnboardingResponse{}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
		}
	}
	if err := tx.Unscoped().Where("question_id = ?", question.ID).
		Delete(&models.OnboardingQuestionOption{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}
	if err := tx.Unscoped().Delete(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}

	tx.Commit()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}

// SubmitOnboarding replaces the user's onboarding answers, derives channel,
// level and skill preferences from the selected options and marks onboarding
// complete.
func SubmitOnboarding(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		OptionIDs []uint `json:"optionIds"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if len(reqData.OptionIDs) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "optionIds are required!", nil)
	}

	options := make([]models.OnboardingQuestionOption, 0, len(reqData.OptionIDs))
	for _, optionID := range reqData.OptionIDs {
		var option models.OnboardingQuestionOption
		if err := database.Database.Db.First(&option, optionID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Option not found!", nil)
		}
		options = append(options, option)
	}

	tx := database.Database.Db.Begin()

	if err := tx.Unscoped().Where("user_id = ?", session.UserID).
		Delete(&models.OnboardingResponse{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit onboarding!", nil)
	}

	for _, option := range options {
		response := models.OnboardingResponse{UserID: session.UserID, OptionID: option.ID}
		if err := tx.Create(&response).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit onboarding!", nil)
		}

		if option.SkillID != nil {
			var existing models.UserSkill
			if err := tx.Where("user_id = ? AND skill_id = ?", session.UserID, *option.SkillID).
				First(&existing).Error; err != nil {
				userSkill := models.UserSkill{UserID: session.UserID, SkillID: *option.SkillID, Level: "beginner"}
				if err := tx.Create(&userSkill).Error; err != nil {
					tx.Rollback()
					return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit onboarding!", nil)
				}
			}
		}
	}

	if err := tx.Model(&models.User{}).Where("id = ?", session.UserID).
		Update("has_completed_onboarding", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit onboarding!", nil)
	}

	tx.Commit()

	session.HasCompletedOnboarding = true
	if err := middleware.SetAuthCookie(c, session); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Onboarding submitted successfully!", nil)
}

// GetOnboardingStatus returns whether the user has completed onboarding and
// their stored answers.
func GetOnboardingStatus(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var user models.User
	if err := database.Database.Db.First(&user, session.UserID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var optionIDs []uint
	database.Database.Db.Model(&models.OnboardingResponse{}).
		Where("user_id = ?", session.UserID).Pluck("option_id", &optionIDs)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Onboarding status fetched successfully!", fiber.Map{
		"hasCompletedOnboarding": user.HasCompletedOnboarding,
		"selectedOptionIds":      optionIDs,
	})
}

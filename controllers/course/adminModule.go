package controllers

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

var validModuleTypes = map[string]bool{
	courseModels.ModuleTypeVideo: true,
	courseModels.ModuleTypePdf:   true,
	courseModels.ModuleTypeSlide: true,
	courseModels.ModuleTypeQuiz:  true,
}

// OptionPayload is one answer option of a quiz question
type OptionPayload struct {
	OptionText string `json:"optionText"`
	IsCorrect  bool   `json:"isCorrect"`
}

// QuestionPayload is one question of a quiz module payload
type QuestionPayload struct {
	QuestionText string          `json:"questionText"`
	Options      []OptionPayload `json:"options"`
}

// QuizPayload is the quiz content supplied when creating or editing a quiz module
type QuizPayload struct {
	Title     string            `json:"title"`
	Questions []QuestionPayload `json:"questions"`
}

func validateQuizPayload(payload *QuizPayload) string {
	if payload == nil || len(payload.Questions) == 0 {
		return "Quiz must have at least one question!"
	}
	for _, q := range payload.Questions {
		if q.QuestionText == "" {
			return "Question text is required!"
		}
		if len(q.Options) < 2 {
			return "Each question needs at least two options!"
		}
		hasCorrect := false
		for _, o := range q.Options {
			if o.IsCorrect {
				hasCorrect = true
			}
		}
		if !hasCorrect {
			return "Each question needs a correct option!"
		}
	}
	return ""
}

// CreateModule adds a module to a course. New modules fan out a not_started
// status row to every existing enrollment of the course.
func CreateModule(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		CourseID    uint         `json:"courseId"`
		Title       string       `json:"title"`
		Description string       `json:"description"`
		ModuleType  string       `json:"moduleType"`
		FileURL     string       `json:"fileUrl"`
		SkillIDs    []uint       `json:"skillIds"`
		TagIDs      []uint       `json:"tagIds"`
		Quiz        *QuizPayload `json:"quiz"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.CourseID == 0 || reqData.Title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId and title are required!", nil)
	}
	if reqData.ModuleType == "" {
		reqData.ModuleType = courseModels.ModuleTypeVideo
	}
	if !validModuleTypes[reqData.ModuleType] {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module type!", nil)
	}
	if reqData.ModuleType == courseModels.ModuleTypeQuiz {
		if msg := validateQuizPayload(reqData.Quiz); msg != "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, msg, nil)
		}
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND organisation_id = ?", reqData.CourseID, session.Organisation.ID).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var maxPosition int
	database.Database.Db.Model(&courseModels.Module{}).Where("course_id = ?", course.ID).
		Select("COALESCE(MAX(position), 0)").Scan(&maxPosition)

	module := courseModels.Module{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		ModuleType:  reqData.ModuleType,
		Position:    maxPosition + 1,
		FileURL:     reqData.FileURL,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&module).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	for _, skillID := range reqData.SkillIDs {
		link := courseModels.ModuleSkill{ModuleID: module.ID, SkillID: skillID}
		if err := tx.Create(&link).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
		}
	}
	for _, tagID := range reqData.TagIDs {
		link := courseModels.ModuleTag{ModuleID: module.ID, TagID: tagID}
		if err := tx.Create(&link).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
		}
	}

	if reqData.ModuleType == courseModels.ModuleTypeQuiz {
		if err := createQuizChain(tx, module.ID, 1, reqData.Quiz); err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
		}
	}

	// existing learners pick the new module up as not_started
	var enrollmentIDs []uint
	if err := tx.Model(&courseModels.Enrollment{}).Where("course_id = ?", course.ID).
		Pluck("id", &enrollmentIDs).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}
	for _, enrollmentID := range enrollmentIDs {
		status := courseModels.ModuleStatus{
			EnrollmentID: enrollmentID,
			ModuleID:     module.ID,
			Status:       courseModels.StatusNotStarted,
		}
		if err := tx.Create(&status).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
		}
	}

	tx.Commit()

	utils.LogActivity(session.UserID, session.Organisation.ID, "create_module",
		map[string]interface{}{"moduleId": module.ID, "courseId": course.ID},
		map[string]interface{}{"Module Title": module.Title, "Course Name": course.Name})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// ListModules returns a course's modules ordered by position
func ListModules(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId is required!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND organisation_id = ?", courseID, session.Organisation.ID).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []courseModels.Module
	if err := database.Database.Db.Where("course_id = ?", course.ID).
		Order("position").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", fiber.Map{
		"course":  course,
		"modules": modules,
	})
}

// GetModule returns one module with its skills, tags and active quiz content
func GetModule(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	moduleID, err := c.ParamsInt("moduleId")
	if err != nil || moduleID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "moduleId is required!", nil)
	}

	module, ok := findOrgModule(c, uint(moduleID), session.Organisation.ID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var skillIDs, tagIDs []uint
	database.Database.Db.Model(&courseModels.ModuleSkill{}).Where("module_id = ?", module.ID).Pluck("skill_id", &skillIDs)
	database.Database.Db.Model(&courseModels.ModuleTag{}).Where("module_id = ?", module.ID).Pluck("tag_id", &tagIDs)

	data := fiber.Map{
		"module":   module,
		"skillIds": skillIDs,
		"tagIds":   tagIDs,
	}

	if module.ModuleType == courseModels.ModuleTypeQuiz {
		quiz, quizErr := loadActiveQuiz(module.ID)
		if quizErr != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch module!", nil)
		}
		data["quiz"] = quiz
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module fetched successfully!", data)
}

// UpdateModule edits a module. Metadata edits leave learner progress alone.
// Content edits (type, file or quiz content) reset every learner's status on
// the module to not_started and retire stored quiz responses.
func UpdateModule(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		ModuleID    uint         `json:"moduleId"`
		Title       string       `json:"title"`
		Description *string      `json:"description"`
		ModuleType  string       `json:"moduleType"`
		FileURL     *string      `json:"fileUrl"`
		Position    *int         `json:"position"`
		SkillIDs    *[]uint      `json:"skillIds"`
		TagIDs      *[]uint      `json:"tagIds"`
		Quiz        *QuizPayload `json:"quiz"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.ModuleID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "moduleId is required!", nil)
	}

	module, ok := findOrgModule(c, reqData.ModuleID, session.Organisation.ID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	contentEdit := false
	if reqData.ModuleType != "" && reqData.ModuleType != module.ModuleType {
		if !validModuleTypes[reqData.ModuleType] {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module type!", nil)
		}
		contentEdit = true
	}
	if reqData.FileURL != nil && *reqData.FileURL != module.FileURL {
		contentEdit = true
	}
	if reqData.Quiz != nil {
		contentEdit = true
	}

	newType := module.ModuleType
	if reqData.ModuleType != "" {
		newType = reqData.ModuleType
	}
	if newType == courseModels.ModuleTypeQuiz && reqData.Quiz != nil {
		if msg := validateQuizPayload(reqData.Quiz); msg != "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, msg, nil)
		}
	}
	if newType == courseModels.ModuleTypeQuiz && module.ModuleType != courseModels.ModuleTypeQuiz && reqData.Quiz == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz content is required for quiz modules!", nil)
	}

	tx := database.Database.Db.Begin()

	if reqData.Title != "" {
		module.Title = reqData.Title
	}
	if reqData.Description != nil {
		module.Description = *reqData.Description
	}
	module.ModuleType = newType
	if reqData.FileURL != nil {
		module.FileURL = *reqData.FileURL
	}
	if reqData.Position != nil {
		module.Position = *reqData.Position
	}
	if err := tx.Save(module).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	if reqData.SkillIDs != nil {
		if err := tx.Unscoped().Where("module_id = ?", module.ID).Delete(&courseModels.ModuleSkill{}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
		}
		for _, skillID := range *reqData.SkillIDs {
			link := courseModels.ModuleSkill{ModuleID: module.ID, SkillID: skillID}
			if err := tx.Create(&link).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
			}
		}
	}
	if reqData.TagIDs != nil {
		if err := tx.Unscoped().Where("module_id = ?", module.ID).Delete(&courseModels.ModuleTag{}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
		}
		for _, tagID := range *reqData.TagIDs {
			link := courseModels.ModuleTag{ModuleID: module.ID, TagID: tagID}
			if err := tx.Create(&link).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
			}
		}
	}

	if contentEdit {
		var latestVersion int
		tx.Model(&courseModels.Revision{}).Where("module_id = ?", module.ID).
			Select("COALESCE(MAX(version), 0)").Scan(&latestVersion)

		if err := deleteQuizChain(tx, module.ID); err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
		}
		if newType == courseModels.ModuleTypeQuiz && reqData.Quiz != nil {
			if err := createQuizChain(tx, module.ID, latestVersion+1, reqData.Quiz); err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
			}
		}

		if err := tx.Model(&courseModels.ModuleStatus{}).Where("module_id = ?", module.ID).
			Updates(map[string]interface{}{
				"status":       courseModels.StatusNotStarted,
				"started_at":   nil,
				"completed_at": nil,
			}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
		}
	}

	tx.Commit()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// DeleteModule removes a module and its progress, quiz chain and roadmap items
func DeleteModule(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		ModuleID uint `json:"moduleId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.ModuleID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "moduleId is required!", nil)
	}

	module, ok := findOrgModule(c, reqData.ModuleID, session.Organisation.ID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	tx := database.Database.Db.Begin()
	if err := tx.Unscoped().Where("module_id = ?", module.ID).Delete(&models.RoadmapItem{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}
	if err := deleteModuleData(tx, module.ID); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// UploadModuleFile stores an uploaded file and points the module at it
func UploadModuleFile(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	moduleID, err := c.ParamsInt("moduleId")
	if err != nil || moduleID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "moduleId is required!", nil)
	}

	module, ok := findOrgModule(c, uint(moduleID), session.Organisation.ID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File is required!", nil)
	}

	filename, err := utils.SaveUploadedFile(fileHeader, config.AppConfig.UploadDir)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save file!", nil)
	}

	module.FileURL = utils.GetFileURL(filename)
	if err := database.Database.Db.Save(module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "File uploaded successfully!", fiber.Map{
		"fileUrl": module.FileURL,
	})
}

// findOrgModule loads a module and checks its course belongs to the organisation
func findOrgModule(c *fiber.Ctx, moduleID, organisationID uint) (*courseModels.Module, bool) {
	var module courseModels.Module
	if err := database.Database.Db.First(&module, moduleID).Error; err != nil {
		return nil, false
	}
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND organisation_id = ?", module.CourseID, organisationID).
		First(&course).Error; err != nil {
		return nil, false
	}
	return &module, true
}

// loadActiveQuiz returns the quiz content of the module's latest revision
func loadActiveQuiz(moduleID uint) (fiber.Map, error) {
	var revision courseModels.Revision
	if err := database.Database.Db.Where("module_id = ?", moduleID).
		Order("version DESC").First(&revision).Error; err != nil {
		return nil, nil
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("revision_id = ?", revision.ID).First(&quiz).Error; err != nil {
		return nil, nil
	}

	var questions []courseModels.Question
	if err := database.Database.Db.Where("quiz_id = ?", quiz.ID).
		Order("position").Find(&questions).Error; err != nil {
		return nil, err
	}

	questionMaps := make([]fiber.Map, 0, len(questions))
	for _, question := range questions {
		var options []courseModels.QuestionOption
		if err := database.Database.Db.Where("question_id = ?", question.ID).
			Order("id").Find(&options).Error; err != nil {
			return nil, err
		}
		optionMaps := make([]fiber.Map, 0, len(options))
		for _, option := range options {
			optionMaps = append(optionMaps, fiber.Map{
				"id":         option.ID,
				"optionText": option.OptionText,
			})
		}
		questionMaps = append(questionMaps, fiber.Map{
			"id":           question.ID,
			"questionText": question.QuestionText,
			"position":     question.Position,
			"options":      optionMaps,
		})
	}

	return fiber.Map{
		"id":        quiz.ID,
		"title":     quiz.Title,
		"version":   revision.Version,
		"questions": questionMaps,
	}, nil
}

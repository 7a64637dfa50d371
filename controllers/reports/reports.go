package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const strengthThreshold = 80.0

type skillScore struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// GetMyReport returns the learner's own progress report: per-course progress,
// quiz performance and strengths/weaknesses across skills and tags.
func GetMyReport(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	return buildUserReport(c, session.UserID, session.Organisation.ID)
}

// GetUserReport returns another user's report. Admin only, enforced at the
// router.
func GetUserReport(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	userID, err := c.ParamsInt("userId")
	if err != nil || userID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId is required!", nil)
	}

	var membership models.OrganisationUser
	if err := database.Database.Db.Where("user_id = ? AND organisation_id = ?", userID, session.Organisation.ID).
		First(&membership).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found in organisation!", nil)
	}

	return buildUserReport(c, uint(userID), session.Organisation.ID)
}

func buildUserReport(c *fiber.Ctx, userID, organisationID uint) error {
	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.Model(&courseModels.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.user_id = ? AND courses.organisation_id = ?", userID, organisationID).
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build report!", nil)
	}

	courses := make([]fiber.Map, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var course courseModels.Course
		if err := db.First(&course, enrollment.CourseID).Error; err != nil {
			continue
		}
		var total, completed int64
		db.Model(&courseModels.ModuleStatus{}).Where("enrollment_id = ?", enrollment.ID).Count(&total)
		db.Model(&courseModels.ModuleStatus{}).
			Where("enrollment_id = ? AND status = ?", enrollment.ID, courseModels.StatusCompleted).Count(&completed)

		courses = append(courses, fiber.Map{
			"courseId":         course.ID,
			"courseName":       course.Name,
			"status":           enrollment.Status,
			"totalModules":     total,
			"completedModules": completed,
		})
	}

	skillScores, tagScores, quizzes, err := scoreUserQuizzes(db, userID, organisationID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build report!", nil)
	}

	skillStrengths, skillWeaknesses := splitByThreshold(skillScores)
	tagStrengths, tagWeaknesses := splitByThreshold(tagScores)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Report built successfully!", fiber.Map{
		"courses":         courses,
		"quizzes":         quizzes,
		"skillStrengths":  skillStrengths,
		"skillWeaknesses": skillWeaknesses,
		"tagStrengths":    tagStrengths,
		"tagWeaknesses":   tagWeaknesses,
	})
}

// GetAdminOverview summarises the organisation: per-course enrollment and
// completion counts, module type breakdown and per-employee rollups.
func GetAdminOverview(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	db := database.Database.Db

	var courses []courseModels.Course
	if err := db.Where("organisation_id = ?", session.Organisation.ID).Order("name").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build overview!", nil)
	}

	courseRows := make([]fiber.Map, 0, len(courses))
	moduleTypeCounts := map[string]int64{}
	for _, course := range courses {
		var enrolled, completed int64
		db.Model(&courseModels.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrolled)
		db.Model(&courseModels.Enrollment{}).
			Where("course_id = ? AND status = ?", course.ID, courseModels.EnrollmentCompleted).Count(&completed)

		type typeCount struct {
			ModuleType string
			Count      int64
		}
		var typeCounts []typeCount
		db.Model(&courseModels.Module{}).
			Select("module_type, COUNT(*) AS count").
			Where("course_id = ?", course.ID).
			Group("module_type").
			Scan(&typeCounts)

		courseTypes := fiber.Map{}
		for _, tc := range typeCounts {
			courseTypes[tc.ModuleType] = tc.Count
			moduleTypeCounts[tc.ModuleType] += tc.Count
		}

		courseRows = append(courseRows, fiber.Map{
			"courseId":    course.ID,
			"courseName":  course.Name,
			"enrolled":    enrolled,
			"completed":   completed,
			"moduleTypes": courseTypes,
		})
	}

	type memberRow struct {
		UserID    uint   `json:"user_id"`
		Email     string `json:"email"`
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
		Role      string `json:"role"`
	}
	var members []memberRow
	if err := db.Model(&models.OrganisationUser{}).
		Select("organisation_users.user_id, users.email, users.firstname, users.lastname, organisation_users.role").
		Joins("JOIN users ON users.id = organisation_users.user_id").
		Where("organisation_users.organisation_id = ?", session.Organisation.ID).
		Scan(&members).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build overview!", nil)
	}

	employees := make([]fiber.Map, 0, len(members))
	for _, member := range members {
		var enrolled, completed int64
		db.Model(&courseModels.Enrollment{}).
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("enrollments.user_id = ? AND courses.organisation_id = ?", member.UserID, session.Organisation.ID).
			Count(&enrolled)
		db.Model(&courseModels.Enrollment{}).
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("enrollments.user_id = ? AND courses.organisation_id = ? AND enrollments.status = ?",
				member.UserID, session.Organisation.ID, courseModels.EnrollmentCompleted).
			Count(&completed)

		employees = append(employees, fiber.Map{
			"userId":           member.UserID,
			"email":            member.Email,
			"firstname":        member.Firstname,
			"lastname":         member.Lastname,
			"role":             member.Role,
			"enrolledCourses":  enrolled,
			"completedCourses": completed,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Overview built successfully!", fiber.Map{
		"courses":          courseRows,
		"employees":        employees,
		"moduleTypeCounts": moduleTypeCounts,
	})
}

// scoreUserQuizzes grades the user's latest response per quiz and aggregates
// per-question correctness onto the skills and tags of each quiz's module.
func scoreUserQuizzes(db *gorm.DB, userID, organisationID uint) (map[uint]*skillScore, map[uint]*skillScore, []fiber.Map, error) {
	var responses []courseModels.QuizResponse
	if err := db.Where("user_id = ?", userID).
		Order("submitted_at DESC, id DESC").Find(&responses).Error; err != nil {
		return nil, nil, nil, err
	}

	// keep only the latest response per quiz
	latest := make([]courseModels.QuizResponse, 0, len(responses))
	seen := make(map[uint]bool)
	for _, response := range responses {
		if seen[response.QuizID] {
			continue
		}
		seen[response.QuizID] = true
		latest = append(latest, response)
	}

	skillScores := make(map[uint]*skillScore)
	tagScores := make(map[uint]*skillScore)
	quizzes := make([]fiber.Map, 0, len(latest))

	for _, response := range latest {
		var quiz courseModels.Quiz
		if err := db.First(&quiz, response.QuizID).Error; err != nil {
			continue
		}
		var revision courseModels.Revision
		if err := db.First(&revision, quiz.RevisionID).Error; err != nil {
			continue
		}
		var module courseModels.Module
		if err := db.First(&module, revision.ModuleID).Error; err != nil {
			continue
		}
		var course courseModels.Course
		if err := db.Where("id = ? AND organisation_id = ?", module.CourseID, organisationID).
			First(&course).Error; err != nil {
			continue
		}

		correct, total, err := gradeCounts(db, response)
		if err != nil {
			return nil, nil, nil, err
		}

		percent := 0.0
		if total > 0 {
			percent = float64(correct) / float64(total) * 100
		}
		quizzes = append(quizzes, fiber.Map{
			"quizId":      quiz.ID,
			"quizTitle":   quiz.Title,
			"moduleId":    module.ID,
			"moduleTitle": module.Title,
			"courseName":  course.Name,
			"correct":     correct,
			"total":       total,
			"percent":     percent,
			"submittedAt": response.SubmittedAt,
		})

		var skillIDs []uint
		db.Model(&courseModels.ModuleSkill{}).Where("module_id = ?", module.ID).Pluck("skill_id", &skillIDs)
		for _, skillID := range skillIDs {
			var skill models.Skill
			if err := db.First(&skill, skillID).Error; err != nil {
				continue
			}
			addScore(skillScores, skillID, skill.Name, correct, total)
		}

		var tagIDs []uint
		db.Model(&courseModels.ModuleTag{}).Where("module_id = ?", module.ID).Pluck("tag_id", &tagIDs)
		for _, tagID := range tagIDs {
			var tag models.Tag
			if err := db.First(&tag, tagID).Error; err != nil {
				continue
			}
			addScore(tagScores, tagID, tag.Name, correct, total)
		}
	}

	return skillScores, tagScores, quizzes, nil
}

// gradeCounts counts correct questions of a response using set equality
// between selected and correct option ids.
func gradeCounts(db *gorm.DB, response courseModels.QuizResponse) (int, int, error) {
	var questions []courseModels.Question
	if err := db.Where("quiz_id = ?", response.QuizID).Find(&questions).Error; err != nil {
		return 0, 0, err
	}

	var answers []courseModels.QuizAnswer
	if err := db.Where("response_id = ?", response.ID).Find(&answers).Error; err != nil {
		return 0, 0, err
	}
	selectedByQuestion := make(map[uint]map[uint]bool)
	for _, answer := range answers {
		if selectedByQuestion[answer.QuestionID] == nil {
			selectedByQuestion[answer.QuestionID] = make(map[uint]bool)
		}
		selectedByQuestion[answer.QuestionID][answer.SelectedOptionID] = true
	}

	correct := 0
	for _, question := range questions {
		var correctIDs []uint
		if err := db.Model(&courseModels.QuestionOption{}).
			Where("question_id = ? AND is_correct = ?", question.ID, true).
			Pluck("id", &correctIDs).Error; err != nil {
			return 0, 0, err
		}
		selected := selectedByQuestion[question.ID]
		if len(selected) != len(correctIDs) {
			continue
		}
		match := true
		for _, id := range correctIDs {
			if !selected[id] {
				match = false
				break
			}
		}
		if match {
			correct++
		}
	}
	return correct, len(questions), nil
}

func addScore(scores map[uint]*skillScore, id uint, name string, correct, total int) {
	if scores[id] == nil {
		scores[id] = &skillScore{ID: id, Name: name}
	}
	scores[id].Correct += correct
	scores[id].Total += total
}

func splitByThreshold(scores map[uint]*skillScore) ([]skillScore, []skillScore) {
	strengths := []skillScore{}
	weaknesses := []skillScore{}
	for _, score := range scores {
		if score.Total == 0 {
			continue
		}
		score.Percent = float64(score.Correct) / float64(score.Total) * 100
		if score.Percent >= strengthThreshold {
			strengths = append(strengths, *score)
		} else {
			weaknesses = append(weaknesses, *score)
		}
	}
	return strengths, weaknesses
}

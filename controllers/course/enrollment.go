package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Enroll registers the user in a course and seeds a not_started status row
// for every module the course currently has.
func Enroll(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		CourseID uint `json:"courseId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.CourseID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId is required!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND organisation_id = ?", reqData.CourseID, session.Organisation.ID).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", session.UserID, course.ID).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Already enrolled in this course!", nil)
	}

	tx := database.Database.Db.Begin()

	enrollment := courseModels.Enrollment{
		UserID:    session.UserID,
		CourseID:  course.ID,
		Status:    courseModels.EnrollmentEnrolled,
		StartedAt: time.Now(),
	}
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Already enrolled in this course!", nil)
	}
	if err := seedModuleStatuses(tx, enrollment.ID, course.ID); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	tx.Commit()

	utils.LogActivity(session.UserID, session.Organisation.ID, "enroll_course",
		map[string]interface{}{"courseId": course.ID},
		map[string]interface{}{"Course Name": course.Name})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

// Unenroll removes the user's enrollment, its module statuses and the user's
// quiz responses for that course.
func Unenroll(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		CourseID uint `json:"courseId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.CourseID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId is required!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", session.UserID, reqData.CourseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	tx := database.Database.Db.Begin()

	if err := tx.Unscoped().Where("enrollment_id = ?", enrollment.ID).
		Delete(&courseModels.ModuleStatus{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll!", nil)
	}

	moduleIDs, err := moduleIDsForCourse(tx, enrollment.CourseID)
	if err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll!", nil)
	}
	for _, moduleID := range moduleIDs {
		quizIDs, err := quizIDsForModule(tx, moduleID)
		if err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll!", nil)
		}
		if err := purgeQuizResponses(tx, quizIDs, session.UserID); err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll!", nil)
		}
	}

	if err := tx.Unscoped().Delete(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll!", nil)
	}

	tx.Commit()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unenrolled successfully!", nil)
}

// ListEnrollments returns the user's enrollments with progress counts
func ListEnrollments(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ?", session.UserID).
		Order("created_at DESC").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	items := make([]fiber.Map, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var course courseModels.Course
		if err := database.Database.Db.First(&course, enrollment.CourseID).Error; err != nil {
			continue
		}

		var total, completed int64
		database.Database.Db.Model(&courseModels.ModuleStatus{}).
			Where("enrollment_id = ?", enrollment.ID).Count(&total)
		database.Database.Db.Model(&courseModels.ModuleStatus{}).
			Where("enrollment_id = ? AND status = ?", enrollment.ID, courseModels.StatusCompleted).Count(&completed)

		items = append(items, fiber.Map{
			"enrollment":       enrollment,
			"course":           course,
			"totalModules":     total,
			"completedModules": completed,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": items,
	})
}

// GetCourseProgress returns the user's per-module status within a course
func GetCourseProgress(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId is required!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", session.UserID, courseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	type moduleProgress struct {
		ModuleID   uint   `json:"module_id"`
		Title      string `json:"title"`
		ModuleType string `json:"module_type"`
		Position   int    `json:"position"`
		Status     string `json:"status"`
	}

	var progress []moduleProgress
	if err := database.Database.Db.Model(&courseModels.ModuleStatus{}).
		Select("module_statuses.module_id, modules.title, modules.module_type, modules.position, module_statuses.status").
		Joins("JOIN modules ON modules.id = module_statuses.module_id").
		Where("module_statuses.enrollment_id = ?", enrollment.ID).
		Order("modules.position").
		Scan(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment": enrollment,
		"modules":    progress,
	})
}

// StartModule marks a module in_progress for the user. Allowed from any state.
func StartModule(c *fiber.Ctx) error {
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

	status, err := findUserModuleStatus(session.UserID, reqData.ModuleID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not enrolled in this module's course!", nil)
	}

	now := time.Now()
	status.Status = courseModels.StatusInProgress
	if status.StartedAt == nil {
		status.StartedAt = &now
	}
	status.CompletedAt = nil
	if err := database.Database.Db.Save(status).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module started successfully!", status)
}

// CompleteModule marks a module completed. Only allowed from in_progress.
func CompleteModule(c *fiber.Ctx) error {
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

	status, err := findUserModuleStatus(session.UserID, reqData.ModuleID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not enrolled in this module's course!", nil)
	}
	if status.Status != courseModels.StatusInProgress {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Module must be in progress to complete!", nil)
	}

	now := time.Now()
	status.Status = courseModels.StatusCompleted
	status.CompletedAt = &now
	if err := database.Database.Db.Save(status).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module completed successfully!", status)
}

// CompleteCourse marks the enrollment completed once every module is done
func CompleteCourse(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		CourseID uint `json:"courseId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.CourseID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId is required!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", session.UserID, reqData.CourseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	var total, completed int64
	database.Database.Db.Model(&courseModels.ModuleStatus{}).
		Where("enrollment_id = ?", enrollment.ID).Count(&total)
	database.Database.Db.Model(&courseModels.ModuleStatus{}).
		Where("enrollment_id = ? AND status = ?", enrollment.ID, courseModels.StatusCompleted).Count(&completed)

	if total == 0 || completed < total {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "All modules must be completed first!", nil)
	}

	now := time.Now()
	enrollment.Status = courseModels.EnrollmentCompleted
	enrollment.CompletedAt = &now
	if err := database.Database.Db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete course!", nil)
	}

	var course courseModels.Course
	database.Database.Db.First(&course, enrollment.CourseID)
	utils.LogActivity(session.UserID, session.Organisation.ID, "complete_course",
		map[string]interface{}{"courseId": enrollment.CourseID},
		map[string]interface{}{"Course Name": course.Name})

	newBadges := checkAndAwardBadges(session.UserID, session.Organisation.ID, enrollment.CourseID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course completed successfully!", fiber.Map{
		"enrollment": enrollment,
		"newBadges":  newBadges,
	})
}

// UncompleteCourse reverts the enrollment to enrolled without touching module
// statuses.
func UncompleteCourse(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		CourseID uint `json:"courseId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.CourseID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId is required!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", session.UserID, reqData.CourseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	enrollment.Status = courseModels.EnrollmentEnrolled
	enrollment.CompletedAt = nil
	if err := database.Database.Db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course reverted to enrolled!", enrollment)
}

// findUserModuleStatus resolves the status row through the user's enrollment
// in the module's course.
func findUserModuleStatus(userID, moduleID uint) (*courseModels.ModuleStatus, error) {
	var module courseModels.Module
	if err := database.Database.Db.First(&module, moduleID).Error; err != nil {
		return nil, err
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, module.CourseID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}

	var status courseModels.ModuleStatus
	if err := database.Database.Db.Where("enrollment_id = ? AND module_id = ?", enrollment.ID, module.ID).
		First(&status).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		// module added after enrollment seeding, create the row lazily
		status = courseModels.ModuleStatus{
			EnrollmentID: enrollment.ID,
			ModuleID:     module.ID,
			Status:       courseModels.StatusNotStarted,
		}
		if err := database.Database.Db.Create(&status).Error; err != nil {
			return nil, err
		}
	}
	return &status, nil
}

// checkAndAwardBadges grants frequent and specific-course badges the user now
// qualifies for. Returns the newly awarded badges.
func checkAndAwardBadges(userID, organisationID, courseID uint) []models.Badge {
	var completedCourses int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND status = ?", userID, courseModels.EnrollmentCompleted).
		Count(&completedCourses)

	var badges []models.Badge
	database.Database.Db.Where("organisation_id = ?", organisationID).Find(&badges)

	awarded := []models.Badge{}
	for _, badge := range badges {
		qualifies := false
		if badge.NumCoursesCompleted != nil && completedCourses >= int64(*badge.NumCoursesCompleted) {
			qualifies = true
		}
		if badge.CourseID != nil && *badge.CourseID == courseID {
			qualifies = true
		}
		if !qualifies {
			continue
		}

		var existing models.UserBadge
		if err := database.Database.Db.Where("user_id = ? AND badge_id = ?", userID, badge.ID).
			First(&existing).Error; err == nil {
			continue
		}

		userBadge := models.UserBadge{UserID: userID, BadgeID: badge.ID, AwardedAt: time.Now()}
		if err := database.Database.Db.Create(&userBadge).Error; err != nil {
			continue
		}
		awarded = append(awarded, badge)
	}

	return awarded
}

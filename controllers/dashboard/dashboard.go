package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetUserDashboard returns the learner's home view: enrollment counts, in
// progress modules, badges and recent activity.
func GetUserDashboard(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	db := database.Database.Db

	var enrolledCourses, completedCourses int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ?", session.UserID).Count(&enrolledCourses)
	db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND status = ?", session.UserID, courseModels.EnrollmentCompleted).
		Count(&completedCourses)

	type inProgressRow struct {
		ModuleID   uint   `json:"module_id"`
		Title      string `json:"title"`
		ModuleType string `json:"module_type"`
		CourseID   uint   `json:"course_id"`
		CourseName string `json:"course_name"`
	}
	var inProgress []inProgressRow
	db.Model(&courseModels.ModuleStatus{}).
		Select("modules.id AS module_id, modules.title, modules.module_type, courses.id AS course_id, courses.name AS course_name").
		Joins("JOIN enrollments ON enrollments.id = module_statuses.enrollment_id").
		Joins("JOIN modules ON modules.id = module_statuses.module_id").
		Joins("JOIN courses ON courses.id = modules.course_id").
		Where("enrollments.user_id = ? AND module_statuses.status = ?", session.UserID, courseModels.StatusInProgress).
		Order("module_statuses.updated_at DESC").
		Limit(10).
		Scan(&inProgress)

	type badgeRow struct {
		BadgeID     uint   `json:"badge_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	var badges []badgeRow
	db.Model(&models.UserBadge{}).
		Select("badges.id AS badge_id, badges.name, badges.description").
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", session.UserID).
		Order("user_badges.awarded_at DESC").
		Scan(&badges)

	var roadmapCount int64
	db.Model(&models.Roadmap{}).Where("user_id = ?", session.UserID).Count(&roadmapCount)

	var recentActivity []models.ActivityLog
	db.Where("user_id = ?", session.UserID).Order("created_at DESC").Limit(10).Find(&recentActivity)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"enrolledCourses":  enrolledCourses,
		"completedCourses": completedCourses,
		"inProgress":       inProgress,
		"badges":           badges,
		"roadmapCount":     roadmapCount,
		"recentActivity":   recentActivity,
	})
}

// GetAdminDashboard returns organisation-wide counts and recent activity
func GetAdminDashboard(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	db := database.Database.Db

	var memberCount, courseCount int64
	db.Model(&models.OrganisationUser{}).Where("organisation_id = ?", session.Organisation.ID).Count(&memberCount)
	db.Model(&courseModels.Course{}).Where("organisation_id = ?", session.Organisation.ID).Count(&courseCount)

	var moduleCount int64
	db.Model(&courseModels.Module{}).
		Joins("JOIN courses ON courses.id = modules.course_id").
		Where("courses.organisation_id = ?", session.Organisation.ID).
		Count(&moduleCount)

	var enrollmentCount, completionCount int64
	db.Model(&courseModels.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.organisation_id = ?", session.Organisation.ID).
		Count(&enrollmentCount)
	db.Model(&courseModels.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.organisation_id = ? AND enrollments.status = ?",
			session.Organisation.ID, courseModels.EnrollmentCompleted).
		Count(&completionCount)

	var recentActivity []models.ActivityLog
	db.Where("organisation_id = ?", session.Organisation.ID).
		Order("created_at DESC").Limit(20).Find(&recentActivity)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"memberCount":     memberCount,
		"courseCount":     courseCount,
		"moduleCount":     moduleCount,
		"enrollmentCount": enrollmentCount,
		"completionCount": completionCount,
		"recentActivity":  recentActivity,
	})
}

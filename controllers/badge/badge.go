package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateFrequentBadge creates a badge awarded after completing a number of
// courses.
func CreateFrequentBadge(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		Name                string `json:"name"`
		Description         string `json:"description"`
		NumCoursesCompleted int    `json:"numCoursesCompleted"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Name == "" || reqData.NumCoursesCompleted < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "name and numCoursesCompleted are required!", nil)
	}

	badge := models.Badge{
		OrganisationID:      session.Organisation.ID,
		Name:                reqData.Name,
		Description:         reqData.Description,
		NumCoursesCompleted: &reqData.NumCoursesCompleted,
	}
	if err := database.Database.Db.Create(&badge).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create badge!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Badge created successfully!", badge)
}

// CreateCourseBadge creates a badge awarded for completing a specific course
func CreateCourseBadge(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		CourseID    uint   `json:"courseId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Name == "" || reqData.CourseID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "name and courseId are required!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND organisation_id = ?", reqData.CourseID, session.Organisation.ID).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	badge := models.Badge{
		OrganisationID: session.Organisation.ID,
		Name:           reqData.Name,
		Description:    reqData.Description,
		CourseID:       &course.ID,
	}
	if err := database.Database.Db.Create(&badge).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create badge!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Badge created successfully!", badge)
}

// ListOrgBadges returns the badges defined in the organisation
func ListOrgBadges(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var badges []models.Badge
	if err := database.Database.Db.Where("organisation_id = ?", session.Organisation.ID).
		Order("name").Find(&badges).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch badges!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Badges fetched successfully!", badges)
}

// ListUserBadges returns the badges the user has earned
func ListUserBadges(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	type earnedBadge struct {
		BadgeID     uint   `json:"badge_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		AwardedAt   string `json:"awarded_at"`
	}

	var badges []earnedBadge
	if err := database.Database.Db.Model(&models.UserBadge{}).
		Select("badges.id AS badge_id, badges.name, badges.description, user_badges.awarded_at").
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", session.UserID).
		Order("user_badges.awarded_at DESC").
		Scan(&badges).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch badges!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Badges fetched successfully!", badges)
}

// DeleteBadge removes a badge and every award of it
func DeleteBadge(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		BadgeID uint `json:"badgeId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.BadgeID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "badgeId is required!", nil)
	}

	var badge models.Badge
	if err := database.Database.Db.Where("id = ? AND organisation_id = ?", reqData.BadgeID, session.Organisation.ID).
		First(&badge).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Badge not found!", nil)
	}

	tx := database.Database.Db.Begin()
	if err := tx.Unscoped().Where("badge_id = ?", badge.ID).Delete(&models.UserBadge{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete badge!", nil)
	}
	if err := tx.Unscoped().Delete(&badge).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete badge!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Badge deleted successfully!", nil)
}

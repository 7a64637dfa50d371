package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyActivity returns the user's latest activity within their organisation
func GetMyActivity(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var logs []models.ActivityLog
	if err := database.Database.Db.
		Where("user_id = ? AND organisation_id = ?", session.UserID, session.Organisation.ID).
		Order("created_at DESC").Limit(100).Find(&logs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch activity!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity fetched successfully!", fiber.Map{
		"activity": logs,
	})
}

// GetOrgActivity returns the organisation-wide activity feed for admins
func GetOrgActivity(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var logs []models.ActivityLog
	if err := database.Database.Db.
		Where("organisation_id = ?", session.Organisation.ID).
		Order("created_at DESC").Limit(100).Find(&logs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch activity!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity fetched successfully!", fiber.Map{
		"activity": logs,
	})
}

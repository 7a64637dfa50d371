package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateOrganisation creates an organisation and makes the current user its admin
func CreateOrganisation(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		OrganisationName string `json:"organisationName"`
		AiEnabled        bool   `json:"aiEnabled"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.OrganisationName == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "organisationName is required!", nil)
	}

	var existing models.Organisation
	if err := database.Database.Db.Where("name = ?", reqData.OrganisationName).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Organisation name already taken!", nil)
	}

	org := models.Organisation{
		Name:      reqData.OrganisationName,
		AiEnabled: reqData.AiEnabled,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&org).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Organisation name already taken!", nil)
	}

	membership := models.OrganisationUser{
		UserID:         session.UserID,
		OrganisationID: org.ID,
		Role:           "admin",
	}
	if err := tx.Create(&membership).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create organisation!", nil)
	}
	tx.Commit()

	// Reissue the cookie with the new org membership
	session.Organisation = &middleware.SessionOrganisation{
		ID:        org.ID,
		Role:      "admin",
		AiEnabled: org.AiEnabled,
	}
	if err := middleware.SetAuthCookie(c, session); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh session!", nil)
	}

	utils.LogActivity(session.UserID, org.ID, "create_organisation",
		map[string]interface{}{"organisationId": org.ID, "name": org.Name},
		map[string]interface{}{"Organisation Name": org.Name})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Organisation created successfully!", fiber.Map{
		"organisation": fiber.Map{
			"id":                org.ID,
			"organisation_name": org.Name,
			"ai_enabled":        org.AiEnabled,
			"role":              "admin",
		},
	})
}

// GetMyOrganisation returns the current user's organisation and role, if any
func GetMyOrganisation(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var membership models.OrganisationUser
	if err := database.Database.Db.Where("user_id = ?", session.UserID).First(&membership).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No organisation yet!", fiber.Map{"organisation": nil})
	}

	var org models.Organisation
	if err := database.Database.Db.First(&org, membership.OrganisationID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Server error!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Organisation fetched successfully!", fiber.Map{
		"organisation": fiber.Map{
			"id":               org.ID,
			"organisationName": org.Name,
			"ai_enabled":       org.AiEnabled,
			"role":             membership.Role,
		},
	})
}

// UpdateOrganisationSettings updates the AI-enabled flag and reissues the cookie
func UpdateOrganisationSettings(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		AiEnabled *bool `json:"aiEnabled"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.AiEnabled == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "aiEnabled is required!", nil)
	}

	var org models.Organisation
	if err := database.Database.Db.First(&org, session.Organisation.ID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Organisation not found!", nil)
	}

	org.AiEnabled = *reqData.AiEnabled
	if err := database.Database.Db.Save(&org).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update organisation!", nil)
	}

	session.Organisation.AiEnabled = org.AiEnabled
	if err := middleware.SetAuthCookie(c, session); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Organisation updated successfully!", fiber.Map{
		"ai_enabled": org.AiEnabled,
	})
}

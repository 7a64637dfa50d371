package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

type taxonomyRequest struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

func parseTaxonomyBody(c *fiber.Ctx) (*taxonomyRequest, error) {
	reqData := new(taxonomyRequest)
	if err := c.BodyParser(reqData); err != nil {
		return nil, err
	}
	return reqData, nil
}

// ListSkills returns the organisation's skills
func ListSkills(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var skills []models.Skill
	if err := database.Database.Db.Where("organisation_id = ?", session.Organisation.ID).
		Order("name").Find(&skills).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch skills!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Skills fetched successfully!", skills)
}

// CreateSkill adds a skill to the organisation taxonomy
func CreateSkill(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData, err := parseTaxonomyBody(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Name == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "name is required!", nil)
	}

	var existing models.Skill
	if err := database.Database.Db.Where("organisation_id = ? AND name = ?", session.Organisation.ID, reqData.Name).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Skill name already taken!", nil)
	}

	skill := models.Skill{
		OrganisationID: session.Organisation.ID,
		Name:           reqData.Name,
		Description:    reqData.Description,
	}
	if err := database.Database.Db.Create(&skill).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create skill!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Skill created successfully!", skill)
}

// DeleteSkill removes a skill from the organisation taxonomy
func DeleteSkill(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData, err := parseTaxonomyBody(c)
	if err != nil || reqData.ID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "id is required!", nil)
	}

	result := database.Database.Db.Unscoped().
		Where("id = ? AND organisation_id = ?", reqData.ID, session.Organisation.ID).
		Delete(&models.Skill{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete skill!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Skill not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Skill deleted successfully!", nil)
}

// ListChannels returns the organisation's channels
func ListChannels(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var channels []models.Channel
	if err := database.Database.Db.Where("organisation_id = ?", session.Organisation.ID).
		Order("name").Find(&channels).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch channels!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Channels fetched successfully!", channels)
}

// CreateChannel adds a channel to the organisation taxonomy
func CreateChannel(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData, err := parseTaxonomyBody(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Name == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "name is required!", nil)
	}

	var existing models.Channel
	if err := database.Database.Db.Where("organisation_id = ? AND name = ?", session.Organisation.ID, reqData.Name).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Channel name already taken!", nil)
	}

	channel := models.Channel{
		OrganisationID: session.Organisation.ID,
		Name:           reqData.Name,
		Description:    reqData.Description,
	}
	if err := database.Database.Db.Create(&channel).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create channel!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Channel created successfully!", channel)
}

// DeleteChannel removes a channel from the organisation taxonomy
func DeleteChannel(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData, err := parseTaxonomyBody(c)
	if err != nil || reqData.ID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "id is required!", nil)
	}

	result := database.Database.Db.Unscoped().
		Where("id = ? AND organisation_id = ?", reqData.ID, session.Organisation.ID).
		Delete(&models.Channel{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete channel!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Channel not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Channel deleted successfully!", nil)
}

// ListLevels returns the organisation's levels ordered by sort order
func ListLevels(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var levels []models.Level
	if err := database.Database.Db.Where("organisation_id = ?", session.Organisation.ID).
		Order("sort_order").Find(&levels).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch levels!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Levels fetched successfully!", levels)
}

// CreateLevel adds a level to the organisation taxonomy
func CreateLevel(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData, err := parseTaxonomyBody(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Name == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "name is required!", nil)
	}

	var existing models.Level
	if err := database.Database.Db.Where("organisation_id = ? AND name = ?", session.Organisation.ID, reqData.Name).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Level name already taken!", nil)
	}

	level := models.Level{
		OrganisationID: session.Organisation.ID,
		Name:           reqData.Name,
		Description:    reqData.Description,
		SortOrder:      reqData.SortOrder,
	}
	if err := database.Database.Db.Create(&level).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create level!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Level created successfully!", level)
}

// DeleteLevel removes a level from the organisation taxonomy
func DeleteLevel(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData, err := parseTaxonomyBody(c)
	if err != nil || reqData.ID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "id is required!", nil)
	}

	result := database.Database.Db.Unscoped().
		Where("id = ? AND organisation_id = ?", reqData.ID, session.Organisation.ID).
		Delete(&models.Level{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete level!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Level not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Level deleted successfully!", nil)
}

// ListTags returns the organisation's tags
func ListTags(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var tags []models.Tag
	if err := database.Database.Db.Where("organisation_id = ?", session.Organisation.ID).
		Order("name").Find(&tags).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tags!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tags fetched successfully!", tags)
}

// CreateTag adds a tag to the organisation taxonomy
func CreateTag(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData, err := parseTaxonomyBody(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Name == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "name is required!", nil)
	}

	var existing models.Tag
	if err := database.Database.Db.Where("organisation_id = ? AND name = ?", session.Organisation.ID, reqData.Name).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Tag name already taken!", nil)
	}

	tag := models.Tag{
		OrganisationID: session.Organisation.ID,
		Name:           reqData.Name,
	}
	if err := database.Database.Db.Create(&tag).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create tag!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Tag created successfully!", tag)
}

// DeleteTag removes a tag from the organisation taxonomy
func DeleteTag(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData, err := parseTaxonomyBody(c)
	if err != nil || reqData.ID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "id is required!", nil)
	}

	result := database.Database.Db.Unscoped().
		Where("id = ? AND organisation_id = ?", reqData.ID, session.Organisation.ID).
		Delete(&models.Tag{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete tag!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tag not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tag deleted successfully!", nil)
}

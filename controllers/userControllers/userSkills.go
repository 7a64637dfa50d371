package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

var validSkillLevels = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
	"expert":       true,
}

// GetUserSkills returns the user's declared skills and all available skills
func GetUserSkills(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	type userSkill struct {
		ID        uint   `json:"id"`
		SkillID   uint   `json:"skill_id"`
		SkillName string `json:"skill_name"`
		Level     string `json:"level"`
	}

	var userSkills []userSkill
	if err := database.Database.Db.Model(&models.UserSkill{}).
		Select("user_skills.id, user_skills.skill_id, skills.name AS skill_name, user_skills.level").
		Joins("JOIN skills ON skills.id = user_skills.skill_id").
		Where("user_skills.user_id = ?", session.UserID).
		Order("skills.name").
		Scan(&userSkills).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch skills!", nil)
	}

	var availableSkills []models.Skill
	query := database.Database.Db.Order("name")
	if session.Organisation != nil {
		query = query.Where("organisation_id = ?", session.Organisation.ID)
	}
	if err := query.Find(&availableSkills).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch skills!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Skills fetched successfully!", fiber.Map{
		"userSkills":      userSkills,
		"availableSkills": availableSkills,
	})
}

// AddUserSkill declares a new skill for the user
func AddUserSkill(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		SkillID uint   `json:"skill_id"`
		Level   string `json:"level"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.SkillID == 0 || reqData.Level == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing required fields!", nil)
	}
	if !validSkillLevels[reqData.Level] {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid skill level!", nil)
	}

	var skill models.Skill
	if err := database.Database.Db.First(&skill, reqData.SkillID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Skill not found!", nil)
	}

	var existing models.UserSkill
	if err := database.Database.Db.Where("user_id = ? AND skill_id = ?", session.UserID, reqData.SkillID).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Skill already added!", nil)
	}

	userSkill := models.UserSkill{
		UserID:  session.UserID,
		SkillID: reqData.SkillID,
		Level:   reqData.Level,
	}
	if err := database.Database.Db.Create(&userSkill).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add skill!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Skill added successfully!", userSkill)
}

// UpdateUserSkill changes the level of a declared skill
func UpdateUserSkill(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		SkillID uint   `json:"skill_id"`
		Level   string `json:"level"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.SkillID == 0 || reqData.Level == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing required fields!", nil)
	}
	if !validSkillLevels[reqData.Level] {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid skill level!", nil)
	}

	result := database.Database.Db.Model(&models.UserSkill{}).
		Where("user_id = ? AND skill_id = ?", session.UserID, reqData.SkillID).
		Update("level", reqData.Level)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update skill!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Skill not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Skill level updated successfully!", nil)
}

// RemoveUserSkill deletes a declared skill
func RemoveUserSkill(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		SkillID uint `json:"skill_id"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.SkillID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing skill ID!", nil)
	}

	result := database.Database.Db.Unscoped().
		Where("user_id = ? AND skill_id = ?", session.UserID, reqData.SkillID).
		Delete(&models.UserSkill{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove skill!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Skill not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Skill removed successfully!", nil)
}

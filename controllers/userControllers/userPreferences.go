package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// GetUserPreferences returns the user's explicit channel/level preferences
// alongside the organisation's available channels and levels.
func GetUserPreferences(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	type channelPref struct {
		ID          uint   `json:"id"`
		ChannelID   uint   `json:"channel_id"`
		ChannelName string `json:"channel_name"`
		Rank        int    `json:"rank"`
	}
	type levelPref struct {
		ID        uint   `json:"id"`
		LevelID   uint   `json:"level_id"`
		LevelName string `json:"level_name"`
		Rank      int    `json:"rank"`
	}

	var channels []channelPref
	if err := database.Database.Db.Model(&models.UserChannel{}).
		Select("user_channels.id, user_channels.channel_id, channels.name AS channel_name, user_channels.rank").
		Joins("JOIN channels ON channels.id = user_channels.channel_id").
		Where("user_channels.user_id = ?", session.UserID).
		Order("user_channels.rank").
		Scan(&channels).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch preferences!", nil)
	}

	var levels []levelPref
	if err := database.Database.Db.Model(&models.UserLevel{}).
		Select("user_levels.id, user_levels.level_id, levels.name AS level_name, user_levels.rank").
		Joins("JOIN levels ON levels.id = user_levels.level_id").
		Where("user_levels.user_id = ?", session.UserID).
		Order("user_levels.rank").
		Scan(&levels).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch preferences!", nil)
	}

	var availableChannels []models.Channel
	var availableLevels []models.Level
	if session.Organisation != nil {
		database.Database.Db.Where("organisation_id = ?", session.Organisation.ID).Order("name").Find(&availableChannels)
		database.Database.Db.Where("organisation_id = ?", session.Organisation.ID).Order("sort_order").Find(&availableLevels)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Preferences fetched successfully!", fiber.Map{
		"userChannels":      channels,
		"userLevels":        levels,
		"availableChannels": availableChannels,
		"availableLevels":   availableLevels,
	})
}

// UpdateUserPreferences replaces the user's explicit channel/level preference
// sets. Explicit preferences outrank onboarding-derived ones in roadmap scoring.
func UpdateUserPreferences(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		ChannelIDs []uint `json:"channel_ids"`
		LevelIDs   []uint `json:"level_ids"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	for _, channelID := range reqData.ChannelIDs {
		var channel models.Channel
		if err := database.Database.Db.First(&channel, channelID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Channel not found!", nil)
		}
	}
	for _, levelID := range reqData.LevelIDs {
		var level models.Level
		if err := database.Database.Db.First(&level, levelID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Level not found!", nil)
		}
	}

	tx := database.Database.Db.Begin()

	if err := tx.Unscoped().Where("user_id = ?", session.UserID).Delete(&models.UserChannel{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update preferences!", nil)
	}
	if err := tx.Unscoped().Where("user_id = ?", session.UserID).Delete(&models.UserLevel{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update preferences!", nil)
	}

	for i, channelID := range reqData.ChannelIDs {
		pref := models.UserChannel{UserID: session.UserID, ChannelID: channelID, Rank: i + 1}
		if err := tx.Create(&pref).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update preferences!", nil)
		}
	}
	for i, levelID := range reqData.LevelIDs {
		pref := models.UserLevel{UserID: session.UserID, LevelID: levelID, Rank: i + 1}
		if err := tx.Create(&pref).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update preferences!", nil)
		}
	}

	tx.Commit()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Preferences updated successfully!", nil)
}

package controllers

import (
	"fmt"
	"strings"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// AskChatbot answers a learner question about a module using the configured
// LLM. The prompt carries course, module and learner context. Disabled unless
// the organisation has AI enabled.
func AskChatbot(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	if !session.Organisation.AiEnabled {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "AI assistant is disabled for this organisation!", nil)
	}

	reqData := new(struct {
		ModuleID uint   `json:"moduleId"`
		Question string `json:"question"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.ModuleID == 0 || strings.TrimSpace(reqData.Question) == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "moduleId and question are required!", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.First(&module, reqData.ModuleID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND organisation_id = ?", module.CourseID, session.Organisation.ID).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	systemPrompt := buildSystemPrompt(session.UserID, &course, &module)

	payload := chatCompletionRequest{
		Model: config.AppConfig.LLMModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: reqData.Question},
		},
	}

	var completion chatCompletionResponse
	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.LLMApiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&completion).
		Post(config.AppConfig.LLMApiURL)
	if err != nil || resp.IsError() || len(completion.Choices) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "AI assistant is unavailable right now!", nil)
	}

	answer := completion.Choices[0].Message.Content

	chatLog := models.ChatLog{
		UserID:         session.UserID,
		OrganisationID: session.Organisation.ID,
		CourseID:       course.ID,
		ModuleID:       module.ID,
		Question:       reqData.Question,
		Answer:         answer,
	}
	if err := database.Database.Db.Create(&chatLog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save chat!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer generated successfully!", fiber.Map{
		"answer": answer,
		"chatId": chatLog.ID,
	})
}

// GetChatHistory returns the user's chat history for one module
func GetChatHistory(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	moduleID, err := c.ParamsInt("moduleId")
	if err != nil || moduleID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "moduleId is required!", nil)
	}

	var logs []models.ChatLog
	if err := database.Database.Db.Where("user_id = ? AND module_id = ?", session.UserID, moduleID).
		Order("created_at").Find(&logs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "History fetched successfully!", fiber.Map{
		"history": logs,
	})
}

// ListChatLogs returns the organisation's chat logs for admins
func ListChatLogs(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var logs []models.ChatLog
	if err := database.Database.Db.Where("organisation_id = ?", session.Organisation.ID).
		Order("created_at DESC").Limit(100).Find(&logs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch logs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logs fetched successfully!", fiber.Map{
		"logs": logs,
	})
}

// buildSystemPrompt assembles learner and content context for the LLM
func buildSystemPrompt(userID uint, course *courseModels.Course, module *courseModels.Module) string {
	var builder strings.Builder
	builder.WriteString("You are a helpful learning assistant embedded in a corporate training platform. ")
	builder.WriteString("Answer the learner's question about the current module concisely.\n\n")
	builder.WriteString(fmt.Sprintf("Course: %s\n", course.Name))
	if course.Description != "" {
		builder.WriteString(fmt.Sprintf("Course description: %s\n", course.Description))
	}
	builder.WriteString(fmt.Sprintf("Module: %s (%s)\n", module.Title, module.ModuleType))
	if module.Description != "" {
		builder.WriteString(fmt.Sprintf("Module description: %s\n", module.Description))
	}

	type namedRow struct{ Name string }
	var skills []namedRow
	database.Database.Db.Model(&models.UserSkill{}).
		Select("skills.name").
		Joins("JOIN skills ON skills.id = user_skills.skill_id").
		Where("user_skills.user_id = ?", userID).
		Scan(&skills)
	if len(skills) > 0 {
		names := make([]string, 0, len(skills))
		for _, skill := range skills {
			names = append(names, skill.Name)
		}
		builder.WriteString(fmt.Sprintf("Learner's skills: %s\n", strings.Join(names, ", ")))
	}

	var pairing courseModels.CourseChannel
	if err := database.Database.Db.Where("course_id = ?", course.ID).First(&pairing).Error; err == nil {
		var channel models.Channel
		if err := database.Database.Db.First(&channel, pairing.ChannelID).Error; err == nil {
			builder.WriteString(fmt.Sprintf("Course channel: %s\n", channel.Name))
		}
		if pairing.LevelID != nil {
			var level models.Level
			if err := database.Database.Db.First(&level, *pairing.LevelID).Error; err == nil {
				builder.WriteString(fmt.Sprintf("Course level: %s\n", level.Name))
			}
		}
	}

	return builder.String()
}

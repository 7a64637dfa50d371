package controllers

import (
	"sort"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

type materialRow struct {
	ModuleID   uint   `json:"module_id"`
	Title      string `json:"title"`
	ModuleType string `json:"module_type"`
	CourseID   uint   `json:"course_id"`
	CourseName string `json:"course_name"`
}

// ListMaterials returns every module in the organisation, optionally filtered
// by tag.
func ListMaterials(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	query := database.Database.Db.Model(&courseModels.Module{}).
		Select("modules.id AS module_id, modules.title, modules.module_type, courses.id AS course_id, courses.name AS course_name").
		Joins("JOIN courses ON courses.id = modules.course_id").
		Where("courses.organisation_id = ?", session.Organisation.ID)

	if tagID := c.QueryInt("tagId"); tagID > 0 {
		query = query.
			Joins("JOIN module_tags ON module_tags.module_id = modules.id").
			Where("module_tags.tag_id = ?", tagID)
	}

	var materials []materialRow
	if err := query.Order("courses.name, modules.position").Scan(&materials).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch materials!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Materials fetched successfully!", fiber.Map{
		"materials": materials,
	})
}

// ListMaterialsByUserTags ranks the organisation's modules by how many of the
// user's interest tags they carry. The user's tags are the tags of courses
// they are enrolled in.
func ListMaterialsByUserTags(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var userTagIDs []uint
	if err := database.Database.Db.Model(&courseModels.CourseTag{}).
		Joins("JOIN enrollments ON enrollments.course_id = course_tags.course_id").
		Where("enrollments.user_id = ?", session.UserID).
		Distinct().
		Pluck("course_tags.tag_id", &userTagIDs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch materials!", nil)
	}

	var materials []materialRow
	if err := database.Database.Db.Model(&courseModels.Module{}).
		Select("modules.id AS module_id, modules.title, modules.module_type, courses.id AS course_id, courses.name AS course_name").
		Joins("JOIN courses ON courses.id = modules.course_id").
		Where("courses.organisation_id = ?", session.Organisation.ID).
		Order("courses.name, modules.position").
		Scan(&materials).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch materials!", nil)
	}

	userTagSet := make(map[uint]bool, len(userTagIDs))
	for _, id := range userTagIDs {
		userTagSet[id] = true
	}

	type rankedMaterial struct {
		materialRow
		MatchingTags int `json:"matching_tags"`
	}

	ranked := make([]rankedMaterial, 0, len(materials))
	for _, material := range materials {
		var moduleTagIDs []uint
		database.Database.Db.Model(&courseModels.ModuleTag{}).
			Where("module_id = ?", material.ModuleID).Pluck("tag_id", &moduleTagIDs)

		matching := 0
		for _, id := range moduleTagIDs {
			if userTagSet[id] {
				matching++
			}
		}
		ranked = append(ranked, rankedMaterial{materialRow: material, MatchingTags: matching})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchingTags > ranked[j].MatchingTags
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Materials fetched successfully!", fiber.Map{
		"materials": ranked,
	})
}

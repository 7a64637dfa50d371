package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse creates a course with its optional channel/level pairing and tags
func CreateCourse(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		CourseName  string `json:"courseName"`
		Description string `json:"description"`
		ChannelID   *uint  `json:"channelId"`
		LevelID     *uint  `json:"levelId"`
		TagIDs      []uint `json:"tagIds"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.CourseName == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseName is required!", nil)
	}

	var existing courseModels.Course
	if err := database.Database.Db.Where("organisation_id = ? AND name = ?", session.Organisation.ID, reqData.CourseName).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course name already taken!", nil)
	}

	if reqData.ChannelID != nil {
		var channel models.Channel
		if err := database.Database.Db.Where("id = ? AND organisation_id = ?", *reqData.ChannelID, session.Organisation.ID).
			First(&channel).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Channel not found!", nil)
		}
	}
	if reqData.LevelID != nil {
		var level models.Level
		if err := database.Database.Db.Where("id = ? AND organisation_id = ?", *reqData.LevelID, session.Organisation.ID).
			First(&level).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Level not found!", nil)
		}
	}

	course := courseModels.Course{
		OrganisationID: session.Organisation.ID,
		Name:           reqData.CourseName,
		Description:    reqData.Description,
		CreatedBy:      session.UserID,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course name already taken!", nil)
	}

	if reqData.ChannelID != nil {
		pairing := courseModels.CourseChannel{
			CourseID:  course.ID,
			ChannelID: *reqData.ChannelID,
			LevelID:   reqData.LevelID,
		}
		if err := tx.Create(&pairing).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
		}
	}

	for _, tagID := range reqData.TagIDs {
		var tag models.Tag
		if err := tx.Where("id = ? AND organisation_id = ?", tagID, session.Organisation.ID).First(&tag).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tag not found!", nil)
		}
		courseTag := courseModels.CourseTag{CourseID: course.ID, TagID: tagID}
		if err := tx.Create(&courseTag).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
		}
	}

	tx.Commit()

	utils.LogActivity(session.UserID, session.Organisation.ID, "create_course",
		map[string]interface{}{"courseId": course.ID, "name": course.Name},
		map[string]interface{}{"Course Name": course.Name})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// ListCourses returns the organisation's courses
func ListCourses(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var courses []courseModels.Course
	if err := database.Database.Db.Where("organisation_id = ?", session.Organisation.ID).
		Order("name").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// GetCourse returns a single course with its channel/level pairing and tags
func GetCourse(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId is required!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND organisation_id = ?", courseID, session.Organisation.ID).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var pairing courseModels.CourseChannel
	var channelID, levelID *uint
	if err := database.Database.Db.Where("course_id = ?", course.ID).First(&pairing).Error; err == nil {
		channelID = &pairing.ChannelID
		levelID = pairing.LevelID
	}

	var tagIDs []uint
	database.Database.Db.Model(&courseModels.CourseTag{}).Where("course_id = ?", course.ID).Pluck("tag_id", &tagIDs)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"id":          course.ID,
		"name":        course.Name,
		"description": course.Description,
		"channel_id":  channelID,
		"level_id":    levelID,
		"tag_ids":     tagIDs,
	})
}

// UpdateCourse edits course fields and replaces its channel/level pairing and tags
func UpdateCourse(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		CourseID    uint   `json:"courseId"`
		CourseName  string `json:"courseName"`
		Description string `json:"description"`
		ChannelID   *uint  `json:"channelId"`
		LevelID     *uint  `json:"levelId"`
		TagIDs      []uint `json:"tagIds"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.CourseID == 0 || reqData.CourseName == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId and courseName are required!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND organisation_id = ?", reqData.CourseID, session.Organisation.ID).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var nameTaken courseModels.Course
	if err := database.Database.Db.Where("organisation_id = ? AND name = ? AND id != ?",
		session.Organisation.ID, reqData.CourseName, course.ID).First(&nameTaken).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course name already taken!", nil)
	}

	tx := database.Database.Db.Begin()

	course.Name = reqData.CourseName
	course.Description = reqData.Description
	if err := tx.Save(&course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&courseModels.CourseChannel{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}
	if reqData.ChannelID != nil {
		pairing := courseModels.CourseChannel{
			CourseID:  course.ID,
			ChannelID: *reqData.ChannelID,
			LevelID:   reqData.LevelID,
		}
		if err := tx.Create(&pairing).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
		}
	}

	if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&courseModels.CourseTag{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}
	for _, tagID := range reqData.TagIDs {
		courseTag := courseModels.CourseTag{CourseID: course.ID, TagID: tagID}
		if err := tx.Create(&courseTag).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
		}
	}

	tx.Commit()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse removes a course and everything hanging off it: modules with
// their quiz chains and statuses, enrollments, tags and roadmap items.
func DeleteCourse(c *fiber.Ctx) error {
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

	tx := database.Database.Db.Begin()

	moduleIDs, err := moduleIDsForCourse(tx, course.ID)
	if err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	for _, moduleID := range moduleIDs {
		if err := tx.Unscoped().Where("module_id = ?", moduleID).Delete(&models.RoadmapItem{}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
		}
		if err := deleteModuleData(tx, moduleID); err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
		}
	}

	if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&courseModels.Enrollment{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&courseModels.CourseChannel{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&courseModels.CourseTag{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if err := tx.Unscoped().Delete(&course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	tx.Commit()

	utils.LogActivity(session.UserID, session.Organisation.ID, "delete_course",
		map[string]interface{}{"courseId": course.ID},
		map[string]interface{}{"Course Name": course.Name})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateRoadmap creates an empty roadmap for the user
func CreateRoadmap(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		Name string `json:"name"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Name == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "name is required!", nil)
	}

	roadmap := models.Roadmap{UserID: session.UserID, Name: reqData.Name}
	if err := database.Database.Db.Create(&roadmap).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create roadmap!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Roadmap created successfully!", roadmap)
}

// ListRoadmaps returns the user's roadmaps with item counts
func ListRoadmaps(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	var roadmaps []models.Roadmap
	if err := database.Database.Db.Where("user_id = ?", session.UserID).
		Order("created_at DESC").Find(&roadmaps).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch roadmaps!", nil)
	}

	items := make([]fiber.Map, 0, len(roadmaps))
	for _, roadmap := range roadmaps {
		var count int64
		database.Database.Db.Model(&models.RoadmapItem{}).Where("roadmap_id = ?", roadmap.ID).Count(&count)
		items = append(items, fiber.Map{
			"roadmap":   roadmap,
			"itemCount": count,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Roadmaps fetched successfully!", fiber.Map{
		"roadmaps": items,
	})
}

// GetRoadmap returns one roadmap with its items, module details and the
// user's progress on each module.
func GetRoadmap(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	roadmapID, err := c.ParamsInt("roadmapId")
	if err != nil || roadmapID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "roadmapId is required!", nil)
	}

	roadmap, ok := findUserRoadmap(uint(roadmapID), session.UserID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Roadmap not found!", nil)
	}

	var roadmapItems []models.RoadmapItem
	if err := database.Database.Db.Where("roadmap_id = ?", roadmap.ID).
		Order("position").Find(&roadmapItems).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch roadmap!", nil)
	}

	items := make([]fiber.Map, 0, len(roadmapItems))
	for _, item := range roadmapItems {
		var module courseModels.Module
		if err := database.Database.Db.First(&module, item.ModuleID).Error; err != nil {
			continue
		}
		var course courseModels.Course
		database.Database.Db.First(&course, module.CourseID)

		status := courseModels.StatusNotStarted
		var enrollment courseModels.Enrollment
		if err := database.Database.Db.Where("user_id = ? AND course_id = ?", session.UserID, module.CourseID).
			First(&enrollment).Error; err == nil {
			var moduleStatus courseModels.ModuleStatus
			if err := database.Database.Db.Where("enrollment_id = ? AND module_id = ?", enrollment.ID, module.ID).
				First(&moduleStatus).Error; err == nil {
				status = moduleStatus.Status
			}
		}

		items = append(items, fiber.Map{
			"id":         item.ID,
			"position":   item.Position,
			"moduleId":   module.ID,
			"title":      module.Title,
			"moduleType": module.ModuleType,
			"courseId":   course.ID,
			"courseName": course.Name,
			"status":     status,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Roadmap fetched successfully!", fiber.Map{
		"roadmap": roadmap,
		"items":   items,
	})
}

// RenameRoadmap updates the roadmap's name
func RenameRoadmap(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		RoadmapID uint   `json:"roadmapId"`
		Name      string `json:"name"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.RoadmapID == 0 || reqData.Name == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "roadmapId and name are required!", nil)
	}

	roadmap, ok := findUserRoadmap(reqData.RoadmapID, session.UserID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Roadmap not found!", nil)
	}

	roadmap.Name = reqData.Name
	if err := database.Database.Db.Save(roadmap).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update roadmap!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Roadmap updated successfully!", roadmap)
}

// DeleteRoadmap removes a roadmap and its items
func DeleteRoadmap(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		RoadmapID uint `json:"roadmapId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.RoadmapID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "roadmapId is required!", nil)
	}

	roadmap, ok := findUserRoadmap(reqData.RoadmapID, session.UserID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Roadmap not found!", nil)
	}

	tx := database.Database.Db.Begin()
	if err := tx.Unscoped().Where("roadmap_id = ?", roadmap.ID).Delete(&models.RoadmapItem{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete roadmap!", nil)
	}
	if err := tx.Unscoped().Delete(roadmap).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete roadmap!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Roadmap deleted successfully!", nil)
}

// AddRoadmapItem appends a module to the roadmap and enrolls the user in the
// module's course when not already enrolled.
func AddRoadmapItem(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		RoadmapID uint `json:"roadmapId"`
		ModuleID  uint `json:"moduleId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.RoadmapID == 0 || reqData.ModuleID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "roadmapId and moduleId are required!", nil)
	}

	roadmap, ok := findUserRoadmap(reqData.RoadmapID, session.UserID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Roadmap not found!", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.First(&module, reqData.ModuleID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var existing models.RoadmapItem
	if err := database.Database.Db.Where("roadmap_id = ? AND module_id = ?", roadmap.ID, module.ID).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Module already on this roadmap!", nil)
	}

	tx := database.Database.Db.Begin()

	var maxPosition int
	tx.Model(&models.RoadmapItem{}).Where("roadmap_id = ?", roadmap.ID).
		Select("COALESCE(MAX(position), 0)").Scan(&maxPosition)

	item := models.RoadmapItem{RoadmapID: roadmap.ID, ModuleID: module.ID, Position: maxPosition + 1}
	if err := tx.Create(&item).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add item!", nil)
	}

	if err := ensureEnrolled(tx, session.UserID, module.CourseID); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add item!", nil)
	}

	tx.Commit()
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Item added successfully!", item)
}

// MoveRoadmapItem updates the position of an item within the roadmap
func MoveRoadmapItem(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		RoadmapID uint `json:"roadmapId"`
		ItemID    uint `json:"itemId"`
		Position  int  `json:"position"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.RoadmapID == 0 || reqData.ItemID == 0 || reqData.Position < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "roadmapId, itemId and position are required!", nil)
	}

	roadmap, ok := findUserRoadmap(reqData.RoadmapID, session.UserID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Roadmap not found!", nil)
	}

	var item models.RoadmapItem
	if err := database.Database.Db.Where("id = ? AND roadmap_id = ?", reqData.ItemID, roadmap.ID).
		First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Item not found!", nil)
	}

	item.Position = reqData.Position
	if err := database.Database.Db.Save(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to move item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Item moved successfully!", item)
}

// RemoveRoadmapItem deletes one item from the roadmap. The enrollment made
// when the item was added stays.
func RemoveRoadmapItem(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		RoadmapID uint `json:"roadmapId"`
		ItemID    uint `json:"itemId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.RoadmapID == 0 || reqData.ItemID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "roadmapId and itemId are required!", nil)
	}

	roadmap, ok := findUserRoadmap(reqData.RoadmapID, session.UserID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Roadmap not found!", nil)
	}

	result := database.Database.Db.Unscoped().
		Where("id = ? AND roadmap_id = ?", reqData.ItemID, roadmap.ID).
		Delete(&models.RoadmapItem{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove item!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Item not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Item removed successfully!", nil)
}

func findUserRoadmap(roadmapID, userID uint) (*models.Roadmap, bool) {
	var roadmap models.Roadmap
	if err := database.Database.Db.Where("id = ? AND user_id = ?", roadmapID, userID).
		First(&roadmap).Error; err != nil {
		return nil, false
	}
	return &roadmap, true
}

// ensureEnrolled creates an enrollment with seeded statuses when the user is
// not already enrolled in the course.
func ensureEnrolled(tx *gorm.DB, userID, courseID uint) error {
	var enrollment courseModels.Enrollment
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	enrollment = courseModels.Enrollment{
		UserID:    userID,
		CourseID:  courseID,
		Status:    courseModels.EnrollmentEnrolled,
		StartedAt: time.Now(),
	}
	if err := tx.Create(&enrollment).Error; err != nil {
		return err
	}

	var moduleIDs []uint
	if err := tx.Model(&courseModels.Module{}).Where("course_id = ?", courseID).
		Pluck("id", &moduleIDs).Error; err != nil {
		return err
	}
	for _, moduleID := range moduleIDs {
		status := courseModels.ModuleStatus{
			EnrollmentID: enrollment.ID,
			ModuleID:     moduleID,
			Status:       courseModels.StatusNotStarted,
		}
		if err := tx.Create(&status).Error; err != nil {
			return err
		}
	}
	return nil
}

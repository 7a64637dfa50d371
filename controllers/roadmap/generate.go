package controllers

import (
	"math/rand"
	"sort"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

const maxGeneratedItems = 10

type candidate struct {
	ModuleID       uint
	CourseID       uint
	MatchingSkills int
	ChannelMatch   int
	LevelMatch     int
	tiebreak       float64
}

// GenerateRoadmap builds a recommended roadmap from the organisation's
// modules the user has not completed. Candidates are scored on matching
// skills, then channel fit, then level fit, with explicit preferences
// outranking onboarding-derived ones. If a roadmap with the exact same
// module set already exists the generation aborts with a conflict.
func GenerateRoadmap(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		Name string `json:"name"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Name == "" {
		reqData.Name = "My Roadmap"
	}

	db := database.Database.Db

	// user's skill set
	var userSkillIDs []uint
	db.Model(&models.UserSkill{}).Where("user_id = ?", session.UserID).Pluck("skill_id", &userSkillIDs)
	userSkills := make(map[uint]bool, len(userSkillIDs))
	for _, id := range userSkillIDs {
		userSkills[id] = true
	}

	// explicit preferences
	var explicitChannelIDs, explicitLevelIDs []uint
	db.Model(&models.UserChannel{}).Where("user_id = ?", session.UserID).Pluck("channel_id", &explicitChannelIDs)
	db.Model(&models.UserLevel{}).Where("user_id = ?", session.UserID).Pluck("level_id", &explicitLevelIDs)
	explicitChannels := toSet(explicitChannelIDs)
	explicitLevels := toSet(explicitLevelIDs)

	// onboarding-derived preferences
	var derivedChannelIDs, derivedLevelIDs []uint
	db.Model(&models.OnboardingQuestionOption{}).
		Joins("JOIN onboarding_responses ON onboarding_responses.option_id = onboarding_question_options.id").
		Where("onboarding_responses.user_id = ? AND onboarding_question_options.channel_id IS NOT NULL", session.UserID).
		Pluck("onboarding_question_options.channel_id", &derivedChannelIDs)
	db.Model(&models.OnboardingQuestionOption{}).
		Joins("JOIN onboarding_responses ON onboarding_responses.option_id = onboarding_question_options.id").
		Where("onboarding_responses.user_id = ? AND onboarding_question_options.level_id IS NOT NULL", session.UserID).
		Pluck("onboarding_question_options.level_id", &derivedLevelIDs)
	derivedChannels := toSet(derivedChannelIDs)
	derivedLevels := toSet(derivedLevelIDs)

	// completed module ids for the learner
	var completedModuleIDs []uint
	db.Model(&courseModels.ModuleStatus{}).
		Joins("JOIN enrollments ON enrollments.id = module_statuses.enrollment_id").
		Where("enrollments.user_id = ? AND module_statuses.status = ?", session.UserID, courseModels.StatusCompleted).
		Pluck("module_statuses.module_id", &completedModuleIDs)
	completedModules := toSet(completedModuleIDs)

	type moduleRow struct {
		ID       uint
		CourseID uint
	}
	var orgModules []moduleRow
	if err := db.Model(&courseModels.Module{}).
		Select("modules.id, modules.course_id").
		Joins("JOIN courses ON courses.id = modules.course_id").
		Where("courses.organisation_id = ?", session.Organisation.ID).
		Scan(&orgModules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate roadmap!", nil)
	}

	courseChannels := make(map[uint]*courseModels.CourseChannel)
	candidates := make([]candidate, 0, len(orgModules))
	for _, module := range orgModules {
		if completedModules[module.ID] {
			continue
		}

		cand := candidate{ModuleID: module.ID, CourseID: module.CourseID, tiebreak: rand.Float64()}

		var moduleSkillIDs []uint
		db.Model(&courseModels.ModuleSkill{}).Where("module_id = ?", module.ID).Pluck("skill_id", &moduleSkillIDs)
		for _, id := range moduleSkillIDs {
			if userSkills[id] {
				cand.MatchingSkills++
			}
		}

		pairing, seen := courseChannels[module.CourseID]
		if !seen {
			var row courseModels.CourseChannel
			if err := db.Where("course_id = ?", module.CourseID).First(&row).Error; err == nil {
				pairing = &row
			}
			courseChannels[module.CourseID] = pairing
		}

		if pairing != nil {
			cand.ChannelMatch = matchScore(pairing.ChannelID, explicitChannels, derivedChannels)
			if pairing.LevelID != nil {
				cand.LevelMatch = matchScore(*pairing.LevelID, explicitLevels, derivedLevels)
			}
		}

		candidates = append(candidates, cand)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.MatchingSkills != b.MatchingSkills {
			return a.MatchingSkills > b.MatchingSkills
		}
		if a.ChannelMatch != b.ChannelMatch {
			return a.ChannelMatch > b.ChannelMatch
		}
		if a.LevelMatch != b.LevelMatch {
			return a.LevelMatch > b.LevelMatch
		}
		return a.tiebreak < b.tiebreak
	})

	if len(candidates) > maxGeneratedItems {
		candidates = candidates[:maxGeneratedItems]
	}
	if len(candidates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No modules available to recommend!", nil)
	}

	selected := make(map[uint]bool, len(candidates))
	for _, cand := range candidates {
		selected[cand.ModuleID] = true
	}

	tx := db.Begin()

	// abort when an existing roadmap holds the exact same module set; the
	// check runs inside the transaction so a concurrent generate cannot
	// slip an identical set in between check and insert
	var existingRoadmaps []models.Roadmap
	tx.Where("user_id = ?", session.UserID).Find(&existingRoadmaps)
	for _, existing := range existingRoadmaps {
		var moduleIDs []uint
		tx.Model(&models.RoadmapItem{}).Where("roadmap_id = ?", existing.ID).Pluck("module_id", &moduleIDs)
		if len(moduleIDs) != len(selected) {
			continue
		}
		same := true
		for _, id := range moduleIDs {
			if !selected[id] {
				same = false
				break
			}
		}
		if same {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "An identical roadmap already exists!", fiber.Map{
				"roadmapId": existing.ID,
			})
		}
	}

	roadmap := models.Roadmap{UserID: session.UserID, Name: reqData.Name}
	if err := tx.Create(&roadmap).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate roadmap!", nil)
	}

	enrolledCourses := make(map[uint]bool)
	for i, cand := range candidates {
		item := models.RoadmapItem{RoadmapID: roadmap.ID, ModuleID: cand.ModuleID, Position: i + 1}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate roadmap!", nil)
		}
		if !enrolledCourses[cand.CourseID] {
			if err := ensureEnrolled(tx, session.UserID, cand.CourseID); err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate roadmap!", nil)
			}
			enrolledCourses[cand.CourseID] = true
		}
	}

	tx.Commit()

	utils.LogActivity(session.UserID, session.Organisation.ID, "generate_roadmap",
		map[string]interface{}{"roadmapId": roadmap.ID, "itemCount": len(candidates)},
		map[string]interface{}{"Roadmap Name": roadmap.Name})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Roadmap generated successfully!", fiber.Map{
		"roadmap":   roadmap,
		"itemCount": len(candidates),
	})
}

// matchScore ranks a course's channel or level against the user's
// preferences: explicit preference 5, onboarding-derived 3, tagged but not
// preferred 1.
func matchScore(id uint, explicit, derived map[uint]bool) int {
	switch {
	case explicit[id]:
		return 5
	case derived[id]:
		return 3
	default:
		return 1
	}
}

func toSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

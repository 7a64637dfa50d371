package controllers_test

import (
	"net/http"
	"testing"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollSeedsModuleStatuses(t *testing.T) {
	app := newTestApp(t)
	adminCookie := signupAdmin(t, app, "admin@acme.test", "Acme")
	org := orgByName(t, "Acme")

	courseID := createCourse(t, app, adminCookie, "Go Basics")
	createVideoModule(t, app, adminCookie, courseID, "Intro")
	createVideoModule(t, app, adminCookie, courseID, "Syntax")

	employeeCookie := signupEmployee(t, app, "emp@acme.test", org.ID)

	resp := request(t, app, http.MethodPost, "/enrollment/enroll", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var statuses []courseModels.ModuleStatus
	require.NoError(t, database.Database.Db.
		Joins("JOIN enrollments ON enrollments.id = module_statuses.enrollment_id").
		Where("enrollments.course_id = ?", courseID).
		Find(&statuses).Error)
	require.Len(t, statuses, 2)
	for _, status := range statuses {
		assert.Equal(t, courseModels.StatusNotStarted, status.Status)
	}

	// a second enroll is rejected
	resp = request(t, app, http.MethodPost, "/enrollment/enroll", employeeCookie, fiber.Map{"courseId": courseID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestModuleStateMachine(t *testing.T) {
	app := newTestApp(t)
	adminCookie := signupAdmin(t, app, "admin@acme.test", "Acme")
	org := orgByName(t, "Acme")

	courseID := createCourse(t, app, adminCookie, "Go Basics")
	moduleID := createVideoModule(t, app, adminCookie, courseID, "Intro")

	employeeCookie := signupEmployee(t, app, "emp@acme.test", org.ID)
	resp := request(t, app, http.MethodPost, "/enrollment/enroll", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// completing straight from not_started is rejected
	resp = request(t, app, http.MethodPost, "/enrollment/module/complete", employeeCookie, fiber.Map{"moduleId": moduleID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = request(t, app, http.MethodPost, "/enrollment/module/start", employeeCookie, fiber.Map{"moduleId": moduleID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, app, http.MethodPost, "/enrollment/module/complete", employeeCookie, fiber.Map{"moduleId": moduleID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// completing a completed module is also rejected
	resp = request(t, app, http.MethodPost, "/enrollment/module/complete", employeeCookie, fiber.Map{"moduleId": moduleID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// starting again from completed is allowed
	resp = request(t, app, http.MethodPost, "/enrollment/module/start", employeeCookie, fiber.Map{"moduleId": moduleID})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCompleteCourseRequiresAllModules(t *testing.T) {
	app := newTestApp(t)
	adminCookie := signupAdmin(t, app, "admin@acme.test", "Acme")
	org := orgByName(t, "Acme")

	courseID := createCourse(t, app, adminCookie, "Go Basics")
	firstModule := createVideoModule(t, app, adminCookie, courseID, "Intro")
	secondModule := createVideoModule(t, app, adminCookie, courseID, "Syntax")

	employeeCookie := signupEmployee(t, app, "emp@acme.test", org.ID)
	resp := request(t, app, http.MethodPost, "/enrollment/enroll", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	completeModule := func(moduleID uint) {
		resp := request(t, app, http.MethodPost, "/enrollment/module/start", employeeCookie, fiber.Map{"moduleId": moduleID})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp = request(t, app, http.MethodPost, "/enrollment/module/complete", employeeCookie, fiber.Map{"moduleId": moduleID})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	completeModule(firstModule)

	// one module still open
	resp = request(t, app, http.MethodPost, "/enrollment/course/complete", employeeCookie, fiber.Map{"courseId": courseID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	completeModule(secondModule)

	resp = request(t, app, http.MethodPost, "/enrollment/course/complete", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("course_id = ?", courseID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)

	// uncomplete reverts the enrollment but leaves module statuses alone
	resp = request(t, app, http.MethodPost, "/enrollment/course/uncomplete", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, database.Database.Db.Where("course_id = ?", courseID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentEnrolled, enrollment.Status)
	assert.Nil(t, enrollment.CompletedAt)

	var completedStatuses int64
	database.Database.Db.Model(&courseModels.ModuleStatus{}).
		Where("enrollment_id = ? AND status = ?", enrollment.ID, courseModels.StatusCompleted).
		Count(&completedStatuses)
	assert.Equal(t, int64(2), completedStatuses)
}

func TestUnenrollCascadesAndReenrollStartsFresh(t *testing.T) {
	app := newTestApp(t)
	adminCookie := signupAdmin(t, app, "admin@acme.test", "Acme")
	org := orgByName(t, "Acme")

	courseID := createCourse(t, app, adminCookie, "Go Basics")
	moduleID := createVideoModule(t, app, adminCookie, courseID, "Intro")

	employeeCookie := signupEmployee(t, app, "emp@acme.test", org.ID)
	resp := request(t, app, http.MethodPost, "/enrollment/enroll", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = request(t, app, http.MethodPost, "/enrollment/module/start", employeeCookie, fiber.Map{"moduleId": moduleID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, app, http.MethodPost, "/enrollment/unenroll", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var statusCount int64
	database.Database.Db.Model(&courseModels.ModuleStatus{}).Where("module_id = ?", moduleID).Count(&statusCount)
	assert.Equal(t, int64(0), statusCount)

	// re-enrolling starts from a clean slate
	resp = request(t, app, http.MethodPost, "/enrollment/enroll", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var status courseModels.ModuleStatus
	require.NoError(t, database.Database.Db.Where("module_id = ?", moduleID).First(&status).Error)
	assert.Equal(t, courseModels.StatusNotStarted, status.Status)
}

func TestNewModuleFansOutToEnrollments(t *testing.T) {
	app := newTestApp(t)
	adminCookie := signupAdmin(t, app, "admin@acme.test", "Acme")
	org := orgByName(t, "Acme")

	courseID := createCourse(t, app, adminCookie, "Go Basics")
	createVideoModule(t, app, adminCookie, courseID, "Intro")

	employeeCookie := signupEmployee(t, app, "emp@acme.test", org.ID)
	resp := request(t, app, http.MethodPost, "/enrollment/enroll", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	createVideoModule(t, app, adminCookie, courseID, "Syntax")

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("course_id = ?", courseID).First(&enrollment).Error)

	var statuses []courseModels.ModuleStatus
	require.NoError(t, database.Database.Db.Where("enrollment_id = ?", enrollment.ID).Find(&statuses).Error)
	require.Len(t, statuses, 2)
	for _, status := range statuses {
		assert.Equal(t, courseModels.StatusNotStarted, status.Status)
	}
}

func TestContentEditResetsProgress(t *testing.T) {
	app := newTestApp(t)
	adminCookie := signupAdmin(t, app, "admin@acme.test", "Acme")
	org := orgByName(t, "Acme")

	courseID := createCourse(t, app, adminCookie, "Go Basics")
	moduleID := createVideoModule(t, app, adminCookie, courseID, "Intro")

	employeeCookie := signupEmployee(t, app, "emp@acme.test", org.ID)
	resp := request(t, app, http.MethodPost, "/enrollment/enroll", employeeCookie, fiber.Map{"courseId": courseID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = request(t, app, http.MethodPost, "/enrollment/module/start", employeeCookie, fiber.Map{"moduleId": moduleID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = request(t, app, http.MethodPost, "/enrollment/module/complete", employeeCookie, fiber.Map{"moduleId": moduleID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// metadata-only edit keeps progress
	resp = request(t, app, http.MethodPut, "/admin/course/module/update", adminCookie, fiber.Map{
		"moduleId": moduleID,
		"title":    "Introduction",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status courseModels.ModuleStatus
	require.NoError(t, database.Database.Db.Where("module_id = ?", moduleID).First(&status).Error)
	assert.Equal(t, courseModels.StatusCompleted, status.Status)

	// content edit resets everyone to not_started
	resp = request(t, app, http.MethodPut, "/admin/course/module/update", adminCookie, fiber.Map{
		"moduleId": moduleID,
		"title":    "Introduction",
		"fileUrl":  "/uploads/new-video.mp4",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, database.Database.Db.Where("module_id = ?", moduleID).First(&status).Error)
	assert.Equal(t, courseModels.StatusNotStarted, status.Status)
	assert.Nil(t, status.CompletedAt)
}

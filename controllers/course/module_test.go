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

func TestUpdateModuleKeepsDescriptionOnPartialEdit(t *testing.T) {
	app := newTestApp(t)
	adminCookie := signupAdmin(t, app, "admin@acme.test", "Acme")

	courseID := createCourse(t, app, adminCookie, "Go Basics")
	resp := request(t, app, http.MethodPost, "/admin/course/module/create", adminCookie, fiber.Map{
		"courseId":    courseID,
		"title":       "Intro",
		"description": "Covers variables and types",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var module courseModels.Module
	require.NoError(t, database.Database.Db.Where("course_id = ?", courseID).First(&module).Error)
	require.Equal(t, "Covers variables and types", module.Description)

	// a title-only edit leaves the description alone
	resp = request(t, app, http.MethodPut, "/admin/course/module/update", adminCookie, fiber.Map{
		"moduleId": module.ID,
		"title":    "Introduction",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, database.Database.Db.First(&module, module.ID).Error)
	assert.Equal(t, "Introduction", module.Title)
	assert.Equal(t, "Covers variables and types", module.Description)

	// sending the field explicitly still clears it
	resp = request(t, app, http.MethodPut, "/admin/course/module/update", adminCookie, fiber.Map{
		"moduleId":    module.ID,
		"description": "",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, database.Database.Db.First(&module, module.ID).Error)
	assert.Equal(t, "", module.Description)
}

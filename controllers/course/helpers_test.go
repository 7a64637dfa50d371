package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	authRoutes "lms/routers/authRoutes"
	courseRoutes "lms/routers/courseRoutes"
	orgRoutes "lms/routers/orgRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
		UploadDir: t.TempDir(),
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	_, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	orgRoutes.SetupOrgRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	return app
}

func request(t *testing.T, app *fiber.App, method, path, cookie string, body interface{}) *http.Response {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", "auth="+cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func authCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "auth" {
			return c.Value
		}
	}
	return ""
}

// signupAdmin registers a user, creates an organisation for them and returns
// the reissued admin cookie.
func signupAdmin(t *testing.T, app *fiber.App, email, orgName string) string {
	t.Helper()

	resp := request(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"email":     email,
		"password":  "password123",
		"firstname": "Test",
		"lastname":  "Admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cookie := authCookie(resp)
	require.NotEmpty(t, cookie)

	resp = request(t, app, http.MethodPost, "/organisation/create", cookie, fiber.Map{
		"organisationName": orgName,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cookie = authCookie(resp)
	require.NotEmpty(t, cookie)
	return cookie
}

// signupEmployee registers a user, attaches them to the organisation as an
// employee and returns a cookie carrying the membership.
func signupEmployee(t *testing.T, app *fiber.App, email string, orgID uint) string {
	t.Helper()

	resp := request(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"email":     email,
		"password":  "password123",
		"firstname": "Test",
		"lastname":  "Employee",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", email).First(&user).Error)
	membership := models.OrganisationUser{UserID: user.ID, OrganisationID: orgID, Role: "employee"}
	require.NoError(t, database.Database.Db.Create(&membership).Error)

	// log in again so the cookie picks up the membership
	resp = request(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := authCookie(resp)
	require.NotEmpty(t, cookie)
	return cookie
}

func orgByName(t *testing.T, name string) models.Organisation {
	t.Helper()
	var org models.Organisation
	require.NoError(t, database.Database.Db.Where("name = ?", name).First(&org).Error)
	return org
}

func createCourse(t *testing.T, app *fiber.App, adminCookie, name string) uint {
	t.Helper()
	resp := request(t, app, http.MethodPost, "/admin/course/create", adminCookie, fiber.Map{
		"courseName": name,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var course courseModels.Course
	require.NoError(t, database.Database.Db.Where("name = ?", name).First(&course).Error)
	return course.ID
}

func createVideoModule(t *testing.T, app *fiber.App, adminCookie string, courseID uint, title string) uint {
	t.Helper()
	resp := request(t, app, http.MethodPost, "/admin/course/module/create", adminCookie, fiber.Map{
		"courseId": courseID,
		"title":    title,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var module courseModels.Module
	require.NoError(t, database.Database.Db.Where("course_id = ? AND title = ?", courseID, title).First(&module).Error)
	return module.ID
}

package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	authRoutes "lms/routers/authRoutes"
	orgRoutes "lms/routers/orgRoutes"
	roadmapRoutes "lms/routers/roadmapRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	_, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	orgRoutes.SetupOrgRoutes(app)
	roadmapRoutes.SetupRoadmapRoutes(app)
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

func authCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "auth" {
			return c.Value
		}
	}
	return ""
}

// signupMember registers a user with an organisation membership and returns
// a cookie carrying it.
func signupMember(t *testing.T, app *fiber.App, email string, orgID uint, role string) string {
	t.Helper()

	resp := request(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"email":     email,
		"password":  "password123",
		"firstname": "Road",
		"lastname":  "Mapper",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", email).First(&user).Error)
	membership := models.OrganisationUser{UserID: user.ID, OrganisationID: orgID, Role: role}
	require.NoError(t, database.Database.Db.Create(&membership).Error)

	resp = request(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return authCookie(resp)
}

type fixture struct {
	org    models.Organisation
	skills []models.Skill
}

// seedOrg creates an organisation with a skill taxonomy
func seedOrg(t *testing.T, skillCount int) fixture {
	t.Helper()
	db := database.Database.Db

	org := models.Organisation{Name: "Acme"}
	require.NoError(t, db.Create(&org).Error)

	skills := make([]models.Skill, 0, skillCount)
	for i := 0; i < skillCount; i++ {
		skill := models.Skill{OrganisationID: org.ID, Name: fmt.Sprintf("skill-%d", i)}
		require.NoError(t, db.Create(&skill).Error)
		skills = append(skills, skill)
	}
	return fixture{org: org, skills: skills}
}

// seedCourseWithModule creates one course holding one module tagged with the
// given skills, optionally paired with a channel.
func seedCourseWithModule(t *testing.T, orgID uint, name string, skillIDs []uint, channelID *uint) (uint, uint) {
	t.Helper()
	db := database.Database.Db

	course := courseModels.Course{OrganisationID: orgID, Name: name, CreatedBy: 1}
	require.NoError(t, db.Create(&course).Error)

	module := courseModels.Module{CourseID: course.ID, Title: name + " module", ModuleType: "video", Position: 1}
	require.NoError(t, db.Create(&module).Error)

	for _, skillID := range skillIDs {
		require.NoError(t, db.Create(&courseModels.ModuleSkill{ModuleID: module.ID, SkillID: skillID}).Error)
	}
	if channelID != nil {
		require.NoError(t, db.Create(&courseModels.CourseChannel{CourseID: course.ID, ChannelID: *channelID}).Error)
	}
	return course.ID, module.ID
}

func userByEmail(t *testing.T, email string) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", email).First(&user).Error)
	return user
}

func TestGenerateRanksBySkillMatch(t *testing.T) {
	app := newTestApp(t)
	fix := seedOrg(t, 3)
	cookie := signupMember(t, app, "emp@acme.test", fix.org.ID, "employee")
	user := userByEmail(t, "emp@acme.test")

	for _, skill := range fix.skills {
		require.NoError(t, database.Database.Db.Create(&models.UserSkill{
			UserID: user.ID, SkillID: skill.ID, Level: "beginner",
		}).Error)
	}

	_, strongModule := seedCourseWithModule(t, fix.org.ID, "Strong",
		[]uint{fix.skills[0].ID, fix.skills[1].ID, fix.skills[2].ID}, nil)
	_, mediumModule := seedCourseWithModule(t, fix.org.ID, "Medium",
		[]uint{fix.skills[0].ID}, nil)
	seedCourseWithModule(t, fix.org.ID, "Weak", nil, nil)

	resp := request(t, app, http.MethodPost, "/roadmap/generate", cookie, fiber.Map{"name": "Plan"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var roadmap models.Roadmap
	require.NoError(t, database.Database.Db.Where("user_id = ?", user.ID).First(&roadmap).Error)

	var items []models.RoadmapItem
	require.NoError(t, database.Database.Db.Where("roadmap_id = ?", roadmap.ID).
		Order("position").Find(&items).Error)
	require.Len(t, items, 3)
	assert.Equal(t, strongModule, items[0].ModuleID)
	assert.Equal(t, mediumModule, items[1].ModuleID)

	// every recommended course got an enrollment with seeded statuses
	var enrollments int64
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("user_id = ?", user.ID).Count(&enrollments)
	assert.Equal(t, int64(3), enrollments)
}

func TestGenerateCapsAtTenAndSkipsCompleted(t *testing.T) {
	app := newTestApp(t)
	fix := seedOrg(t, 1)
	cookie := signupMember(t, app, "emp@acme.test", fix.org.ID, "employee")
	user := userByEmail(t, "emp@acme.test")

	var firstCourse, firstModule uint
	for i := 0; i < 12; i++ {
		courseID, moduleID := seedCourseWithModule(t, fix.org.ID, fmt.Sprintf("Course %d", i), nil, nil)
		if i == 0 {
			firstCourse, firstModule = courseID, moduleID
		}
	}

	// complete the first module so it is excluded
	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: firstCourse, Status: courseModels.EnrollmentEnrolled}
	require.NoError(t, database.Database.Db.Create(&enrollment).Error)
	require.NoError(t, database.Database.Db.Create(&courseModels.ModuleStatus{
		EnrollmentID: enrollment.ID, ModuleID: firstModule, Status: courseModels.StatusCompleted,
	}).Error)

	resp := request(t, app, http.MethodPost, "/roadmap/generate", cookie, fiber.Map{"name": "Plan"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var roadmap models.Roadmap
	require.NoError(t, database.Database.Db.Where("user_id = ?", user.ID).First(&roadmap).Error)

	var items []models.RoadmapItem
	require.NoError(t, database.Database.Db.Where("roadmap_id = ?", roadmap.ID).Find(&items).Error)
	assert.Len(t, items, 10)
	for _, item := range items {
		assert.NotEqual(t, firstModule, item.ModuleID)
	}
}

func TestGenerateRejectsDuplicateSet(t *testing.T) {
	app := newTestApp(t)
	fix := seedOrg(t, 0)
	cookie := signupMember(t, app, "emp@acme.test", fix.org.ID, "employee")
	user := userByEmail(t, "emp@acme.test")

	seedCourseWithModule(t, fix.org.ID, "Only Course", nil, nil)

	resp := request(t, app, http.MethodPost, "/roadmap/generate", cookie, fiber.Map{"name": "Plan"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// identical candidate set, so the second run conflicts
	resp = request(t, app, http.MethodPost, "/roadmap/generate", cookie, fiber.Map{"name": "Plan Two"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var roadmapCount int64
	database.Database.Db.Model(&models.Roadmap{}).Where("user_id = ?", user.ID).Count(&roadmapCount)
	assert.Equal(t, int64(1), roadmapCount)
}

func TestGeneratePrefersExplicitChannel(t *testing.T) {
	app := newTestApp(t)
	fix := seedOrg(t, 0)
	cookie := signupMember(t, app, "emp@acme.test", fix.org.ID, "employee")
	user := userByEmail(t, "emp@acme.test")

	db := database.Database.Db
	preferred := models.Channel{OrganisationID: fix.org.ID, Name: "video"}
	other := models.Channel{OrganisationID: fix.org.ID, Name: "reading"}
	require.NoError(t, db.Create(&preferred).Error)
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.UserChannel{UserID: user.ID, ChannelID: preferred.ID, Rank: 1}).Error)

	_, preferredModule := seedCourseWithModule(t, fix.org.ID, "Preferred", nil, &preferred.ID)
	seedCourseWithModule(t, fix.org.ID, "Other", nil, &other.ID)
	seedCourseWithModule(t, fix.org.ID, "Untagged", nil, nil)

	resp := request(t, app, http.MethodPost, "/roadmap/generate", cookie, fiber.Map{"name": "Plan"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var roadmap models.Roadmap
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&roadmap).Error)

	var items []models.RoadmapItem
	require.NoError(t, db.Where("roadmap_id = ?", roadmap.ID).Order("position").Find(&items).Error)
	require.Len(t, items, 3)
	assert.Equal(t, preferredModule, items[0].ModuleID)
}

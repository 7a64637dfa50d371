package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	app := fiber.New()
	app.Post("/issue", func(c *fiber.Ctx) error {
		session := &middleware.Session{
			UserID:     7,
			Email:      "dev@example.com",
			Firstname:  "Dev",
			IsLoggedIn: true,
			Organisation: &middleware.SessionOrganisation{
				ID:        3,
				Role:      "admin",
				AiEnabled: true,
			},
		}
		if err := middleware.SetAuthCookie(c, session); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/protected", middleware.SessionRequired, func(c *fiber.Ctx) error {
		return c.JSON(middleware.GetSession(c))
	})
	app.Get("/admin-only", middleware.SessionRequired, middleware.AdminRequired, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func issueCookie(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/issue", nil))
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		if c.Name == "auth" {
			return c.Value
		}
	}
	t.Fatal("no auth cookie issued")
	return ""
}

func TestCookieRoundTrip(t *testing.T) {
	app := newApp(t)
	cookie := issueCookie(t, app)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Cookie", "auth="+cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionRequiredRejectsMissingCookie(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionRequiredRejectsTamperedToken(t *testing.T) {
	app := newApp(t)
	cookie := issueCookie(t, app)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Cookie", "auth="+cookie+"x")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRequired(t *testing.T) {
	app := newApp(t)
	cookie := issueCookie(t, app)

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Cookie", "auth="+cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminRequiredRejectsEmployee(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	app := fiber.New()
	app.Post("/issue", func(c *fiber.Ctx) error {
		session := &middleware.Session{
			UserID:     8,
			IsLoggedIn: true,
			Organisation: &middleware.SessionOrganisation{
				ID:   3,
				Role: "employee",
			},
		}
		return middleware.SetAuthCookie(c, session)
	})
	app.Get("/admin-only", middleware.SessionRequired, middleware.AdminRequired, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/issue", nil))
	require.NoError(t, err)
	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == "auth" {
			cookie = c.Value
		}
	}
	require.NotEmpty(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Cookie", "auth="+cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

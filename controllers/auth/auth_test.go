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
	authRoutes "lms/routers/authRoutes"

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
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, cookie string, body interface{}) *http.Response {
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

func TestSignupAndLogin(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"email":     "alice@example.com",
		"password":  "password123",
		"firstname": "Alice",
		"lastname":  "Smith",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, authCookie(resp))

	// duplicate email is rejected
	resp = doJSON(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// wrong password
	resp = doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := authCookie(resp)
	require.NotEmpty(t, cookie)

	// the cookie round-trips through /auth/me
	resp = doJSON(t, app, http.MethodGet, "/auth/me", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, true, me["isLoggedIn"])
	assert.Equal(t, "alice@example.com", me["email"])
}

func TestSignupValidation(t *testing.T) {
	app := newTestApp(t)

	// short password
	resp := doJSON(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"email":    "bob@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// bad email
	resp = doJSON(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"email":    "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestMeWithoutCookie(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, false, me["isLoggedIn"])
}

func TestLogoutClearsCookie(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"email":    "carol@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == "auth" {
			assert.Empty(t, c.Value)
		}
	}
}

package controllers

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	authValidator "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// buildSession assembles the cookie snapshot for a user, including their
// organisation membership when one exists.
func buildSession(user *models.User) *middleware.Session {
	session := &middleware.Session{
		UserID:                 user.ID,
		Email:                  user.Email,
		Firstname:              user.Firstname,
		Lastname:               user.Lastname,
		IsLoggedIn:             true,
		HasCompletedOnboarding: user.HasCompletedOnboarding,
	}

	var membership models.OrganisationUser
	if err := database.Database.Db.Where("user_id = ?", user.ID).First(&membership).Error; err == nil {
		var org models.Organisation
		if err := database.Database.Db.First(&org, membership.OrganisationID).Error; err == nil {
			session.Organisation = &middleware.SessionOrganisation{
				ID:        org.ID,
				Role:      membership.Role,
				AiEnabled: org.AiEnabled,
			}
		}
	}

	return session
}

// Signup registers a new user and logs them in
func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*authValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var existing models.User
	if err := database.Database.Db.Where("email = ?", reqData.Email).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email already registered!", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	user := models.User{
		Email:        reqData.Email,
		PasswordHash: string(hash),
		Firstname:    reqData.Firstname,
		Lastname:     reqData.Lastname,
	}
	if err := database.Database.Db.Create(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email already registered!", nil)
	}

	session := buildSession(&user)
	if err := middleware.SetAuthCookie(c, session); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Signed up successfully!", session)
}

// Login verifies credentials and issues a fresh session cookie
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	session := buildSession(&user)
	if err := middleware.SetAuthCookie(c, session); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged in successfully!", session)
}

// Logout clears the session cookie
func Logout(c *fiber.Ctx) error {
	middleware.ClearAuthCookie(c)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out successfully!", nil)
}

// Me echoes the current session snapshot
func Me(c *fiber.Ctx) error {
	session, err := middleware.ParseAuthCookie(c)
	if err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"isLoggedIn": false})
	}
	return c.Status(fiber.StatusOK).JSON(session)
}

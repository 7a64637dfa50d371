package controllers

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// ListOrgUsers returns all members of the admin's organisation
func ListOrgUsers(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	type orgUser struct {
		ID        uint   `json:"id"`
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
		Email     string `json:"email"`
		Role      string `json:"role"`
	}

	var users []orgUser
	if err := database.Database.Db.Model(&models.User{}).
		Select("users.id, users.firstname, users.lastname, users.email, organisation_users.role").
		Joins("JOIN organisation_users ON organisation_users.user_id = users.id").
		Where("organisation_users.organisation_id = ?", session.Organisation.ID).
		Scan(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", users)
}

// DeleteUser removes a user from the system (admin only)
func DeleteUser(c *fiber.Ctx) error {
	reqData := new(struct {
		UserID uint `json:"userId"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.UserID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing user ID to delete!", nil)
	}

	result := database.Database.Db.Unscoped().Delete(&models.User{}, reqData.UserID)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}

// UpdateProfile updates names/email and reissues the session cookie
func UpdateProfile(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
		Email     string `json:"email"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Firstname == "" || reqData.Lastname == "" || reqData.Email == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing required fields!", nil)
	}

	var emailTaken models.User
	if err := database.Database.Db.Where("email = ? AND id != ?", reqData.Email, session.UserID).
		First(&emailTaken).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email already in use!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, session.UserID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.Firstname = reqData.Firstname
	user.Lastname = reqData.Lastname
	user.Email = reqData.Email
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	session.Firstname = user.Firstname
	session.Lastname = user.Lastname
	session.Email = user.Email
	if err := middleware.SetAuthCookie(c, session); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", session)
}

// UpdatePassword verifies the current password and stores a new hash
func UpdatePassword(c *fiber.Ctx) error {
	session := middleware.GetSession(c)

	reqData := new(struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.CurrentPassword == "" || reqData.NewPassword == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing required fields!", nil)
	}
	if len(reqData.NewPassword) < 8 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "New password must be at least 8 characters long!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, session.UserID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Current password is incorrect!", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	user.PasswordHash = string(hash)
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password updated successfully!", nil)
}

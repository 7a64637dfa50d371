package middleware

import (
	"fmt"
	"lms/config"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// SessionOrganisation is the denormalized org snapshot carried in the cookie
type SessionOrganisation struct {
	ID        uint   `json:"id"`
	Role      string `json:"role"` // admin, employee
	AiEnabled bool   `json:"ai_enabled"`
}

// Session is the identity snapshot carried in the signed auth cookie. It is
// rebuilt per request and never mutated in place; role or org changes must
// reissue the cookie via SetAuthCookie.
type Session struct {
	UserID                 uint                 `json:"userId"`
	Email                  string               `json:"email"`
	Firstname              string               `json:"firstname"`
	Lastname               string               `json:"lastname"`
	IsLoggedIn             bool                 `json:"isLoggedIn"`
	HasCompletedOnboarding bool                 `json:"hasCompletedOnboarding"`
	Organisation           *SessionOrganisation `json:"organisation,omitempty"`
}

// IsAdmin reports whether the session belongs to an organisation admin
func (s *Session) IsAdmin() bool {
	return s.Organisation != nil && s.Organisation.Role == "admin"
}

// IsEmployee reports whether the session belongs to an organisation employee
func (s *Session) IsEmployee() bool {
	return s.Organisation != nil && s.Organisation.Role == "employee"
}

// generateSessionToken signs the session snapshot into a JWT
func generateSessionToken(session *Session) (string, error) {
	claims := jwt.MapClaims{
		"userId":                 session.UserID,
		"email":                  session.Email,
		"firstname":              session.Firstname,
		"lastname":               session.Lastname,
		"isLoggedIn":             session.IsLoggedIn,
		"hasCompletedOnboarding": session.HasCompletedOnboarding,
		"iat":                    time.Now().Unix(),
		"exp":                    time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	if session.Organisation != nil {
		claims["organisation"] = map[string]interface{}{
			"id":         session.Organisation.ID,
			"role":       session.Organisation.Role,
			"ai_enabled": session.Organisation.AiEnabled,
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// SetAuthCookie signs the session and writes it to the auth cookie
func SetAuthCookie(c *fiber.Ctx, session *Session) error {
	tokenString, err := generateSessionToken(session)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     "auth",
		Value:    tokenString,
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return nil
}

// ClearAuthCookie removes the auth cookie
func ClearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "auth",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// ParseAuthCookie verifies the auth cookie and rebuilds the session snapshot
func ParseAuthCookie(c *fiber.Ctx) (*Session, error) {
	cookie := c.Cookies("auth")
	if cookie == "" {
		return nil, fmt.Errorf("missing auth cookie")
	}

	token, err := jwt.Parse(cookie, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired session")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return nil, fmt.Errorf("invalid session payload")
	}

	session := &Session{
		UserID:                 uint(claims["userId"].(float64)),
		Email:                  asString(claims["email"]),
		Firstname:              asString(claims["firstname"]),
		Lastname:               asString(claims["lastname"]),
		IsLoggedIn:             asBool(claims["isLoggedIn"]),
		HasCompletedOnboarding: asBool(claims["hasCompletedOnboarding"]),
	}

	if org, ok := claims["organisation"].(map[string]interface{}); ok {
		session.Organisation = &SessionOrganisation{
			Role:      asString(org["role"]),
			AiEnabled: asBool(org["ai_enabled"]),
		}
		if id, ok := org["id"].(float64); ok {
			session.Organisation.ID = uint(id)
		}
	}

	return session, nil
}

// SessionRequired rejects requests without a valid auth cookie
func SessionRequired(c *fiber.Ctx) error {
	session, err := ParseAuthCookie(c)
	if err != nil || !session.IsLoggedIn {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Not authenticated!", nil)
	}

	c.Locals("session", session)
	return c.Next()
}

// AdminRequired rejects sessions without the organisation admin role.
// Must run after SessionRequired.
func AdminRequired(c *fiber.Ctx) error {
	session := GetSession(c)
	if session == nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Not authenticated!", nil)
	}
	if !session.IsAdmin() {
		return JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}
	return c.Next()
}

// EmployeeRequired rejects sessions without the employee role
func EmployeeRequired(c *fiber.Ctx) error {
	session := GetSession(c)
	if session == nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Not authenticated!", nil)
	}
	if !session.IsEmployee() {
		return JsonResponse(c, fiber.StatusForbidden, false, "Employee access required!", nil)
	}
	return c.Next()
}

// OrganisationRequired rejects sessions that are not linked to an organisation
func OrganisationRequired(c *fiber.Ctx) error {
	session := GetSession(c)
	if session == nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Not authenticated!", nil)
	}
	if session.Organisation == nil {
		return JsonResponse(c, fiber.StatusBadRequest, false, "Organisation required!", nil)
	}
	return c.Next()
}

// GetSession returns the session stored by SessionRequired
func GetSession(c *fiber.Ctx) *Session {
	session, _ := c.Locals("session").(*Session)
	return session
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

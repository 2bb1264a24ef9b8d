package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/hosamatch/backend/internal/models"
	"github.com/hosamatch/backend/pkg/logger"
	"github.com/hosamatch/backend/pkg/utils"
	"gorm.io/gorm"
)

const (
	sessionClaimsKey = "sessionClaims"
	currentUserKey   = "currentUser"
)

type AuthMiddleware struct {
	DB *gorm.DB
}

func NewAuthMiddleware(db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{DB: db}
}

func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "http://localhost:3000,http://127.0.0.1:3000",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	})
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
	if token == authHeader || token == "" {
		return "", false
	}
	return token, true
}

// RequireSession accepts any valid session token, whether or not an
// account record exists yet. Onboarding endpoints run behind this.
func (a *AuthMiddleware) RequireSession(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		logger.Warn("session_missing_token", map[string]interface{}{
			"ip":   c.IP(),
			"path": c.Path(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "missing or malformed authorization header")
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		logger.Warn("session_invalid_token", map[string]interface{}{
			"ip":    c.IP(),
			"path":  c.Path(),
			"error": err.Error(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "invalid or expired token")
	}

	c.Locals(sessionClaimsKey, claims)
	return c.Next()
}

// RequireAccount additionally resolves the session to a member record by
// email. A valid session without a record means the user has not finished
// onboarding; the client treats the error body as the new-account gate.
func (a *AuthMiddleware) RequireAccount(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return utils.Error(c, fiber.StatusUnauthorized, "missing or malformed authorization header")
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		return utils.Error(c, fiber.StatusUnauthorized, "invalid or expired token")
	}

	var user models.User
	if err := a.DB.First(&user, "email = ?", claims.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusUnauthorized, "account not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed resolving session")
	}

	c.Locals(sessionClaimsKey, claims)
	c.Locals(currentUserKey, &user)
	return c.Next()
}

func GetSessionClaims(c *fiber.Ctx) *utils.Claims {
	value := c.Locals(sessionClaimsKey)
	if value == nil {
		return nil
	}
	claims, ok := value.(*utils.Claims)
	if !ok {
		return nil
	}
	return claims
}

func GetCurrentUser(c *fiber.Ctx) *models.User {
	value := c.Locals(currentUserKey)
	if value == nil {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

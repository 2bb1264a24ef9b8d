package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hosamatch/backend/internal/services"
	"github.com/hosamatch/backend/pkg/logger"
	"github.com/hosamatch/backend/pkg/utils"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// serviceError translates store/authorization sentinels into the {error}
// envelope. Anything unexpected is logged and degraded to a generic
// message rather than propagated raw.
func serviceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrNameRequired):
		return utils.Error(c, fiber.StatusBadRequest, "name is required")
	case errors.Is(err, services.ErrNoAdmins):
		return utils.Error(c, fiber.StatusBadRequest, "a school must have at least one admin")
	case errors.Is(err, services.ErrUnknownAdmin):
		return utils.Error(c, fiber.StatusBadRequest, "admin list references an unknown user")
	case errors.Is(err, services.ErrNotFound):
		return utils.Error(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrDenied):
		return utils.Error(c, fiber.StatusForbidden, "not authorized for this school")
	default:
		logger.Error("unexpected_error", map[string]interface{}{
			"path":  c.Path(),
			"error": err.Error(),
		})
		return utils.Error(c, fiber.StatusInternalServerError, fallback)
	}
}

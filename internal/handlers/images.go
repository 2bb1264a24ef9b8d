package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hosamatch/backend/internal/middleware"
	"github.com/hosamatch/backend/internal/services"
	"github.com/hosamatch/backend/internal/storage"
	"github.com/hosamatch/backend/pkg/logger"
	"github.com/hosamatch/backend/pkg/utils"
)

const maxImageSize = 5 * 1024 * 1024

type ImagesHandler struct {
	Storage *storage.MinIOClient
	Access  *services.AccessService
}

func NewImagesHandler(store *storage.MinIOClient, access *services.AccessService) *ImagesHandler {
	return &ImagesHandler{Storage: store, Access: access}
}

// Upload stores a school or event image and returns its public URL.
// Restricted to school admins since only they set those images.
func (h *ImagesHandler) Upload(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if h.Storage == nil {
		return utils.Error(c, fiber.StatusServiceUnavailable, "image storage is not configured")
	}

	if _, err := h.Access.AuthorizeDashboard(c.Context(), currentUser.ID); err != nil {
		if errors.Is(err, services.ErrDenied) {
			return utils.Error(c, fiber.StatusForbidden, "not a school admin")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed validating admin status")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "image file is required")
	}
	if fileHeader.Size > maxImageSize {
		return utils.Error(c, fiber.StatusBadRequest, "image exceeds the 5MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "failed reading image")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.Storage.UploadImage(c.Context(), fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		logger.Error("image_upload_failed", map[string]interface{}{"error": err.Error()})
		return utils.Error(c, fiber.StatusInternalServerError, "failed uploading image")
	}

	logger.InfoWithUser(currentUser.ID.String(), "image_uploaded", map[string]interface{}{
		"size": fileHeader.Size,
	})
	return utils.Data(c, fiber.StatusOK, fiber.Map{"url": url})
}

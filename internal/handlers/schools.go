package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hosamatch/backend/internal/middleware"
	"github.com/hosamatch/backend/internal/models"
	"github.com/hosamatch/backend/internal/services"
	"github.com/hosamatch/backend/pkg/logger"
	"github.com/hosamatch/backend/pkg/utils"
)

type SchoolsHandler struct {
	Schools *services.SchoolService
	Access  *services.AccessService
	Mailer  *services.MailerService
}

func NewSchoolsHandler(schools *services.SchoolService, access *services.AccessService, mailer *services.MailerService) *SchoolsHandler {
	return &SchoolsHandler{Schools: schools, Access: access, Mailer: mailer}
}

// schoolMutationRequest is the raw POST body. The endpoint is overloaded:
// a body without an id is a create, a body with one is an update. The
// variants are split out explicitly before any work happens.
type schoolMutationRequest struct {
	ID          *string  `json:"id"`
	Name        *string  `json:"name"`
	Admin       []string `json:"admin"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

type createSchoolRequest struct {
	Name        string
	Description string
	Image       string
}

type updateSchoolRequest struct {
	ID          uuid.UUID
	Name        *string
	Admin       []string
	Description *string
	Image       *string
}

// Post dispatches the overloaded /api/school mutation.
func (h *SchoolsHandler) Post(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var raw schoolMutationRequest
	if err := c.BodyParser(&raw); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if raw.ID == nil {
		req := createSchoolRequest{}
		if raw.Name != nil {
			req.Name = *raw.Name
		}
		if raw.Description != nil {
			req.Description = *raw.Description
		}
		if raw.Image != nil {
			req.Image = *raw.Image
		}
		return h.create(c, req, currentUser)
	}

	schoolID, err := parseUUID(*raw.ID)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid school id")
	}
	return h.update(c, updateSchoolRequest{
		ID:          schoolID,
		Name:        raw.Name,
		Admin:       raw.Admin,
		Description: raw.Description,
		Image:       raw.Image,
	}, currentUser)
}

// create makes the caller the school's sole admin regardless of any admin
// list in the body; founding-admin status comes from the session, not from
// client input.
func (h *SchoolsHandler) create(c *fiber.Ctx, req createSchoolRequest, currentUser *models.User) error {
	school, err := h.Schools.CreateSchool(c.Context(), services.CreateSchoolInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	}, currentUser.ID)
	if err != nil {
		return serviceError(c, err, "failed creating school")
	}

	logger.InfoWithUser(currentUser.ID.String(), "school_created", map[string]interface{}{
		"school_id":   school.ID.String(),
		"school_name": school.Name,
	})

	return utils.Created(c, school.ID.String())
}

func (h *SchoolsHandler) update(c *fiber.Ctx, req updateSchoolRequest, currentUser *models.User) error {
	if err := h.Access.AuthorizeSchool(c.Context(), currentUser.ID, req.ID); err != nil {
		return serviceError(c, err, "failed validating admin status")
	}

	var previousAdmins map[string]struct{}
	if req.Admin != nil {
		before, err := h.Schools.GetSchool(c.Context(), req.ID)
		if err != nil {
			return serviceError(c, err, "failed loading school")
		}
		previousAdmins = make(map[string]struct{}, len(before.AdminIDs))
		for _, id := range before.AdminIDs {
			previousAdmins[id] = struct{}{}
		}
	}

	school, err := h.Schools.UpdateSchool(c.Context(), req.ID, services.UpdateSchoolInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		AdminIDs:    req.Admin,
	})
	if err != nil {
		return serviceError(c, err, "failed updating school")
	}

	if previousAdmins != nil {
		h.notifyNewAdmins(c, school, previousAdmins)
	}

	logger.InfoWithUser(currentUser.ID.String(), "school_updated", map[string]interface{}{
		"school_id": school.ID.String(),
	})

	return utils.JSON(c, fiber.StatusOK, school)
}

// notifyNewAdmins emails users who just gained admin status. Best effort:
// a mail failure never fails the mutation.
func (h *SchoolsHandler) notifyNewAdmins(c *fiber.Ctx, school *models.School, previousAdmins map[string]struct{}) {
	for _, admin := range school.Admins {
		id := admin.UserID.String()
		if _, existed := previousAdmins[id]; existed {
			continue
		}

		var user models.User
		if err := h.Schools.DB.First(&user, "id = ?", admin.UserID).Error; err != nil {
			continue
		}
		if err := h.Mailer.NotifyAdminAdded(c.Context(), user.Email, school.Name); err != nil {
			logger.Warn("admin_notification_failed", map[string]interface{}{
				"school_id": school.ID.String(),
				"user_id":   id,
				"error":     err.Error(),
			})
		}
	}
}

// Get serves both the school list and the single-school graph. The iter
// query parameter is the client's cache-buster; the server ignores it.
func (h *SchoolsHandler) Get(c *fiber.Ctx) error {
	rawID := c.Query("id")
	if rawID == "" {
		schools, err := h.Schools.ListSchools(c.Context())
		if err != nil {
			return serviceError(c, err, "failed listing schools")
		}
		return utils.Data(c, fiber.StatusOK, schools)
	}

	schoolID, err := parseUUID(rawID)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid school id")
	}

	graph, err := h.Schools.Graph(c.Context(), schoolID)
	if err != nil {
		return serviceError(c, err, "failed loading school")
	}
	return utils.Data(c, fiber.StatusOK, graph)
}

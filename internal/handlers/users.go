package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hosamatch/backend/internal/middleware"
	"github.com/hosamatch/backend/internal/services"
	"github.com/hosamatch/backend/pkg/utils"
)

type UsersHandler struct {
	Schools *services.SchoolService
	Access  *services.AccessService
}

func NewUsersHandler(schools *services.SchoolService, access *services.AccessService) *UsersHandler {
	return &UsersHandler{Schools: schools, Access: access}
}

// List returns the members of a school. Restricted to that school's
// admins; the roster carries names and emails. removeAdmins=true filters
// out users already in the admin set, which is what the add-admin picker
// wants.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	schoolID, err := parseUUID(c.Query("school"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid school id")
	}

	if err := h.Access.AuthorizeSchool(c.Context(), currentUser.ID, schoolID); err != nil {
		return serviceError(c, err, "failed validating admin status")
	}

	removeAdmins, _ := strconv.ParseBool(c.Query("removeAdmins", "false"))

	users, err := h.Schools.ListUsersBySchool(c.Context(), schoolID, removeAdmins)
	if err != nil {
		return serviceError(c, err, "failed listing users")
	}
	return utils.Data(c, fiber.StatusOK, users)
}

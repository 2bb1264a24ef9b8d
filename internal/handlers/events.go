package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hosamatch/backend/internal/middleware"
	"github.com/hosamatch/backend/internal/services"
	"github.com/hosamatch/backend/pkg/logger"
	"github.com/hosamatch/backend/pkg/utils"
)

type EventsHandler struct {
	Schools *services.SchoolService
	Access  *services.AccessService
}

func NewEventsHandler(schools *services.SchoolService, access *services.AccessService) *EventsHandler {
	return &EventsHandler{Schools: schools, Access: access}
}

// eventMutationRequest mirrors the overloaded school mutation: no id means
// create (school required), id means update.
type eventMutationRequest struct {
	ID          *string  `json:"id"`
	School      string   `json:"school"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Labels      []string `json:"labels"`
	Image       *string  `json:"image"`
}

func (h *EventsHandler) Post(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req eventMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.ID == nil {
		schoolID, err := parseUUID(req.School)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid school id")
		}
		if err := h.Access.AuthorizeSchool(c.Context(), currentUser.ID, schoolID); err != nil {
			return serviceError(c, err, "failed validating admin status")
		}

		input := services.CreateEventInput{Labels: req.Labels}
		if req.Name != nil {
			input.Name = *req.Name
		}
		if req.Description != nil {
			input.Description = *req.Description
		}
		if req.Image != nil {
			input.Image = *req.Image
		}

		event, err := h.Schools.CreateEvent(c.Context(), schoolID, input, currentUser.ID)
		if err != nil {
			return serviceError(c, err, "failed creating event")
		}

		logger.InfoWithUser(currentUser.ID.String(), "event_created", map[string]interface{}{
			"event_id":  event.ID.String(),
			"school_id": schoolID.String(),
		})
		return utils.Created(c, event.ID.String())
	}

	eventID, err := parseUUID(*req.ID)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	// Admin status is checked against the event's owning school, derived
	// server-side, never from the request body.
	existing, err := h.Schools.GetEvent(c.Context(), eventID)
	if err != nil {
		return serviceError(c, err, "failed loading event")
	}
	if err := h.Access.AuthorizeSchool(c.Context(), currentUser.ID, existing.SchoolID); err != nil {
		return serviceError(c, err, "failed validating admin status")
	}

	event, err := h.Schools.UpdateEvent(c.Context(), eventID, services.UpdateEventInput{
		Name:        req.Name,
		Description: req.Description,
		Labels:      req.Labels,
		Image:       req.Image,
	})
	if err != nil {
		return serviceError(c, err, "failed updating event")
	}

	return utils.JSON(c, fiber.StatusOK, event)
}

func (h *EventsHandler) List(c *fiber.Ctx) error {
	schoolID, err := parseUUID(c.Query("school"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid school id")
	}

	events, err := h.Schools.ListEventsBySchool(c.Context(), schoolID)
	if err != nil {
		return serviceError(c, err, "failed listing events")
	}
	return utils.Data(c, fiber.StatusOK, events)
}

func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	eventID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	event, err := h.Schools.GetEvent(c.Context(), eventID)
	if err != nil {
		return serviceError(c, err, "failed loading event")
	}
	if err := h.Access.AuthorizeSchool(c.Context(), currentUser.ID, event.SchoolID); err != nil {
		return serviceError(c, err, "failed validating admin status")
	}

	if err := h.Schools.DeleteEvent(c.Context(), eventID); err != nil {
		return serviceError(c, err, "failed deleting event")
	}

	logger.InfoWithUser(currentUser.ID.String(), "event_deleted", map[string]interface{}{
		"event_id": eventID.String(),
	})
	return utils.JSON(c, fiber.StatusOK, fiber.Map{"message": "event deleted"})
}

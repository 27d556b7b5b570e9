package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/reflalabs/refla-backend/internal/dto"
	"github.com/reflalabs/refla-backend/internal/middleware"
	"github.com/reflalabs/refla-backend/internal/services"
)

type CheckinHandler struct {
	service *services.CheckinService
}

func NewCheckinHandler(service *services.CheckinService) *CheckinHandler {
	return &CheckinHandler{service: service}
}

func (h *CheckinHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateCheckinRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return badRequest(c, "energy, mood and sleep_quality must be 1-5, adherence 0-100")
	}

	checkin, err := h.service.Create(userID, &req)
	if err != nil {
		return serverError(c, "Failed to create check-in")
	}

	return c.Status(fiber.StatusCreated).JSON(checkin)
}

func (h *CheckinHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	checkins, err := h.service.List(userID, c.Query("from"), c.Query("to"))
	if err != nil {
		return serverError(c, "Failed to fetch check-ins")
	}

	return c.JSON(checkins)
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/reflalabs/refla-backend/internal/dto"
	"github.com/reflalabs/refla-backend/internal/middleware"
	"github.com/reflalabs/refla-backend/internal/services"
)

type OnboardingHandler struct {
	service *services.OnboardingService
}

func NewOnboardingHandler(service *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

func (h *OnboardingHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	onboarding, err := h.service.Get(userID)
	if err != nil {
		if errors.Is(err, services.ErrOnboardingMissing) {
			return notFound(c, err.Error())
		}
		return serverError(c, "Failed to fetch onboarding")
	}

	return c.JSON(onboarding)
}

func (h *OnboardingHandler) UpdateGoals(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpdateGoalsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return badRequest(c, "goalData is required")
	}

	onboarding, err := h.service.UpdateGoals(userID, req.GoalData)
	if err != nil {
		return serverError(c, "Failed to update goals")
	}

	return c.JSON(onboarding)
}

func (h *OnboardingHandler) UpdateCurrentState(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpdateCurrentStateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return badRequest(c, "currentStateData is required")
	}

	onboarding, err := h.service.UpdateCurrentState(userID, req.CurrentStateData)
	if err != nil {
		return serverError(c, "Failed to update current state")
	}

	return c.JSON(onboarding)
}

func (h *OnboardingHandler) UpdateRoutine(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpdateRoutineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return badRequest(c, "routineData is required")
	}

	onboarding, err := h.service.UpdateRoutine(userID, req.RoutineData)
	if err != nil {
		return serverError(c, "Failed to update routine")
	}

	return c.JSON(onboarding)
}

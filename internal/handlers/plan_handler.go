package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/reflalabs/refla-backend/internal/middleware"
	"github.com/reflalabs/refla-backend/internal/services"
)

type PlanHandler struct {
	service *services.PlanService
}

func NewPlanHandler(service *services.PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

func (h *PlanHandler) Generate(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	plan, err := h.service.Generate(c.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, services.ErrOnboardingMissing):
			return badRequest(c, "Onboarding not found. Complete onboarding first.")
		case errors.Is(err, services.ErrOnboardingIncomplete):
			return badRequest(c, fmt.Sprintf("Onboarding not completed: %s", err.Error()))
		default:
			// Upstream and schema failures surface as an opaque server error.
			return serverError(c, "Failed to generate plan")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (h *PlanHandler) GetActive(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	plan, err := h.service.ActivePlan(userID)
	if err != nil {
		if errors.Is(err, services.ErrNoActivePlan) {
			return notFound(c, err.Error())
		}
		return serverError(c, "Failed to fetch active plan")
	}

	return c.JSON(plan)
}

func (h *PlanHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	plans, err := h.service.List(userID)
	if err != nil {
		return serverError(c, "Failed to fetch plans")
	}

	return c.JSON(plans)
}

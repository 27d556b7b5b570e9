package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/reflalabs/refla-backend/internal/dto"
	"github.com/reflalabs/refla-backend/internal/middleware"
	"github.com/reflalabs/refla-backend/internal/models"
	"github.com/reflalabs/refla-backend/internal/services"
)

type SessionHandler struct {
	service *services.ChatService
}

func NewSessionHandler(service *services.ChatService) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return badRequest(c, "type must be onboarding or coaching")
	}

	session, err := h.service.CreateSession(userID, models.SessionType(req.Type))
	if err != nil {
		return serverError(c, "Failed to create session")
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *SessionHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessions, err := h.service.ListSessions(userID)
	if err != nil {
		return serverError(c, "Failed to fetch sessions")
	}

	return c.JSON(sessions)
}

func (h *SessionHandler) Messages(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid session id")
	}

	messages, err := h.service.Messages(userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, services.ErrNotSessionOwner):
			return forbidden(c, err.Error())
		default:
			return serverError(c, "Failed to fetch messages")
		}
	}

	return c.JSON(messages)
}

func (h *SessionHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid session id")
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return badRequest(c, "content is required")
	}

	reply, err := h.service.SendMessage(c.Context(), userID, sessionID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, services.ErrNotSessionOwner):
			return forbidden(c, err.Error())
		default:
			return serverError(c, "Failed to generate reply")
		}
	}

	return c.JSON(dto.SendMessageResponse{
		UserMessage:      req.Content,
		AssistantMessage: reply,
	})
}

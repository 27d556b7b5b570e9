package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/reflalabs/refla-backend/internal/database"
	"github.com/reflalabs/refla-backend/internal/dto"
)

func Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unreachable"
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}

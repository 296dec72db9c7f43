package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/posadmin/reports-gateway/internal/middleware"
	"github.com/posadmin/reports-gateway/internal/model"
	"github.com/posadmin/reports-gateway/internal/service"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: s}
}

func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.Get(c.UserContext(), middleware.Token(c))
	if err != nil {
		return backendError(c, err, "Failed to fetch settings")
	}
	return c.JSON(fiber.Map{"data": settings})
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var settings model.Settings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	stored, err := h.service.Update(c.UserContext(), middleware.Token(c), settings)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSettings) {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		return backendError(c, err, "Failed to update settings")
	}
	return c.JSON(fiber.Map{"data": stored})
}

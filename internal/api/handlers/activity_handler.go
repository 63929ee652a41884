package handlers

import (
	"github.com/gofiber/fiber/v2"

	"discord-social-bot/internal/service"
)

type ActivityHandler struct {
	s service.ActivityService
}

func NewActivityHandler(service service.ActivityService) *ActivityHandler {
	return &ActivityHandler{s: service}
}

func (h *ActivityHandler) ListActivity(c *fiber.Ctx) error {
	discordID := c.Query("discord_id")
	limit := int64(c.QueryInt("limit", 0))

	if discordID != "" {
		entries, err := h.s.ForUser(c.Context(), discordID, limit)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to list activity",
			})
		}
		return c.Status(fiber.StatusOK).JSON(entries)
	}

	entries, err := h.s.Recent(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list activity",
		})
	}

	return c.Status(fiber.StatusOK).JSON(entries)
}

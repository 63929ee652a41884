package handlers

import (
	"github.com/gofiber/fiber/v2"
)

func GetDiscordID(c *fiber.Ctx) string {
	discordID, _ := c.Locals("user_id").(string)
	return discordID
}

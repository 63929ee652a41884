package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	config "discord-social-bot/configs"
	"discord-social-bot/internal/service"
	"discord-social-bot/pkg/utils"
)

type AuthHandler struct {
	s   service.UserService
	cfg config.Config
}

func NewAuthHandler(cfg config.Config, service service.UserService) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg}
}

type loginRequest struct {
	DiscordID       string `json:"discord_id"`
	DiscordUsername string `json:"discord_username"`
}

// Login issues a session cookie for a Discord member. The caller is the
// bot process, which has already verified the member against Discord; this
// endpoint only mints the session.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	user, err := h.s.GetOrCreate(c.Context(), req.DiscordID, req.DiscordUsername)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, user.DiscordID, 24*time.Hour)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   false,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
	})

	return c.SendStatus(fiber.StatusOK)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:   h.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return c.SendStatus(fiber.StatusOK)
}

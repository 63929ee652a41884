package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/repository"
)

type CommandLogMiddleware struct {
	cl repository.CommandLogRepository
}

func NewCommandLogMiddleware(cl repository.CommandLogRepository) *CommandLogMiddleware {
	return &CommandLogMiddleware{cl: cl}
}

// CommandLogMiddleware appends one audit entry per authenticated request.
// Logging failures never fail the request itself.
func (m *CommandLogMiddleware) CommandLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		discordID, _ := c.Locals("user_id").(string)

		entry := &models.CommandLog{
			DiscordID:   discordID,
			CommandName: c.Method() + " " + c.Path(),
			CommandArgs: bson.M{"query": string(c.Request().URI().QueryString())},
			Success:     err == nil && c.Response().StatusCode() < fiber.StatusBadRequest,
		}
		if err != nil {
			entry.ErrorMessage = err.Error()
		}

		if logErr := m.cl.Log(c.Context(), entry); logErr != nil {
			slog.Info(logErr.Error())
		}

		return err
	}
}

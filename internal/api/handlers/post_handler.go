package handlers

import (
	"log/slog"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"discord-social-bot/internal/service"
	"discord-social-bot/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	discordID := GetDiscordID(c)

	var files []*multipart.FileHeader
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		files = form.File["files"]
	}

	pc := &transfer.PostCreation{
		SocialAccountID: c.FormValue("social_account_id"),
		Content:         c.FormValue("content"),
		ScheduledTime:   c.FormValue("scheduled_time"),
		PostNow:         c.FormValue("post_now") == "true",
	}

	postID, err := h.s.CreatePost(c.Context(), discordID, pc, files)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	message := "Post scheduled successfully"
	if pc.PostNow {
		message = "Post published successfully"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": message,
		"id":      postID.Hex(),
	})
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	discordID := GetDiscordID(c)
	postID := c.Query("id")

	if postID != "" {
		id, err := primitive.ObjectIDFromHex(postID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid post id",
			})
		}

		post, err := h.s.PostInfo(c.Context(), id, discordID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to get post",
			})
		}

		return c.Status(fiber.StatusOK).JSON(post)
	}

	posts, err := h.s.List(c.Context(), discordID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) ListHistory(c *fiber.Ctx) error {
	discordID := GetDiscordID(c)

	posts, err := h.s.History(c.Context(), discordID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list published posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) CancelPost(c *fiber.Ctx) error {
	discordID := GetDiscordID(c)

	id, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	if err := h.s.Cancel(c.Context(), discordID, id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

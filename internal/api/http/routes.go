// Package httpapi exposes the bot over HTTP: the chat transport posts
// normalized message and reaction events here, and gets reply text back.
package httpapi

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/baublesbot/baubles/internal/attachments"
	"github.com/baublesbot/baubles/internal/bot"
	"github.com/baublesbot/baubles/internal/urlhistory"
)

var validate = validator.New()

// messageEvent is one inbound chat message.
type messageEvent struct {
	AuthorID   int64  `json:"author_id" validate:"required"`
	AuthorName string `json:"author_name" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

// reactionEvent is a reaction to a message, carrying that message's
// attachments so they can be saved.
type reactionEvent struct {
	UserID      int64  `json:"user_id" validate:"required"`
	UserName    string `json:"user_name" validate:"required"`
	Emoji       string `json:"emoji"`
	Attachments []struct {
		ID       int64  `json:"id" validate:"required"`
		Filename string `json:"filename" validate:"required"`
		URL      string `json:"url" validate:"required"`
	} `json:"attachments"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, b *bot.Bot, saver *attachments.Saver, history *urlhistory.History) {
	v1 := app.Group("/api/v1")

	v1.Post("/events/message", func(c *fiber.Ctx) error {
		var event messageEvent
		if err := c.BodyParser(&event); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(event); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reply, err := b.Dispatch(c.Context(), bot.Message{
			AuthorID:   event.AuthorID,
			AuthorName: event.AuthorName,
			Content:    event.Content,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.JSON(fiber.Map{"reply": reply})
	})

	v1.Post("/events/reaction", func(c *fiber.Ctx) error {
		var event reactionEvent
		if err := c.BodyParser(&event); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(event); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		atts := make([]attachments.Attachment, 0, len(event.Attachments))
		for _, a := range event.Attachments {
			atts = append(atts, attachments.Attachment{
				ID:       a.ID,
				Filename: a.Filename,
				URL:      a.URL,
			})
		}

		err := saver.Save(c.Context(), attachments.ReactionEvent{
			UserID:      event.UserID,
			UserName:    event.UserName,
			Emoji:       event.Emoji,
			Attachments: atts,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/urls/search", func(c *fiber.Ctx) error {
		var parts []string
		if limit := c.Query("limit"); limit != "" {
			if _, err := strconv.Atoi(limit); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be an integer")
			}
			parts = append(parts, "-l", limit)
		}
		if user := c.Query("user"); user != "" {
			parts = append(parts, "-u", user)
		}
		if term := c.Query("term"); term != "" {
			parts = append(parts, term)
		}

		result, err := history.Search(strings.Join(parts, " "))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{"result": result})
	})
}

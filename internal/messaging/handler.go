package messaging

import (
	"strings"
	"time"

	"propertyhub-backend/internal/auth"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ConversationEntry struct {
	UserID      uint            `json:"id"`
	Name        string          `json:"name"`
	Role        models.UserRole `json:"role"`
	UnreadCount int64           `json:"unreadCount"`
	LastMessage *MessageView    `json:"lastMessage"`
}

type MessageView struct {
	ID        uint   `json:"id"`
	SenderID  uint   `json:"senderId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	Read      bool   `json:"read"`
}

type SendMessageRequest struct {
	RecipientID uint   `json:"recipientId"`
	Content     string `json:"content"`
}

func formatMessage(m *models.Message) MessageView {
	return MessageView{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Format("2006-01-02 15:04:05"),
		Read:      m.ReadAt != nil,
	}
}

// GET /api/messages/conversations
// Every other user as a potential conversation partner, with the unread
// count and the latest exchanged message. Clients poll this list; the
// server keeps it a plain read.
func ListConversationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		me := auth.UserID(c)

		var partners []models.User
		if err := database.DB.Where("id <> ?", me).Order("name ASC").Find(&partners).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list conversations")
		}

		resp := make([]ConversationEntry, 0, len(partners))
		for _, p := range partners {
			entry := ConversationEntry{
				UserID: p.ID,
				Name:   p.Name,
				Role:   p.Role,
			}

			database.DB.Model(&models.Message{}).
				Where("sender_id = ? AND recipient_id = ? AND read_at IS NULL", p.ID, me).
				Count(&entry.UnreadCount)

			var last models.Message
			err := database.DB.
				Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
					me, p.ID, p.ID, me).
				Order("created_at DESC").
				First(&last).Error
			if err == nil {
				view := formatMessage(&last)
				entry.LastMessage = &view
			}

			resp = append(resp, entry)
		}

		return c.JSON(resp)
	}
}

// GET /api/messages/thread/:userId
// Full thread with one partner, oldest first. Fetching the thread marks
// the partner's messages as read.
func GetThreadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		me := auth.UserID(c)

		partnerID, err := c.ParamsInt("userId")
		if err != nil || partnerID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}

		var partner models.User
		if err := database.DB.First(&partner, "id = ?", partnerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		var thread []models.Message
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.
				Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
					me, partner.ID, partner.ID, me).
				Order("created_at ASC").
				Find(&thread).Error; err != nil {
				return err
			}
			now := time.Now()
			return tx.Model(&models.Message{}).
				Where("sender_id = ? AND recipient_id = ? AND read_at IS NULL", partner.ID, me).
				Update("read_at", now).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load messages")
		}

		resp := make([]MessageView, 0, len(thread))
		for i := range thread {
			resp = append(resp, formatMessage(&thread[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/messages
func SendMessageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		me := auth.UserID(c)

		var body SendMessageRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Content = strings.TrimSpace(body.Content)
		if body.Content == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Message content cannot be empty")
		}
		if body.RecipientID == 0 || body.RecipientID == me {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid recipient")
		}

		var recipient models.User
		if err := database.DB.First(&recipient, "id = ?", body.RecipientID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Recipient not found")
		}

		msg := models.Message{
			SenderID:    me,
			RecipientID: recipient.ID,
			Content:     body.Content,
		}
		if err := database.DB.Create(&msg).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not send message")
		}

		return c.Status(fiber.StatusCreated).JSON(formatMessage(&msg))
	}
}

package notifications

import (
	notifsvc "katmarket-backend/internal/application/notifications"
	"katmarket-backend/internal/middleware"
	"katmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *notifsvc.Service
}

// GetNotifications GET /api/v1/notifications/get-notifications
func (h *Handlers) GetNotifications(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Error(c, "User not found in session", 403, nil)
	}
	items, err := h.Service.ListForUser(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Notifications fetched successfully", items, nil)
}

// GetUnreadCount GET /api/v1/notifications/unread-count
func (h *Handlers) GetUnreadCount(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Error(c, "User not found in session", 403, nil)
	}
	count, err := h.Service.UnreadCount(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Unread count fetched", fiber.Map{"unread": count}, nil)
}

// MarkRead POST /api/v1/notifications/mark-read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	var body struct {
		NotificationID string `json:"notification_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.NotificationID == "" {
		return response.Error(c, "notification_id is required", 400, nil)
	}
	notificationID, err := uuid.Parse(body.NotificationID)
	if err != nil {
		return response.Error(c, "Invalid notification_id format", 400, nil)
	}
	userID, ok := actorUserID(c)
	if !ok {
		return response.Error(c, "User not found in session", 403, nil)
	}
	if err := h.Service.MarkRead(c.Context(), notificationID, userID); err != nil {
		if err.Error() == "Notification not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Notification marked read", nil, nil)
}

// MarkAllRead POST /api/v1/notifications/mark-all-read
func (h *Handlers) MarkAllRead(c *fiber.Ctx) error {
	userID, ok := actorUserID(c)
	if !ok {
		return response.Error(c, "User not found in session", 403, nil)
	}
	if err := h.Service.MarkAllRead(c.Context(), userID); err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "All notifications marked read", nil, nil)
}

func actorUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	m, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok {
		return uuid.Nil, false
	}
	idStr, _ := m["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// NotificationsHandler exposes the per-user inbox.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /api/notifications?userId=.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return apperrors.NewValidationError("userId required", nil)
	}
	notifications, err := h.service.ListAll(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": notificationResponses(notifications)})
}

// ListUnread GET /api/notifications/unread?userId=.
func (h *NotificationsHandler) ListUnread(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return apperrors.NewValidationError("userId required", nil)
	}
	notifications, err := h.service.ListUnread(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": notificationResponses(notifications)})
}

// MarkRead POST /api/notifications/:id/read. Idempotent: marking an unknown
// id reports updated=false, never an error.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	updated, err := h.service.MarkRead(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": updated}})
}

// MarkAllRead POST /api/notifications/mark-all-read.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == "" {
		return apperrors.NewValidationError("userId required", nil)
	}
	if err := h.service.MarkAllRead(c.Context(), req.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

func notificationResponses(notifications []domain.Notification) []dto.NotificationResponse {
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NewNotificationResponse(n))
	}
	return items
}

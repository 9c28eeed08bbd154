package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/realtime"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// NotificationService maintains per-user inboxes and pushes new entries to
// live connections. It is a derived writer: it only reacts to complaint
// events, it never mutates complaints.
type NotificationService struct {
	notifications repository.NotificationRepository
	broker        *realtime.Broker
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(repo repository.NotificationRepository, broker *realtime.Broker, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: repo,
		broker:        broker,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to complaint lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventComplaintPriorityChanged, n.handlePriorityChanged)
}

// Notify inserts an unread inbox entry and pushes it to every live session
// of the user. Push failures are swallowed; polling is the fallback.
func (n *NotificationService) Notify(ctx context.Context, userID, complaintID, title, message string, notifType domain.NotificationType) (*domain.Notification, error) {
	notification := &domain.Notification{
		UserID:      userID,
		ComplaintID: complaintID,
		Title:       title,
		Message:     message,
		Type:        notifType,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}
	n.push(ctx, notification)
	return notification, nil
}

// ListAll returns the full inbox, newest first. A non-uuid user id owns
// nothing, so the inbox is empty rather than an error.
func (n *NotificationService) ListAll(ctx context.Context, userID string) ([]domain.Notification, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, nil
	}
	return n.notifications.ListByUser(ctx, userID)
}

// ListUnread returns unread entries, newest first.
func (n *NotificationService) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, nil
	}
	return n.notifications.ListUnreadByUser(ctx, userID)
}

// MarkRead is idempotent: already-read entries succeed, unknown ids report
// false without error. Non-uuid ids cannot match a row and short-circuit
// before the query would trip the uuid column.
func (n *NotificationService) MarkRead(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	return n.notifications.MarkRead(ctx, id)
}

// MarkAllRead is idempotent.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return nil
	}
	return n.notifications.MarkAllRead(ctx, userID)
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintCreatedPayload)
	if !ok || payload.OwnerUserID == nil {
		return nil
	}
	title := fmt.Sprintf("Complaint #%d registered", payload.YearlySequenceNumber)
	message := fmt.Sprintf("Your complaint for %s (%s) has been registered.", payload.PartyName, payload.ComplaintType)
	_, err := n.Notify(ctx, *payload.OwnerUserID, event.ComplaintID, title, message, domain.NotificationTypeComplaintCreated)
	if err != nil {
		n.logger.Warn("complaint-created notification failed", zap.Error(err), zap.String("complaint_id", event.ComplaintID))
	}
	return err
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintStatusChangedPayload)
	if !ok || payload.OwnerUserID == nil {
		return nil
	}
	title := "Complaint status updated"
	message := fmt.Sprintf("Status moved from %s to %s.", payload.OldStatus, payload.NewStatus)
	_, err := n.Notify(ctx, *payload.OwnerUserID, event.ComplaintID, title, message, domain.NotificationTypeStatusChanged)
	if err != nil {
		n.logger.Warn("status-changed notification failed", zap.Error(err), zap.String("complaint_id", event.ComplaintID))
	}
	return err
}

func (n *NotificationService) handlePriorityChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintPriorityChangedPayload)
	if !ok || payload.OwnerUserID == nil {
		return nil
	}
	title := "Complaint priority updated"
	message := fmt.Sprintf("Priority moved from %s to %s.", payload.OldPriority, payload.NewPriority)
	_, err := n.Notify(ctx, *payload.OwnerUserID, event.ComplaintID, title, message, domain.NotificationTypePriorityChanged)
	if err != nil {
		n.logger.Warn("priority-changed notification failed", zap.Error(err), zap.String("complaint_id", event.ComplaintID))
	}
	return err
}

type pushMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func (n *NotificationService) push(ctx context.Context, notification *domain.Notification) {
	if n.broker == nil {
		return
	}
	raw, err := json.Marshal(pushMessage{
		Type: "new_notification",
		Data: map[string]any{
			"id":          notification.ID,
			"userId":      notification.UserID,
			"complaintId": notification.ComplaintID,
			"title":       notification.Title,
			"message":     notification.Message,
			"type":        notification.Type,
			"isRead":      notification.IsRead,
			"createdAt":   notification.CreatedAt,
		},
	})
	if err != nil {
		return
	}
	n.broker.Push(ctx, notification.UserID, raw)
}

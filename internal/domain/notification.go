package domain

import "time"

// NotificationType categorizes inbox entries.
type NotificationType string

const (
	NotificationTypeComplaintCreated NotificationType = "complaint_created"
	NotificationTypeStatusChanged    NotificationType = "status_changed"
	NotificationTypePriorityChanged  NotificationType = "priority_changed"
)

// Notification is a per-user inbox entry derived from complaint events.
// Only IsRead ever mutates after creation.
type Notification struct {
	ID          string
	UserID      string
	ComplaintID string
	Title       string
	Message     string
	Type        NotificationType
	IsRead      bool
	CreatedAt   time.Time
}

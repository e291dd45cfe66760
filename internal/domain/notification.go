package domain

import "time"

// NotificationType distinguishes task-scoped notifications from system-wide
// announcements.
type NotificationType string

const (
	NotificationTask   NotificationType = "task"
	NotificationSystem NotificationType = "system"
)

// Notification is the durable record behind a realtime push. Delivery over
// the socket is best-effort; this row is what a disconnected user polls later.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	TaskID    *string
	Read      bool
	Seen      bool
	CreatedAt time.Time
}

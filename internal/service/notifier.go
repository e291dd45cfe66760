package service

import (
	"context"
	"log/slog"

	"github.com/mendbayar/taskdesk/internal/domain"
	"github.com/mendbayar/taskdesk/internal/realtime"
	"github.com/mendbayar/taskdesk/internal/repository"
)

// notificationPayload is the realtime shape of a pushed notification.
type notificationPayload struct {
	ID      string                  `json:"id"`
	Type    domain.NotificationType `json:"type"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	TaskID  *string                 `json:"task_id,omitempty"`
}

// Notifier persists notifications and pushes them to connected recipients.
// The row is the durable artifact; the socket push on top of it may be lost
// without consequence.
type Notifier struct {
	notifications *repository.NotificationRepository
	hub           *realtime.Hub
}

// NewNotifier creates a Notifier.
func NewNotifier(notifications *repository.NotificationRepository, hub *realtime.Hub) *Notifier {
	return &Notifier{notifications: notifications, hub: hub}
}

// Notify stores a notification for the user and pushes it if they are
// connected. Failures are logged, never returned; notifying runs after the
// triggering write has already committed.
func (n *Notifier) Notify(ctx context.Context, userID string, nt domain.NotificationType, title, message string, taskID *string) {
	record := &domain.Notification{
		UserID:  userID,
		Type:    nt,
		Title:   title,
		Message: message,
		TaskID:  taskID,
	}

	if err := n.notifications.Create(ctx, record); err != nil {
		slog.Error("failed to store notification", "user_id", userID, "title", title, "error", err)
		return
	}

	n.hub.EmitToUser(userID, "notification", notificationPayload{
		ID:      record.ID,
		Type:    record.Type,
		Title:   record.Title,
		Message: record.Message,
		TaskID:  record.TaskID,
	})
}

// NotifyMany notifies each of the given users.
func (n *Notifier) NotifyMany(ctx context.Context, userIDs []string, nt domain.NotificationType, title, message string, taskID *string) {
	for _, id := range userIDs {
		n.Notify(ctx, id, nt, title, message, taskID)
	}
}

// Announce pushes a system notice to every connected client without storing
// per-user rows.
func (n *Notifier) Announce(title, message string) {
	n.hub.Broadcast("notification", notificationPayload{
		Type:    domain.NotificationSystem,
		Title:   title,
		Message: message,
	})
}

// List returns a page of the user's notifications plus the unpaginated total.
func (n *Notifier) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, int, error) {
	return n.notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// MarkAsRead flags one of the user's notifications as read.
func (n *Notifier) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	return n.notifications.MarkAsRead(ctx, notificationID, userID)
}

// MarkAllSeen flags every unseen notification of the user as seen.
func (n *Notifier) MarkAllSeen(ctx context.Context, userID string) error {
	return n.notifications.MarkAllSeen(ctx, userID)
}

// UnseenCount returns the user's unseen notification count, shown as the
// bell badge.
func (n *Notifier) UnseenCount(ctx context.Context, userID string) (int, error) {
	return n.notifications.CountUnseen(ctx, userID)
}

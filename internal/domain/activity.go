package domain

import (
	"fmt"
	"time"
)

// ActivityType represents the kind of lifecycle event an activity records.
type ActivityType string

const (
	ActivityCreated       ActivityType = "created"
	ActivityUpdated       ActivityType = "updated"
	ActivityAssigned      ActivityType = "assigned"
	ActivityStatusChanged ActivityType = "status-changed"
	ActivityCommented     ActivityType = "commented"
	ActivityFileAttached  ActivityType = "file-attached"
	ActivityFileDeleted   ActivityType = "file-deleted"
	ActivityEvaluated     ActivityType = "evaluated"
	ActivityAudited       ActivityType = "audited"
)

// Activity is one immutable audit-trail entry. Entries are append-only and
// ordered by creation time; together they reconstruct a task's history.
type Activity struct {
	ID        string
	TaskID    string
	ActorID   string
	Type      ActivityType
	Message   string
	CreatedAt time.Time
}

// ActivityMessage builds the default human-readable message for an event.
// The subject is the assignee name, new status, or similar, depending on type.
func ActivityMessage(t ActivityType, subject string) string {
	switch t {
	case ActivityCreated:
		return "created the task"
	case ActivityUpdated:
		return "updated the task"
	case ActivityAssigned:
		return fmt.Sprintf("assigned the task to %q", subject)
	case ActivityStatusChanged:
		return fmt.Sprintf("moved the task to %q", subject)
	case ActivityCommented:
		return "added a note"
	case ActivityFileAttached:
		return "attached a file"
	case ActivityFileDeleted:
		return "removed a file"
	case ActivityAudited:
		return "audited the task"
	case ActivityEvaluated:
		return "evaluated the task"
	default:
		return string(t)
	}
}

package domain

import "time"

// TaskStatus represents the status of a task in the lifecycle state machine.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusActive     TaskStatus = "active"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusReviewed   TaskStatus = "reviewed"
)

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusActive, TaskStatusInProgress,
		TaskStatusCompleted, TaskStatusReviewed:
		return true
	default:
		return false
	}
}

// IsStartable returns true if an assignee may begin work from this status.
func (s TaskStatus) IsStartable() bool {
	return s == TaskStatusPending || s == TaskStatusActive
}

// IsClosed returns true once work has been handed in. Closed tasks reject
// notes; only the audit path may move a completed task.
func (s TaskStatus) IsClosed() bool {
	return s == TaskStatusCompleted || s == TaskStatusReviewed
}

// TaskPriority represents the priority level of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid checks if the priority is one of the allowed values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// Task is the aggregate root of the system. Status only ever moves along the
// lifecycle edges: pending/active -> in_progress -> completed -> reviewed,
// with audit rejection routing completed back to in_progress.
type Task struct {
	ID            string
	Title         string
	Description   string
	Status        TaskStatus
	Priority      TaskPriority
	BranchID      string
	AssigneeID    string
	Supervisors   []string
	CreatorID     string
	StartDate     time.Time
	DueDate       *time.Time
	CompletedDate *time.Time
	Summary       *string
	Archived      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InitialStatus returns the status a task is created in: tasks whose start
// date has already passed begin active, future-dated tasks begin pending.
func InitialStatus(startDate, now time.Time) TaskStatus {
	if startDate.Before(now) {
		return TaskStatusActive
	}
	return TaskStatusPending
}

// IsAssignee checks if the task is assigned to the given user.
func (t *Task) IsAssignee(userID string) bool {
	return t.AssigneeID == userID
}

// IsCreator checks if the task was created by the given user.
func (t *Task) IsCreator(userID string) bool {
	return t.CreatorID == userID
}

// IsSupervisor checks if the given user may audit this task's completed work.
func (t *Task) IsSupervisor(userID string) bool {
	for _, id := range t.Supervisors {
		if id == userID {
			return true
		}
	}
	return false
}

// IsOverdue reports whether the task's due date lies strictly before the
// given day and the task has not been completed. Overdue is a derived
// read-time predicate, never a stored status.
func (t *Task) IsOverdue(today time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(today) && t.Status != TaskStatusCompleted
}

// Participants returns the set of users interested in lifecycle events on
// this task: the creator and the assignee, excluding the acting user.
func (t *Task) Participants(excludeID string) []string {
	seen := map[string]bool{excludeID: true}
	var ids []string
	for _, id := range []string{t.CreatorID, t.AssigneeID} {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

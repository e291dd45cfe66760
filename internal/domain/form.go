package domain

import "time"

// TaskFormKind distinguishes the auxiliary form documents a task may carry.
type TaskFormKind string

const (
	TaskFormMemo      TaskFormKind = "memo"
	TaskFormWorkGroup TaskFormKind = "work-group"
)

// IsValid checks if the kind is one of the allowed values.
func (k TaskFormKind) IsValid() bool {
	return k == TaskFormMemo || k == TaskFormWorkGroup
}

// TaskForm is the auxiliary document created together with a task in one
// transaction: either both commit or both abort. Memo forms carry document
// routing fields, work-group forms carry the group composition.
type TaskForm struct {
	ID             string
	TaskID         string
	Kind           TaskFormKind
	DocumentNumber string
	Marking        string
	MarkingDate    *time.Time
	GroupName      string
	LeaderID       *string
	MemberIDs      []string
	CreatedAt      time.Time
}

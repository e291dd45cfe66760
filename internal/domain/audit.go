package domain

import "time"

// AuditResult is the outcome of reviewing a completed task.
type AuditResult string

const (
	AuditApproved AuditResult = "approved"
	AuditRejected AuditResult = "rejected"
)

// IsValid checks if the result is one of the allowed values.
func (r AuditResult) IsValid() bool {
	return r == AuditApproved || r == AuditRejected
}

// Audit records one review decision on a completed task. Immutable after
// creation; a task accumulates one per completed -> rejected -> completed
// cycle.
type Audit struct {
	ID        string
	TaskID    string
	CheckedBy string
	Comments  string
	Point     *int
	Result    AuditResult
	CreatedAt time.Time
}

// Evaluation scores an already-reviewed task. It never changes task status.
type Evaluation struct {
	ID        string
	TaskID    string
	Evaluator string
	Score     int // 1..5
	Feedback  string
	CreatedAt time.Time
}

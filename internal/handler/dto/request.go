// Package dto defines the request/response shapes of the HTTP API and the
// mapping from domain errors to HTTP statuses.
package dto

import "time"

// LoginRequest carries credentials for token issuance.
type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"d.bat"`
	Password string `json:"password" validate:"required" example:"secret"`
}

// RegisterUserRequest creates a new user account.
type RegisterUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,min=8"`
	GivenName string `json:"given_name" validate:"required"`
	Surname   string `json:"surname" validate:"required"`
	Rank      string `json:"rank"`
	Position  string `json:"position"`
	Role      string `json:"role" validate:"required,oneof=super-admin admin user"`
	BranchID  string `json:"branch_id" validate:"required,uuid"`
}

// CreateTaskRequest creates a task, optionally linking pre-uploaded files.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	BranchID    string     `json:"branch_id" validate:"required,uuid"`
	AssigneeID  string     `json:"assignee_id" validate:"required,uuid"`
	Supervisors []string   `json:"supervisors" validate:"omitempty,dive,uuid"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	DueDate     *time.Time `json:"due_date"`
	FileIDs     []string   `json:"file_ids" validate:"omitempty,dive,uuid"`
}

// TaskFormRequest is the auxiliary form created together with a task.
type TaskFormRequest struct {
	Kind           string     `json:"kind" validate:"required,oneof=memo work-group"`
	DocumentNumber string     `json:"document_number"`
	Marking        string     `json:"marking"`
	MarkingDate    *time.Time `json:"marking_date"`
	GroupName      string     `json:"group_name"`
	LeaderID       *string    `json:"leader_id" validate:"omitempty,uuid"`
	MemberIDs      []string   `json:"member_ids" validate:"omitempty,dive,uuid"`
}

// CreateTaskWithFormRequest creates a task and its form in one transaction.
type CreateTaskWithFormRequest struct {
	Task CreateTaskRequest `json:"task" validate:"required"`
	Form TaskFormRequest   `json:"form" validate:"required"`
}

// UpdateTaskRequest edits a task's descriptive fields. Absent fields are
// left untouched.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

// CompleteTaskRequest hands in work with a summary of what was done.
type CompleteTaskRequest struct {
	Summary string `json:"summary" validate:"required"`
}

// AuditTaskRequest records a supervisor's verdict on completed work.
type AuditTaskRequest struct {
	Result   string `json:"result" validate:"required,oneof=approved rejected"`
	Comments string `json:"comments"`
	Point    *int   `json:"point" validate:"omitempty,min=0,max=100"`
}

// EvaluateTaskRequest scores a reviewed task.
type EvaluateTaskRequest struct {
	Score    int    `json:"score" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// AssignTaskRequest hands the task to a different assignee.
type AssignTaskRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required,uuid"`
}

// AddNoteRequest appends a note to a task.
type AddNoteRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// AttachFileRequest links an uploaded file to a task.
type AttachFileRequest struct {
	FileID string `json:"file_id" validate:"required,uuid"`
}

// CreateBranchRequest adds an organizational branch.
type CreateBranchRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
}

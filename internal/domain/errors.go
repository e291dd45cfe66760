package domain

import "errors"

// Domain-specific errors for business rule validation.
var (
	// Authentication / authorization
	ErrUnauthenticated  = errors.New("authentication required")
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotAssignee      = errors.New("not the task assignee")
	ErrNotSupervisor    = errors.New("not a supervisor of the task")
	ErrNotNoteAuthor    = errors.New("not the note author")

	// Missing records
	ErrTaskNotFound         = errors.New("task not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrBranchNotFound       = errors.New("branch not found")
	ErrNoteNotFound         = errors.New("note not found")
	ErrFileNotFound         = errors.New("file not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// State machine
	ErrInvalidState = errors.New("transition not allowed from current status")

	// Validation
	ErrValidation      = errors.New("validation failed")
	ErrAssigneeMissing = errors.New("assignee is required")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrUserInactive    = errors.New("user is inactive")

	// Infrastructure
	ErrDependency = errors.New("backend dependency unavailable")
)

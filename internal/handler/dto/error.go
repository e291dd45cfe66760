package dto

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mendbayar/taskdesk/internal/domain"
)

// ErrorResponse is the uniform error body returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MapDomainError translates a domain error into an HTTP status and a stable
// machine-readable code. Unknown errors become a 500 with the detail logged
// server-side only.
func MapDomainError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: "UNAUTHENTICATED"}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token", Code: "INVALID_TOKEN"}
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, ErrorResponse{Error: "account is deactivated", Code: "USER_INACTIVE"}
	case errors.Is(err, domain.ErrNotAssignee):
		return http.StatusForbidden, ErrorResponse{Error: "only the assignee may perform this action", Code: "NOT_ASSIGNEE"}
	case errors.Is(err, domain.ErrNotSupervisor):
		return http.StatusForbidden, ErrorResponse{Error: "only a supervisor may perform this action", Code: "NOT_SUPERVISOR"}
	case errors.Is(err, domain.ErrNotNoteAuthor):
		return http.StatusForbidden, ErrorResponse{Error: "only the note author may remove it", Code: "NOT_NOTE_AUTHOR"}
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, ErrorResponse{Error: err.Error(), Code: "PERMISSION_DENIED"}
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "task not found", Code: "TASK_NOT_FOUND"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "user not found", Code: "USER_NOT_FOUND"}
	case errors.Is(err, domain.ErrBranchNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "branch not found", Code: "BRANCH_NOT_FOUND"}
	case errors.Is(err, domain.ErrNoteNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "note not found", Code: "NOTE_NOT_FOUND"}
	case errors.Is(err, domain.ErrFileNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "file not found", Code: "FILE_NOT_FOUND"}
	case errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "notification not found", Code: "NOTIFICATION_NOT_FOUND"}
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "INVALID_STATE"}
	case errors.Is(err, domain.ErrAssigneeMissing):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: "assignee is required", Code: "ASSIGNEE_MISSING"}
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "INVALID_STATUS"}
	case errors.Is(err, domain.ErrInvalidPriority):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "INVALID_PRIORITY"}
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "VALIDATION_FAILED"}
	case errors.Is(err, domain.ErrDependency):
		slog.Error("backend dependency failed", "error", err)
		return http.StatusServiceUnavailable, ErrorResponse{Error: "backend dependency unavailable", Code: "DEPENDENCY_UNAVAILABLE"}
	default:
		slog.Error("unhandled error", "error", err)
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "INTERNAL"}
	}
}

// WriteDomainError writes the mapped error response to the client.
func WriteDomainError(w http.ResponseWriter, err error) {
	status, body := MapDomainError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

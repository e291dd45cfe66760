package dto

import (
	"time"

	"github.com/mendbayar/taskdesk/internal/domain"
	"github.com/mendbayar/taskdesk/internal/service"
)

// LoginResponse returns the access token and the authenticated user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	GivenName   string `json:"given_name"`
	Surname     string `json:"surname"`
	Rank        string `json:"rank,omitempty"`
	Position    string `json:"position,omitempty"`
	Role        string `json:"role"`
	BranchID    string `json:"branch_id"`
	IsActive    bool   `json:"is_active"`
	DisplayName string `json:"display_name"`
}

// FromUser converts a domain user.
func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		GivenName:   u.GivenName,
		Surname:     u.Surname,
		Rank:        u.Rank,
		Position:    u.Position,
		Role:        string(u.Role),
		BranchID:    u.BranchID,
		IsActive:    u.IsActive,
		DisplayName: u.DisplayName(),
	}
}

// TaskResponse is the JSON view of a task.
type TaskResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	BranchID      string     `json:"branch_id"`
	AssigneeID    string     `json:"assignee_id"`
	Supervisors   []string   `json:"supervisors"`
	CreatorID     string     `json:"creator_id"`
	StartDate     time.Time  `json:"start_date"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	Summary       *string    `json:"summary,omitempty"`
	Archived      bool       `json:"archived"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// FromTask converts a domain task.
func FromTask(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		Priority:      string(t.Priority),
		BranchID:      t.BranchID,
		AssigneeID:    t.AssigneeID,
		Supervisors:   t.Supervisors,
		CreatorID:     t.CreatorID,
		StartDate:     t.StartDate,
		DueDate:       t.DueDate,
		CompletedDate: t.CompletedDate,
		Summary:       t.Summary,
		Archived:      t.Archived,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// TaskListResponse is a task page plus the unpaginated total.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// FromTasks converts a task page.
func FromTasks(tasks []*domain.Task, total int) TaskListResponse {
	out := TaskListResponse{Tasks: make([]TaskResponse, 0, len(tasks)), Total: total}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, FromTask(t))
	}
	return out
}

// TaskFormResponse is the JSON view of a task's auxiliary form.
type TaskFormResponse struct {
	ID             string     `json:"id"`
	Kind           string     `json:"kind"`
	DocumentNumber string     `json:"document_number,omitempty"`
	Marking        string     `json:"marking,omitempty"`
	MarkingDate    *time.Time `json:"marking_date,omitempty"`
	GroupName      string     `json:"group_name,omitempty"`
	LeaderID       *string    `json:"leader_id,omitempty"`
	MemberIDs      []string   `json:"member_ids,omitempty"`
}

// NoteResponse is the JSON view of a note.
type NoteResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// FromNote converts a domain note.
func FromNote(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		TaskID:    n.TaskID,
		Content:   n.Content,
		CreatedBy: n.CreatedBy,
		CreatedAt: n.CreatedAt,
	}
}

// FileResponse is the JSON view of a file attachment.
type FileResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditResponse is the JSON view of an audit decision.
type AuditResponse struct {
	ID        string    `json:"id"`
	CheckedBy string    `json:"checked_by"`
	Comments  string    `json:"comments,omitempty"`
	Point     *int      `json:"point,omitempty"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

// EvaluationResponse is the JSON view of an evaluation.
type EvaluationResponse struct {
	ID        string    `json:"id"`
	Evaluator string    `json:"evaluator"`
	Score     int       `json:"score"`
	Feedback  string    `json:"feedback,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityResponse is one activity-trail entry.
type ActivityResponse struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskDetailResponse aggregates a task with its satellite records.
type TaskDetailResponse struct {
	Task        TaskResponse         `json:"task"`
	Form        *TaskFormResponse    `json:"form,omitempty"`
	Notes       []NoteResponse       `json:"notes"`
	Files       []FileResponse       `json:"files"`
	Audits      []AuditResponse      `json:"audits"`
	Evaluations []EvaluationResponse `json:"evaluations"`
	Activities  []ActivityResponse   `json:"activities"`
}

// FromTaskDetail converts a service-layer detail aggregate.
func FromTaskDetail(d *service.TaskDetail) TaskDetailResponse {
	out := TaskDetailResponse{
		Task:        FromTask(d.Task),
		Notes:       make([]NoteResponse, 0, len(d.Notes)),
		Files:       make([]FileResponse, 0, len(d.Files)),
		Audits:      make([]AuditResponse, 0, len(d.Audits)),
		Evaluations: make([]EvaluationResponse, 0, len(d.Evaluations)),
		Activities:  make([]ActivityResponse, 0, len(d.Activities)),
	}

	if d.Form != nil {
		out.Form = &TaskFormResponse{
			ID:             d.Form.ID,
			Kind:           string(d.Form.Kind),
			DocumentNumber: d.Form.DocumentNumber,
			Marking:        d.Form.Marking,
			MarkingDate:    d.Form.MarkingDate,
			GroupName:      d.Form.GroupName,
			LeaderID:       d.Form.LeaderID,
			MemberIDs:      d.Form.MemberIDs,
		}
	}
	for _, n := range d.Notes {
		out.Notes = append(out.Notes, FromNote(n))
	}
	for _, f := range d.Files {
		out.Files = append(out.Files, FileResponse{
			ID:         f.ID,
			Name:       f.Name,
			URL:        f.URL,
			UploadedBy: f.UploadedBy,
			CreatedAt:  f.CreatedAt,
		})
	}
	for _, a := range d.Audits {
		out.Audits = append(out.Audits, AuditResponse{
			ID:        a.ID,
			CheckedBy: a.CheckedBy,
			Comments:  a.Comments,
			Point:     a.Point,
			Result:    string(a.Result),
			CreatedAt: a.CreatedAt,
		})
	}
	for _, e := range d.Evaluations {
		out.Evaluations = append(out.Evaluations, EvaluationResponse{
			ID:        e.ID,
			Evaluator: e.Evaluator,
			Score:     e.Score,
			Feedback:  e.Feedback,
			CreatedAt: e.CreatedAt,
		})
	}
	for _, a := range d.Activities {
		out.Activities = append(out.Activities, ActivityResponse{
			ID:        a.ID,
			ActorID:   a.ActorID,
			Type:      string(a.Type),
			Message:   a.Message,
			CreatedAt: a.CreatedAt,
		})
	}

	return out
}

// NotificationResponse is the JSON view of a notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	TaskID    *string   `json:"task_id,omitempty"`
	Read      bool      `json:"read"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse is a notification page plus the unpaginated total.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
}

// FromNotifications converts a notification page.
func FromNotifications(list []*domain.Notification, total int) NotificationListResponse {
	out := NotificationListResponse{
		Notifications: make([]NotificationResponse, 0, len(list)),
		Total:         total,
	}
	for _, n := range list {
		out.Notifications = append(out.Notifications, NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			TaskID:    n.TaskID,
			Read:      n.Read,
			Seen:      n.Seen,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

// BranchResponse is the JSON view of a branch.
type BranchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Path      string    `json:"path"`
	IsRoot    bool      `json:"is_root"`
	CreatedAt time.Time `json:"created_at"`
}

// FromBranch converts a domain branch.
func FromBranch(b *domain.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		ParentID:  b.ParentID,
		Path:      b.Path,
		IsRoot:    b.IsRoot,
		CreatedAt: b.CreatedAt,
	}
}

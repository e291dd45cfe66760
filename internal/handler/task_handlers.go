package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mendbayar/taskdesk/internal/domain"
	"github.com/mendbayar/taskdesk/internal/handler/dto"
	"github.com/mendbayar/taskdesk/internal/middleware"
	"github.com/mendbayar/taskdesk/internal/repository"
	"github.com/mendbayar/taskdesk/internal/service"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// handleListTasks lists tasks visible to the caller.
// @Summary List tasks
// @Description Returns a filtered, paginated task page scoped to the caller's branch subtree.
// @Tags tasks
// @Produce json
// @Param status query []string false "Filter by status"
// @Param priority query []string false "Filter by priority"
// @Param assignee_id query string false "Filter by assignee"
// @Param creator_id query string false "Filter by creator"
// @Param archived query bool false "Filter by archived flag"
// @Param search query string false "Title substring match"
// @Param sort query []string false "Sort fields, - prefix for descending"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.TaskListResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	q := r.URL.Query()

	filters := repository.TaskListFilters{
		Statuses:   q["status"],
		Priorities: q["priority"],
		Search:     q.Get("search"),
		Sort:       q["sort"],
		Limit:      defaultPageSize,
	}
	if v := q.Get("assignee_id"); v != "" {
		filters.AssigneeID = &v
	}
	if v := q.Get("creator_id"); v != "" {
		filters.CreatorID = &v
	}
	if v := q.Get("archived"); v != "" {
		archived := v == "true"
		filters.Archived = &archived
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filters.Limit = min(v, maxPageSize)
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filters.Offset = v
	}

	tasks, total, err := h.taskService.List(r.Context(), actor, filters)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FromTasks(tasks, total))
}

// handleCreateTask creates a task.
// @Summary Create a task
// @Description Creates a task. Tasks whose start date has passed begin active, future-dated ones pending.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task details"
// @Success 201 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req dto.CreateTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.Create(r.Context(), actor, createInputFromRequest(req))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.FromTask(task))
}

// handleCreateTaskWithForm creates a task together with its form document.
// @Summary Create a task with a form
// @Description Creates a task plus its memo or work-group form in one transaction.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskWithFormRequest true "Task and form details"
// @Success 201 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/form [post]
func (h *Handler) handleCreateTaskWithForm(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req dto.CreateTaskWithFormRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	form := &domain.TaskForm{
		Kind:           domain.TaskFormKind(req.Form.Kind),
		DocumentNumber: req.Form.DocumentNumber,
		Marking:        req.Form.Marking,
		MarkingDate:    req.Form.MarkingDate,
		GroupName:      req.Form.GroupName,
		LeaderID:       req.Form.LeaderID,
		MemberIDs:      req.Form.MemberIDs,
	}

	task, err := h.taskService.CreateWithForm(r.Context(), actor, createInputFromRequest(req.Task), form)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.FromTask(task))
}

// handleGetTask returns a task with its satellite records.
// @Summary Get task detail
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskDetailResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	detail, err := h.taskService.GetDetail(r.Context(), actor, taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FromTaskDetail(detail))
}

// handleUpdateTask edits a task's descriptive fields.
// @Summary Update a task
// @Description Edits title, description, priority, or due date. Status is never touched here.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [patch]
func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	upd := repository.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		upd.Priority = &priority
	}

	task, err := h.taskService.Update(r.Context(), actor, taskID, upd)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FromTask(task))
}

// handleStartTask starts work on a task.
// @Summary Start a task
// @Description Moves a pending or active task to in_progress. Assignee only.
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/start [post]
func (h *Handler) handleStartTask(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Start(r.Context(), actor, taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FromTask(task))
}

// handleCompleteTask hands in work on a task.
// @Summary Complete a task
// @Description Moves an in_progress task to completed with a work summary. Assignee only.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.CompleteTaskRequest true "Work summary"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/complete [post]
func (h *Handler) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.CompleteTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.Complete(r.Context(), actor, taskID, req.Summary)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FromTask(task))
}

// handleAuditTask records a supervisor's verdict on completed work.
// @Summary Audit a task
// @Description Approves a completed task into reviewed, or rejects it back to in_progress.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.AuditTaskRequest true "Verdict"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/audit [post]
func (h *Handler) handleAuditTask(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.AuditTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.Audit(r.Context(), actor, taskID, service.AuditDecision{
		Result:   domain.AuditResult(req.Result),
		Comments: req.Comments,
		Point:    req.Point,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FromTask(task))
}

// handleEvaluateTask scores a reviewed task.
// @Summary Evaluate a task
// @Description Scores a reviewed task 1..5. Status is unaffected.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.EvaluateTaskRequest true "Score and feedback"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/evaluate [post]
func (h *Handler) handleEvaluateTask(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.EvaluateTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.taskService.Evaluate(r.Context(), actor, taskID, req.Score, req.Feedback); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAssignTask reassigns a task.
// @Summary Assign a task
// @Description Hands the task to a different assignee. Status is untouched.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.AssignTaskRequest true "New assignee"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/assign [post]
func (h *Handler) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.Assign(r.Context(), actor, taskID, req.AssigneeID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.FromTask(task))
}

// handleAddNote appends a note to a task.
// @Summary Add a note
// @Description Appends a note. Completed and reviewed tasks reject notes.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.AddNoteRequest true "Note content"
// @Success 201 {object} dto.NoteResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/notes [post]
func (h *Handler) handleAddNote(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.AddNoteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	note, err := h.taskService.AddNote(r.Context(), actor, taskID, req.Content)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.FromNote(note))
}

// handleRemoveNote deletes a note.
// @Summary Remove a note
// @Description Deletes a note. Author only.
// @Tags tasks
// @Param id path string true "Note ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id} [delete]
func (h *Handler) handleRemoveNote(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	noteID, ok := extractID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.RemoveNote(r.Context(), actor, noteID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAttachFile links an uploaded file to a task.
// @Summary Attach a file
// @Tags tasks
// @Accept json
// @Param id path string true "Task ID"
// @Param request body dto.AttachFileRequest true "File to link"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/files [post]
func (h *Handler) handleAttachFile(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.AttachFileRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.taskService.AttachFile(r.Context(), actor, taskID, req.FileID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRemoveFile detaches a file from its task.
// @Summary Remove a file
// @Tags tasks
// @Param id path string true "File ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /files/{id} [delete]
func (h *Handler) handleRemoveFile(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	fileID, ok := extractID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.RemoveFile(r.Context(), actor, fileID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func createInputFromRequest(req dto.CreateTaskRequest) service.CreateTaskInput {
	input := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TaskPriority(req.Priority),
		BranchID:    req.BranchID,
		AssigneeID:  req.AssigneeID,
		Supervisors: req.Supervisors,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		FileIDs:     req.FileIDs,
	}
	if input.StartDate.IsZero() {
		input.StartDate = time.Now()
	}
	return input
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mendbayar/taskdesk/internal/access"
	"github.com/mendbayar/taskdesk/internal/cache"
	"github.com/mendbayar/taskdesk/internal/database"
	"github.com/mendbayar/taskdesk/internal/domain"
	"github.com/mendbayar/taskdesk/internal/repository"
)

// TaskService drives the task lifecycle. Every state transition follows the
// same shape: open a transaction, lock the row, re-check the guard against
// the locked state, write the transition conditionally on the old status,
// commit, and only then fire the side effects (counters, activity trail,
// notifications, dashboard push). Side effects are best-effort; the
// transition itself is not.
type TaskService struct {
	db        *database.DB
	tasks     *repository.TaskRepository
	forms     *repository.TaskFormRepository
	audits    *repository.AuditRepository
	notes     *repository.NoteRepository
	files     *repository.FileRepository
	users     *repository.UserRepository
	scopes    *access.Evaluator
	guard     *Guard
	stats     *cache.Stats
	notifier  *Notifier
	activity  *ActivityRecorder
	dashboard *Dashboard
}

// TaskServiceDeps bundles the collaborators of a TaskService.
type TaskServiceDeps struct {
	DB        *database.DB
	Tasks     *repository.TaskRepository
	Forms     *repository.TaskFormRepository
	Audits    *repository.AuditRepository
	Notes     *repository.NoteRepository
	Files     *repository.FileRepository
	Users     *repository.UserRepository
	Scopes    *access.Evaluator
	Stats     *cache.Stats
	Notifier  *Notifier
	Activity  *ActivityRecorder
	Dashboard *Dashboard
}

// NewTaskService creates a TaskService.
func NewTaskService(deps TaskServiceDeps) *TaskService {
	return &TaskService{
		db:        deps.DB,
		tasks:     deps.Tasks,
		forms:     deps.Forms,
		audits:    deps.Audits,
		notes:     deps.Notes,
		files:     deps.Files,
		users:     deps.Users,
		scopes:    deps.Scopes,
		guard:     NewGuard(),
		stats:     deps.Stats,
		notifier:  deps.Notifier,
		activity:  deps.Activity,
		dashboard: deps.Dashboard,
	}
}

// CreateTaskInput holds everything needed to create a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	BranchID    string
	AssigneeID  string
	Supervisors []string
	StartDate   time.Time
	DueDate     *time.Time
	FileIDs     []string
}

// AuditDecision is a supervisor's verdict on a completed task.
type AuditDecision struct {
	Result   domain.AuditResult
	Comments string
	Point    *int
}

// TaskDetail aggregates a task with all of its satellite records.
type TaskDetail struct {
	Task        *domain.Task
	Form        *domain.TaskForm
	Notes       []*domain.Note
	Files       []*domain.File
	Audits      []*domain.Audit
	Evaluations []*domain.Evaluation
	Activities  []*domain.Activity
}

// Create creates a task. The initial status is derived from the start date:
// already-started tasks are born active, future-dated ones pending. Files
// supplied up front are linked inside the creating transaction.
func (s *TaskService) Create(ctx context.Context, actor *domain.User, input CreateTaskInput) (*domain.Task, error) {
	return s.create(ctx, actor, input, nil)
}

// CreateWithForm creates a task together with its auxiliary form document in
// one transaction: either both commit or both abort.
func (s *TaskService) CreateWithForm(ctx context.Context, actor *domain.User, input CreateTaskInput, form *domain.TaskForm) (*domain.Task, error) {
	if form == nil {
		return nil, fmt.Errorf("%w: form is required", domain.ErrValidation)
	}
	if !form.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown form kind %q", domain.ErrValidation, form.Kind)
	}
	return s.create(ctx, actor, input, form)
}

func (s *TaskService) create(ctx context.Context, actor *domain.User, input CreateTaskInput, form *domain.TaskForm) (*domain.Task, error) {
	if err := s.guard.CanCreate(actor, input.AssigneeID); err != nil {
		return nil, err
	}
	if input.AssigneeID == "" {
		return nil, domain.ErrAssigneeMissing
	}
	if input.Priority != "" && !input.Priority.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, input.Priority)
	}

	assignee, err := s.users.GetByID(ctx, input.AssigneeID)
	if err != nil {
		return nil, err
	}
	if !assignee.IsActive {
		return nil, fmt.Errorf("%w: assignee %s", domain.ErrUserInactive, assignee.ID)
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.InitialStatus(input.StartDate, time.Now()),
		Priority:    input.Priority,
		BranchID:    input.BranchID,
		AssigneeID:  input.AssigneeID,
		Supervisors: input.Supervisors,
		CreatorID:   actor.ID,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
	}

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.tasks.Create(ctx, tx, task); err != nil {
			return err
		}
		if len(input.FileIDs) > 0 {
			if err := s.files.LinkToTask(ctx, tx, input.FileIDs, task.ID); err != nil {
				return err
			}
		}
		if form != nil {
			form.TaskID = task.ID
			if err := s.forms.Create(ctx, tx, form); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bg := context.WithoutCancel(ctx)
	if err := s.stats.Increase(bg, task.Status); err != nil {
		slog.Error("failed to bump counters for new task", "task_id", task.ID, "error", err)
	}
	s.activity.Record(bg, task.ID, actor.ID, domain.ActivityCreated, "")
	s.notifier.NotifyMany(bg, task.Participants(actor.ID), domain.NotificationTask,
		"New task", fmt.Sprintf("%s assigned you the task %q", actor.DisplayName(), task.Title), &task.ID)
	s.dashboard.BroadcastStats(bg)

	return task, nil
}

// Start moves a pending or active task into in_progress. Only the assignee
// may start work.
func (s *TaskService) Start(ctx context.Context, actor *domain.User, taskID string) (*domain.Task, error) {
	return s.transition(ctx, actor, taskID, func(task *domain.Task) (domain.TaskStatus, *time.Time, *string, error) {
		if err := s.guard.CanStart(actor, task); err != nil {
			return "", nil, nil, err
		}
		return domain.TaskStatusInProgress, nil, nil, nil
	}, nil)
}

// Complete hands in work on an in_progress task, stamping the completion
// time and storing the assignee's summary.
func (s *TaskService) Complete(ctx context.Context, actor *domain.User, taskID, summary string) (*domain.Task, error) {
	return s.transition(ctx, actor, taskID, func(task *domain.Task) (domain.TaskStatus, *time.Time, *string, error) {
		if err := s.guard.CanComplete(actor, task); err != nil {
			return "", nil, nil, err
		}
		now := time.Now()
		return domain.TaskStatusCompleted, &now, &summary, nil
	}, nil)
}

// Audit records a supervisor's verdict on a completed task. Approval moves
// it to reviewed; rejection routes it back to in_progress with the
// completion stamp and summary cleared, so the task is re-completable. The
// decision row commits in the same transaction as the status flip.
func (s *TaskService) Audit(ctx context.Context, actor *domain.User, taskID string, decision AuditDecision) (*domain.Task, error) {
	if !decision.Result.IsValid() {
		return nil, fmt.Errorf("%w: unknown audit result %q", domain.ErrValidation, decision.Result)
	}

	task, err := s.transition(ctx, actor, taskID, func(task *domain.Task) (domain.TaskStatus, *time.Time, *string, error) {
		if err := s.guard.CanAudit(actor, task); err != nil {
			return "", nil, nil, err
		}
		if decision.Result == domain.AuditApproved {
			return domain.TaskStatusReviewed, task.CompletedDate, task.Summary, nil
		}
		return domain.TaskStatusInProgress, nil, nil, nil
	}, func(tx pgx.Tx, task *domain.Task) error {
		return s.audits.Create(ctx, tx, &domain.Audit{
			TaskID:    task.ID,
			CheckedBy: actor.ID,
			Comments:  decision.Comments,
			Point:     decision.Point,
			Result:    decision.Result,
		})
	})
	if err != nil {
		return nil, err
	}

	bg := context.WithoutCancel(ctx)
	s.activity.Record(bg, task.ID, actor.ID, domain.ActivityAudited, "")
	verdict := "approved"
	if decision.Result == domain.AuditRejected {
		verdict = "rejected"
	}
	s.notifier.Notify(bg, task.AssigneeID, domain.NotificationTask,
		"Task audited", fmt.Sprintf("%s %s the task %q", actor.DisplayName(), verdict, task.Title), &task.ID)

	return task, nil
}

// Evaluate scores a reviewed task on a 1..5 scale. Evaluation is terminal
// metadata; the task stays reviewed.
func (s *TaskService) Evaluate(ctx context.Context, actor *domain.User, taskID string, score int, feedback string) error {
	if score < 1 || score > 5 {
		return fmt.Errorf("%w: score must be between 1 and 5", domain.ErrValidation)
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.guard.CanEvaluate(actor, task); err != nil {
		return err
	}

	err = s.audits.CreateEvaluation(ctx, &domain.Evaluation{
		TaskID:    taskID,
		Evaluator: actor.ID,
		Score:     score,
		Feedback:  feedback,
	})
	if err != nil {
		return err
	}

	bg := context.WithoutCancel(ctx)
	s.activity.Record(bg, taskID, actor.ID, domain.ActivityEvaluated, "")
	s.notifier.Notify(bg, task.AssigneeID, domain.NotificationTask,
		"Task evaluated", fmt.Sprintf("%s scored the task %q %d/5", actor.DisplayName(), task.Title, score), &task.ID)

	return nil
}

// Assign replaces the task's assignee. Status is untouched: a pending task
// stays pending for the new assignee, an in_progress one stays in progress.
func (s *TaskService) Assign(ctx context.Context, actor *domain.User, taskID, assigneeID string) (*domain.Task, error) {
	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	if !assignee.IsActive {
		return nil, fmt.Errorf("%w: assignee %s", domain.ErrUserInactive, assignee.ID)
	}

	var task *domain.Task
	err = s.withTx(ctx, func(tx pgx.Tx) error {
		task, err = s.tasks.GetByIDForUpdate(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if err := s.guard.CanAssign(actor, task); err != nil {
			return err
		}
		return s.tasks.SetAssignee(ctx, tx, taskID, assigneeID)
	})
	if err != nil {
		return nil, err
	}
	task.AssigneeID = assigneeID

	bg := context.WithoutCancel(ctx)
	s.activity.Record(bg, task.ID, actor.ID, domain.ActivityAssigned, assignee.DisplayName())
	s.notifier.Notify(bg, assigneeID, domain.NotificationTask,
		"Task assigned", fmt.Sprintf("%s assigned you the task %q", actor.DisplayName(), task.Title), &task.ID)

	return task, nil
}

// Update edits a task's descriptive fields without touching its status.
func (s *TaskService) Update(ctx context.Context, actor *domain.User, taskID string, upd repository.TaskUpdate) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanUpdate(actor, task); err != nil {
		return nil, err
	}
	if upd.Priority != nil && !upd.Priority.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, *upd.Priority)
	}

	if err := s.tasks.UpdateFields(ctx, taskID, upd); err != nil {
		return nil, err
	}

	s.activity.Record(context.WithoutCancel(ctx), taskID, actor.ID, domain.ActivityUpdated, "")

	return s.tasks.GetByID(ctx, taskID)
}

// AddNote appends a note to an open task.
func (s *TaskService) AddNote(ctx context.Context, actor *domain.User, taskID, content string) (*domain.Note, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanAddNote(actor, task); err != nil {
		return nil, err
	}

	note := &domain.Note{
		TaskID:    taskID,
		Content:   content,
		CreatedBy: actor.ID,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}

	bg := context.WithoutCancel(ctx)
	s.activity.Record(bg, taskID, actor.ID, domain.ActivityCommented, "")
	s.notifier.NotifyMany(bg, task.Participants(actor.ID), domain.NotificationTask,
		"New note", fmt.Sprintf("%s noted the task %q", actor.DisplayName(), task.Title), &task.ID)

	return note, nil
}

// RemoveNote deletes a note. Only its author may do so.
func (s *TaskService) RemoveNote(ctx context.Context, actor *domain.User, noteID string) error {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if err := s.guard.CanRemoveNote(actor, note); err != nil {
		return err
	}
	return s.notes.Delete(ctx, noteID)
}

// AttachFile links an uploaded file to an open task.
func (s *TaskService) AttachFile(ctx context.Context, actor *domain.User, taskID, fileID string) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.guard.CanAttachFile(actor, task); err != nil {
		return err
	}
	if _, err := s.files.GetByID(ctx, fileID); err != nil {
		return err
	}

	if err := s.files.Link(ctx, fileID, taskID); err != nil {
		return err
	}

	s.activity.Record(context.WithoutCancel(ctx), taskID, actor.ID, domain.ActivityFileAttached, "")

	return nil
}

// RemoveFile detaches a file from its task and deactivates it. The uploader
// or anyone holding the org-wide attach capability may remove it.
func (s *TaskService) RemoveFile(ctx context.Context, actor *domain.User, fileID string) error {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.UploadedBy != actor.ID && !access.CanAccess(actor.Role, access.ActionAttachFileTask) {
		return domain.ErrPermissionDenied
	}

	if err := s.files.Unlink(ctx, fileID); err != nil {
		return err
	}

	if file.TaskID != nil {
		s.activity.Record(context.WithoutCancel(ctx), *file.TaskID, actor.ID, domain.ActivityFileDeleted, "")
	}

	return nil
}

// GetDetail loads a task with its form, notes, files, audit trail,
// evaluations, and activity history, after a visibility check.
func (s *TaskService) GetDetail(ctx context.Context, actor *domain.User, taskID string) (*TaskDetail, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopes.AccessibleBranches(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanView(actor, task, scope); err != nil {
		return nil, err
	}

	detail := &TaskDetail{Task: task}
	if detail.Form, err = s.forms.GetByTaskID(ctx, taskID); err != nil {
		return nil, err
	}
	if detail.Notes, err = s.notes.GetByTaskID(ctx, taskID); err != nil {
		return nil, err
	}
	if detail.Files, err = s.files.GetByTaskID(ctx, taskID); err != nil {
		return nil, err
	}
	if detail.Audits, err = s.audits.GetByTaskID(ctx, taskID); err != nil {
		return nil, err
	}
	if detail.Evaluations, err = s.audits.GetEvaluations(ctx, taskID); err != nil {
		return nil, err
	}
	if detail.Activities, err = s.activity.List(ctx, taskID); err != nil {
		return nil, err
	}

	return detail, nil
}

// List returns a filtered task page scoped to what the actor may see:
// org-wide viewers get their branch subtree, everyone else their own tasks.
func (s *TaskService) List(ctx context.Context, actor *domain.User, filters repository.TaskListFilters) ([]*domain.Task, int, error) {
	if access.CanAccess(actor.Role, access.ActionViewTasks) {
		scope, err := s.scopes.AccessibleBranches(ctx, actor)
		if err != nil {
			return nil, 0, err
		}
		if !scope.All {
			filters.BranchIDs = scope.IDs
		}
	} else {
		filters.BranchIDs = nil
		filters.AssigneeID = &actor.ID
	}

	return s.tasks.List(ctx, filters)
}

// transition runs one guarded status move: lock the row, let decide pick the
// target state off the locked snapshot, write conditionally on the observed
// status, run any correlated write in the same transaction, commit, then
// fire counter/activity/notification effects. If a concurrent transition
// commits first, the conditional write affects zero rows and the whole
// transaction fails with ErrInvalidState.
func (s *TaskService) transition(
	ctx context.Context,
	actor *domain.User,
	taskID string,
	decide func(task *domain.Task) (domain.TaskStatus, *time.Time, *string, error),
	correlated func(tx pgx.Tx, task *domain.Task) error,
) (*domain.Task, error) {
	var task *domain.Task
	var oldStatus, newStatus domain.TaskStatus

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		task, err = s.tasks.GetByIDForUpdate(ctx, tx, taskID)
		if err != nil {
			return err
		}
		oldStatus = task.Status

		target, completedDate, summary, err := decide(task)
		if err != nil {
			return err
		}
		newStatus = target

		if err := s.tasks.UpdateStatus(ctx, tx, taskID, oldStatus, newStatus, completedDate, summary); err != nil {
			return err
		}
		task.Status = newStatus
		task.CompletedDate = completedDate
		task.Summary = summary

		if correlated != nil {
			return correlated(tx, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bg := context.WithoutCancel(ctx)
	if err := s.stats.Move(bg, oldStatus, newStatus); err != nil {
		slog.Error("failed to move counters",
			"task_id", taskID, "from", oldStatus, "to", newStatus, "error", err)
	}
	s.activity.Record(bg, taskID, actor.ID, domain.ActivityStatusChanged, string(newStatus))
	s.notifier.NotifyMany(bg, task.Participants(actor.ID), domain.NotificationTask,
		"Task updated", fmt.Sprintf("%s moved the task %q to %s", actor.DisplayName(), task.Title, newStatus), &task.ID)
	s.dashboard.BroadcastStats(bg)

	return task, nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (s *TaskService) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

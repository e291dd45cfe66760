package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mendbayar/taskdesk/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "title", "description", "status", "priority", "branch_id",
	"assignee_id", "supervisors", "creator_id", "start_date", "due_date",
	"completed_date", "summary", "archived", "created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.BranchID,
		&task.AssigneeID,
		&task.Supervisors,
		&task.CreatorID,
		&task.StartDate,
		&task.DueDate,
		&task.CompletedDate,
		&task.Summary,
		&task.Archived,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a task by ID with FOR UPDATE lock (within transaction).
func (r *TaskRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for task %s: %w", taskID, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// Create creates a new task within a transaction. Returns the task with ID,
// CreatedAt, and UpdatedAt populated.
func (r *TaskRepository) Create(ctx context.Context, tx pgx.Tx, task *domain.Task) (*domain.Task, error) {
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	if task.Supervisors == nil {
		task.Supervisors = []string{}
	}

	query, args, err := psql.
		Insert("tasks").
		Columns(
			"title", "description", "status", "priority", "branch_id",
			"assignee_id", "supervisors", "creator_id", "start_date", "due_date",
		).
		Values(
			task.Title,
			task.Description,
			task.Status,
			task.Priority,
			task.BranchID,
			task.AssigneeID,
			task.Supervisors,
			task.CreatorID,
			task.StartDate,
			task.DueDate,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// UpdateStatus moves the task status with optimistic locking: the write only
// lands if the status still equals oldStatus. A zero rows-affected result is
// a lost guard race and maps to ErrInvalidState, so at most one of two
// concurrent transitions wins.
func (r *TaskRepository) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	taskID string,
	oldStatus domain.TaskStatus,
	newStatus domain.TaskStatus,
	completedDate *time.Time,
	summary *string,
) error {
	query, args, err := psql.
		Update("tasks").
		Set("status", newStatus).
		Set("completed_date", completedDate).
		Set("summary", summary).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":     taskID,
			"status": oldStatus,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateStatus query for task %s: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s is no longer %s", domain.ErrInvalidState, taskID, oldStatus)
	}

	return nil
}

// SetAssignee replaces the task assignee. Status is untouched by reassignment.
func (r *TaskRepository) SetAssignee(ctx context.Context, tx pgx.Tx, taskID, assigneeID string) error {
	query, args, err := psql.
		Update("tasks").
		Set("assignee_id", assigneeID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SetAssignee query for task %s: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set assignee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// TaskUpdate holds the mutable descriptive fields of a task. Nil means keep.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *domain.TaskPriority
	DueDate     *time.Time
}

// UpdateFields updates descriptive fields without touching status.
func (r *TaskRepository) UpdateFields(ctx context.Context, taskID string, upd TaskUpdate) error {
	qb := psql.Update("tasks").Set("updated_at", sq.Expr("NOW()"))
	if upd.Title != nil {
		qb = qb.Set("title", *upd.Title)
	}
	if upd.Description != nil {
		qb = qb.Set("description", *upd.Description)
	}
	if upd.Priority != nil {
		qb = qb.Set("priority", *upd.Priority)
	}
	if upd.DueDate != nil {
		qb = qb.Set("due_date", *upd.DueDate)
	}

	query, args, err := qb.Where(sq.Eq{"id": taskID}).ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateFields query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// StatusCounts performs one full aggregation pass over the task store: a
// group-count by status, the total, and the count of overdue tasks (due date
// strictly before today, status not completed). Feeds counter cache rebuilds.
func (r *TaskRepository) StatusCounts(ctx context.Context, today time.Time) (domain.StatusCounters, error) {
	var counters domain.StatusCounters

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM tasks
		GROUP BY status
	`)
	if err != nil {
		return counters, fmt.Errorf("query status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status domain.TaskStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return counters, fmt.Errorf("scan status count: %w", err)
		}
		counters.Total += count
		switch status {
		case domain.TaskStatusPending:
			counters.Pending = count
		case domain.TaskStatusActive:
			counters.Active = count
		case domain.TaskStatusInProgress:
			counters.InProgress = count
		case domain.TaskStatusCompleted:
			counters.Completed = count
		case domain.TaskStatusReviewed:
			counters.Reviewed = count
		}
	}
	if err := rows.Err(); err != nil {
		return counters, fmt.Errorf("iterate status counts: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM tasks
		WHERE due_date < $1 AND status <> 'completed'
	`, today).Scan(&counters.Overdue)
	if err != nil {
		return counters, fmt.Errorf("count overdue tasks: %w", err)
	}

	return counters, nil
}

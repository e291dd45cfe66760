package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mendbayar/taskdesk/internal/domain"
)

// TaskFormRepository handles the auxiliary form documents created together
// with their task in one transaction.
type TaskFormRepository struct {
	pool *pgxpool.Pool
}

// NewTaskFormRepository creates a new TaskFormRepository.
func NewTaskFormRepository(pool *pgxpool.Pool) *TaskFormRepository {
	return &TaskFormRepository{pool: pool}
}

// Create persists a task form within the transaction that creates its task.
func (r *TaskFormRepository) Create(ctx context.Context, tx pgx.Tx, form *domain.TaskForm) error {
	if form.MemberIDs == nil {
		form.MemberIDs = []string{}
	}

	query, args, err := psql.
		Insert("task_forms").
		Columns("task_id", "kind", "document_number", "marking", "marking_date",
			"group_name", "leader_id", "member_ids").
		Values(form.TaskID, form.Kind, form.DocumentNumber, form.Marking,
			form.MarkingDate, form.GroupName, form.LeaderID, form.MemberIDs).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for task form: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&form.ID, &form.CreatedAt)
	if err != nil {
		return fmt.Errorf("create task form: %w", err)
	}

	return nil
}

// GetByTaskID retrieves the form attached to a task, if any.
func (r *TaskFormRepository) GetByTaskID(ctx context.Context, taskID string) (*domain.TaskForm, error) {
	query, args, err := psql.
		Select("id", "task_id", "kind", "document_number", "marking", "marking_date",
			"group_name", "leader_id", "member_ids", "created_at").
		From("task_forms").
		Where(sq.Eq{"task_id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByTaskID query for task form: %w", err)
	}

	var form domain.TaskForm
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&form.ID,
		&form.TaskID,
		&form.Kind,
		&form.DocumentNumber,
		&form.Marking,
		&form.MarkingDate,
		&form.GroupName,
		&form.LeaderID,
		&form.MemberIDs,
		&form.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query task form: %w", err)
	}

	return &form, nil
}

package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mendbayar/taskdesk/internal/domain"
)

// AuditRepository handles database operations for audit decisions and
// evaluations.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create persists an audit decision within the transaction that moves the
// task status, so decision and transition commit or abort together.
func (r *AuditRepository) Create(ctx context.Context, tx pgx.Tx, audit *domain.Audit) error {
	query, args, err := psql.
		Insert("audits").
		Columns("task_id", "checked_by", "comments", "point", "result").
		Values(audit.TaskID, audit.CheckedBy, audit.Comments, audit.Point, audit.Result).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for audit: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&audit.ID, &audit.CreatedAt)
	if err != nil {
		return fmt.Errorf("create audit: %w", err)
	}

	return nil
}

// GetByTaskID retrieves all audit decisions for a task, oldest first.
func (r *AuditRepository) GetByTaskID(ctx context.Context, taskID string) ([]*domain.Audit, error) {
	query, args, err := psql.
		Select("id", "task_id", "checked_by", "comments", "point", "result", "created_at").
		From("audits").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByTaskID query for audits: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audits: %w", err)
	}
	defer rows.Close()

	var audits []*domain.Audit
	for rows.Next() {
		var audit domain.Audit
		err := rows.Scan(
			&audit.ID,
			&audit.TaskID,
			&audit.CheckedBy,
			&audit.Comments,
			&audit.Point,
			&audit.Result,
			&audit.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		audits = append(audits, &audit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}

	return audits, nil
}

// CreateEvaluation persists an evaluation of a reviewed task.
func (r *AuditRepository) CreateEvaluation(ctx context.Context, eval *domain.Evaluation) error {
	query, args, err := psql.
		Insert("evaluations").
		Columns("task_id", "evaluator", "score", "feedback").
		Values(eval.TaskID, eval.Evaluator, eval.Score, eval.Feedback).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build CreateEvaluation query: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&eval.ID, &eval.CreatedAt)
	if err != nil {
		return fmt.Errorf("create evaluation: %w", err)
	}

	return nil
}

// GetEvaluations retrieves all evaluations for a task, oldest first.
func (r *AuditRepository) GetEvaluations(ctx context.Context, taskID string) ([]*domain.Evaluation, error) {
	query, args, err := psql.
		Select("id", "task_id", "evaluator", "score", "feedback", "created_at").
		From("evaluations").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetEvaluations query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	var evals []*domain.Evaluation
	for rows.Next() {
		var eval domain.Evaluation
		err := rows.Scan(
			&eval.ID,
			&eval.TaskID,
			&eval.Evaluator,
			&eval.Score,
			&eval.Feedback,
			&eval.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		evals = append(evals, &eval)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluation rows: %w", err)
	}

	return evals, nil
}

package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mendbayar/taskdesk/internal/domain"
)

// ActivityRepository handles database operations for the append-only
// activity trail. Rows are never updated or deleted.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Create appends one activity entry.
func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	query, args, err := psql.
		Insert("activities").
		Columns("task_id", "actor_id", "type", "message").
		Values(activity.TaskID, activity.ActorID, activity.Type, activity.Message).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for activity: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}

	return nil
}

// GetByTaskID retrieves all activity entries for a task ordered by creation
// time, reconstructing the task's history.
func (r *ActivityRepository) GetByTaskID(ctx context.Context, taskID string) ([]*domain.Activity, error) {
	query, args, err := psql.
		Select("id", "task_id", "actor_id", "type", "message", "created_at").
		From("activities").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByTaskID query for activities: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		var activity domain.Activity
		err := rows.Scan(
			&activity.ID,
			&activity.TaskID,
			&activity.ActorID,
			&activity.Type,
			&activity.Message,
			&activity.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, &activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity rows: %w", err)
	}

	return activities, nil
}

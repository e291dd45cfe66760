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

// FileRepository handles task-file linkage. Upload/storage mechanics live
// outside this system; only the link and active flag are managed here.
type FileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository creates a new FileRepository.
func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return &FileRepository{pool: pool}
}

// GetByID retrieves a file record by ID.
func (r *FileRepository) GetByID(ctx context.Context, fileID string) (*domain.File, error) {
	query, args, err := psql.
		Select("id", "task_id", "name", "url", "uploaded_by", "is_active", "created_at").
		From("files").
		Where(sq.Eq{"id": fileID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for file: %w", err)
	}

	var file domain.File
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&file.ID,
		&file.TaskID,
		&file.Name,
		&file.URL,
		&file.UploadedBy,
		&file.IsActive,
		&file.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("query file: %w", err)
	}

	return &file, nil
}

// LinkToTask marks files active and linked to the task. Runs within the
// creating transaction when files are supplied at task creation.
func (r *FileRepository) LinkToTask(ctx context.Context, tx pgx.Tx, fileIDs []string, taskID string) error {
	if len(fileIDs) == 0 {
		return nil
	}

	query, args, err := psql.
		Update("files").
		Set("task_id", taskID).
		Set("is_active", true).
		Where(sq.Eq{"id": fileIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build LinkToTask query: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("link files to task: %w", err)
	}

	return nil
}

// Link marks a single file active and linked to the task, outside any
// transaction.
func (r *FileRepository) Link(ctx context.Context, fileID, taskID string) error {
	query, args, err := psql.
		Update("files").
		Set("task_id", taskID).
		Set("is_active", true).
		Where(sq.Eq{"id": fileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Link query for file: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("link file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFileNotFound
	}

	return nil
}

// Unlink deactivates a file and detaches it from its task.
func (r *FileRepository) Unlink(ctx context.Context, fileID string) error {
	query, args, err := psql.
		Update("files").
		Set("task_id", nil).
		Set("is_active", false).
		Where(sq.Eq{"id": fileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Unlink query for file: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unlink file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFileNotFound
	}

	return nil
}

// GetByTaskID retrieves the active files linked to a task.
func (r *FileRepository) GetByTaskID(ctx context.Context, taskID string) ([]*domain.File, error) {
	query, args, err := psql.
		Select("id", "task_id", "name", "url", "uploaded_by", "is_active", "created_at").
		From("files").
		Where(sq.Eq{"task_id": taskID, "is_active": true}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByTaskID query for files: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	var files []*domain.File
	for rows.Next() {
		var file domain.File
		err := rows.Scan(
			&file.ID, &file.TaskID, &file.Name, &file.URL,
			&file.UploadedBy, &file.IsActive, &file.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, &file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file rows: %w", err)
	}

	return files, nil
}

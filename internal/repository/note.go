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

// NoteRepository handles database operations for task notes.
type NoteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create persists a new note.
func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	query, args, err := psql.
		Insert("notes").
		Columns("task_id", "content", "created_by").
		Values(note.TaskID, note.Content, note.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for note: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&note.ID, &note.CreatedAt)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	return nil
}

// GetByID retrieves a note by ID.
func (r *NoteRepository) GetByID(ctx context.Context, noteID string) (*domain.Note, error) {
	query, args, err := psql.
		Select("id", "task_id", "content", "created_by", "created_at").
		From("notes").
		Where(sq.Eq{"id": noteID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for note: %w", err)
	}

	var note domain.Note
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&note.ID,
		&note.TaskID,
		&note.Content,
		&note.CreatedBy,
		&note.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("query note: %w", err)
	}

	return &note, nil
}

// Delete removes a note.
func (r *NoteRepository) Delete(ctx context.Context, noteID string) error {
	query, args, err := psql.
		Delete("notes").
		Where(sq.Eq{"id": noteID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for note: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoteNotFound
	}

	return nil
}

// GetByTaskID retrieves all notes for a task, oldest first.
func (r *NoteRepository) GetByTaskID(ctx context.Context, taskID string) ([]*domain.Note, error) {
	query, args, err := psql.
		Select("id", "task_id", "content", "created_by", "created_at").
		From("notes").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByTaskID query for notes: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var note domain.Note
		err := rows.Scan(&note.ID, &note.TaskID, &note.Content, &note.CreatedBy, &note.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate note rows: %w", err)
	}

	return notes, nil
}

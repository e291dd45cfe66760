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

var branchColumns = []string{
	"id", "name", "parent_id", "path", "is_root", "created_by", "created_at",
}

// BranchRepository handles database operations for organizational branches.
type BranchRepository struct {
	pool *pgxpool.Pool
}

// NewBranchRepository creates a new BranchRepository.
func NewBranchRepository(pool *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{pool: pool}
}

func scanBranch(row pgx.Row) (*domain.Branch, error) {
	var branch domain.Branch
	err := row.Scan(
		&branch.ID,
		&branch.Name,
		&branch.ParentID,
		&branch.Path,
		&branch.IsRoot,
		&branch.CreatedBy,
		&branch.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBranchNotFound
		}
		return nil, fmt.Errorf("scan branch: %w", err)
	}
	return &branch, nil
}

// GetByID retrieves a branch by ID.
func (r *BranchRepository) GetByID(ctx context.Context, branchID string) (*domain.Branch, error) {
	query, args, err := psql.
		Select(branchColumns...).
		From("branches").
		Where(sq.Eq{"id": branchID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for branch: %w", err)
	}

	return scanBranch(r.pool.QueryRow(ctx, query, args...))
}

// Create inserts a new branch. The materialized path is derived here, not
// taken from the caller: root branches get an empty path, children extend
// the parent's subtree path so prefix queries keep seeing them.
func (r *BranchRepository) Create(ctx context.Context, branch *domain.Branch) (*domain.Branch, error) {
	if branch.ParentID != nil {
		parent, err := r.GetByID(ctx, *branch.ParentID)
		if err != nil {
			return nil, err
		}
		branch.Path = parent.SubtreePath()
		branch.IsRoot = false
	} else {
		branch.Path = ""
		branch.IsRoot = true
	}

	query, args, err := psql.
		Insert("branches").
		Columns("name", "parent_id", "path", "is_root", "created_by").
		Values(branch.Name, branch.ParentID, branch.Path, branch.IsRoot, branch.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for branch: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&branch.ID, &branch.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create branch: %w", err)
	}

	return branch, nil
}

// SubtreeIDs returns the branch plus every descendant, resolved by prefix
// match over the materialized path.
func (r *BranchRepository) SubtreeIDs(ctx context.Context, branchID string) ([]string, error) {
	branch, err := r.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Select("id").
		From("branches").
		Where(sq.Like{"path": branch.SubtreePath() + "%"}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SubtreeIDs query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query branch subtree: %w", err)
	}
	defer rows.Close()

	ids := []string{branch.ID}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan branch id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate branch rows: %w", err)
	}

	return ids, nil
}

// List retrieves all branches.
func (r *BranchRepository) List(ctx context.Context) ([]*domain.Branch, error) {
	query, args, err := psql.
		Select(branchColumns...).
		From("branches").
		OrderBy("path ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for branches: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query branches: %w", err)
	}
	defer rows.Close()

	var branches []*domain.Branch
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate branch rows: %w", err)
	}

	return branches, nil
}

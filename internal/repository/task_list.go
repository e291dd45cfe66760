package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/mendbayar/taskdesk/internal/domain"
)

// TaskListFilters holds all supported filters for task listing.
type TaskListFilters struct {
	BranchIDs  []string // Branch scope; empty means unrestricted (wildcard)
	Statuses   []string // Optional: filter by status
	AssigneeID *string  // Optional: filter by assignee
	CreatorID  *string  // Optional: filter by creator
	Priorities []string // Optional: filter by priority
	Archived   *bool    // Optional: filter by archived flag
	Search     string   // Optional: title substring match
	Sort       []string // Optional: sort fields (with - prefix for DESC)
	Limit      int      // Required: page size
	Offset     int      // Required: page offset
}

// taskSortColumns whitelists what callers may order by. Sort values are
// caller-controlled strings and must never reach the SQL text unchecked.
var taskSortColumns = map[string]bool{
	"created_at": true,
	"start_date": true,
	"due_date":   true,
	"priority":   true,
	"status":     true,
	"title":      true,
}

// orderByClauses maps sort fields ("-due_date" for descending) to ORDER BY
// clauses, silently dropping anything outside the whitelist.
func orderByClauses(sort []string) []string {
	var clauses []string
	for _, field := range sort {
		direction := " ASC"
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			direction = " DESC"
		}
		if !taskSortColumns[field] {
			continue
		}
		clauses = append(clauses, field+direction)
	}
	return clauses
}

func (f TaskListFilters) apply(qb sq.SelectBuilder) sq.SelectBuilder {
	if len(f.BranchIDs) > 0 {
		qb = qb.Where(sq.Eq{"branch_id": f.BranchIDs})
	}
	if len(f.Statuses) > 0 {
		qb = qb.Where(sq.Eq{"status": f.Statuses})
	}
	if f.AssigneeID != nil {
		qb = qb.Where(sq.Eq{"assignee_id": *f.AssigneeID})
	}
	if f.CreatorID != nil {
		qb = qb.Where(sq.Eq{"creator_id": *f.CreatorID})
	}
	if len(f.Priorities) > 0 {
		qb = qb.Where(sq.Eq{"priority": f.Priorities})
	}
	if f.Archived != nil {
		qb = qb.Where(sq.Eq{"archived": *f.Archived})
	}
	if f.Search != "" {
		qb = qb.Where(sq.ILike{"title": "%" + f.Search + "%"})
	}
	return qb
}

// List retrieves tasks with filters and pagination, returning the page and
// the unpaginated total.
func (r *TaskRepository) List(ctx context.Context, filters TaskListFilters) ([]*domain.Task, int, error) {
	qb := filters.apply(psql.Select(taskColumns...).From("tasks"))

	// Apply sorting (default: newest first)
	if clauses := orderByClauses(filters.Sort); len(clauses) > 0 {
		qb = qb.OrderBy(clauses...)
	} else {
		qb = qb.OrderBy("created_at DESC")
	}

	qb = qb.Limit(uint64(filters.Limit)).Offset(uint64(filters.Offset))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := filters.apply(psql.Select("COUNT(*)").From("tasks")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, total, nil
}

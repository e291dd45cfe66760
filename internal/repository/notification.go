package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mendbayar/taskdesk/internal/domain"
)

var notificationColumns = []string{
	"id", "user_id", "type", "title", "message", "task_id", "read", "seen", "created_at",
}

// NotificationRepository handles database operations for notifications.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create persists a notification record.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query, args, err := psql.
		Insert("notifications").
		Columns("user_id", "type", "title", "message", "task_id").
		Values(n.UserID, n.Type, n.Title, n.Message, n.TaskID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for notification: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's notifications, newest first, optionally
// restricted to unread ones.
func (r *NotificationRepository) ListByUser(
	ctx context.Context,
	userID string,
	unreadOnly bool,
	limit, offset int,
) ([]*domain.Notification, int, error) {
	qb := psql.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"user_id": userID})
	countQb := psql.
		Select("COUNT(*)").
		From("notifications").
		Where(sq.Eq{"user_id": userID})

	if unreadOnly {
		qb = qb.Where(sq.Eq{"read": false})
		countQb = countQb.Where(sq.Eq{"read": false})
	}

	query, args, err := qb.
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build ListByUser query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.TaskID, &n.Read, &n.Seen, &n.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate notification rows: %w", err)
	}

	countQuery, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query for notifications: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkAsRead flags one of the user's notifications as read. Scoping by
// user_id keeps callers from touching other users' rows; a wrong owner is
// indistinguishable from a missing notification.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	query, args, err := psql.
		Update("notifications").
		Set("read", true).
		Where(sq.Eq{"id": notificationID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build MarkAsRead query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}

	return nil
}

// MarkAllSeen flags every unseen notification of the user as seen.
func (r *NotificationRepository) MarkAllSeen(ctx context.Context, userID string) error {
	query, args, err := psql.
		Update("notifications").
		Set("seen", true).
		Where(sq.Eq{"user_id": userID, "seen": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build MarkAllSeen query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("mark notifications seen: %w", err)
	}

	return nil
}

// CountUnseen returns the number of unseen notifications for a user.
func (r *NotificationRepository) CountUnseen(ctx context.Context, userID string) (int, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("notifications").
		Where(sq.Eq{"user_id": userID, "seen": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build CountUnseen query: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unseen notifications: %w", err)
	}

	return count, nil
}

// Package cache maintains the denormalized task counters and presence sets
// in Redis. Everything here is advisory, derived state: the task store is the
// source of truth and the counters self-heal through Rebuild once the TTL'd
// initialization flag lapses.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mendbayar/taskdesk/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	keyInitialized = "stats:initialized"
	keyTotal       = "stats:total_tasks"
	keyOverdue     = "stats:tasks_overdue"
	statusPrefix   = "stats:tasks_"

	// initializedTTL bounds how stale the incremental counters can get
	// before the next read forces a full rebuild.
	initializedTTL = 24 * time.Hour
)

// counterKeys is the fixed key set read and written as a group.
var counterKeys = []string{
	keyTotal,
	statusPrefix + string(domain.TaskStatusPending),
	statusPrefix + string(domain.TaskStatusActive),
	statusPrefix + string(domain.TaskStatusInProgress),
	statusPrefix + string(domain.TaskStatusCompleted),
	statusPrefix + string(domain.TaskStatusReviewed),
	keyOverdue,
}

// CounterSource aggregates status counts from the durable store; implemented
// by the task repository.
type CounterSource interface {
	StatusCounts(ctx context.Context, today time.Time) (domain.StatusCounters, error)
}

// Stats manages the aggregate task-status counters.
type Stats struct {
	rdb *redis.Client
	loc *time.Location
}

// NewStats creates a Stats manager computing day boundaries in the given
// organizational timezone.
func NewStats(rdb *redis.Client, loc *time.Location) *Stats {
	return &Stats{rdb: rdb, loc: loc}
}

// Today returns midnight of the current day in the organizational timezone.
func (s *Stats) Today() time.Time {
	now := time.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// IsEmpty reports whether the counters need a rebuild: true unless the
// initialization flag is currently set.
func (s *Stats) IsEmpty(ctx context.Context) (bool, error) {
	val, err := s.rdb.Get(ctx, keyInitialized).Result()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("get initialized flag: %w", err)
	}
	return val != "true", nil
}

// Rebuild runs one full aggregation pass over the task store and writes all
// counters atomically, then (re)arms the initialization flag.
func (s *Stats) Rebuild(ctx context.Context, src CounterSource) (domain.StatusCounters, error) {
	counters, err := src.StatusCounts(ctx, s.Today())
	if err != nil {
		return domain.StatusCounters{}, fmt.Errorf("aggregate task counts: %w", err)
	}

	values := map[string]string{
		keyTotal: strconv.Itoa(counters.Total),
		statusPrefix + string(domain.TaskStatusPending):    strconv.Itoa(counters.Pending),
		statusPrefix + string(domain.TaskStatusActive):     strconv.Itoa(counters.Active),
		statusPrefix + string(domain.TaskStatusInProgress): strconv.Itoa(counters.InProgress),
		statusPrefix + string(domain.TaskStatusCompleted):  strconv.Itoa(counters.Completed),
		statusPrefix + string(domain.TaskStatusReviewed):   strconv.Itoa(counters.Reviewed),
		keyOverdue: strconv.Itoa(counters.Overdue),
	}

	if err := s.rdb.MSet(ctx, values).Err(); err != nil {
		return domain.StatusCounters{}, fmt.Errorf("write counters: %w", err)
	}

	if err := s.rdb.Set(ctx, keyInitialized, "true", initializedTTL).Err(); err != nil {
		return domain.StatusCounters{}, fmt.Errorf("set initialized flag: %w", err)
	}

	return counters, nil
}

// Read multi-gets the counter key set plus the online-user set cardinality.
// Missing keys default to 0.
func (s *Stats) Read(ctx context.Context) (domain.StatusCounters, error) {
	values, err := s.rdb.MGet(ctx, counterKeys...).Result()
	if err != nil {
		return domain.StatusCounters{}, fmt.Errorf("read counters: %w", err)
	}

	parsed := make([]int, len(values))
	for i, v := range values {
		if str, ok := v.(string); ok {
			if n, err := strconv.Atoi(str); err == nil {
				parsed[i] = n
			}
		}
	}

	online, err := s.rdb.SCard(ctx, keyOnlineUsers).Result()
	if err != nil {
		return domain.StatusCounters{}, fmt.Errorf("count online users: %w", err)
	}

	return domain.StatusCounters{
		Total:       parsed[0],
		Pending:     parsed[1],
		Active:      parsed[2],
		InProgress:  parsed[3],
		Completed:   parsed[4],
		Reviewed:    parsed[5],
		Overdue:     parsed[6],
		OnlineUsers: int(online),
	}, nil
}

// Increase bumps the counters for a newly created task: total plus the
// bucket the task is born in.
func (s *Stats) Increase(ctx context.Context, status domain.TaskStatus) error {
	if err := s.rdb.Incr(ctx, keyTotal).Err(); err != nil {
		return fmt.Errorf("increment total: %w", err)
	}
	if err := s.rdb.Incr(ctx, statusPrefix+string(status)).Err(); err != nil {
		return fmt.Errorf("increment %s bucket: %w", status, err)
	}
	return nil
}

// Move shifts one task between status buckets. Total is unaffected. The two
// ops are independently atomic, not grouped: a reader between them sees a
// momentarily skewed sum, which Rebuild heals within the flag TTL.
func (s *Stats) Move(ctx context.Context, oldStatus, newStatus domain.TaskStatus) error {
	if err := s.rdb.Decr(ctx, statusPrefix+string(oldStatus)).Err(); err != nil {
		return fmt.Errorf("decrement %s bucket: %w", oldStatus, err)
	}
	if err := s.rdb.Incr(ctx, statusPrefix+string(newStatus)).Err(); err != nil {
		return fmt.Errorf("increment %s bucket: %w", newStatus, err)
	}
	return nil
}

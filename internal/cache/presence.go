package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	keyOnlineUsers      = "online_users"
	keyDashboardViewers = "dashboard_viewers"
	userSocketPrefix    = "user_sockets:"
)

// Presence tracks which users hold live realtime connections. A user may be
// connected from several devices; they count as online while at least one
// connection remains.
type Presence struct {
	rdb *redis.Client
}

// NewPresence creates a Presence tracker.
func NewPresence(rdb *redis.Client) *Presence {
	return &Presence{rdb: rdb}
}

// ClearStale drops all connection bookkeeping. Called on startup since
// connections from a previous process are gone.
func (p *Presence) ClearStale(ctx context.Context) error {
	iter := p.rdb.Scan(ctx, 0, userSocketPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := p.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("delete socket key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan socket keys: %w", err)
	}

	if err := p.rdb.Del(ctx, keyOnlineUsers, keyDashboardViewers).Err(); err != nil {
		return fmt.Errorf("clear presence sets: %w", err)
	}

	return nil
}

// AddConnection records a new realtime connection for the user. The first
// connection marks the user online.
func (p *Presence) AddConnection(ctx context.Context, userID, connID string) error {
	key := userSocketPrefix + userID

	if err := p.rdb.SAdd(ctx, key, connID).Err(); err != nil {
		return fmt.Errorf("add connection: %w", err)
	}

	count, err := p.rdb.SCard(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("count connections: %w", err)
	}
	if count == 1 {
		if err := p.rdb.SAdd(ctx, keyOnlineUsers, userID).Err(); err != nil {
			return fmt.Errorf("mark user online: %w", err)
		}
	}

	return nil
}

// RemoveConnection drops a connection; the last one takes the user offline
// and out of the dashboard viewer set.
func (p *Presence) RemoveConnection(ctx context.Context, userID, connID string) error {
	key := userSocketPrefix + userID

	if err := p.rdb.SRem(ctx, key, connID).Err(); err != nil {
		return fmt.Errorf("remove connection: %w", err)
	}

	count, err := p.rdb.SCard(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("count connections: %w", err)
	}
	if count == 0 {
		if err := p.rdb.SRem(ctx, keyOnlineUsers, userID).Err(); err != nil {
			return fmt.Errorf("mark user offline: %w", err)
		}
		if err := p.rdb.SRem(ctx, keyDashboardViewers, userID).Err(); err != nil {
			return fmt.Errorf("remove dashboard viewer: %w", err)
		}
		if err := p.rdb.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("delete socket key: %w", err)
		}
	}

	return nil
}

// AddDashboardViewer subscribes a user to dashboard stat pushes.
func (p *Presence) AddDashboardViewer(ctx context.Context, userID string) error {
	if err := p.rdb.SAdd(ctx, keyDashboardViewers, userID).Err(); err != nil {
		return fmt.Errorf("add dashboard viewer: %w", err)
	}
	return nil
}

// RemoveDashboardViewer unsubscribes a user from dashboard stat pushes.
func (p *Presence) RemoveDashboardViewer(ctx context.Context, userID string) error {
	if err := p.rdb.SRem(ctx, keyDashboardViewers, userID).Err(); err != nil {
		return fmt.Errorf("remove dashboard viewer: %w", err)
	}
	return nil
}

// DashboardViewers returns the ids of users currently watching the dashboard.
func (p *Presence) DashboardViewers(ctx context.Context) ([]string, error) {
	viewers, err := p.rdb.SMembers(ctx, keyDashboardViewers).Result()
	if err != nil {
		return nil, fmt.Errorf("list dashboard viewers: %w", err)
	}
	return viewers, nil
}

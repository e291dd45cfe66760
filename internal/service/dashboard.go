package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mendbayar/taskdesk/internal/cache"
	"github.com/mendbayar/taskdesk/internal/domain"
	"github.com/mendbayar/taskdesk/internal/realtime"
)

// Dashboard serves the aggregate task counters and pushes refreshed numbers
// to viewers after lifecycle events.
type Dashboard struct {
	stats    *cache.Stats
	source   cache.CounterSource
	presence *cache.Presence
	hub      *realtime.Hub
}

// NewDashboard creates a Dashboard.
func NewDashboard(stats *cache.Stats, source cache.CounterSource, presence *cache.Presence, hub *realtime.Hub) *Dashboard {
	return &Dashboard{stats: stats, source: source, presence: presence, hub: hub}
}

// StatusCounters returns the current counters, rebuilding them from the task
// store first when the cache is cold or its initialization flag has lapsed.
func (d *Dashboard) StatusCounters(ctx context.Context) (domain.StatusCounters, error) {
	empty, err := d.stats.IsEmpty(ctx)
	if err != nil {
		return domain.StatusCounters{}, fmt.Errorf("%w: %w", domain.ErrDependency, err)
	}
	if empty {
		if _, err := d.stats.Rebuild(ctx, d.source); err != nil {
			return domain.StatusCounters{}, err
		}
	}

	counters, err := d.stats.Read(ctx)
	if err != nil {
		return domain.StatusCounters{}, fmt.Errorf("%w: %w", domain.ErrDependency, err)
	}
	return counters, nil
}

// Rebuild forces a full counter rebuild regardless of cache state.
func (d *Dashboard) Rebuild(ctx context.Context) (domain.StatusCounters, error) {
	if _, err := d.stats.Rebuild(ctx, d.source); err != nil {
		return domain.StatusCounters{}, err
	}
	return d.stats.Read(ctx)
}

// BroadcastStats pushes fresh counters to everyone connected, plus a
// dashboard-specific refresh to subscribed viewers. Best-effort, runs after
// the triggering write has committed.
func (d *Dashboard) BroadcastStats(ctx context.Context) {
	counters, err := d.StatusCounters(ctx)
	if err != nil {
		slog.Error("failed to load counters for broadcast", "error", err)
		return
	}

	d.hub.Broadcast("stats", counters)

	viewers, err := d.presence.DashboardViewers(ctx)
	if err != nil {
		slog.Error("failed to resolve dashboard viewers", "error", err)
		return
	}
	d.hub.EmitToUsers(viewers, "dashboard:update", counters)
}

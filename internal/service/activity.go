package service

import (
	"context"
	"log/slog"

	"github.com/mendbayar/taskdesk/internal/domain"
	"github.com/mendbayar/taskdesk/internal/repository"
)

// ActivityRecorder appends entries to the task activity trail. Recording
// happens after the triggering write has committed and is best-effort: a
// failed append is logged and never surfaces to the caller.
type ActivityRecorder struct {
	activities *repository.ActivityRepository
}

// NewActivityRecorder creates an ActivityRecorder.
func NewActivityRecorder(activities *repository.ActivityRepository) *ActivityRecorder {
	return &ActivityRecorder{activities: activities}
}

// Record appends one activity entry with the default message for the event.
func (r *ActivityRecorder) Record(ctx context.Context, taskID, actorID string, t domain.ActivityType, subject string) {
	activity := &domain.Activity{
		TaskID:  taskID,
		ActorID: actorID,
		Type:    t,
		Message: domain.ActivityMessage(t, subject),
	}

	if err := r.activities.Create(ctx, activity); err != nil {
		slog.Error("failed to record activity",
			"task_id", taskID,
			"actor_id", actorID,
			"type", t,
			"error", err,
		)
	}
}

// List returns a task's activity trail, oldest first.
func (r *ActivityRecorder) List(ctx context.Context, taskID string) ([]*domain.Activity, error) {
	return r.activities.GetByTaskID(ctx, taskID)
}

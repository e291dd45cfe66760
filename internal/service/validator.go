package service

import (
	"fmt"

	"github.com/mendbayar/taskdesk/internal/access"
	"github.com/mendbayar/taskdesk/internal/domain"
)

// Guard evaluates whether an actor may perform a lifecycle operation on a
// task. Each check combines a relationship test (assignee, supervisor,
// author) with a state test against the status machine; it never mutates
// anything and never touches storage.
type Guard struct{}

// NewGuard creates a Guard.
func NewGuard() *Guard {
	return &Guard{}
}

// CanCreate checks that the actor may create the task. Admin-grade creators
// may target anyone; self-service creators may only create tasks assigned to
// themselves.
func (g *Guard) CanCreate(actor *domain.User, assigneeID string) error {
	if access.CanAccess(actor.Role, access.ActionCreateTask) {
		return nil
	}
	if access.CanAccess(actor.Role, access.ActionCreateOwnTask) {
		if assigneeID != actor.ID {
			return fmt.Errorf("%w: may only create own tasks", domain.ErrPermissionDenied)
		}
		return nil
	}
	return domain.ErrPermissionDenied
}

// CanStart checks that the actor is the assignee and the task has not been
// picked up yet.
func (g *Guard) CanStart(actor *domain.User, task *domain.Task) error {
	if !task.IsAssignee(actor.ID) {
		return domain.ErrNotAssignee
	}
	if !task.Status.IsStartable() {
		return fmt.Errorf("%w: cannot start task in status %q", domain.ErrInvalidState, task.Status)
	}
	return nil
}

// CanComplete checks that the actor is the assignee and work is in progress.
func (g *Guard) CanComplete(actor *domain.User, task *domain.Task) error {
	if !task.IsAssignee(actor.ID) {
		return domain.ErrNotAssignee
	}
	if task.Status != domain.TaskStatusInProgress {
		return fmt.Errorf("%w: cannot complete task in status %q", domain.ErrInvalidState, task.Status)
	}
	return nil
}

// CanAudit checks that the actor supervises the task, holds the audit
// capability, and the task is awaiting review.
func (g *Guard) CanAudit(actor *domain.User, task *domain.Task) error {
	if !access.CanAccess(actor.Role, access.ActionAuditTask) {
		return domain.ErrPermissionDenied
	}
	if !task.IsSupervisor(actor.ID) {
		return domain.ErrNotSupervisor
	}
	if task.Status != domain.TaskStatusCompleted {
		return fmt.Errorf("%w: cannot audit task in status %q", domain.ErrInvalidState, task.Status)
	}
	return nil
}

// CanEvaluate checks that the actor holds the evaluate capability and the
// task has passed review. Evaluation never moves status.
func (g *Guard) CanEvaluate(actor *domain.User, task *domain.Task) error {
	if !access.CanAccess(actor.Role, access.ActionEvaluateTask) {
		return domain.ErrPermissionDenied
	}
	if task.Status != domain.TaskStatusReviewed {
		return fmt.Errorf("%w: cannot evaluate task in status %q", domain.ErrInvalidState, task.Status)
	}
	return nil
}

// CanAssign checks that the actor may reassign the task.
func (g *Guard) CanAssign(actor *domain.User, task *domain.Task) error {
	if !access.CanAccess(actor.Role, access.ActionAssignTask) {
		return domain.ErrPermissionDenied
	}
	if task.Status.IsClosed() {
		return fmt.Errorf("%w: cannot reassign task in status %q", domain.ErrInvalidState, task.Status)
	}
	return nil
}

// CanAddNote checks that the task is still open and the actor either holds
// the org-wide note capability or is a participant noting their own task.
func (g *Guard) CanAddNote(actor *domain.User, task *domain.Task) error {
	if task.Status.IsClosed() {
		return fmt.Errorf("%w: cannot add note to %s task", domain.ErrInvalidState, task.Status)
	}
	if access.CanAccess(actor.Role, access.ActionNoteTask) {
		return nil
	}
	if access.CanAccess(actor.Role, access.ActionNoteOwnTask) && g.isParticipant(actor, task) {
		return nil
	}
	return domain.ErrPermissionDenied
}

// CanRemoveNote checks that the actor authored the note. Authorship is the
// only grant; no role overrides it.
func (g *Guard) CanRemoveNote(actor *domain.User, note *domain.Note) error {
	if note.CreatedBy != actor.ID {
		return domain.ErrNotNoteAuthor
	}
	return nil
}

// CanAttachFile checks that the task is open and the actor may attach files
// to it, org-wide or on their own task.
func (g *Guard) CanAttachFile(actor *domain.User, task *domain.Task) error {
	if task.Status.IsClosed() {
		return fmt.Errorf("%w: cannot attach file to %s task", domain.ErrInvalidState, task.Status)
	}
	if access.CanAccess(actor.Role, access.ActionAttachFileTask) {
		return nil
	}
	if access.CanAccess(actor.Role, access.ActionAttachFileOwnTask) && g.isParticipant(actor, task) {
		return nil
	}
	return domain.ErrPermissionDenied
}

// CanUpdate checks that the actor may edit the task's descriptive fields:
// the creator, or anyone holding org-wide task visibility.
func (g *Guard) CanUpdate(actor *domain.User, task *domain.Task) error {
	if task.Status.IsClosed() {
		return fmt.Errorf("%w: cannot edit %s task", domain.ErrInvalidState, task.Status)
	}
	if task.IsCreator(actor.ID) || access.CanAccess(actor.Role, access.ActionViewTasks) {
		return nil
	}
	return domain.ErrPermissionDenied
}

// CanView checks that the task falls inside the actor's branch scope, or
// that the actor participates in it directly.
func (g *Guard) CanView(actor *domain.User, task *domain.Task, scope access.BranchScope) error {
	if g.isParticipant(actor, task) || task.IsSupervisor(actor.ID) {
		return nil
	}
	if access.CanAccess(actor.Role, access.ActionViewTasks) && scope.Contains(task.BranchID) {
		return nil
	}
	return domain.ErrPermissionDenied
}

func (g *Guard) isParticipant(actor *domain.User, task *domain.Task) bool {
	return task.IsAssignee(actor.ID) || task.IsCreator(actor.ID)
}

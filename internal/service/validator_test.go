package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mendbayar/taskdesk/internal/access"
	"github.com/mendbayar/taskdesk/internal/domain"
	"github.com/mendbayar/taskdesk/internal/service"
)

var (
	guardAdmin = &domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	guardUser  = &domain.User{ID: "user-1", Role: domain.RoleUser}
	guardOther = &domain.User{ID: "user-2", Role: domain.RoleUser}
)

func TestGuard_CanStart(t *testing.T) {
	g := service.NewGuard()

	task := &domain.Task{AssigneeID: guardUser.ID, Status: domain.TaskStatusPending}
	assert.NoError(t, g.CanStart(guardUser, task))

	task.Status = domain.TaskStatusActive
	assert.NoError(t, g.CanStart(guardUser, task))

	assert.ErrorIs(t, g.CanStart(guardOther, task), domain.ErrNotAssignee)

	task.Status = domain.TaskStatusCompleted
	assert.ErrorIs(t, g.CanStart(guardUser, task), domain.ErrInvalidState)
}

func TestGuard_CanComplete(t *testing.T) {
	g := service.NewGuard()

	task := &domain.Task{AssigneeID: guardUser.ID, Status: domain.TaskStatusInProgress}
	assert.NoError(t, g.CanComplete(guardUser, task))
	assert.ErrorIs(t, g.CanComplete(guardOther, task), domain.ErrNotAssignee)

	task.Status = domain.TaskStatusPending
	assert.ErrorIs(t, g.CanComplete(guardUser, task), domain.ErrInvalidState)
}

func TestGuard_CanAudit(t *testing.T) {
	g := service.NewGuard()

	task := &domain.Task{
		AssigneeID:  guardUser.ID,
		Supervisors: []string{guardAdmin.ID},
		Status:      domain.TaskStatusCompleted,
	}
	assert.NoError(t, g.CanAudit(guardAdmin, task))

	// Capability without the supervisor relationship is not enough.
	stranger := &domain.User{ID: "admin-2", Role: domain.RoleAdmin}
	assert.ErrorIs(t, g.CanAudit(stranger, task), domain.ErrNotSupervisor)

	// The supervisor relationship without the capability is not either.
	task.Supervisors = []string{guardOther.ID}
	assert.ErrorIs(t, g.CanAudit(guardOther, task), domain.ErrPermissionDenied)

	task.Supervisors = []string{guardAdmin.ID}
	task.Status = domain.TaskStatusInProgress
	assert.ErrorIs(t, g.CanAudit(guardAdmin, task), domain.ErrInvalidState)
}

func TestGuard_CanAddNote(t *testing.T) {
	g := service.NewGuard()

	task := &domain.Task{AssigneeID: guardUser.ID, CreatorID: guardAdmin.ID, Status: domain.TaskStatusInProgress}

	assert.NoError(t, g.CanAddNote(guardAdmin, task))
	assert.NoError(t, g.CanAddNote(guardUser, task))
	assert.ErrorIs(t, g.CanAddNote(guardOther, task), domain.ErrPermissionDenied)

	for _, closed := range []domain.TaskStatus{domain.TaskStatusCompleted, domain.TaskStatusReviewed} {
		task.Status = closed
		assert.ErrorIs(t, g.CanAddNote(guardAdmin, task), domain.ErrInvalidState)
	}
}

func TestGuard_CanRemoveNote(t *testing.T) {
	g := service.NewGuard()

	note := &domain.Note{CreatedBy: guardUser.ID}
	assert.NoError(t, g.CanRemoveNote(guardUser, note))
	assert.ErrorIs(t, g.CanRemoveNote(guardAdmin, note), domain.ErrNotNoteAuthor)
}

func TestGuard_CanView(t *testing.T) {
	g := service.NewGuard()

	task := &domain.Task{
		AssigneeID: guardUser.ID,
		CreatorID:  guardAdmin.ID,
		BranchID:   "b2",
		Status:     domain.TaskStatusPending,
	}

	// Participants always see their task regardless of scope.
	assert.NoError(t, g.CanView(guardUser, task, access.BranchScope{}))

	// Org-wide viewers need the branch in scope.
	viewer := &domain.User{ID: "admin-3", Role: domain.RoleAdmin}
	assert.NoError(t, g.CanView(viewer, task, access.BranchScope{IDs: []string{"b1", "b2"}}))
	assert.ErrorIs(t, g.CanView(viewer, task, access.BranchScope{IDs: []string{"b1"}}), domain.ErrPermissionDenied)

	// Plain users without a relationship never see it.
	assert.ErrorIs(t, g.CanView(guardOther, task, access.BranchScope{IDs: []string{"b2"}}), domain.ErrPermissionDenied)
}

func TestGuard_CanCreate(t *testing.T) {
	g := service.NewGuard()

	assert.NoError(t, g.CanCreate(guardAdmin, guardUser.ID))
	assert.NoError(t, g.CanCreate(guardUser, guardUser.ID))
	assert.ErrorIs(t, g.CanCreate(guardUser, guardOther.ID), domain.ErrPermissionDenied)
}

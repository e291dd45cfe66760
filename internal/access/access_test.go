package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mendbayar/taskdesk/internal/access"
	"github.com/mendbayar/taskdesk/internal/domain"
)

func TestCanAccess_Wildcard(t *testing.T) {
	// Super-admins hold every action, including ones only other roles list.
	assert.True(t, access.CanAccess(domain.RoleSuperAdmin, access.ActionCreateBranch))
	assert.True(t, access.CanAccess(domain.RoleSuperAdmin, access.ActionAuditTask))
	assert.True(t, access.CanAccess(domain.RoleSuperAdmin, access.ActionNoteOwnTask))
}

func TestCanAccess_AllowLists(t *testing.T) {
	tests := []struct {
		name   string
		role   domain.Role
		action access.Action
		want   bool
	}{
		{"admin may audit", domain.RoleAdmin, access.ActionAuditTask, true},
		{"admin may register users", domain.RoleAdmin, access.ActionRegisterUser, true},
		{"admin may not create branches", domain.RoleAdmin, access.ActionCreateBranch, false},
		{"user may create own tasks", domain.RoleUser, access.ActionCreateOwnTask, true},
		{"user may assign", domain.RoleUser, access.ActionAssignTask, true},
		{"user may not audit", domain.RoleUser, access.ActionAuditTask, false},
		{"user may not view org tasks", domain.RoleUser, access.ActionViewTasks, false},
		{"unknown role denied", domain.Role("intern"), access.ActionViewOwnTasks, false},
		{"unknown action denied", domain.RoleAdmin, access.Action("delete-everything"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.CanAccess(tt.role, tt.action))
		})
	}
}

func TestBranchScope_Contains(t *testing.T) {
	all := access.BranchScope{All: true}
	assert.True(t, all.Contains("anything"))

	scoped := access.BranchScope{IDs: []string{"a", "b"}}
	assert.True(t, scoped.Contains("a"))
	assert.False(t, scoped.Contains("c"))
}

type stubResolver struct {
	ids []string
	err error
}

func (s stubResolver) SubtreeIDs(_ context.Context, _ string) ([]string, error) {
	return s.ids, s.err
}

func TestAccessibleBranches(t *testing.T) {
	ctx := context.Background()

	e := access.NewEvaluator(stubResolver{ids: []string{"b1", "b2", "b2"}})

	scope, err := e.AccessibleBranches(ctx, &domain.User{Role: domain.RoleSuperAdmin, BranchID: "b1"})
	require.NoError(t, err)
	assert.True(t, scope.All)

	scope, err = e.AccessibleBranches(ctx, &domain.User{Role: domain.RoleAdmin, BranchID: "b1"})
	require.NoError(t, err)
	assert.False(t, scope.All)
	assert.Equal(t, []string{"b1", "b2"}, scope.IDs)
}

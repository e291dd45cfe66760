// Package access resolves role capabilities and branch visibility. Roles are
// disjoint tagged capability sets, not a hierarchy: each maps to an explicit
// allow-list of actions, with a wildcard entry meaning every action.
package access

import (
	"context"

	"github.com/mendbayar/taskdesk/internal/domain"
)

// Action names a capability a role may hold.
type Action string

const (
	// Wildcard grants every action.
	Wildcard Action = "*"

	ActionCreateBranch Action = "create-branch"

	ActionCreateTask         Action = "create-task"
	ActionRegisterUser       Action = "register-user"
	ActionUpdateUser         Action = "update-user"
	ActionChangeUserPassword Action = "change-user-password"
	ActionViewTasks          Action = "view-tasks"
	ActionAssignTask         Action = "assign-task"
	ActionAuditTask          Action = "audit-task"
	ActionEvaluateTask       Action = "evaluate-task"
	ActionAttachFileTask     Action = "attach-file-task"
	ActionNoteTask           Action = "note-task"

	ActionCreateOwnTask     Action = "create-own-task"
	ActionViewOwnTasks      Action = "view-own-tasks"
	ActionAttachFileOwnTask Action = "attach-file-own-task"
	ActionNoteOwnTask       Action = "note-own-task"
)

// roleCapabilities is built at configuration time; evaluation is a pure
// set-membership test against it.
var roleCapabilities = map[domain.Role]map[Action]struct{}{
	domain.RoleSuperAdmin: toSet(Wildcard),
	domain.RoleAdmin: toSet(
		ActionCreateTask,
		ActionRegisterUser,
		ActionUpdateUser,
		ActionChangeUserPassword,
		ActionViewTasks,
		ActionAssignTask,
		ActionAuditTask,
		ActionEvaluateTask,
		ActionAttachFileTask,
		ActionNoteTask,
	),
	domain.RoleUser: toSet(
		ActionCreateOwnTask,
		ActionViewOwnTasks,
		ActionAssignTask,
		ActionAttachFileOwnTask,
		ActionNoteOwnTask,
	),
}

func toSet(actions ...Action) map[Action]struct{} {
	set := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// CanAccess reports whether the role's allow-list contains the action or the
// wildcard. Unknown roles and actions evaluate to false, never an error.
func CanAccess(role domain.Role, action Action) bool {
	capabilities, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	if _, ok := capabilities[Wildcard]; ok {
		return true
	}
	_, ok = capabilities[action]
	return ok
}

// BranchScope is the set of branches a user may see. All set means every
// branch (super-admin wildcard).
type BranchScope struct {
	All bool
	IDs []string
}

// Contains reports whether the scope covers the given branch.
func (s BranchScope) Contains(branchID string) bool {
	if s.All {
		return true
	}
	for _, id := range s.IDs {
		if id == branchID {
			return true
		}
	}
	return false
}

// SubtreeResolver resolves a branch id to itself plus all descendants;
// implemented by the branch repository via materialized-path prefix match.
type SubtreeResolver interface {
	SubtreeIDs(ctx context.Context, branchID string) ([]string, error)
}

// Evaluator resolves branch visibility for users.
type Evaluator struct {
	branches SubtreeResolver
}

// NewEvaluator creates an Evaluator over the branch tree.
func NewEvaluator(branches SubtreeResolver) *Evaluator {
	return &Evaluator{branches: branches}
}

// AccessibleBranches resolves the transitive set of branches the user may
// see: super-admins see all, everyone else sees their own branch plus its
// descendants.
func (e *Evaluator) AccessibleBranches(ctx context.Context, user *domain.User) (BranchScope, error) {
	if user.Role == domain.RoleSuperAdmin {
		return BranchScope{All: true}, nil
	}

	ids, err := e.branches.SubtreeIDs(ctx, user.BranchID)
	if err != nil {
		return BranchScope{}, err
	}

	// SubtreeIDs may return the branch twice when its own path matches the
	// prefix; deduplicate to keep the scope a set.
	seen := make(map[string]struct{}, len(ids))
	unique := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	return BranchScope{IDs: unique}, nil
}

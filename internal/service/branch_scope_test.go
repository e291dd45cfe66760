package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/mendbayar/taskdesk/internal/domain"
)

func (s *TaskServiceTestSuite) TestCreateBranch_ChildJoinsParentSubtree() {
	ctx := context.Background()

	parent, err := s.branchRepo.Create(ctx, &domain.Branch{
		Name:      "Regional HQ",
		CreatedBy: s.superAdmin.ID,
	})
	s.Require().NoError(err)
	s.True(parent.IsRoot)
	s.Equal("", parent.Path)

	child, err := s.branchRepo.Create(ctx, &domain.Branch{
		Name:      "District Office",
		ParentID:  &parent.ID,
		CreatedBy: s.superAdmin.ID,
	})
	s.Require().NoError(err)
	s.False(child.IsRoot)
	s.Equal(parent.ID, child.Path)

	grandchild, err := s.branchRepo.Create(ctx, &domain.Branch{
		Name:      "Local Unit",
		ParentID:  &child.ID,
		CreatedBy: s.superAdmin.ID,
	})
	s.Require().NoError(err)
	s.Equal(parent.ID+"/"+child.ID, grandchild.Path)

	ids, err := s.branchRepo.SubtreeIDs(ctx, parent.ID)
	s.Require().NoError(err)
	s.Contains(ids, parent.ID)
	s.Contains(ids, child.ID)
	s.Contains(ids, grandchild.ID)

	// The child's own subtree covers the grandchild but not the parent.
	ids, err = s.branchRepo.SubtreeIDs(ctx, child.ID)
	s.Require().NoError(err)
	s.Contains(ids, child.ID)
	s.Contains(ids, grandchild.ID)
	s.NotContains(ids, parent.ID)
}

func (s *TaskServiceTestSuite) TestCreateBranch_MissingParent() {
	ctx := context.Background()

	missing := uuid.New().String()
	_, err := s.branchRepo.Create(ctx, &domain.Branch{
		Name:      "Orphan",
		ParentID:  &missing,
		CreatedBy: s.superAdmin.ID,
	})
	s.Require().ErrorIs(err, domain.ErrBranchNotFound)
}

func (s *TaskServiceTestSuite) TestMarkNotificationRead_ScopedToOwner() {
	ctx := context.Background()

	s.notifier.Notify(ctx, s.user1.ID, domain.NotificationSystem, "Reminder", "Check your tasks", nil)

	list, total, err := s.notifier.List(ctx, s.user1.ID, true, 10, 0)
	s.Require().NoError(err)
	s.Require().Equal(1, total)
	notificationID := list[0].ID

	err = s.notifier.MarkAsRead(ctx, notificationID, s.user2.ID)
	s.Require().ErrorIs(err, domain.ErrNotificationNotFound)

	s.Require().NoError(s.notifier.MarkAsRead(ctx, notificationID, s.user1.ID))

	list, _, err = s.notifier.List(ctx, s.user1.ID, true, 10, 0)
	s.Require().NoError(err)
	s.Empty(list)
}

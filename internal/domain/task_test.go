package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mendbayar/taskdesk/internal/domain"
)

func TestInitialStatus(t *testing.T) {
	now := time.Now()

	assert.Equal(t, domain.TaskStatusActive, domain.InitialStatus(now.Add(-time.Minute), now))
	assert.Equal(t, domain.TaskStatusPending, domain.InitialStatus(now.Add(time.Minute), now))
}

func TestTaskStatus_IsStartable(t *testing.T) {
	assert.True(t, domain.TaskStatusPending.IsStartable())
	assert.True(t, domain.TaskStatusActive.IsStartable())
	assert.False(t, domain.TaskStatusInProgress.IsStartable())
	assert.False(t, domain.TaskStatusCompleted.IsStartable())
	assert.False(t, domain.TaskStatusReviewed.IsStartable())
}

func TestTaskStatus_IsClosed(t *testing.T) {
	assert.False(t, domain.TaskStatusInProgress.IsClosed())
	assert.True(t, domain.TaskStatusCompleted.IsClosed())
	assert.True(t, domain.TaskStatusReviewed.IsClosed())
}

func TestTask_IsOverdue(t *testing.T) {
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	tests := []struct {
		name    string
		dueDate *time.Time
		status  domain.TaskStatus
		want    bool
	}{
		{"no due date", nil, domain.TaskStatusPending, false},
		{"due yesterday, pending", &yesterday, domain.TaskStatusPending, true},
		{"due yesterday, in progress", &yesterday, domain.TaskStatusInProgress, true},
		{"due yesterday, completed", &yesterday, domain.TaskStatusCompleted, false},
		{"due today", &today, domain.TaskStatusPending, false},
		{"due tomorrow", &tomorrow, domain.TaskStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &domain.Task{DueDate: tt.dueDate, Status: tt.status}
			assert.Equal(t, tt.want, task.IsOverdue(today))
		})
	}
}

func TestTask_Participants(t *testing.T) {
	task := &domain.Task{CreatorID: "creator", AssigneeID: "assignee"}

	assert.ElementsMatch(t, []string{"creator", "assignee"}, task.Participants("someone-else"))
	assert.Equal(t, []string{"assignee"}, task.Participants("creator"))

	selfAssigned := &domain.Task{CreatorID: "u1", AssigneeID: "u1"}
	assert.Empty(t, selfAssigned.Participants("u1"))
	assert.Equal(t, []string{"u1"}, selfAssigned.Participants("other"))
}

func TestUser_DisplayName(t *testing.T) {
	u := &domain.User{Rank: "Capt", GivenName: "Dorj", Surname: "Bat"}
	assert.Equal(t, "Capt B.Dorj", u.DisplayName())

	cyrillic := &domain.User{Rank: "Ахмад", GivenName: "Бат", Surname: "Дорж"}
	assert.Equal(t, "Ахмад Д.Бат", cyrillic.DisplayName())

	noSurname := &domain.User{Rank: "Capt", GivenName: "Dorj"}
	assert.Equal(t, "Capt Dorj", noSurname.DisplayName())
}

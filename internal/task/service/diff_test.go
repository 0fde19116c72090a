package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	taskModel "github.com/festy23/task_manager/internal/task/model"
)

func dueDate(value string) *time.Time {
	parsed, _ := time.Parse(taskModel.DueDateLayout, value)
	return &parsed
}

func TestDiffSnapshots(t *testing.T) {
	t.Run("no changes", func(t *testing.T) {
		snap := taskSnapshot{
			Title:       "Ship release",
			Description: "cut and tag",
			Priority:    taskModel.PriorityHigh,
			Assignees:   []string{"@alice"},
		}

		assert.Empty(t, diffSnapshots(snap, snap))
	})

	t.Run("single field", func(t *testing.T) {
		before := taskSnapshot{Title: "Ship release", Assignees: []string{"@alice"}}
		after := before
		after.Title = "Ship hotfix"

		assert.Equal(t, "Title: 'Ship release' to 'Ship hotfix'", diffSnapshots(before, after))
	})

	t.Run("fields come in fixed order", func(t *testing.T) {
		before := taskSnapshot{
			Title:       "Ship release",
			Description: "cut and tag",
			DueDate:     dueDate("2026-09-01"),
			Priority:    taskModel.PriorityLow,
			Assignees:   []string{"@alice"},
		}
		after := taskSnapshot{
			Title:       "Ship hotfix",
			Description: "cherry-pick the fix",
			DueDate:     dueDate("2026-09-15"),
			Priority:    taskModel.PriorityHigh,
			Assignees:   []string{"@alice"},
		}

		expected := "Title: 'Ship release' to 'Ship hotfix'\n" +
			"Description: 'cut and tag' to 'cherry-pick the fix'\n" +
			"Due date: '2026-09-01' to '2026-09-15'\n" +
			"Priority: 'low' to 'high'"
		assert.Equal(t, expected, diffSnapshots(before, after))
	})

	t.Run("clearing the due date", func(t *testing.T) {
		before := taskSnapshot{Title: "Task", DueDate: dueDate("2026-09-01"), Assignees: []string{"@alice"}}
		after := taskSnapshot{Title: "Task", Assignees: []string{"@alice"}}

		assert.Equal(t, "Due date: '2026-09-01' to ''", diffSnapshots(before, after))
	})

	t.Run("assignee additions and removals", func(t *testing.T) {
		before := taskSnapshot{Title: "Task", Assignees: []string{"@alice", "@bob"}}
		after := taskSnapshot{Title: "Task", Assignees: []string{"@alice", "@carol", "@dave"}}

		expected := "Assigned to: Added @carol, @dave\n" +
			"Assigned to: Removed @bob"
		assert.Equal(t, expected, diffSnapshots(before, after))
	})

	t.Run("assignee changes come after field changes", func(t *testing.T) {
		before := taskSnapshot{Title: "Task", Assignees: []string{"@alice"}}
		after := taskSnapshot{Title: "Renamed", Assignees: []string{"@bob"}}

		expected := "Title: 'Task' to 'Renamed'\n" +
			"Assigned to: Added @bob\n" +
			"Assigned to: Removed @alice"
		assert.Equal(t, expected, diffSnapshots(before, after))
	})
}

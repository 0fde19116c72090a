package service

import (
	"fmt"
	"strings"
	"time"

	taskModel "github.com/festy23/task_manager/internal/task/model"
)

// taskSnapshot captures the audited fields of a task at one point in time.
// Assignees hold usernames sorted by the repository's listing order.
type taskSnapshot struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	Assignees   []string
}

func snapshotOf(task *taskModel.Task, assignees []string) taskSnapshot {
	return taskSnapshot{
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Assignees:   assignees,
	}
}

// diffSnapshots renders a human-readable change list, one change per line.
// Scalar fields come first in a fixed order, assignee changes last.
// Unchanged tasks produce the empty string.
func diffSnapshots(before, after taskSnapshot) string {
	var lines []string

	if before.Title != after.Title {
		lines = append(lines, fieldChange("Title", before.Title, after.Title))
	}
	if before.Description != after.Description {
		lines = append(lines, fieldChange("Description", before.Description, after.Description))
	}
	if beforeDue, afterDue := taskModel.FormatDueDate(before.DueDate), taskModel.FormatDueDate(after.DueDate); beforeDue != afterDue {
		lines = append(lines, fieldChange("Due date", beforeDue, afterDue))
	}
	if before.Priority != after.Priority {
		lines = append(lines, fieldChange("Priority", before.Priority, after.Priority))
	}

	added, removed := assigneeChanges(before.Assignees, after.Assignees)
	if len(added) > 0 {
		lines = append(lines, "Assigned to: Added "+strings.Join(added, ", "))
	}
	if len(removed) > 0 {
		lines = append(lines, "Assigned to: Removed "+strings.Join(removed, ", "))
	}

	return strings.Join(lines, "\n")
}

func fieldChange(name, before, after string) string {
	return fmt.Sprintf("%s: '%s' to '%s'", name, before, after)
}

// assigneeChanges computes who joined and who left, keeping input order.
func assigneeChanges(before, after []string) (added, removed []string) {
	beforeSet := make(map[string]struct{}, len(before))
	for _, username := range before {
		beforeSet[username] = struct{}{}
	}
	afterSet := make(map[string]struct{}, len(after))
	for _, username := range after {
		afterSet[username] = struct{}{}
	}

	for _, username := range after {
		if _, ok := beforeSet[username]; !ok {
			added = append(added, username)
		}
	}
	for _, username := range before {
		if _, ok := afterSet[username]; !ok {
			removed = append(removed, username)
		}
	}
	return added, removed
}

package model

import "time"

// DueDateLayout is the wire format for task due dates.
const DueDateLayout = "2006-01-02"

// Orderings accepted by task search.
const (
	OrderByDueDate    = "due_date"
	OrderByTitle      = "title"
	OrderByPriority   = "priority"
	OrderByCompletion = "completion"
)

// ValidOrderBy reports whether the value is a known ordering.
func ValidOrderBy(orderBy string) bool {
	switch orderBy {
	case OrderByDueDate, OrderByTitle, OrderByPriority, OrderByCompletion:
		return true
	}
	return false
}

// CreateTaskRequest represents the request to create a task.
type CreateTaskRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	DueDate     string   `json:"due_date"`
	Priority    string   `json:"priority"`
	Assignees   []string `json:"assignees" binding:"required"`
}

// UpdateTaskRequest represents the request to edit a task.
type UpdateTaskRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	DueDate     string   `json:"due_date"`
	Priority    string   `json:"priority"`
	Assignees   []string `json:"assignees" binding:"required"`
}

// ToggleCompletionRequest flips a task's completion state.
type ToggleCompletionRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TeamID      int64    `json:"team_id"`
	CreatedBy   string   `json:"created_by"`
	DueDate     string   `json:"due_date,omitempty"`
	Priority    string   `json:"priority"`
	Completed   bool     `json:"completed"`
	Assignees   []string `json:"assignees"`
}

// SearchFilter narrows and orders a task listing.
//
// TeamID of zero means no team scope; AssignedUserID of zero means no
// assignee scope. AssignedUsername filters within a team scope.
type SearchFilter struct {
	Query            string
	TeamID           int64
	AssignedUserID   int64
	AssignedUsername string
	OrderBy          string
}

// FormatDueDate renders a due date for responses and diffs.
func FormatDueDate(due *time.Time) string {
	if due == nil {
		return ""
	}
	return due.Format(DueDateLayout)
}

// Package model provides domain models and DTOs for the task module.
package model

import (
	"time"

	"gorm.io/gorm"
)

// Task priorities. The empty string means no priority was set.
const (
	PriorityNone   = ""
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// PriorityRank orders priorities for sorting: high first, unset last.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ValidPriority reports whether the value is one of the known priorities.
func ValidPriority(priority string) bool {
	switch priority {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a unit of work inside a team.
type Task struct {
	ID          int64      `gorm:"primaryKey;column:id;type:bigserial"                       json:"id"`
	Title       string     `gorm:"column:title;type:varchar(100);not null"                   json:"title"`
	Description string     `gorm:"column:description;type:varchar(1000);not null"            json:"description"`
	CreatedBy   int64      `gorm:"column:created_by;type:bigint;not null"                    json:"created_by"`
	TeamID      int64      `gorm:"column:team_id;type:bigint;not null;index"                 json:"team_id"`
	DueDate     *time.Time `gorm:"column:due_date;type:date"                                 json:"due_date"`
	Priority    string     `gorm:"column:priority;type:varchar(10);not null;default:''"      json:"priority"`
	Completed   bool       `gorm:"column:completed;not null;default:false"                   json:"completed"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"-"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()" json:"-"`
}

// TableName specifies the table name for GORM.
func (Task) TableName() string {
	return "tasks"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (t *Task) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}

// TaskAssignee links a task to one of its assignees.
type TaskAssignee struct {
	ID        int64     `gorm:"primaryKey;column:id;type:bigserial"                        json:"id"`
	TaskID    int64     `gorm:"column:task_id;type:bigint;not null;uniqueIndex:idx_task_assignee" json:"task_id"`
	UserID    int64     `gorm:"column:user_id;type:bigint;not null;uniqueIndex:idx_task_assignee" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"  json:"-"`
}

// TableName specifies the table name for GORM.
func (TaskAssignee) TableName() string {
	return "task_assignees"
}

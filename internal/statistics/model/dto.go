// Package model provides data transfer objects for the statistics module.
package model

// MemberWorkload represents the task workload of a single team member.
type MemberWorkload struct {
	UserID         int64  `json:"user_id"`
	Username       string `json:"username"`
	OpenCount      int    `json:"open_count"`
	CompletedCount int    `json:"completed_count"`
}

// MemberWorkloadResponse represents the workload of every team member.
type MemberWorkloadResponse struct {
	Members []MemberWorkload `json:"members"`
	Total   int              `json:"total"`
}

// TeamTaskStatistics represents aggregate task figures for a team.
type TeamTaskStatistics struct {
	TotalTasks          int     `json:"total_tasks"`
	OpenTasks           int     `json:"open_tasks"`
	CompletedTasks      int     `json:"completed_tasks"`
	HighPriority        int     `json:"high_priority"`
	MediumPriority      int     `json:"medium_priority"`
	LowPriority         int     `json:"low_priority"`
	WithoutDueDate      int     `json:"without_due_date"`
	AverageAssignees    float64 `json:"average_assignees_per_task"`
	TasksWith1Assignee  int     `json:"tasks_with_1_assignee"`
	TasksWith2Assignees int     `json:"tasks_with_2_or_more_assignees"`
}

// TeamTaskStatisticsResponse wraps aggregate task statistics for a team.
type TeamTaskStatisticsResponse struct {
	Statistics TeamTaskStatistics `json:"statistics"`
}

// Package repository provides data access layer for the statistics module.
package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/task_manager/internal/statistics/model"
)

// Repository defines the interface for statistics data access operations.
type Repository interface {
	// GetMemberWorkload returns per-member assigned task counts for a team.
	GetMemberWorkload(ctx context.Context, teamID int64) ([]model.MemberWorkload, error)

	// GetTeamTaskStatistics returns aggregate task figures for a team.
	GetTeamTaskStatistics(ctx context.Context, teamID int64) (*model.TeamTaskStatistics, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new statistics repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// GetMemberWorkload returns per-member assigned task counts for a team.
// The leader is included even though leaders are not stored in team_members.
func (r *repository) GetMemberWorkload(ctx context.Context, teamID int64) ([]model.MemberWorkload, error) {
	var workload []model.MemberWorkload

	err := r.db.WithContext(ctx).
		Table("users").
		Select(`
			users.id AS user_id,
			users.username,
			COALESCE(SUM(CASE WHEN NOT tasks.completed THEN 1 ELSE 0 END), 0) AS open_count,
			COALESCE(SUM(CASE WHEN tasks.completed THEN 1 ELSE 0 END), 0) AS completed_count
		`).
		Joins("LEFT JOIN task_assignees ON task_assignees.user_id = users.id").
		Joins("LEFT JOIN tasks ON tasks.id = task_assignees.task_id AND tasks.team_id = ?", teamID).
		Where(
			"users.id IN (SELECT user_id FROM team_members WHERE team_id = ?) OR users.id = (SELECT leader_id FROM teams WHERE id = ?)",
			teamID, teamID,
		).
		Group("users.id, users.username").
		Order("open_count DESC, users.username ASC").
		Scan(&workload).Error

	if err != nil {
		r.logger.Errorw("GetMemberWorkload database error", "team_id", teamID, "error", err)
		return nil, err
	}

	if workload == nil {
		workload = []model.MemberWorkload{}
	}

	return workload, nil
}

// GetTeamTaskStatistics returns aggregate task figures for a team.
func (r *repository) GetTeamTaskStatistics(ctx context.Context, teamID int64) (*model.TeamTaskStatistics, error) {
	var result struct {
		TotalTasks          int64   `gorm:"column:total_tasks"`
		OpenTasks           int64   `gorm:"column:open_tasks"`
		CompletedTasks      int64   `gorm:"column:completed_tasks"`
		HighPriority        int64   `gorm:"column:high_priority"`
		MediumPriority      int64   `gorm:"column:medium_priority"`
		LowPriority         int64   `gorm:"column:low_priority"`
		WithoutDueDate      int64   `gorm:"column:without_due_date"`
		AverageAssignees    float64 `gorm:"column:avg_assignees"`
		TasksWith1Assignee  int64   `gorm:"column:tasks_1_assignee"`
		TasksWith2Assignees int64   `gorm:"column:tasks_2_assignees"`
	}

	err := r.db.WithContext(ctx).
		Table("tasks").
		Select(`
			COUNT(*) AS total_tasks,
			COALESCE(SUM(CASE WHEN NOT tasks.completed THEN 1 ELSE 0 END), 0) AS open_tasks,
			COALESCE(SUM(CASE WHEN tasks.completed THEN 1 ELSE 0 END), 0) AS completed_tasks,
			COALESCE(SUM(CASE WHEN tasks.priority = 'high' THEN 1 ELSE 0 END), 0) AS high_priority,
			COALESCE(SUM(CASE WHEN tasks.priority = 'medium' THEN 1 ELSE 0 END), 0) AS medium_priority,
			COALESCE(SUM(CASE WHEN tasks.priority = 'low' THEN 1 ELSE 0 END), 0) AS low_priority,
			COALESCE(SUM(CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END), 0) AS without_due_date,
			COALESCE(AVG(assignee_counts.assignee_count), 0) AS avg_assignees,
			COALESCE(SUM(CASE WHEN assignee_counts.assignee_count = 1 THEN 1 ELSE 0 END), 0) AS tasks_1_assignee,
			COALESCE(SUM(CASE WHEN assignee_counts.assignee_count >= 2 THEN 1 ELSE 0 END), 0) AS tasks_2_assignees
		`).
		Joins(`
			LEFT JOIN (
				SELECT task_id, CAST(COUNT(*) AS REAL) AS assignee_count
				FROM task_assignees
				GROUP BY task_id
			) assignee_counts ON tasks.id = assignee_counts.task_id
		`).
		Where("tasks.team_id = ?", teamID).
		Scan(&result).Error

	if err != nil {
		r.logger.Errorw("GetTeamTaskStatistics database error", "team_id", teamID, "error", err)
		return nil, err
	}

	return &model.TeamTaskStatistics{
		TotalTasks:          int(result.TotalTasks),
		OpenTasks:           int(result.OpenTasks),
		CompletedTasks:      int(result.CompletedTasks),
		HighPriority:        int(result.HighPriority),
		MediumPriority:      int(result.MediumPriority),
		LowPriority:         int(result.LowPriority),
		WithoutDueDate:      int(result.WithoutDueDate),
		AverageAssignees:    result.AverageAssignees,
		TasksWith1Assignee:  int(result.TasksWith1Assignee),
		TasksWith2Assignees: int(result.TasksWith2Assignees),
	}, nil
}

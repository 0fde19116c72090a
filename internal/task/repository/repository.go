// Package repository provides data access layer for the task module.
package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	taskModel "github.com/festy23/task_manager/internal/task/model"
	userModel "github.com/festy23/task_manager/internal/user/model"
)

// priorityRankExpr orders priorities high before medium before low, with
// unset tasks last. Must agree with model.PriorityRank.
const priorityRankExpr = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 WHEN 'low' THEN 2 ELSE 3 END"

// Repository defines the interface for task data access operations.
type Repository interface {
	// Create persists a task together with its assignee set.
	Create(ctx context.Context, task *taskModel.Task, assigneeIDs []int64) error

	// GetByID finds a task by id.
	GetByID(ctx context.Context, id int64) (*taskModel.Task, error)

	// Update saves task fields and replaces the assignee set.
	Update(ctx context.Context, task *taskModel.Task, assigneeIDs []int64) error

	// SetCompleted updates only the completed flag, leaving the
	// assignee rows alone.
	SetCompleted(ctx context.Context, id int64, completed bool) error

	// Delete removes a task and its assignee rows.
	Delete(ctx context.Context, id int64) error

	// ListAssignees returns the users assigned to a task.
	ListAssignees(ctx context.Context, taskID int64) ([]userModel.User, error)

	// RemoveAssignee detaches a user from a task. A task whose assignee
	// set becomes empty is deleted.
	RemoveAssignee(ctx context.Context, taskID, userID int64) error

	// ListAssignedInTeam returns the tasks in a team assigned to a user.
	ListAssignedInTeam(ctx context.Context, teamID, userID int64) ([]taskModel.Task, error)

	// DeleteByTeam removes all tasks of a team with their assignee rows.
	DeleteByTeam(ctx context.Context, teamID int64) error

	// Search returns tasks matching the filter in the requested order.
	Search(ctx context.Context, filter *taskModel.SearchFilter) ([]taskModel.Task, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new task repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create persists a task together with its assignee set.
func (r *repository) Create(ctx context.Context, task *taskModel.Task, assigneeIDs []int64) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return err
	}
	return r.insertAssignees(ctx, task.ID, assigneeIDs)
}

// GetByID finds a task by id.
func (r *repository) GetByID(ctx context.Context, id int64) (*taskModel.Task, error) {
	var task taskModel.Task
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskModel.ErrTaskNotFound
		}
		return nil, err
	}

	return &task, nil
}

// Update saves task fields and replaces the assignee set.
func (r *repository) Update(ctx context.Context, task *taskModel.Task, assigneeIDs []int64) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Where("task_id = ?", task.ID).
		Delete(&taskModel.TaskAssignee{}).Error
	if err != nil {
		return err
	}

	return r.insertAssignees(ctx, task.ID, assigneeIDs)
}

// SetCompleted updates only the completed flag, leaving the assignee
// rows alone.
func (r *repository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	result := r.db.WithContext(ctx).
		Model(&taskModel.Task{}).
		Where("id = ?", id).
		Update("completed", completed)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return taskModel.ErrTaskNotFound
	}
	return nil
}

// Delete removes a task and its assignee rows.
func (r *repository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).
		Where("task_id = ?", id).
		Delete(&taskModel.TaskAssignee{}).Error
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&taskModel.Task{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return taskModel.ErrTaskNotFound
	}
	return nil
}

// ListAssignees returns the users assigned to a task.
func (r *repository) ListAssignees(ctx context.Context, taskID int64) ([]userModel.User, error) {
	var users []userModel.User
	err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN task_assignees ON task_assignees.user_id = users.id").
		Where("task_assignees.task_id = ?", taskID).
		Order("users.username ASC").
		Find(&users).Error

	if err != nil {
		return nil, err
	}

	if users == nil {
		return []userModel.User{}, nil
	}
	return users, nil
}

// RemoveAssignee detaches a user from a task, deleting the task when the
// assignee set becomes empty.
func (r *repository) RemoveAssignee(ctx context.Context, taskID, userID int64) error {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&taskModel.TaskAssignee{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}

	var remaining int64
	err := r.db.WithContext(ctx).
		Model(&taskModel.TaskAssignee{}).
		Where("task_id = ?", taskID).
		Count(&remaining).Error
	if err != nil {
		return err
	}

	if remaining > 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Where("id = ?", taskID).
		Delete(&taskModel.Task{}).Error
}

// ListAssignedInTeam returns the tasks in a team assigned to a user.
func (r *repository) ListAssignedInTeam(ctx context.Context, teamID, userID int64) ([]taskModel.Task, error) {
	var tasks []taskModel.Task
	err := r.db.WithContext(ctx).
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Where("tasks.team_id = ? AND task_assignees.user_id = ?", teamID, userID).
		Order("tasks.id ASC").
		Find(&tasks).Error

	if err != nil {
		return nil, err
	}

	if tasks == nil {
		return []taskModel.Task{}, nil
	}
	return tasks, nil
}

// DeleteByTeam removes all tasks of a team with their assignee rows.
func (r *repository) DeleteByTeam(ctx context.Context, teamID int64) error {
	err := r.db.WithContext(ctx).
		Where("task_id IN (?)", r.db.Table("tasks").Select("id").Where("team_id = ?", teamID)).
		Delete(&taskModel.TaskAssignee{}).Error
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Delete(&taskModel.Task{}).Error
}

// Search returns tasks matching the filter in the requested order.
func (r *repository) Search(ctx context.Context, filter *taskModel.SearchFilter) ([]taskModel.Task, error) {
	query := r.db.WithContext(ctx).Model(&taskModel.Task{})

	if filter.TeamID != 0 {
		query = query.Where("tasks.team_id = ?", filter.TeamID)
	}

	if filter.AssignedUserID != 0 {
		query = query.Where(
			"tasks.id IN (?)",
			r.db.Table("task_assignees").Select("task_id").Where("user_id = ?", filter.AssignedUserID),
		)
	}

	if filter.AssignedUsername != "" {
		query = query.Where(
			"tasks.id IN (?)",
			r.db.Table("task_assignees").
				Select("task_assignees.task_id").
				Joins("JOIN users ON users.id = task_assignees.user_id").
				Where("users.username = ?", filter.AssignedUsername),
		)
	}

	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(tasks.title) LIKE ? OR LOWER(tasks.description) LIKE ?", pattern, pattern)
	}

	query = query.Order(orderClause(filter.OrderBy))

	var tasks []taskModel.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	if tasks == nil {
		return []taskModel.Task{}, nil
	}
	return tasks, nil
}

// orderClause maps an ordering name to SQL. An empty name means the
// due-date ordering.
func orderClause(orderBy string) string {
	switch orderBy {
	case taskModel.OrderByTitle:
		return "LOWER(tasks.title) ASC, tasks.id ASC"
	case taskModel.OrderByPriority:
		return priorityRankExpr + ", tasks.id ASC"
	case taskModel.OrderByCompletion:
		// Incomplete tasks come first.
		return "tasks.completed ASC, tasks.id ASC"
	default:
		// NULL due dates sort last.
		return "tasks.due_date IS NULL, tasks.due_date ASC, tasks.id ASC"
	}
}

// insertAssignees creates assignee rows for a task.
func (r *repository) insertAssignees(ctx context.Context, taskID int64, assigneeIDs []int64) error {
	for _, userID := range assigneeIDs {
		assignee := &taskModel.TaskAssignee{TaskID: taskID, UserID: userID}
		if err := r.db.WithContext(ctx).Create(assignee).Error; err != nil {
			if isDuplicateError(err) {
				continue
			}
			return err
		}
	}
	return nil
}

// isDuplicateError checks if error is a unique constraint violation.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

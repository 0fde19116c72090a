// Package service provides business logic layer for the task module.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	auditModel "github.com/festy23/task_manager/internal/audit/model"
	auditRepository "github.com/festy23/task_manager/internal/audit/repository"
	taskModel "github.com/festy23/task_manager/internal/task/model"
	"github.com/festy23/task_manager/internal/task/repository"
	teamRepository "github.com/festy23/task_manager/internal/team/repository"
	userModel "github.com/festy23/task_manager/internal/user/model"
	userRepository "github.com/festy23/task_manager/internal/user/repository"
	"github.com/festy23/task_manager/internal/validation"
)

const maxTitleLength = 100

// Service defines the interface for task business logic operations.
type Service interface {
	// Create adds a task to a team. Members only.
	Create(ctx context.Context, actorID, teamID int64, req *taskModel.CreateTaskRequest) (*taskModel.TaskResponse, error)

	// Get returns a task. Any member of the task's team may view it.
	Get(ctx context.Context, actorID, taskID int64) (*taskModel.TaskResponse, error)

	// Edit updates a task. Creator or assignee only.
	Edit(ctx context.Context, actorID, taskID int64, req *taskModel.UpdateTaskRequest) (*taskModel.TaskResponse, error)

	// Delete removes a task. Creator only.
	Delete(ctx context.Context, actorID, taskID int64) error

	// ToggleCompletion flips the completed flag. Creator or assignee only.
	ToggleCompletion(ctx context.Context, actorID, taskID int64, completed bool) (*taskModel.TaskResponse, error)

	// Search lists the actor's assigned tasks, optionally narrowed to a
	// team the actor belongs to.
	Search(ctx context.Context, actorID int64, query, orderBy string, teamID int64) ([]taskModel.TaskResponse, error)

	// TeamTasks lists a team's tasks for its members, optionally filtered
	// by assignee username.
	TeamTasks(ctx context.Context, actorID, teamID int64, query, orderBy, assignedTo string) ([]taskModel.TaskResponse, error)
}

type service struct {
	repo           repository.Repository
	teams          teamRepository.Repository
	users          userRepository.Repository
	audits         auditRepository.Repository
	db             *gorm.DB
	logger         *zap.SugaredLogger
	maxDescription int
	auditMax       int
}

// New creates a new task service instance.
func New(
	repo repository.Repository,
	teams teamRepository.Repository,
	users userRepository.Repository,
	audits auditRepository.Repository,
	db *gorm.DB,
	logger *zap.SugaredLogger,
	maxDescription int,
	auditMax int,
) Service {
	return &service{
		repo:           repo,
		teams:          teams,
		users:          users,
		audits:         audits,
		db:             db,
		logger:         logger,
		maxDescription: maxDescription,
		auditMax:       auditMax,
	}
}

// taskInput is the validated form of a create or update request.
type taskInput struct {
	title             string
	description       string
	dueDate           *time.Time
	priority          string
	assigneeIDs       []int64
	assigneeUsernames []string
}

// Create adds a task to a team.
func (s *service) Create(
	ctx context.Context,
	actorID, teamID int64,
	req *taskModel.CreateTaskRequest,
) (*taskModel.TaskResponse, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}

	member, err := s.teams.IsMember(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, taskModel.ForbiddenDashboard()
	}

	input, err := s.validateInput(ctx, teamID, req.Title, req.Description, req.DueDate, req.Priority, req.Assignees)
	if err != nil {
		return nil, err
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	task := &taskModel.Task{
		Title:       input.title,
		Description: input.description,
		CreatedBy:   actorID,
		TeamID:      teamID,
		DueDate:     input.dueDate,
		Priority:    input.priority,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		if err := txRepo.Create(ctx, task, input.assigneeIDs); err != nil {
			return err
		}

		txAudits := auditRepository.New(tx, s.logger, s.auditMax)
		return txAudits.Append(ctx, &auditModel.AuditLog{
			TeamID:    teamID,
			Username:  actor.Username,
			TaskTitle: task.Title,
			Action:    auditModel.ActionCreated,
		})
	})
	if err != nil {
		s.logger.Errorw("failed to create task", "team_id", teamID, "error", err)
		return nil, err
	}

	s.logger.Infow("task created", "task_id", task.ID, "team_id", teamID)
	return s.buildResponse(ctx, task)
}

// Get returns a task for any member of its team.
func (s *service) Get(ctx context.Context, actorID, taskID int64) (*taskModel.TaskResponse, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	member, err := s.teams.IsMember(ctx, task.TeamID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, taskModel.ForbiddenDashboard()
	}

	return s.buildResponse(ctx, task)
}

// Edit updates a task on behalf of its creator or an assignee.
func (s *service) Edit(
	ctx context.Context,
	actorID, taskID int64,
	req *taskModel.UpdateTaskRequest,
) (*taskModel.TaskResponse, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.requireParticipant(ctx, task, actorID); err != nil {
		return nil, err
	}

	input, err := s.validateInput(ctx, task.TeamID, req.Title, req.Description, req.DueDate, req.Priority, req.Assignees)
	if err != nil {
		return nil, err
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	beforeAssignees, err := s.assigneeUsernames(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	before := snapshotOf(task, beforeAssignees)

	task.Title = input.title
	task.Description = input.description
	task.DueDate = input.dueDate
	task.Priority = input.priority
	after := snapshotOf(task, input.assigneeUsernames)

	changes := diffSnapshots(before, after)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		if err := txRepo.Update(ctx, task, input.assigneeIDs); err != nil {
			return err
		}

		txAudits := auditRepository.New(tx, s.logger, s.auditMax)
		return txAudits.Append(ctx, &auditModel.AuditLog{
			TeamID:    task.TeamID,
			Username:  actor.Username,
			TaskTitle: task.Title,
			Action:    auditModel.ActionEdited,
			Changes:   changes,
		})
	})
	if err != nil {
		s.logger.Errorw("failed to edit task", "task_id", taskID, "error", err)
		return nil, err
	}

	return s.buildResponse(ctx, task)
}

// Delete removes a task on behalf of its creator.
func (s *service) Delete(ctx context.Context, actorID, taskID int64) error {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	member, err := s.teams.IsMember(ctx, task.TeamID, actorID)
	if err != nil {
		return err
	}
	if !member {
		return taskModel.ForbiddenDashboard()
	}
	if task.CreatedBy != actorID {
		return taskModel.ForbiddenTeamPage(task.TeamID)
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txAudits := auditRepository.New(tx, s.logger, s.auditMax)
		err := txAudits.Append(ctx, &auditModel.AuditLog{
			TeamID:    task.TeamID,
			Username:  actor.Username,
			TaskTitle: task.Title,
			Action:    auditModel.ActionDeleted,
		})
		if err != nil {
			return err
		}

		txRepo := repository.New(tx, s.logger)
		return txRepo.Delete(ctx, task.ID)
	})
	if err != nil {
		s.logger.Errorw("failed to delete task", "task_id", taskID, "error", err)
		return err
	}

	s.logger.Infow("task deleted", "task_id", taskID, "team_id", task.TeamID)
	return nil
}

// ToggleCompletion flips the completed flag.
func (s *service) ToggleCompletion(
	ctx context.Context,
	actorID, taskID int64,
	completed bool,
) (*taskModel.TaskResponse, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.requireParticipant(ctx, task, actorID); err != nil {
		return nil, err
	}

	task.Completed = completed
	if err := s.repo.SetCompleted(ctx, task.ID, completed); err != nil {
		s.logger.Errorw("failed to toggle completion", "task_id", taskID, "error", err)
		return nil, err
	}

	return s.buildResponse(ctx, task)
}

// Search lists the actor's assigned tasks across teams.
func (s *service) Search(
	ctx context.Context,
	actorID int64,
	query, orderBy string,
	teamID int64,
) ([]taskModel.TaskResponse, error) {
	if err := validateOrderBy(orderBy); err != nil {
		return nil, err
	}

	if teamID != 0 {
		member, err := s.teams.IsMember(ctx, teamID, actorID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, taskModel.ForbiddenDashboard()
		}
	}

	tasks, err := s.repo.Search(ctx, &taskModel.SearchFilter{
		Query:          query,
		TeamID:         teamID,
		AssignedUserID: actorID,
		OrderBy:        orderBy,
	})
	if err != nil {
		return nil, err
	}

	return s.buildResponses(ctx, tasks)
}

// TeamTasks lists a team's tasks for its members.
func (s *service) TeamTasks(
	ctx context.Context,
	actorID, teamID int64,
	query, orderBy, assignedTo string,
) ([]taskModel.TaskResponse, error) {
	if err := validateOrderBy(orderBy); err != nil {
		return nil, err
	}

	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}

	member, err := s.teams.IsMember(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, taskModel.ForbiddenDashboard()
	}

	tasks, err := s.repo.Search(ctx, &taskModel.SearchFilter{
		Query:            query,
		TeamID:           teamID,
		AssignedUsername: assignedTo,
		OrderBy:          orderBy,
	})
	if err != nil {
		return nil, err
	}

	return s.buildResponses(ctx, tasks)
}

// requireParticipant checks that the actor created the task or is assigned
// to it. Non-members fall back to the dashboard, other members to the
// team page.
func (s *service) requireParticipant(ctx context.Context, task *taskModel.Task, actorID int64) error {
	member, err := s.teams.IsMember(ctx, task.TeamID, actorID)
	if err != nil {
		return err
	}
	if !member {
		return taskModel.ForbiddenDashboard()
	}

	if task.CreatedBy == actorID {
		return nil
	}

	assigneeIDs, err := s.assigneeIDs(ctx, task.ID)
	if err != nil {
		return err
	}
	for _, id := range assigneeIDs {
		if id == actorID {
			return nil
		}
	}

	return taskModel.ForbiddenTeamPage(task.TeamID)
}

// validateInput checks field bounds, parses the due date and resolves
// assignee usernames to team members.
func (s *service) validateInput(
	ctx context.Context,
	teamID int64,
	title, description, dueDate, priority string,
	assignees []string,
) (*taskInput, error) {
	verr := validation.NewError()
	input := &taskInput{}

	input.title = strings.TrimSpace(title)
	if input.title == "" {
		verr.Add("title", "Title is required")
	} else if len(input.title) > maxTitleLength {
		verr.Add("title", fmt.Sprintf("Title must be at most %d characters", maxTitleLength))
	}

	input.description = strings.TrimSpace(description)
	if input.description == "" {
		verr.Add("description", "Description is required")
	} else if len(input.description) > s.maxDescription {
		verr.Add("description", fmt.Sprintf("Description must be at most %d characters", s.maxDescription))
	}

	input.priority = strings.TrimSpace(priority)
	if !taskModel.ValidPriority(input.priority) {
		verr.Add("priority", "Priority must be one of: low, medium, high")
	}

	if dueDate != "" {
		parsed, err := time.Parse(taskModel.DueDateLayout, dueDate)
		if err != nil {
			verr.Add("due_date", "Due date must be in YYYY-MM-DD format")
		} else {
			today := time.Now().Truncate(24 * time.Hour)
			if parsed.Before(today) {
				verr.Add("due_date", "Due date cannot be in the past")
			} else {
				input.dueDate = &parsed
			}
		}
	}

	usernames := dedupe(assignees)
	if len(usernames) == 0 {
		verr.Add("assignees", "At least one assignee is required")
		return nil, verr
	}

	users, err := s.users.GetByUsernames(ctx, usernames)
	if err != nil {
		return nil, err
	}
	byUsername := make(map[string]*userModel.User, len(users))
	for i := range users {
		byUsername[users[i].Username] = &users[i]
	}

	for _, username := range usernames {
		user, ok := byUsername[username]
		if !ok {
			verr.Add("assignees", fmt.Sprintf("User '%s' doesn't exist", username))
			continue
		}

		member, err := s.teams.IsMember(ctx, teamID, user.ID)
		if err != nil {
			return nil, err
		}
		if !member {
			verr.Add("assignees", fmt.Sprintf("User '%s' is not a member of this team", username))
			continue
		}

		input.assigneeIDs = append(input.assigneeIDs, user.ID)
		input.assigneeUsernames = append(input.assigneeUsernames, username)
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return input, nil
}

// assigneeIDs returns the ids of a task's assignees.
func (s *service) assigneeIDs(ctx context.Context, taskID int64) ([]int64, error) {
	users, err := s.repo.ListAssignees(ctx, taskID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// assigneeUsernames returns the usernames of a task's assignees.
func (s *service) assigneeUsernames(ctx context.Context, taskID int64) ([]string, error) {
	users, err := s.repo.ListAssignees(ctx, taskID)
	if err != nil {
		return nil, err
	}
	usernames := make([]string, 0, len(users))
	for _, u := range users {
		usernames = append(usernames, u.Username)
	}
	return usernames, nil
}

// buildResponse assembles a task payload with usernames resolved.
func (s *service) buildResponse(ctx context.Context, task *taskModel.Task) (*taskModel.TaskResponse, error) {
	creator, err := s.users.GetByID(ctx, task.CreatedBy)
	if err != nil {
		return nil, err
	}

	assignees, err := s.assigneeUsernames(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	return &taskModel.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		TeamID:      task.TeamID,
		CreatedBy:   creator.Username,
		DueDate:     taskModel.FormatDueDate(task.DueDate),
		Priority:    task.Priority,
		Completed:   task.Completed,
		Assignees:   assignees,
	}, nil
}

func (s *service) buildResponses(ctx context.Context, tasks []taskModel.Task) ([]taskModel.TaskResponse, error) {
	responses := make([]taskModel.TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp, err := s.buildResponse(ctx, &tasks[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// validateOrderBy rejects unknown orderings.
func validateOrderBy(orderBy string) error {
	if orderBy == "" || taskModel.ValidOrderBy(orderBy) {
		return nil
	}
	verr := validation.NewError()
	verr.Add("order_by", "Ordering must be one of: due_date, title, priority, completion")
	return verr
}

// dedupe collapses a username list into an ordered set.
func dedupe(usernames []string) []string {
	seen := make(map[string]struct{}, len(usernames))
	var out []string
	for _, raw := range usernames {
		username := strings.TrimSpace(raw)
		if username == "" {
			continue
		}
		if _, ok := seen[username]; ok {
			continue
		}
		seen[username] = struct{}{}
		out = append(out, username)
	}
	return out
}

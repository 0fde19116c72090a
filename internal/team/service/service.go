// Package service provides business logic layer for the team module.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	auditModel "github.com/festy23/task_manager/internal/audit/model"
	auditRepository "github.com/festy23/task_manager/internal/audit/repository"
	taskRepository "github.com/festy23/task_manager/internal/task/repository"
	teamModel "github.com/festy23/task_manager/internal/team/model"
	"github.com/festy23/task_manager/internal/team/repository"
	userModel "github.com/festy23/task_manager/internal/user/model"
	userRepository "github.com/festy23/task_manager/internal/user/repository"
	"github.com/festy23/task_manager/internal/validation"
)

const (
	maxNameLength        = 30
	maxDescriptionLength = 200
)

// Service defines the interface for team business logic operations.
type Service interface {
	// CreateTeam creates a team with the actor as leader.
	CreateTeam(ctx context.Context, actorID int64, req *teamModel.CreateTeamRequest) (*teamModel.TeamResponse, error)

	// GetTeam returns a team with its members. Members only.
	GetTeam(ctx context.Context, actorID, teamID int64) (*teamModel.TeamResponse, error)

	// Dashboard returns the actor's teams and pending invites.
	Dashboard(ctx context.Context, actorID int64) (*teamModel.DashboardResponse, error)

	// Invite sends invites to a comma-separated list of usernames.
	// Leader only; all-or-nothing.
	Invite(ctx context.Context, actorID, teamID int64, req *teamModel.InviteRequest) error

	// Accept consumes the actor's invite and joins the team.
	Accept(ctx context.Context, actorID, teamID int64) error

	// Decline discards the actor's invite if one exists.
	Decline(ctx context.Context, actorID, teamID int64) error

	// Leave removes the actor from the team. Leaders cannot leave.
	Leave(ctx context.Context, actorID, teamID int64) error

	// RemoveMember removes a member by username. Leader only; the leader
	// cannot be removed.
	RemoveMember(ctx context.Context, actorID, teamID int64, username string) error

	// DeleteTeam deletes the team and everything it owns. Leader only.
	DeleteTeam(ctx context.Context, actorID, teamID int64) error

	// AuditLog returns the team's activity history. Leader only.
	AuditLog(ctx context.Context, actorID, teamID int64) ([]auditModel.AuditLog, error)
}

type service struct {
	repo     repository.Repository
	users    userRepository.Repository
	tasks    taskRepository.Repository
	audits   auditRepository.Repository
	db       *gorm.DB
	logger   *zap.SugaredLogger
	auditMax int
}

// New creates a new team service instance. auditMax is forwarded to
// transaction-scoped audit repositories.
func New(
	repo repository.Repository,
	users userRepository.Repository,
	tasks taskRepository.Repository,
	audits auditRepository.Repository,
	db *gorm.DB,
	logger *zap.SugaredLogger,
	auditMax int,
) Service {
	return &service{
		repo:     repo,
		users:    users,
		tasks:    tasks,
		audits:   audits,
		db:       db,
		logger:   logger,
		auditMax: auditMax,
	}
}

// CreateTeam creates a team with the actor as leader.
func (s *service) CreateTeam(
	ctx context.Context,
	actorID int64,
	req *teamModel.CreateTeamRequest,
) (*teamModel.TeamResponse, error) {
	if err := validateTeamFields(req.Name, req.Description); err != nil {
		return nil, err
	}

	team := &teamModel.Team{
		LeaderID:    actorID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, team); err != nil {
		s.logger.Errorw("failed to create team", "leader_id", actorID, "error", err)
		return nil, err
	}

	s.logger.Infow("team created", "team_id", team.ID, "leader_id", actorID)
	return s.buildTeamResponse(ctx, team)
}

// GetTeam returns a team with its members.
func (s *service) GetTeam(ctx context.Context, actorID, teamID int64) (*teamModel.TeamResponse, error) {
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	member, err := s.repo.IsMember(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, teamModel.ErrNotMember
	}

	return s.buildTeamResponse(ctx, team)
}

// Dashboard returns the actor's teams and pending invites.
func (s *service) Dashboard(ctx context.Context, actorID int64) (*teamModel.DashboardResponse, error) {
	teams, err := s.repo.ListTeamsForUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	invites, err := s.repo.ListInvitesForUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return &teamModel.DashboardResponse{Teams: teams, Invites: invites}, nil
}

// Invite sends invites to a comma-separated list of usernames.
func (s *service) Invite(ctx context.Context, actorID, teamID int64, req *teamModel.InviteRequest) error {
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return err
	}

	leader, err := s.repo.IsLeader(ctx, teamID, actorID)
	if err != nil {
		return err
	}
	if !leader {
		return teamModel.ErrNotLeader
	}

	usernames := splitUsernames(req.Usernames)
	if len(usernames) == 0 {
		verr := validation.NewError()
		verr.Add("usernames", "At least one username is required")
		return verr
	}

	users, err := s.users.GetByUsernames(ctx, usernames)
	if err != nil {
		return err
	}
	byUsername := make(map[string]*userModel.User, len(users))
	for i := range users {
		byUsername[users[i].Username] = &users[i]
	}

	// Every username is checked before anything is written, so a batch
	// with one bad name sends no invites at all.
	verr := validation.NewError()
	inviteeIDs := make([]int64, 0, len(usernames))
	for _, username := range usernames {
		user, ok := byUsername[username]
		if !ok {
			verr.Add("usernames", fmt.Sprintf("User '%s' doesn't exist", username))
			continue
		}

		member, err := s.repo.IsMember(ctx, teamID, user.ID)
		if err != nil {
			return err
		}
		if member {
			verr.Add("usernames", fmt.Sprintf("User '%s' is already in this team", username))
			continue
		}

		invited, err := s.repo.HasInvite(ctx, teamID, user.ID)
		if err != nil {
			return err
		}
		if invited {
			verr.Add("usernames", fmt.Sprintf("User '%s' has already been sent an invite to this team", username))
			continue
		}

		inviteeIDs = append(inviteeIDs, user.ID)
	}
	if verr.HasErrors() {
		return verr
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		for _, userID := range inviteeIDs {
			if err := txRepo.CreateInvite(ctx, teamID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Errorw("failed to send invites", "team_id", teamID, "error", err)
		return err
	}

	s.logger.Infow("invites sent", "team_id", teamID, "count", len(inviteeIDs))
	return nil
}

// Accept consumes the actor's invite and joins the team.
func (s *service) Accept(ctx context.Context, actorID, teamID int64) error {
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)
		if err := txRepo.DeleteInvite(ctx, teamID, actorID); err != nil {
			return err
		}
		return txRepo.AddMember(ctx, teamID, actorID)
	})
}

// Decline discards the actor's invite if one exists.
func (s *service) Decline(ctx context.Context, actorID, teamID int64) error {
	err := s.repo.DeleteInvite(ctx, teamID, actorID)
	if errors.Is(err, teamModel.ErrInviteNotFound) {
		return nil
	}
	return err
}

// Leave removes the actor from the team, dropping their task assignments.
func (s *service) Leave(ctx context.Context, actorID, teamID int64) error {
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return err
	}

	leader, err := s.repo.IsLeader(ctx, teamID, actorID)
	if err != nil {
		return err
	}
	if leader {
		return teamModel.ErrLeaderCannotLeave
	}

	member, err := s.repo.IsMember(ctx, teamID, actorID)
	if err != nil {
		return err
	}
	if !member {
		return teamModel.ErrNotMember
	}

	return s.removeMemberCascade(ctx, teamID, actorID)
}

// RemoveMember removes a member by username.
func (s *service) RemoveMember(ctx context.Context, actorID, teamID int64, username string) error {
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return err
	}

	leader, err := s.repo.IsLeader(ctx, teamID, actorID)
	if err != nil {
		return err
	}
	if !leader {
		return teamModel.ErrNotLeader
	}

	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userModel.ErrUserNotFound) {
			return teamModel.ErrMemberNotFound
		}
		return err
	}

	targetIsLeader, err := s.repo.IsLeader(ctx, teamID, target.ID)
	if err != nil {
		return err
	}
	if targetIsLeader {
		return teamModel.ErrLeaderCannotBeRemoved
	}

	return s.removeMemberCascade(ctx, teamID, target.ID)
}

// removeMemberCascade drops the membership row and the member's task
// assignments in the team. Tasks left without assignees disappear with them.
func (s *service) removeMemberCascade(ctx context.Context, teamID, userID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txTeams := repository.New(tx, s.logger)
		txTasks := taskRepository.New(tx, s.logger)

		assigned, err := txTasks.ListAssignedInTeam(ctx, teamID, userID)
		if err != nil {
			return err
		}
		for _, task := range assigned {
			if err := txTasks.RemoveAssignee(ctx, task.ID, userID); err != nil {
				return err
			}
		}

		return txTeams.RemoveMember(ctx, teamID, userID)
	})
}

// DeleteTeam deletes the team and everything it owns.
func (s *service) DeleteTeam(ctx context.Context, actorID, teamID int64) error {
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return err
	}

	leader, err := s.repo.IsLeader(ctx, teamID, actorID)
	if err != nil {
		return err
	}
	if !leader {
		return teamModel.ErrNotLeader
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txTeams := repository.New(tx, s.logger)
		txTasks := taskRepository.New(tx, s.logger)
		txAudits := auditRepository.New(tx, s.logger, s.auditMax)

		if err := txTasks.DeleteByTeam(ctx, teamID); err != nil {
			return err
		}
		if err := txAudits.DeleteByTeam(ctx, teamID); err != nil {
			return err
		}
		if err := txTeams.DeleteInvitesByTeam(ctx, teamID); err != nil {
			return err
		}
		if err := txTeams.DeleteMembersByTeam(ctx, teamID); err != nil {
			return err
		}
		return txTeams.Delete(ctx, teamID)
	})
	if err != nil {
		s.logger.Errorw("failed to delete team", "team_id", teamID, "error", err)
		return err
	}

	s.logger.Infow("team deleted", "team_id", teamID, "actor_id", actorID)
	return nil
}

// AuditLog returns the team's activity history.
func (s *service) AuditLog(ctx context.Context, actorID, teamID int64) ([]auditModel.AuditLog, error) {
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return nil, err
	}

	leader, err := s.repo.IsLeader(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}
	if !leader {
		return nil, teamModel.ErrNotLeader
	}

	return s.audits.ListForTeam(ctx, teamID)
}

// buildTeamResponse assembles the team detail payload.
func (s *service) buildTeamResponse(ctx context.Context, team *teamModel.Team) (*teamModel.TeamResponse, error) {
	leader, err := s.users.GetByID(ctx, team.LeaderID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	resp := &teamModel.TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		Leader:      leader.Username,
		Members:     make([]teamModel.MemberResponse, 0, len(members)),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, teamModel.MemberResponse{
			UserID:    m.ID,
			Username:  m.Username,
			FirstName: m.FirstName,
			LastName:  m.LastName,
		})
	}
	return resp, nil
}

// validateTeamFields checks team name and description bounds.
func validateTeamFields(name, description string) error {
	verr := validation.NewError()

	name = strings.TrimSpace(name)
	if name == "" {
		verr.Add("name", "Name is required")
	} else if len(name) > maxNameLength {
		verr.Add("name", fmt.Sprintf("Name must be at most %d characters", maxNameLength))
	}

	if len(strings.TrimSpace(description)) > maxDescriptionLength {
		verr.Add("description", fmt.Sprintf("Description must be at most %d characters", maxDescriptionLength))
	}

	return verr.ErrOrNil()
}

// splitUsernames turns a comma-separated list into an ordered set.
func splitUsernames(raw string) []string {
	seen := make(map[string]struct{})
	var usernames []string
	for _, part := range strings.Split(raw, ",") {
		username := strings.TrimSpace(part)
		if username == "" {
			continue
		}
		if _, ok := seen[username]; ok {
			continue
		}
		seen[username] = struct{}{}
		usernames = append(usernames, username)
	}
	return usernames
}

// Package repository provides data access layer for the team module.
//
// It doubles as the membership oracle: IsMember and IsLeader are pure reads
// that answer false for teams that do not exist.
package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	teamModel "github.com/festy23/task_manager/internal/team/model"
	userModel "github.com/festy23/task_manager/internal/user/model"
)

// Repository defines the interface for team data access operations.
type Repository interface {
	// Create persists a new team.
	Create(ctx context.Context, team *teamModel.Team) error

	// GetByID finds a team by id.
	GetByID(ctx context.Context, id int64) (*teamModel.Team, error)

	// Delete removes the team row only. Owned rows are removed by the caller first.
	Delete(ctx context.Context, id int64) error

	// IsMember reports whether the user is a member of the team.
	// The leader always counts as a member.
	IsMember(ctx context.Context, teamID, userID int64) (bool, error)

	// IsLeader reports whether the user leads the team.
	IsLeader(ctx context.Context, teamID, userID int64) (bool, error)

	// AddMember adds a user to the team.
	AddMember(ctx context.Context, teamID, userID int64) error

	// RemoveMember removes a user from the team.
	RemoveMember(ctx context.Context, teamID, userID int64) error

	// ListMembers returns the users in a team.
	ListMembers(ctx context.Context, teamID int64) ([]userModel.User, error)

	// DeleteMembersByTeam removes all membership rows of a team.
	DeleteMembersByTeam(ctx context.Context, teamID int64) error

	// ListTeamsForUser returns the teams a user belongs to.
	ListTeamsForUser(ctx context.Context, userID int64) ([]teamModel.TeamSummary, error)

	// CreateInvite records a pending invite.
	CreateInvite(ctx context.Context, teamID, userID int64) error

	// HasInvite reports whether an unconsumed invite exists for (team, user).
	HasInvite(ctx context.Context, teamID, userID int64) (bool, error)

	// DeleteInvite removes the invite for (team, user).
	DeleteInvite(ctx context.Context, teamID, userID int64) error

	// DeleteInvitesByTeam removes all invites of a team.
	DeleteInvitesByTeam(ctx context.Context, teamID int64) error

	// ListInvitesForUser returns pending invites for a user with team names.
	ListInvitesForUser(ctx context.Context, userID int64) ([]teamModel.InviteSummary, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new team repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create persists a new team.
func (r *repository) Create(ctx context.Context, team *teamModel.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

// GetByID finds a team by id.
func (r *repository) GetByID(ctx context.Context, id int64) (*teamModel.Team, error) {
	var team teamModel.Team
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&team).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamModel.ErrTeamNotFound
		}
		return nil, err
	}

	return &team, nil
}

// Delete removes the team row only.
func (r *repository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&teamModel.Team{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrTeamNotFound
	}
	return nil
}

// IsMember reports whether the user is a member of the team.
func (r *repository) IsMember(ctx context.Context, teamID, userID int64) (bool, error) {
	leader, err := r.IsLeader(ctx, teamID, userID)
	if err != nil {
		return false, err
	}
	if leader {
		return true, nil
	}

	var count int64
	err = r.db.WithContext(ctx).
		Model(&teamModel.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsLeader reports whether the user leads the team.
func (r *repository) IsLeader(ctx context.Context, teamID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&teamModel.Team{}).
		Where("id = ? AND leader_id = ?", teamID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMember adds a user to the team.
func (r *repository) AddMember(ctx context.Context, teamID, userID int64) error {
	member := &teamModel.TeamMember{TeamID: teamID, UserID: userID}
	err := r.db.WithContext(ctx).Create(member).Error
	if err != nil {
		if isDuplicateError(err) {
			return teamModel.ErrAlreadyMember
		}
		return err
	}
	return nil
}

// RemoveMember removes a user from the team.
func (r *repository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&teamModel.TeamMember{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrMemberNotFound
	}
	return nil
}

// ListMembers returns the users in a team.
func (r *repository) ListMembers(ctx context.Context, teamID int64) ([]userModel.User, error) {
	var users []userModel.User
	err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN team_members ON team_members.user_id = users.id").
		Where("team_members.team_id = ?", teamID).
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

// DeleteMembersByTeam removes all membership rows of a team.
func (r *repository) DeleteMembersByTeam(ctx context.Context, teamID int64) error {
	return r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Delete(&teamModel.TeamMember{}).Error
}

// ListTeamsForUser returns the teams a user belongs to.
func (r *repository) ListTeamsForUser(ctx context.Context, userID int64) ([]teamModel.TeamSummary, error) {
	// Leaders are not stored in team_members, so led teams are picked up
	// through the leader_id branch.
	var teams []teamModel.TeamSummary
	err := r.db.WithContext(ctx).
		Table("teams").
		Select("teams.id, teams.name, users.username AS leader").
		Joins("JOIN users ON users.id = teams.leader_id").
		Where("teams.leader_id = ? OR teams.id IN (?)",
			userID,
			r.db.Table("team_members").Select("team_id").Where("user_id = ?", userID),
		).
		Order("teams.id ASC").
		Scan(&teams).Error

	if err != nil {
		return nil, err
	}

	if teams == nil {
		return []teamModel.TeamSummary{}, nil
	}
	return teams, nil
}

// CreateInvite records a pending invite.
func (r *repository) CreateInvite(ctx context.Context, teamID, userID int64) error {
	invite := &teamModel.Invite{
		TeamID: teamID,
		UserID: userID,
		Status: teamModel.InviteStatusSent,
	}
	err := r.db.WithContext(ctx).Create(invite).Error
	if err != nil {
		if isDuplicateError(err) {
			return teamModel.ErrInviteExists
		}
		return err
	}
	return nil
}

// HasInvite reports whether an unconsumed invite exists for (team, user).
func (r *repository) HasInvite(ctx context.Context, teamID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&teamModel.Invite{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteInvite removes the invite for (team, user).
func (r *repository) DeleteInvite(ctx context.Context, teamID, userID int64) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&teamModel.Invite{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrInviteNotFound
	}
	return nil
}

// DeleteInvitesByTeam removes all invites of a team.
func (r *repository) DeleteInvitesByTeam(ctx context.Context, teamID int64) error {
	return r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Delete(&teamModel.Invite{}).Error
}

// ListInvitesForUser returns pending invites for a user with team names.
func (r *repository) ListInvitesForUser(ctx context.Context, userID int64) ([]teamModel.InviteSummary, error) {
	var invites []teamModel.InviteSummary
	err := r.db.WithContext(ctx).
		Table("invites").
		Select("invites.team_id, teams.name AS team_name").
		Joins("JOIN teams ON teams.id = invites.team_id").
		Where("invites.user_id = ?", userID).
		Order("invites.id ASC").
		Scan(&invites).Error

	if err != nil {
		return nil, err
	}

	if invites == nil {
		return []teamModel.InviteSummary{}, nil
	}
	return invites, nil
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

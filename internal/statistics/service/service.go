// Package service provides business logic layer for the statistics module.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/festy23/task_manager/internal/statistics/model"
	"github.com/festy23/task_manager/internal/statistics/repository"
	teamModel "github.com/festy23/task_manager/internal/team/model"
	teamRepository "github.com/festy23/task_manager/internal/team/repository"
)

// Service defines the interface for statistics business logic operations.
type Service interface {
	// MemberWorkload returns per-member assigned task counts for a team.
	// The caller must be a member of the team.
	MemberWorkload(ctx context.Context, actorID, teamID int64) (*model.MemberWorkloadResponse, error)

	// TeamTaskStatistics returns aggregate task figures for a team.
	// The caller must be a member of the team.
	TeamTaskStatistics(ctx context.Context, actorID, teamID int64) (*model.TeamTaskStatisticsResponse, error)
}

type service struct {
	repo   repository.Repository
	teams  teamRepository.Repository
	logger *zap.SugaredLogger
}

// New creates a new statistics service instance.
func New(repo repository.Repository, teams teamRepository.Repository, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		teams:  teams,
		logger: logger,
	}
}

// MemberWorkload returns per-member assigned task counts for a team.
func (s *service) MemberWorkload(ctx context.Context, actorID, teamID int64) (*model.MemberWorkloadResponse, error) {
	if err := s.requireMember(ctx, actorID, teamID); err != nil {
		return nil, err
	}

	members, err := s.repo.GetMemberWorkload(ctx, teamID)
	if err != nil {
		return nil, err
	}

	return &model.MemberWorkloadResponse{
		Members: members,
		Total:   len(members),
	}, nil
}

// TeamTaskStatistics returns aggregate task figures for a team.
func (s *service) TeamTaskStatistics(ctx context.Context, actorID, teamID int64) (*model.TeamTaskStatisticsResponse, error) {
	if err := s.requireMember(ctx, actorID, teamID); err != nil {
		return nil, err
	}

	stats, err := s.repo.GetTeamTaskStatistics(ctx, teamID)
	if err != nil {
		return nil, err
	}

	return &model.TeamTaskStatisticsResponse{
		Statistics: *stats,
	}, nil
}

func (s *service) requireMember(ctx context.Context, actorID, teamID int64) error {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return err
	}

	isMember, err := s.teams.IsMember(ctx, teamID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return teamModel.ErrNotMember
	}

	return nil
}

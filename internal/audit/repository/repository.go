// Package repository provides data access layer for the audit module.
package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	auditModel "github.com/festy23/task_manager/internal/audit/model"
)

// Repository defines the interface for audit log data access operations.
type Repository interface {
	// Append records an entry and evicts the oldest ones so the team
	// keeps at most the configured number of entries. Edits with an
	// empty change list are dropped; change lists longer than the
	// column width are truncated.
	Append(ctx context.Context, entry *auditModel.AuditLog) error

	// ListForTeam returns a team's entries in chronological order.
	ListForTeam(ctx context.Context, teamID int64) ([]auditModel.AuditLog, error)

	// DeleteByTeam removes all entries of a team.
	DeleteByTeam(ctx context.Context, teamID int64) error
}

type repository struct {
	db         *gorm.DB
	logger     *zap.SugaredLogger
	maxPerTeam int
}

// New creates a new audit repository instance. maxPerTeam caps how many
// entries a single team retains.
func New(db *gorm.DB, logger *zap.SugaredLogger, maxPerTeam int) Repository {
	return &repository{db: db, logger: logger, maxPerTeam: maxPerTeam}
}

// Append records an entry and trims the team's history to the cap.
func (r *repository) Append(ctx context.Context, entry *auditModel.AuditLog) error {
	if entry.Action == auditModel.ActionEdited && entry.Changes == "" {
		return nil
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	// A long description change can render past the column width.
	if runes := []rune(entry.Changes); len(runes) > auditModel.MaxChangesLength {
		entry.Changes = string(runes[:auditModel.MaxChangesLength])
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}

	return r.evict(ctx, entry.TeamID)
}

// evict deletes the oldest entries above the per-team cap.
func (r *repository) evict(ctx context.Context, teamID int64) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&auditModel.AuditLog{}).
		Where("team_id = ?", teamID).
		Count(&count).Error
	if err != nil {
		return err
	}

	excess := count - int64(r.maxPerTeam)
	if excess <= 0 {
		return nil
	}

	var staleIDs []int64
	err = r.db.WithContext(ctx).
		Model(&auditModel.AuditLog{}).
		Select("id").
		Where("team_id = ?", teamID).
		Order("timestamp ASC, id ASC").
		Limit(int(excess)).
		Find(&staleIDs).Error
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where("id IN ?", staleIDs).
		Delete(&auditModel.AuditLog{}).Error
}

// ListForTeam returns a team's entries in chronological order.
func (r *repository) ListForTeam(ctx context.Context, teamID int64) ([]auditModel.AuditLog, error) {
	var entries []auditModel.AuditLog
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error

	if err != nil {
		return nil, err
	}

	if entries == nil {
		return []auditModel.AuditLog{}, nil
	}
	return entries, nil
}

// DeleteByTeam removes all entries of a team.
func (r *repository) DeleteByTeam(ctx context.Context, teamID int64) error {
	return r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Delete(&auditModel.AuditLog{}).Error
}

// Package repository provides data access layer for the user module.
package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	userModel "github.com/festy23/task_manager/internal/user/model"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *userModel.User) error

	// GetByID finds a user by id.
	GetByID(ctx context.Context, id int64) (*userModel.User, error)

	// GetByUsername finds a user by unique handle.
	GetByUsername(ctx context.Context, username string) (*userModel.User, error)

	// GetByUsernames finds all users whose handles are in the given set.
	GetByUsernames(ctx context.Context, usernames []string) ([]userModel.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new user repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create persists a new user.
func (r *repository) Create(ctx context.Context, user *userModel.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if isDuplicateError(err) {
			return userModel.ErrUserExists
		}
		return err
	}
	return nil
}

// GetByID finds a user by id.
func (r *repository) GetByID(ctx context.Context, id int64) (*userModel.User, error) {
	var user userModel.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userModel.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetByUsername finds a user by unique handle.
func (r *repository) GetByUsername(ctx context.Context, username string) (*userModel.User, error) {
	var user userModel.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userModel.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetByUsernames finds all users whose handles are in the given set.
func (r *repository) GetByUsernames(ctx context.Context, usernames []string) ([]userModel.User, error) {
	var users []userModel.User
	err := r.db.WithContext(ctx).
		Where("username IN ?", usernames).
		Order("username ASC").
		Find(&users).Error

	if err != nil {
		return nil, err
	}

	if users == nil {
		return []userModel.User{}, nil
	}
	return users, nil
}

// UpdatePassword replaces the stored password hash.
func (r *repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&userModel.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return userModel.ErrUserNotFound
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

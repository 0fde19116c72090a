// Package service provides business logic layer for the user module.
package service

import (
	"context"
	"errors"
	"regexp"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/festy23/task_manager/internal/auth"
	userModel "github.com/festy23/task_manager/internal/user/model"
	"github.com/festy23/task_manager/internal/user/repository"
	"github.com/festy23/task_manager/internal/validation"
)

// usernamePattern is "@" followed by at least three word characters.
var usernamePattern = regexp.MustCompile(`^@\w{3,}$`)

// Service defines the interface for user business logic operations.
type Service interface {
	// Register creates a new account.
	Register(ctx context.Context, req *userModel.SignUpRequest) (*userModel.UserResponse, error)

	// Login checks credentials and issues a token.
	Login(ctx context.Context, req *userModel.LogInRequest) (*userModel.AuthResponse, error)

	// ChangePassword replaces the current user's password after checking the old one.
	ChangePassword(ctx context.Context, userID int64, req *userModel.ChangePasswordRequest) error
}

type service struct {
	repo   repository.Repository
	tokens *auth.Service
	logger *zap.SugaredLogger
}

// New creates a new user service instance.
func New(repo repository.Repository, tokens *auth.Service, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a new account.
func (s *service) Register(ctx context.Context, req *userModel.SignUpRequest) (*userModel.UserResponse, error) {
	if err := validateSignUp(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &userModel.User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userModel.ErrUserExists) {
			vErr := validation.NewError()
			vErr.Add("username", "username or email is already taken")
			return nil, vErr
		}
		return nil, err
	}

	resp := userModel.NewUserResponse(user)
	return &resp, nil
}

// Login checks credentials and issues a token.
func (s *service) Login(ctx context.Context, req *userModel.LogInRequest) (*userModel.AuthResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, userModel.ErrUserNotFound) {
			return nil, userModel.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, userModel.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &userModel.AuthResponse{
		Token: token,
		User:  userModel.NewUserResponse(user),
	}, nil
}

// ChangePassword replaces the current user's password after checking the old one.
func (s *service) ChangePassword(ctx context.Context, userID int64, req *userModel.ChangePasswordRequest) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return userModel.ErrInvalidCredentials
	}

	vErr := validation.NewError()
	validatePassword(vErr, "new_password", req.NewPassword)
	if vErr.HasErrors() {
		return vErr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

// validateSignUp checks field constraints for registration.
func validateSignUp(req *userModel.SignUpRequest) error {
	vErr := validation.NewError()

	if !usernamePattern.MatchString(req.Username) {
		vErr.Add("username", "username must consist of @ followed by at least three alphanumericals")
	}
	if len(req.Username) > 30 {
		vErr.Add("username", "username must be at most 30 characters")
	}
	if len(req.FirstName) == 0 || len(req.FirstName) > 50 {
		vErr.Add("first_name", "first name must be between 1 and 50 characters")
	}
	if len(req.LastName) == 0 || len(req.LastName) > 50 {
		vErr.Add("last_name", "last name must be between 1 and 50 characters")
	}
	validatePassword(vErr, "password", req.Password)

	return vErr.ErrOrNil()
}

// validatePassword enforces the password policy.
func validatePassword(vErr *validation.Error, field, password string) {
	if len(password) < 8 {
		vErr.Add(field, "password must be at least 8 characters")
		return
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		vErr.Add(field, "password must contain an uppercase character, a lowercase character and a number")
	}
}

package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"placehub/internal/auth"
	"placehub/internal/errors"
	"placehub/internal/model"
	"placehub/internal/repository"
)

// UserService handles sign-up, login, and user listing.
type UserService interface {
	Signup(ctx context.Context, name, email, password, imageKey string) (user *model.User, token string, err error)
	Login(ctx context.Context, email, password string) (user *model.User, token string, err error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, jwtService *auth.JWTService) UserService {
	return &userService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Signup registers a user with a hashed password and an empty place list,
// and returns a fresh bearer token. Email uniqueness is enforced here.
func (s *userService) Signup(ctx context.Context, name, email, password, imageKey string) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", errors.ErrEmailExists
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Image:        imageKey,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent signup can slip past the existence check; the
		// unique index on email is the authority.
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", errors.ErrEmailExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *userService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", errors.ErrInvalidCredentials
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, "", errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// ListUsers returns all users. Password hashes never serialize.
func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

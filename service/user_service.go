package service

import (
	"context"
	"errors"
	"strings"

	"direitofacil-backend/models"
	"direitofacil-backend/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserNotFound indicates the requested user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates a user with the same email already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates an email/password mismatch
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService handles business logic for users
type UserService struct {
	userRepo *repository.UserRepository
}

// UserServiceOption is a functional option for UserService
type UserServiceOption func(*UserService)

// WithUserRepository sets the user repository
func WithUserRepository(repo *repository.UserRepository) UserServiceOption {
	return func(s *UserService) {
		s.userRepo = repo
	}
}

// NewUserService creates a new user service
func NewUserService(opts ...UserServiceOption) *UserService {
	s := &UserService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Email    string
	Password string
	Name     string
}

// CreateUserResult represents the result of creating a user
type CreateUserResult struct {
	User *models.User
}

// CreateUser creates a new user with a bcrypt password hash
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*CreateUserResult, error) {
	if s.userRepo == nil {
		return nil, errors.New("user repository not set")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &CreateUserResult{User: user}, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.userRepo == nil {
		return nil, errors.New("user repository not set")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// ListUsers retrieves all users
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	if s.userRepo == nil {
		return nil, errors.New("user repository not set")
	}
	return s.userRepo.List(ctx)
}

// UpdateUserRequest represents a request to update a user. Nil fields are
// left unchanged.
type UpdateUserRequest struct {
	ID       uuid.UUID
	Name     *string
	Password *string
	IsActive *bool
}

// UpdateUser applies partial changes to an existing user
func (s *UserService) UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.User, error) {
	if s.userRepo == nil {
		return nil, errors.New("user repository not set")
	}

	user, err := s.GetUser(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, errors.New("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies an email/password pair and returns the matching user
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if s.userRepo == nil {
		return nil, errors.New("user repository not set")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

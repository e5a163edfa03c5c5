package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/amJayem/used-books-resale-server/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type RegisterUserParams struct {
	Name     string
	Email    string
	Password string
	Role     entity.UserRole
	Address  string
	Phone    string
}

type UserService interface {
	Register(ctx context.Context, params RegisterUserParams) (string, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// AdminDelete removes an account. Only admin-scoped callers may invoke it.
	AdminDelete(ctx context.Context, userID string, callerRole entity.UserRole) error
	ListByRole(ctx context.Context, role entity.UserRole) ([]*entity.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      logger.Logger
}

func NewUserService(userRepo repository.UserRepository, log logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

func (s *userService) Register(ctx context.Context, params RegisterUserParams) (string, error) {
	user, err := entity.NewUser(params.Name, params.Email, params.Role)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	user.Address = params.Address
	user.Phone = params.Phone

	if params.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.log.Warnf("Duplicate registration attempt for email %s", params.Email)
			return "", ErrEmailTaken
		}
		s.log.Errorf("Failed to register user %s: %v", params.Email, err)
		return "", fmt.Errorf("failed to register user: %w", err)
	}

	s.log.Infof("Registered %s account for %s", user.Role, user.Email)
	return userID, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	// Never hand the password hash back out of the service.
	user.Password = ""
	return user, nil
}

func (s *userService) AdminDelete(ctx context.Context, userID string, callerRole entity.UserRole) error {
	if callerRole != entity.RoleAdmin {
		s.log.Warnf("Non-admin caller attempted to delete user %s", userID)
		return ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up user before delete: %w", err)
	}

	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		s.log.Errorf("Failed to delete user %s: %v", userID, err)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	// Listings and orders referencing the account are left dangling on
	// purpose; there is no cascade.
	s.log.Infof("User %s (%s) deleted by admin", userID, user.Email)
	return nil
}

func (s *userService) ListByRole(ctx context.Context, role entity.UserRole) ([]*entity.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	users, err := s.userRepo.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

package service

import (
	"context"
	"strings"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// UserService covers account administration and self-service profile flows.
type UserService struct {
	users repository.UserRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// ListUsers returns every account.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// GetUser fetches one account.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// UserUpdateInput carries the mutable admin-facing account fields.
type UserUpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Role      *domain.Role
	IsActive  *bool
}

// UpdateUser applies an admin update. Changing one's own role is forbidden;
// role values must be recognized.
func (s *UserService) UpdateUser(ctx context.Context, actor *domain.User, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && *input.Role != user.Role {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
		}
		if actor != nil && actor.ID == user.ID {
			return nil, apperrors.NewForbidden("you cannot change your own role")
		}
		user.Role = *input.Role
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a self-service update restricted to name and email.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, firstName, lastName, email *string) (*domain.User, error) {
	return s.UpdateUser(ctx, nil, userID, UserUpdateInput{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	})
}

// DeleteUser removes an account. Deleting one's own account is forbidden.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.User, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actor != nil && actor.ID == user.ID {
		return apperrors.NewForbidden("you cannot delete your own account")
	}
	return s.users.Delete(ctx, id)
}

// DeactivateSelf soft-deletes the caller's own account.
func (s *UserService) DeactivateSelf(ctx context.Context, userID string) error {
	return s.users.SetActive(ctx, userID, false)
}

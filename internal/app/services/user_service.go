package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/akarpov/docflow/internal/app/models"
	"github.com/akarpov/docflow/internal/app/models/dto"
	"github.com/akarpov/docflow/internal/app/repositories"
	"github.com/akarpov/docflow/internal/pkg/apperrors"
)

// UserService handles curator-side user administration
type UserService interface {
	// SetRole changes a user's role. A role change only reaches the user's
	// token claims on their next login; already issued tokens keep the old role.
	SetRole(ctx context.Context, req *dto.SetRoleRequest) (*dto.UserResponse, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
}

type userService struct {
	userRepo repositories.IUserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) SetRole(ctx context.Context, req *dto.SetRoleRequest) (*dto.UserResponse, error) {
	role, ok := models.ParseRole(req.NewRole)
	if !ok {
		return nil, &apperrors.CustomError{
			Err:     apperrors.ErrInvalidRole,
			Message: fmt.Sprintf("role %q is not one of STUDENT, TEACHER, CURATOR", req.NewRole),
		}
	}

	if err := s.userRepo.UpdateRole(ctx, req.Email, role); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", req.Email).Str("newRole", req.NewRole).Msg("User role updated")
	return &dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		RoleType:  string(user.RoleType),
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			RoleType:  string(u.RoleType),
			CreatedAt: u.CreatedAt,
		})
	}
	return out, nil
}

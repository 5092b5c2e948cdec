package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/docflow/internal/app/models"
	"github.com/akarpov/docflow/internal/app/models/dto"
	repoMocks "github.com/akarpov/docflow/internal/app/repositories/mocks"
	"github.com/akarpov/docflow/internal/pkg/apperrors"
)

func TestUserService_SetRole(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes a student to teacher", func(t *testing.T) {
		userRepo := new(repoMocks.MockUserRepository)
		userRepo.On("UpdateRole", ctx, "s@x.com", models.RoleTeacher).Return(nil)
		userRepo.On("GetByEmail", ctx, "s@x.com").Return(&models.User{
			ID:       3,
			Name:     "Ivan Ivanov",
			Email:    "s@x.com",
			RoleType: models.RoleTeacher,
		}, nil)

		resp, err := NewUserService(userRepo, zerolog.Nop()).SetRole(ctx, &dto.SetRoleRequest{
			Email:   "s@x.com",
			NewRole: "TEACHER",
		})
		require.NoError(t, err)
		assert.Equal(t, "TEACHER", resp.RoleType)
		userRepo.AssertExpectations(t)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		userRepo := new(repoMocks.MockUserRepository)

		_, err := NewUserService(userRepo, zerolog.Nop()).SetRole(ctx, &dto.SetRoleRequest{
			Email:   "s@x.com",
			NewRole: "ADMIN",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
		userRepo.AssertNotCalled(t, "UpdateRole", ctx, "s@x.com", models.RoleType("ADMIN"))
	})

	t.Run("unknown user answers not found", func(t *testing.T) {
		userRepo := new(repoMocks.MockUserRepository)
		userRepo.On("UpdateRole", ctx, "ghost@x.com", models.RoleCurator).Return(apperrors.ErrUserNotFound)

		_, err := NewUserService(userRepo, zerolog.Nop()).SetRole(ctx, &dto.SetRoleRequest{
			Email:   "ghost@x.com",
			NewRole: "CURATOR",
		})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()

	userRepo := new(repoMocks.MockUserRepository)
	userRepo.On("List", ctx).Return([]*models.User{
		{ID: 1, Name: "Olga Petrova", Email: "curator@vuz.edu", Password: "hash", RoleType: models.RoleCurator},
		{ID: 3, Name: "Ivan Ivanov", Email: "s@x.com", Password: "hash", RoleType: models.RoleStudent},
	}, nil)

	users, err := NewUserService(userRepo, zerolog.Nop()).List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "CURATOR", users[0].RoleType)
	assert.Equal(t, "s@x.com", users[1].Email)
}

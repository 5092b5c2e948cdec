package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/docflow/internal/app/models"
	"github.com/akarpov/docflow/internal/app/models/dto"
	repoMocks "github.com/akarpov/docflow/internal/app/repositories/mocks"
	"github.com/akarpov/docflow/internal/pkg/apperrors"
	"github.com/akarpov/docflow/internal/pkg/auth"
)

func newAuthService(userRepo *repoMocks.MockUserRepository) AuthService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
	return NewAuthService(userRepo, jwtService, zerolog.Nop())
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("every registration is a student", func(t *testing.T) {
		userRepo := new(repoMocks.MockUserRepository)
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.RoleType == models.RoleStudent &&
				u.Email == "new@x.com" &&
				u.Password != "secret123" // stored hashed, never plaintext
		})).Return(int64(5), nil)

		resp, err := newAuthService(userRepo).Register(ctx, &dto.RegisterRequest{
			Name:     "New User",
			Email:    "new@x.com",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), resp.ID)
		userRepo.AssertExpectations(t)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		userRepo := new(repoMocks.MockUserRepository)
		userRepo.On("Create", ctx, mock.Anything).Return(int64(0), apperrors.ErrEmailAlreadyExists)

		_, err := newAuthService(userRepo).Register(ctx, &dto.RegisterRequest{
			Name:     "Dup",
			Email:    "dup@x.com",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	t.Run("valid credentials issue a token carrying the role", func(t *testing.T) {
		userRepo := new(repoMocks.MockUserRepository)
		userRepo.On("GetByEmail", ctx, "s@x.com").Return(&models.User{
			ID:       3,
			Email:    "s@x.com",
			Password: hash,
			RoleType: models.RoleStudent,
		}, nil)

		resp, err := newAuthService(userRepo).Login(ctx, &dto.LoginRequest{
			Email:    "s@x.com",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "STUDENT", resp.Role)
		assert.Equal(t, 3600, resp.ExpiresIn)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		userRepo := new(repoMocks.MockUserRepository)
		userRepo.On("GetByEmail", ctx, "ghost@x.com").Return(nil, apperrors.ErrUserNotFound)
		userRepo.On("GetByEmail", ctx, "s@x.com").Return(&models.User{
			ID:       3,
			Email:    "s@x.com",
			Password: hash,
			RoleType: models.RoleStudent,
		}, nil)

		svc := newAuthService(userRepo)
		_, errUnknown := svc.Login(ctx, &dto.LoginRequest{Email: "ghost@x.com", Password: "whatever"})
		_, errWrongPw := svc.Login(ctx, &dto.LoginRequest{Email: "s@x.com", Password: "not-the-password"})

		assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPw, apperrors.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	})
}

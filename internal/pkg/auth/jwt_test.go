package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/docflow/internal/app/models"
)

func newTestJWTService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "test",
	})
}

func testUser() *models.User {
	return &models.User{
		ID:       3,
		Name:     "Ivan Ivanov",
		Email:    "s@x.com",
		RoleType: models.RoleStudent,
	}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	token, expiresIn, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)
	assert.Equal(t, "s@x.com", claims.Email)
	assert.Equal(t, "Ivan Ivanov", claims.Name)
	assert.Equal(t, "STUDENT", claims.RoleType)
}

func TestJWTService_ClaimsAreSnapshotAtIssueTime(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	user := testUser()
	token, _, err := svc.GenerateToken(user)
	require.NoError(t, err)

	// A later role change does not reach tokens already in circulation;
	// the new role only shows up after the next login.
	user.RoleType = models.RoleTeacher

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "STUDENT", claims.RoleType)
}

func TestJWTService_ValidateToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	t.Run("expired token", func(t *testing.T) {
		expired := newTestJWTService(-time.Minute)
		token, _, err := expired.GenerateToken(testUser())
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		other := NewJWTService(JWTConfig{
			SecretKey:      "other-secret",
			AccessTokenExp: time.Hour,
			TokenIssuer:    "test",
		})
		token, _, err := other.GenerateToken(testUser())
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ExtractBearerToken("Basic abc")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

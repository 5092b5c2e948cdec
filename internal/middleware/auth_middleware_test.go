package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/docflow/internal/app/models"
	"github.com/akarpov/docflow/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAuth() (*auth.JWTService, *AuthMiddleware) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
	return jwtService, NewAuthMiddleware(jwtService)
}

func issueToken(t *testing.T, jwtService *auth.JWTService, role models.RoleType) string {
	t.Helper()
	token, _, err := jwtService.GenerateToken(&models.User{
		ID:       3,
		Name:     "Ivan Ivanov",
		Email:    "s@x.com",
		RoleType: role,
	})
	require.NoError(t, err)
	return token
}

func TestJWTAuth(t *testing.T) {
	jwtService, m := newTestAuth()

	router := gin.New()
	router.GET("/protected", m.JWTAuth(), func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": p.Email, "role": string(p.Role)})
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token attaches the principal", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, models.RoleStudent))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"s@x.com"`)
		assert.Contains(t, w.Body.String(), `"role":"STUDENT"`)
	})
}

func TestRoleRequired(t *testing.T) {
	jwtService, m := newTestAuth()

	router := gin.New()
	router.GET("/curator-only", m.JWTAuth(), m.RoleRequired(models.RoleCurator), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(role models.RoleType) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/curator-only", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, role))
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call(models.RoleCurator))
	// Membership is exact: the list names the allowed roles, nothing is implied.
	assert.Equal(t, http.StatusForbidden, call(models.RoleTeacher))
	assert.Equal(t, http.StatusForbidden, call(models.RoleStudent))
}

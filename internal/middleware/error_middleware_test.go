package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/docflow/internal/app/models/dto"
	"github.com/akarpov/docflow/internal/pkg/apperrors"
)

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials},
		{"permission denied", apperrors.NewForbiddenError("no"), 403, dto.ErrorCodeForbidden},
		{"artifact not ready", apperrors.ErrArtifactNotReady, 403, dto.ErrorCodeForbidden},
		{"document not found", apperrors.ErrDocumentNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"template not found", apperrors.ErrTemplateNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, 409, dto.ErrorCodeResourceAlreadyExists},
		{"invalid state", apperrors.NewInvalidStateError("SUBMITTED"), 400, dto.ErrorCodeInvalidState},
		{"field not owned", apperrors.ErrFieldNotOwned, 400, dto.ErrorCodeValidationFailed},
		{"invalid role", apperrors.ErrInvalidRole, 400, dto.ErrorCodeValidationFailed},
		{"unknown error stays generic", assert.AnError, 500, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}

	t.Run("invalid state carries the observed status", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleAPIError(c, apperrors.NewInvalidStateError("COMPLETED"))

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		details, ok := resp.Error.Details.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "COMPLETED", details["currentStatus"])
	})

	t.Run("internal failures never leak the error text", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleAPIError(c, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

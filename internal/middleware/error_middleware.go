package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/akarpov/docflow/internal/app/models/dto"
	"github.com/akarpov/docflow/internal/pkg/apperrors"
)

// HandleAPIError maps engine-level errors to the HTTP taxonomy and renders the
// standard error envelope. Controllers call this for every service failure.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")))

	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrArtifactNotReady):
		c.JSON(403, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error())))

	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrDocumentNotFound),
		errors.Is(err, apperrors.ErrTemplateNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))

	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())))

	case errors.Is(err, apperrors.ErrInvalidState):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidState, err.Error())
		if details := apperrors.Details(err); details != nil {
			errorDetail = errorDetail.WithDetails(details)
		}
		c.JSON(400, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrFieldNotOwned),
		errors.Is(err, apperrors.ErrInvalidRole):
		c.JSON(400, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))

	default:
		// Unknown failures stay generic; details are logged server-side only.
		c.JSON(500, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}

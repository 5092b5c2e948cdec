package middleware

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/akarpov/docflow/internal/app/models/dto"
)

// BindingErrorDetail turns a gin binding failure into the standard error
// detail. Field-level validation failures are listed per field; anything else
// (malformed JSON, wrong types) stays a single generic message.
func BindingErrorDetail(err error) *dto.ErrorDetail {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = formatValidationError(fe)
		}
		return detail.WithDetails(fields)
	}

	return detail.WithDetails(err.Error())
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

package handler

import (
	"errors"

	"github.com/pebec/beepa-tracker/internal/model"
	"github.com/pebec/beepa-tracker/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrNotSignedIn):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotInvited),
		errors.Is(err, service.ErrUserDeactivated),
		errors.Is(err, service.ErrInsufficientRole),
		errors.Is(err, service.ErrEditScopeViolation):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrMDANotFound):
		return model.NewNotFoundError("MDA")
	case errors.Is(err, service.ErrReformNotFound):
		return model.NewNotFoundError("reform")
	case errors.Is(err, service.ErrActivityNotFound):
		return model.NewNotFoundError("activity")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrMDANameExists),
		errors.Is(err, service.ErrBootstrapUnavailable):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrInvalidCompletionLevel):
		return model.NewValidationError([]model.FieldError{{Field: "completion_level", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidActivityStatus):
		return model.NewValidationError([]model.FieldError{{Field: "status", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidRole):
		return model.NewValidationError([]model.FieldError{{Field: "role", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidStatus):
		return model.NewValidationError([]model.FieldError{{Field: "status", Message: err.Error()}})
	case errors.Is(err, service.ErrEmailRequired):
		return model.NewValidationError([]model.FieldError{{Field: "email", Message: err.Error()}})
	case errors.Is(err, service.ErrMDANameRequired):
		return model.NewValidationError([]model.FieldError{{Field: "name", Message: err.Error()}})
	case errors.Is(err, service.ErrCannotDeleteSelf):
		return model.NewValidationError([]model.FieldError{{Field: "user_id", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidAccessCode),
		errors.Is(err, service.ErrAccessCodeNotSet):
		return model.NewForbiddenError(err.Error())

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

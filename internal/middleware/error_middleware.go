package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rkurane/collegebus/internal/app/models/dto"
	"github.com/rkurane/collegebus/internal/pkg/apperrors"
	"github.com/rkurane/collegebus/internal/pkg/logger"
)

// HandleAPIError maps service errors onto the shared {success:false, message}
// envelope. Unexpected errors get a generic message so storage details never
// reach the client.
func HandleAPIError(c *gin.Context, err error) {
	var status int
	var message string

	switch {
	case errors.Is(err, apperrors.ErrMissingField),
		errors.Is(err, apperrors.ErrValidationFailed):
		status, message = http.StatusBadRequest, "Validation failed"
	case errors.Is(err, apperrors.ErrInvalidRole):
		status, message = http.StatusBadRequest, "Invalid role"
	case errors.Is(err, apperrors.ErrDuplicateBusNumber):
		status, message = http.StatusBadRequest, "Bus number already exists"
	case errors.Is(err, apperrors.ErrDuplicateUsername):
		status, message = http.StatusBadRequest, "Username already exists"
	case errors.Is(err, apperrors.ErrDuplicateRollNo):
		status, message = http.StatusBadRequest, "Roll number already exists"
	case errors.Is(err, apperrors.ErrBusRefInvalid):
		status, message = http.StatusBadRequest, "Selected bus does not exist"
	case errors.Is(err, apperrors.ErrResetTokenInvalid):
		status, message = http.StatusBadRequest, "Invalid or expired reset code"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid):
		status, message = http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		status, message = http.StatusForbidden, "Access denied"
	case errors.Is(err, apperrors.ErrAdminNotFound):
		status, message = http.StatusNotFound, "No admin account found with this email"
	case errors.Is(err, apperrors.ErrBusNotFound):
		status, message = http.StatusNotFound, "Bus not found"
	case errors.Is(err, apperrors.ErrStudentNotFound):
		status, message = http.StatusNotFound, "Student not found"
	case errors.Is(err, apperrors.ErrEmailSend):
		status, message = http.StatusInternalServerError, "Error sending reset email"
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		status, message = http.StatusInternalServerError, "Database error"
	}

	// A CustomError carries the precise user-facing wording
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		message = ce.Message
	}

	c.JSON(status, dto.NewErrorResponse(message))
}

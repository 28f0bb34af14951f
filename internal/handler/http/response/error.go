package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/smarttrack/smarttrack-backend-go/internal/domain/attendance"
	"github.com/smarttrack/smarttrack-backend-go/internal/domain/auth"
	"github.com/smarttrack/smarttrack-backend-go/internal/domain/user"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrHRAccessRequired):
		Forbidden(w, "HR or admin access required")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrOutsideGeofence):
		BadRequestWithCode(w, "OUTSIDE_GEOFENCE", "You are outside all office areas")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		BadRequestWithCode(w, "ALREADY_CHECKED_IN", "You are already checked in. Please check out first.")
	case errors.Is(err, attendance.ErrNoOpenSession):
		BadRequestWithCode(w, "NO_OPEN_SESSION", "No active check-in found to check out from")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

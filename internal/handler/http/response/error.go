package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/formacentre/payroll-backend-go/internal/domain/auth"
	"github.com/formacentre/payroll-backend-go/internal/domain/payroll"
	"github.com/formacentre/payroll-backend-go/internal/domain/session"
	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/pkg/validator"
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
	case errors.Is(err, auth.ErrAccountPending):
		Forbidden(w, "Account is pending manager approval")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account has been deactivated")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrManagerSelfRegister):
		Forbidden(w, "Manager accounts cannot self-register")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrCVNotFound):
		NotFound(w, "No CV uploaded for this user")
	case errors.Is(err, user.ErrUnsupportedCVExtension):
		BadRequest(w, "Only pdf, doc and docx files are accepted", nil)

	// Session domain errors
	case errors.Is(err, session.ErrSessionNotFound):
		NotFound(w, "Session not found")
	case errors.Is(err, session.ErrSessionHasSettlement):
		Conflict(w, "Session has a settlement sheet and cannot be deleted")
	case errors.Is(err, session.ErrCoordinatorRole):
		BadRequest(w, "Assigned coordinator must have the COORDINATOR role", nil)
	case errors.Is(err, session.ErrTrainerRole):
		BadRequest(w, "Assigned trainers must have the TRAINER role", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrSheetNotFound):
		NotFound(w, "Payroll sheet not found")
	case errors.Is(err, payroll.ErrInvalidSheetType):
		BadRequest(w, "Invalid payroll sheet type", nil)
	case errors.Is(err, payroll.ErrTrainerNotAssigned):
		BadRequest(w, "Trainer is not assigned to this session", nil)
	case errors.Is(err, payroll.ErrNoCoordinatorAssigned):
		BadRequest(w, "Session has no coordinator assigned", nil)
	case errors.Is(err, payroll.ErrNothingToSettle):
		BadRequest(w, "Session has no payroll sheets to settle", nil)
	case errors.Is(err, payroll.ErrSettlementMissing):
		NotFound(w, "Session has not been settled yet")
	case errors.Is(err, payroll.ErrSheetConflict):
		Conflict(w, "Payroll sheet already exists for this slot")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
)

// writeServiceError maps a service error onto the HTTP error taxonomy.
// Anything unrecognised is a server error; its detail only reaches the log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, tenancysdk.ErrorResponse{
			Error:            tenancysdk.ErrorCodeInvalidRequest,
			ErrorDescription: verr.Message,
			Field:            verr.Field,
		})

	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, tenancysdk.ErrorCodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, tenancysdk.ErrorCodeUnauthenticated, "Authentication required")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, tenancysdk.ErrorCodeForbidden, "Insufficient permissions")

	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvitationPending),
		errors.Is(err, service.ErrInvitationAlreadyUsed),
		errors.Is(err, service.ErrSubdomainTaken),
		errors.Is(err, service.ErrAlreadyBootstrapped):
		writeError(w, http.StatusConflict, tenancysdk.ErrorCodeConflict, err.Error())

	case errors.Is(err, service.ErrInvitationNotFound):
		writeError(w, http.StatusBadRequest, tenancysdk.ErrorCodeInvalidInvitation, "Invalid invitation")
	case errors.Is(err, service.ErrInvitationExpired):
		writeError(w, http.StatusGone, tenancysdk.ErrorCodeInvitationExpired, "Invitation has expired")

	case errors.Is(err, service.ErrTenantNotFound):
		writeError(w, http.StatusNotFound, tenancysdk.ErrorCodeNotFound, "Tenant not found")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, tenancysdk.ErrorCodeNotFound, "User not found")

	case errors.Is(err, service.ErrBootstrapUnauthorized):
		writeError(w, http.StatusUnauthorized, tenancysdk.ErrorCodeUnauthorized, "Invalid bootstrap token")

	case errors.Is(err, service.ErrUnavailable):
		log.Error("dependency unavailable", slog.Any("error", err))
		writeError(w, http.StatusServiceUnavailable, tenancysdk.ErrorCodeTemporarilyUnavailable,
			"Service temporarily unavailable, try again later")

	default:
		log.Error("unhandled service error", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, tenancysdk.ErrorCodeServerError, "An internal error occurred")
	}
}

func writeError(w http.ResponseWriter, code int, errCode, description string) {
	httpx.WriteJSON(w, code, tenancysdk.ErrorResponse{
		Error:            errCode,
		ErrorDescription: description,
	})
}

func writeBadJSON(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, tenancysdk.ErrorCodeInvalidRequest, "Request body must be valid JSON")
}

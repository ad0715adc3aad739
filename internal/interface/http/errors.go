package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finman/user-service/internal/application"
	"github.com/finman/user-service/pkg/apperrors"
	"github.com/finman/user-service/pkg/hasher"
	"github.com/finman/user-service/pkg/response"
)

// writeError maps domain errors onto HTTP status codes: malformed input is
// the client's fault, conflicts are 409, broken invariants and store
// failures are server errors.
func writeError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err), errors.Is(err, hasher.ErrEmptyPassword):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case apperrors.IsConflict(err):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	default:
		// DomainError and StoreError both land here: neither is actionable
		// by the caller.
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

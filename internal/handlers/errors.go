package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/SscSPs/disposal_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

// errorStatus maps a service error onto an HTTP status and a stable machine-readable code.
func errorStatus(err error) (int, string) {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, apperrors.ErrFieldLocked):
		return http.StatusConflict, "field_locked"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, apperrors.ErrPreconditionUnmet):
		return http.StatusUnprocessableEntity, "precondition_unmet"
	case errors.Is(err, apperrors.ErrRevocationDenied):
		return http.StatusUnprocessableEntity, "revocation_denied"
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusBadGateway, "upstream_failure"
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 600:
		return appErr.Code, "error"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// respondError writes the error envelope. Internal and upstream failures are logged with the
// cause and reported to the client with a generic message.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status, code := errorStatus(err)
	if status == http.StatusBadGateway {
		logger.Error("Failed to "+action, slog.String("code", code), slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: "Failed to " + action + ": a dependent service is unavailable", Code: code})
		return
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: "Failed to " + action, Code: code})
		return
	}
	logger.Warn("Request rejected", slog.String("action", action), slog.String("code", code), slog.String("error", err.Error()))
	c.JSON(status, dto.ErrorResponse{Error: err.Error(), Code: code})
}

// respondBindError reports a malformed request body or query.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error(), Code: "validation_error"})
}

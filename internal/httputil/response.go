// Package httputil provides utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
	apperrors "github.com/allisson/wemakepass/internal/errors"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleErrorGin maps an error to a status code and a {code, message} body.
//
// Authentication errors carry their own code, status and fixed message and are matched
// first, since an AuthError may also match one of the generic domain errors. The internal
// diagnostic and wrapped cause are logged and never sent to the client.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, errorResponse := mapError(err)

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		if code, ok := authDomain.CodeOf(err); ok &&
			(code == authDomain.AESEncryptionError || code == authDomain.AESDecryptionError) {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Code),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

func mapError(err error) (int, ErrorResponse) {
	if code, ok := authDomain.CodeOf(err); ok {
		return code.Status(), ErrorResponse{Code: code.String(), Message: code.Message()}
	}

	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "The requested resource was not found",
		}

	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, ErrorResponse{
			Code:    "CONFLICT",
			Message: "A conflict occurred with existing data",
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Code:    "INVALID_INPUT",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "Authentication is required",
		}

	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "You don't have permission to access this resource",
		}

	default:
		// For unknown/internal errors, don't expose details to the client
		return http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "An internal error occurred",
		}
	}
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    "BAD_REQUEST",
		Message: err.Error(),
	})
}

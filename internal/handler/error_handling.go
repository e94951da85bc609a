package handler

import (
	"errors"
	"net/http"

	"makeapi/auth/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp ErrorResponse

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		// One generic message for unknown email and wrong password alike, so
		// responses cannot be used for account enumeration.
		statusCode = http.StatusUnauthorized
		errResp = ErrorResponse{Code: ErrCodeWrongCredentials, Message: "Invalid credentials"}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		statusCode = http.StatusConflict
		errResp = ErrorResponse{Code: ErrCodeDuplicateEmail, Message: "User already exists"}
	case errors.Is(err, domain.ErrNameAlreadyExists):
		statusCode = http.StatusConflict
		errResp = ErrorResponse{Code: ErrCodeDuplicateUser, Message: "User already exists"}
	case errors.Is(err, domain.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeUserNotFound, Message: "Target user not found"}
	case errors.Is(err, domain.ErrTokenInvalid):
		statusCode = http.StatusUnauthorized
		errResp = ErrorResponse{Code: ErrCodeTokenInvalid, Message: "Token is invalid or expired"}
	case errors.Is(err, domain.ErrOwnRoleChange):
		statusCode = http.StatusForbidden
		errResp = ErrorResponse{Code: ErrCodeForbidden, Message: "You cannot change your own role"}
	case errors.Is(err, domain.ErrRoleNotAllowed):
		statusCode = http.StatusForbidden
		errResp = ErrorResponse{Code: ErrCodeForbidden, Message: "You do not have permission to change this role"}
	case errors.Is(err, domain.ErrInvalidRole):
		statusCode = http.StatusBadRequest
		errResp = ErrorResponse{Code: ErrCodeBadRequest, Message: "Role value cannot be negative"}
	case errors.Is(err, domain.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errResp = ErrorResponse{Code: ErrCodeBadRequest, Message: err.Error()}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = ErrorResponse{Code: ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

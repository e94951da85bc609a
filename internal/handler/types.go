package handler

import "makeapi/auth/internal/domain"

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	// Accepted for wire compatibility but deliberately ignored: new accounts
	// always start at the standard tier.
	Role *int `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changeRoleRequest struct {
	UserID int64 `json:"userId" binding:"required"`
	// Pointer so that a legitimate newRole of 0 survives the required check.
	NewRole *domain.Role `json:"newRole" binding:"required"`
}

type registerResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	Status      int    `json:"status"`
	ID          int64  `json:"id"`
}

type changeRoleResponse struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type meResponse struct {
	IDUser int64       `json:"idUser"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in ErrorResponse.Code.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeWrongCredentials = "WRONG_CREDENTIALS"
	ErrCodeDuplicateUser    = "DUPLICATE_USER"
	ErrCodeDuplicateEmail   = "DUPLICATE_EMAIL"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeTokenInvalid     = "TOKEN_INVALID"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

package domain

import "errors"

// Application-wide standard errors
var (
	// User & Authentication Errors
	ErrUserNotFound       = errors.New("user not found")
	ErrNameAlreadyExists  = errors.New("user with this name already exists")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token Errors
	ErrTokenInvalid = errors.New("token is invalid")

	// Authorization Errors
	ErrInvalidRole    = errors.New("role value cannot be negative")
	ErrOwnRoleChange  = errors.New("you cannot change your own role")
	ErrRoleNotAllowed = errors.New("you do not have permission to change this role")

	// General Request/Server Errors
	ErrInvalidInput = errors.New("invalid input data")
)

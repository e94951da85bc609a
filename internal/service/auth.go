package service

import (
	"context"

	"makeapi/auth/internal/domain"
)

// RegisterResult is returned after a successful registration.
type RegisterResult struct {
	User        *domain.User
	AccessToken string
}

// LoginResult is returned after a successful authentication.
type LoginResult struct {
	UserID      int64
	AccessToken string
}

// AuthService defines the interface for authentication and authorization logic.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ChangeRole(ctx context.Context, requesterID int64, requesterRole domain.Role, targetUserID int64, newRole domain.Role) error
}

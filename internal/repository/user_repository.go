package repository

import (
	"context"

	"makeapi/auth/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool used by the repositories. It allows
// tests to substitute a transaction or a mock.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository is the credential store contract. Uniqueness of name and
// email is enforced by the schema, not by pre-insert existence checks.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByName(ctx context.Context, name string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateUserRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) (*domain.User, error)
}

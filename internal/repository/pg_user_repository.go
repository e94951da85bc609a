package repository

import (
	"context"
	"errors"
	"fmt"

	"makeapi/auth/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgUserRepository implements UserRepository
var _ UserRepository = (*pgUserRepository)(nil)

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

type pgUserRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates a new PostgreSQL-backed UserRepository.
func NewPgUserRepository(db DBTX, logger *zap.Logger) UserRepository {
	return &pgUserRepository{
		db:     db,
		logger: logger.Named("PgUserRepo"),
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user. The schema-level unique constraints on name
// and email are the authoritative guard against duplicates; violations are
// mapped to conflict sentinels by constraint name.
func (r *pgUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("name", user.Name), zap.String("email", user.Email))
	err := r.db.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			logFields := []zap.Field{zap.String("name", user.Name), zap.String("email", user.Email)}
			switch pgErr.ConstraintName {
			case "users_email_key":
				r.logger.Warn("Attempted to create duplicate user by email", logFields...)
				return domain.ErrEmailAlreadyExists
			case "users_name_key":
				r.logger.Warn("Attempted to create duplicate user by name", logFields...)
				return domain.ErrNameAlreadyExists
			default:
				r.logger.Warn("Attempted to create user with unique constraint violation",
					append(logFields, zap.String("constraint", pgErr.ConstraintName))...)
				return domain.ErrNameAlreadyExists
			}
		}
		r.logger.Error("Failed to create user in postgres", zap.Error(err), zap.String("name", user.Name), zap.String("email", user.Email))
		return fmt.Errorf("failed to create user in postgres: %w", err)
	}

	r.logger.Info("User created successfully", zap.Int64("userID", user.ID), zap.String("name", user.Name), zap.String("email", user.Email))
	return nil
}

// GetUserByEmail retrieves a user by their email. The stored value is
// case-sensitive; no normalization happens here.
func (r *pgUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("email", email))
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by email", zap.String("email", email))
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by email from postgres", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email from postgres: %w", err)
	}
	return user, nil
}

// GetUserByName retrieves a user by their unique name.
func (r *pgUserRepository) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE name = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("name", name))
	user, err := scanUser(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by name", zap.String("name", name))
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by name from postgres", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("failed to get user by name from postgres: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *pgUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id))
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by ID", zap.Int64("id", id))
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by id from postgres", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user by id from postgres: %w", err)
	}
	return user, nil
}

// UpdateUserRole persists a new role for the user and returns the updated
// record. Unknown ids surface as ErrUserNotFound.
func (r *pgUserRepository) UpdateUserRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error) {
	query := `UPDATE users SET role = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 RETURNING ` + userColumns
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id), zap.Int("role", int(role)))
	user, err := scanUser(r.db.QueryRow(ctx, query, role, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Attempted to update role for non-existent user", zap.Int64("id", id))
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("Failed to update user role in postgres", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	r.logger.Info("User role updated successfully", zap.Int64("userID", id), zap.Int("role", int(role)))
	return user, nil
}

// UpdatePasswordHash replaces the stored password hash for the user. The
// previous hash is overwritten, not versioned.
func (r *pgUserRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) (*domain.User, error) {
	query := `UPDATE users SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 RETURNING ` + userColumns
	r.logger.Debug("Executing query", zap.Int64("id", id))
	user, err := scanUser(r.db.QueryRow(ctx, query, passwordHash, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Attempted to update password for non-existent user", zap.Int64("id", id))
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("Failed to update password hash in postgres", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to update password hash: %w", err)
	}
	r.logger.Info("User password hash updated successfully", zap.Int64("userID", id))
	return user, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"makeapi/auth/internal/domain"
	"makeapi/auth/internal/policy"
	"makeapi/auth/internal/repository"
	"makeapi/auth/internal/security"
	"makeapi/auth/internal/token"

	"go.uber.org/zap"
)

// Compile-time check to ensure authServiceImpl implements AuthService
var _ AuthService = (*authServiceImpl)(nil)

// authServiceImpl implements the AuthService interface.
type authServiceImpl struct {
	userRepo repository.UserRepository
	hasher   *security.PasswordHasher
	issuer   *token.Issuer
	logger   *zap.Logger
}

// NewAuthService creates a new instance of authServiceImpl.
func NewAuthService(userRepo repository.UserRepository, hasher *security.PasswordHasher, issuer *token.Issuer, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		logger:   logger.Named("AuthService"),
	}
}

// Register creates a new user. The stored role is always RoleUser; any role
// the client supplied in the request never reaches this layer.
func (s *authServiceImpl) Register(ctx context.Context, name, email, password string) (*RegisterResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	logFields := []zap.Field{zap.String("name", name), zap.String("email", email)}
	s.logger.Info("Registering new user", logFields...)

	if _, err := mail.ParseAddress(email); err != nil {
		s.logger.Warn("Registration attempt with invalid email format", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	if name == "" || password == "" {
		s.logger.Warn("Registration attempt with empty name or password", logFields...)
		return nil, domain.ErrInvalidInput
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Error("Error checking existing email during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing email: %w", err)
	}
	if existing != nil {
		s.logger.Warn("Registration attempt for existing email", logFields...)
		return nil, domain.ErrEmailAlreadyExists
	}

	passwordHash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// Conflict sentinels come from the schema constraints; the pre-insert
		// check above only narrows the race window.
		if !errors.Is(err, domain.ErrEmailAlreadyExists) && !errors.Is(err, domain.ErrNameAlreadyExists) {
			s.logger.Error("Failed to create user via repository", append(logFields, zap.Error(err))...)
		}
		return nil, err
	}

	accessToken, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User registered successfully", zap.Int64("userID", user.ID), zap.String("name", user.Name), zap.String("email", user.Email))
	return &RegisterResult{User: user, AccessToken: accessToken}, nil
}

// Login authenticates a user by email and password. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("email", email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn("Login failed: user not found", zap.String("email", email))
			return nil, domain.ErrInvalidCredentials
		}
		s.logger.Error("Login failed: error getting user from repository", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		s.logger.Warn("Login failed: invalid password", zap.String("email", email), zap.Int64("userID", user.ID))
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := s.issuer.Issue(user)
	if err != nil {
		s.logger.Error("Failed to issue token during login", zap.Error(err), zap.Int64("userID", user.ID))
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in successfully", zap.Int64("userID", user.ID), zap.Int("role", int(user.Role)))
	return &LoginResult{UserID: user.ID, AccessToken: accessToken}, nil
}

// ChangeRole assigns a new role to the target user after consulting the
// hierarchical authorization policy.
func (s *authServiceImpl) ChangeRole(ctx context.Context, requesterID int64, requesterRole domain.Role, targetUserID int64, newRole domain.Role) error {
	log := s.logger.With(
		zap.Int64("requesterID", requesterID),
		zap.Int("requesterRole", int(requesterRole)),
		zap.Int64("targetUserID", targetUserID),
		zap.Int("newRole", int(newRole)),
	)
	log.Info("Role change attempt")

	// Negative roles and self-changes are rejected by the policy before the
	// target lookup matters, so short-circuit those without touching the DB.
	if !newRole.Valid() {
		log.Warn("Role change rejected: negative role value")
		return domain.ErrInvalidRole
	}
	if targetUserID == requesterID {
		log.Warn("Role change rejected: self-change is forbidden")
		return domain.ErrOwnRoleChange
	}

	target, err := s.userRepo.GetUserByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Warn("Role change rejected: target user not found")
			return domain.ErrUserNotFound
		}
		log.Error("Failed to get target user from repository", zap.Error(err))
		return fmt.Errorf("failed to get target user: %w", err)
	}

	if err := policy.CanChangeRole(requesterRole, requesterID, targetUserID, target.Role, newRole); err != nil {
		log.Warn("Role change denied by policy", zap.Error(err), zap.Int("targetRole", int(target.Role)))
		return err
	}

	if _, err := s.userRepo.UpdateUserRole(ctx, targetUserID, newRole); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		log.Error("Failed to persist new role via repository", zap.Error(err))
		return err
	}

	log.Info("User role changed successfully")
	return nil
}

// Package token issues and decodes the service's bearer tokens.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"makeapi/auth/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const issuerName = "makeapi-auth"

// Claims carries the identity snapshot embedded in every issued token.
// Role changes after issuance do not propagate into existing tokens.
type Claims struct {
	UserID int64       `json:"id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 bearer tokens. The signing secret is
// process-wide configuration loaded once at startup.
type Issuer struct {
	secret      []byte
	defaultTTL  time.Duration
	elevatedTTL time.Duration
	logger      *zap.Logger
}

// NewIssuer creates a token issuer. An empty secret is a fatal
// misconfiguration and is rejected here so main can refuse to start.
func NewIssuer(secret string, defaultTTL, elevatedTTL time.Duration, logger *zap.Logger) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt signing secret is not configured")
	}
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	if elevatedTTL <= 0 {
		elevatedTTL = 5 * 365 * 24 * time.Hour
	}
	return &Issuer{
		secret:      []byte(secret),
		defaultTTL:  defaultTTL,
		elevatedTTL: elevatedTTL,
		logger:      logger.Named("TokenIssuer"),
	}, nil
}

// TTLFor returns the token lifetime for a given role. Operator accounts get
// the long-lived session carve-out; everyone else gets the default.
func (i *Issuer) TTLFor(role domain.Role) time.Duration {
	if role == domain.RoleOperator {
		return i.elevatedTTL
	}
	return i.defaultTTL
}

// Issue signs a token binding the user's identity snapshot with a
// role-dependent expiry.
func (i *Issuer) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    issuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.TTLFor(user.Role))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		i.logger.Error("Failed to sign token", zap.Error(err), zap.Int64("userID", user.ID))
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode parses and verifies a token string. It returns nil on any parse,
// signature or expiry failure; the reason is logged, never surfaced.
func (i *Issuer) Decode(tokenString string) *Claims {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		i.logger.Debug("Token rejected", zap.Error(err))
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		i.logger.Debug("Token rejected: invalid claims type or signature")
		return nil
	}
	return claims
}

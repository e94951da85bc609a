// Package security provides password hashing for the auth service.
package security

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordHasher wraps bcrypt behind a weighted semaphore. Hashing is
// CPU-bound; the semaphore keeps a login/register storm from saturating
// every runtime thread at once.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewPasswordHasher creates a hasher with the given bcrypt cost and maximum
// number of concurrent hash operations. Values below the bcrypt minimum fall
// back to the defaults.
func NewPasswordHasher(cost int, maxConcurrent int64) *PasswordHasher {
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	if maxConcurrent <= 0 {
		maxConcurrent = int64(runtime.GOMAXPROCS(0))
	}
	return &PasswordHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(maxConcurrent),
	}
}

// Hash produces a salted bcrypt digest of the plaintext password.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire hashing slot: %w", err)
	}
	defer h.sem.Release(1)

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify compares a plaintext password against a stored digest. It fails
// closed: malformed digests and cancelled contexts report a mismatch rather
// than an error.
func (h *PasswordHasher) Verify(ctx context.Context, password, digest string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

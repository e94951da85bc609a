package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"makeapi/auth/internal/domain"
	"makeapi/auth/internal/repository"
	"makeapi/auth/internal/security"
	"makeapi/auth/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeUserRepository is an in-memory UserRepository for unit tests.
type fakeUserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

var _ repository.UserRepository = (*fakeUserRepository)(nil)

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{nextID: 1, users: map[int64]*domain.User{}}
}

func (f *fakeUserRepository) CreateUser(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
		if u.Name == user.Name {
			return domain.ErrNameAlreadyExists
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepository) GetUserByName(_ context.Context, name string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Name == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepository) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepository) UpdateUserRole(_ context.Context, id int64, role domain.Role) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepository) UpdatePasswordHash(_ context.Context, id int64, passwordHash string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepository) seed(t *testing.T, user *domain.User) *domain.User {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == 0 {
		user.ID = f.nextID
	}
	if user.ID >= f.nextID {
		f.nextID = user.ID + 1
	}
	cp := *user
	f.users[user.ID] = &cp
	return user
}

func newTestService(t *testing.T) (AuthService, *fakeUserRepository, *token.Issuer) {
	t.Helper()
	repo := newFakeUserRepository()
	issuer, err := token.NewIssuer("unit-test-secret", 24*time.Hour, 5*365*24*time.Hour, zap.NewNop())
	require.NoError(t, err)
	hasher := security.NewPasswordHasher(0, 2)
	return NewAuthService(repo, hasher, issuer, zap.NewNop()), repo, issuer
}

func TestRegisterAlwaysCreatesStandardTierUser(t *testing.T) {
	svc, repo, issuer := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, "alice", "alice@example.com", "password1")
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.Equal(t, domain.RoleUser, result.User.Role, "every new registration gets role 1")

	stored, err := repo.GetUserByID(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, stored.Role)
	assert.NotEqual(t, "password1", stored.PasswordHash, "the plaintext password must never be stored")

	claims := issuer.Decode(result.AccessToken)
	require.NotNil(t, claims, "the registration token must decode")
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute,
		"new users never qualify for the long-lived carve-out")
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "alice", "alice@example.com", "password1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice2", "alice@example.com", "password2")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	// The first registration is unaffected.
	stored, err := repo.GetUserByID(ctx, first.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Name)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "not-an-email", "password1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(ctx, "", "alice@example.com", "password1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(ctx, "alice", "alice@example.com", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoginSuccessReturnsDecodableToken(t *testing.T) {
	svc, _, issuer := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "bob", "bob@example.com", "password1")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "bob@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, result.UserID)

	claims := issuer.Decode(result.AccessToken)
	require.NotNil(t, claims)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, "bob@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol", "carol@example.com", "password1")
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "nobody@example.com", "password1")
	_, wrongPassErr := svc.Login(ctx, "carol@example.com", "wrongpassword")

	assert.ErrorIs(t, unknownErr, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, domain.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error(),
		"unknown email and wrong password must produce identical errors")
}

func TestLoginOperatorGetsLongLivedToken(t *testing.T) {
	svc, repo, issuer := newTestService(t)
	ctx := context.Background()
	hasher := security.NewPasswordHasher(0, 2)

	digest, err := hasher.Hash(ctx, "password1")
	require.NoError(t, err)
	repo.seed(t, &domain.User{Name: "op", Email: "op@example.com", PasswordHash: digest, Role: domain.RoleOperator})

	result, err := svc.Login(ctx, "op@example.com", "password1")
	require.NoError(t, err)

	claims := issuer.Decode(result.AccessToken)
	require.NotNil(t, claims)
	assert.WithinDuration(t, time.Now().Add(5*365*24*time.Hour), claims.ExpiresAt.Time, time.Minute,
		"operator logins get the five year carve-out")
}

func TestChangeRoleDecisionTable(t *testing.T) {
	ctx := context.Background()

	type fixture struct {
		svc  AuthService
		repo *fakeUserRepository
	}
	setup := func(t *testing.T, targetRole domain.Role) fixture {
		svc, repo, _ := newTestService(t)
		repo.seed(t, &domain.User{ID: 1, Name: "requester", Email: "req@example.com", Role: domain.RoleAdmin})
		repo.seed(t, &domain.User{ID: 2, Name: "target", Email: "target@example.com", Role: targetRole})
		return fixture{svc: svc, repo: repo}
	}

	t.Run("admin may promote to operator", func(t *testing.T) {
		f := setup(t, domain.RoleUser)
		require.NoError(t, f.svc.ChangeRole(ctx, 1, domain.RoleAdmin, 2, domain.RoleOperator))
		target, err := f.repo.GetUserByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleOperator, target.Role, "the new role must be persisted")
	})

	t.Run("admin may not mint another admin", func(t *testing.T) {
		f := setup(t, domain.RoleUser)
		err := f.svc.ChangeRole(ctx, 1, domain.RoleAdmin, 2, domain.RoleAdmin)
		assert.ErrorIs(t, err, domain.ErrRoleNotAllowed)
		target, _ := f.repo.GetUserByID(ctx, 2)
		assert.Equal(t, domain.RoleUser, target.Role, "a denied change must not persist")
	})

	t.Run("operator may demote a standard user", func(t *testing.T) {
		f := setup(t, domain.RoleUser)
		require.NoError(t, f.svc.ChangeRole(ctx, 1, domain.RoleOperator, 2, domain.Role(2)))
	})

	t.Run("operator may not touch a peer", func(t *testing.T) {
		f := setup(t, domain.RoleOperator)
		err := f.svc.ChangeRole(ctx, 1, domain.RoleOperator, 2, domain.Role(2))
		assert.ErrorIs(t, err, domain.ErrRoleNotAllowed)
	})

	t.Run("tier two has no capability", func(t *testing.T) {
		f := setup(t, domain.RoleUser)
		err := f.svc.ChangeRole(ctx, 1, domain.Role(2), 2, domain.RoleNone)
		assert.ErrorIs(t, err, domain.ErrRoleNotAllowed)
	})

	t.Run("self change denied regardless of privilege", func(t *testing.T) {
		f := setup(t, domain.RoleUser)
		err := f.svc.ChangeRole(ctx, 1, domain.RoleAdmin, 1, domain.RoleUser)
		assert.ErrorIs(t, err, domain.ErrOwnRoleChange)
	})

	t.Run("negative role is invalid input", func(t *testing.T) {
		f := setup(t, domain.RoleUser)
		err := f.svc.ChangeRole(ctx, 1, domain.RoleAdmin, 2, domain.Role(-1))
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})

	t.Run("unknown target is not found", func(t *testing.T) {
		f := setup(t, domain.RoleUser)
		err := f.svc.ChangeRole(ctx, 1, domain.RoleAdmin, 99, domain.RoleUser)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

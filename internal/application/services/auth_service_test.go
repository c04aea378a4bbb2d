package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shamcart/storefront/configs"
	impl "github.com/shamcart/storefront/internal/application/services"
	"github.com/shamcart/storefront/internal/core/domain/user"
	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/shamcart/storefront/internal/infrastructure/cache"
)

type userRepoMock struct {
	getByEmailFn func(ctx context.Context, email string) (*user.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	updateFn     func(ctx context.Context, u *user.User) error
}

func (m *userRepoMock) Create(ctx context.Context, u *user.User) error { return nil }
func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}
func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, errors.New("not found")
}
func (m *userRepoMock) Update(ctx context.Context, u *user.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, u)
	}
	return nil
}
func (m *userRepoMock) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func testUser(t *testing.T, password string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &user.User{
		ID:           uuid.New(),
		Email:        "buyer@example.com",
		PasswordHash: string(hash),
		Role:         user.RoleCustomer,
		IsActive:     true,
	}
}

func newAuthService(repo ports.UserRepository) ports.AuthService {
	store := cache.NewMemoryStore(1000, time.Hour, nil)
	cfg := configs.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour}
	return impl.NewAuthService(repo, store, cfg, nil)
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	u := testUser(t, "s3cret-pass")
	repo := &userRepoMock{getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
		return u, nil
	}}
	svc := newAuthService(repo)

	pair, got, err := svc.Login(ctx, &user.LoginRequest{Email: u.Email, Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, int64(60), pair.ExpiresIn)
	require.Equal(t, u.ID, got.ID)

	claims, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	require.Equal(t, user.RoleCustomer, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	u := testUser(t, "s3cret-pass")
	repo := &userRepoMock{getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
		return u, nil
	}}
	svc := newAuthService(repo)

	_, _, err := svc.Login(ctx, &user.LoginRequest{Email: u.Email, Password: "wrong"})
	require.Error(t, err)
}

func TestLogin_InactiveAccount(t *testing.T) {
	ctx := context.Background()
	u := testUser(t, "s3cret-pass")
	u.IsActive = false
	repo := &userRepoMock{getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
		return u, nil
	}}
	svc := newAuthService(repo)

	_, _, err := svc.Login(ctx, &user.LoginRequest{Email: u.Email, Password: "s3cret-pass"})
	require.Error(t, err)
}

func TestLogin_RecordsLastLogin(t *testing.T) {
	ctx := context.Background()
	u := testUser(t, "s3cret-pass")
	var recorded *time.Time
	repo := &userRepoMock{
		getByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
		updateFn: func(ctx context.Context, updated *user.User) error {
			recorded = updated.LastLoginAt
			return nil
		},
	}
	svc := newAuthService(repo)

	_, _, err := svc.Login(ctx, &user.LoginRequest{Email: u.Email, Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotNil(t, recorded)
}

func TestLogout_RevokesToken(t *testing.T) {
	ctx := context.Background()
	u := testUser(t, "s3cret-pass")
	repo := &userRepoMock{getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
		return u, nil
	}}
	svc := newAuthService(repo)

	pair, _, err := svc.Login(ctx, &user.LoginRequest{Email: u.Email, Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.AccessToken))

	_, err = svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.Error(t, err, "a revoked token must not validate")
}

func TestRefresh_RotatesAndRevokesUsedToken(t *testing.T) {
	ctx := context.Background()
	u := testUser(t, "s3cret-pass")
	repo := &userRepoMock{
		getByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
			if id == u.ID {
				return u, nil
			}
			return nil, errors.New("not found")
		},
	}
	svc := newAuthService(repo)

	pair, _, err := svc.Login(ctx, &user.LoginRequest{Email: u.Email, Password: "s3cret-pass"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)

	// The consumed refresh token cannot be replayed.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
}

func TestRefresh_GarbageToken(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(&userRepoMock{})

	_, err := svc.Refresh(ctx, "not-a-jwt")
	require.Error(t, err)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	ctx := context.Background()
	u := testUser(t, "s3cret-pass")
	repo := &userRepoMock{getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
		return u, nil
	}}
	svc := newAuthService(repo)

	pair, _, err := svc.Login(ctx, &user.LoginRequest{Email: u.Email, Password: "s3cret-pass"})
	require.NoError(t, err)

	other := impl.NewAuthService(repo, cache.NewMemoryStore(100, time.Hour, nil),
		configs.JWTConfig{Secret: "different", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour}, nil)
	_, err = other.ValidateAccessToken(ctx, pair.AccessToken)
	require.Error(t, err)
}

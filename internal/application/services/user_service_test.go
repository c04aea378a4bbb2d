package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	impl "github.com/shamcart/storefront/internal/application/services"
	"github.com/shamcart/storefront/internal/core/domain/user"
	"github.com/shamcart/storefront/internal/infrastructure/cache"
)

type countingUserRepoMock struct {
	userRepoMock
	getByIDCalls int
}

func (m *countingUserRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	m.getByIDCalls++
	return m.userRepoMock.GetByID(ctx, id)
}

func TestGetUser_ReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	u := &user.User{ID: uuid.New(), Email: "buyer@example.com", FirstName: "Amina", IsActive: true}
	repo := &countingUserRepoMock{userRepoMock: userRepoMock{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) { return u, nil },
	}}
	store := cache.NewMemoryStore(1000, time.Hour, nil)
	svc := impl.NewUserService(repo, nil, store, nil)

	first, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	second, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)

	require.Equal(t, first.Email, second.Email)
	require.Equal(t, 1, repo.getByIDCalls, "second read must come from the cache")
	require.True(t, store.Exists(ctx, cache.UserByID(u.ID.String())))
}

func TestGetUser_CachedCopyOmitsPasswordHash(t *testing.T) {
	ctx := context.Background()
	u := &user.User{ID: uuid.New(), Email: "buyer@example.com", PasswordHash: "bcrypt-hash"}
	repo := &countingUserRepoMock{userRepoMock: userRepoMock{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) { return u, nil },
	}}
	store := cache.NewMemoryStore(1000, time.Hour, nil)
	svc := impl.NewUserService(repo, nil, store, nil)

	svc.GetUser(ctx, u.ID)
	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, got.PasswordHash)
}

func TestUpdateProfile_InvalidatesCachedUser(t *testing.T) {
	ctx := context.Background()
	u := &user.User{ID: uuid.New(), Email: "buyer@example.com", FirstName: "Amina"}
	repo := &countingUserRepoMock{userRepoMock: userRepoMock{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) { return u, nil },
	}}
	store := cache.NewMemoryStore(1000, time.Hour, nil)
	svc := impl.NewUserService(repo, nil, store, nil)

	_, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, store.Exists(ctx, cache.UserByID(u.ID.String())))

	name := "Layla"
	_, err = svc.UpdateProfile(ctx, u.ID, &user.UpdateProfileRequest{FirstName: &name})
	require.NoError(t, err)

	require.False(t, store.Exists(ctx, cache.UserByID(u.ID.String())), "profile update must drop the cached user")

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Layla", got.FirstName)
}

func TestGetUser_NilCacheDelegates(t *testing.T) {
	ctx := context.Background()
	u := &user.User{ID: uuid.New()}
	repo := &countingUserRepoMock{userRepoMock: userRepoMock{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) { return u, nil },
	}}
	svc := impl.NewUserService(repo, nil, nil, nil)

	svc.GetUser(ctx, u.ID)
	svc.GetUser(ctx, u.ID)
	require.Equal(t, 2, repo.getByIDCalls)
}

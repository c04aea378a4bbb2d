package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/shamcart/storefront/internal/core/domain/product"
	"github.com/shamcart/storefront/internal/infrastructure/cache"
	"github.com/shamcart/storefront/internal/infrastructure/repositories"
)

// productRepoMock counts delegate calls so tests can tell a cache hit from a
// read-through.
type productRepoMock struct {
	findByIDCalls int
	listCalls     int

	findByIDFn func(ctx context.Context, id uuid.UUID) (*product.Product, error)
	listFn     func(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error)
	updateFn   func(ctx context.Context, p *product.Product) error
}

func (m *productRepoMock) Create(ctx context.Context, p *product.Product) error { return nil }

func (m *productRepoMock) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	m.findByIDCalls++
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &product.Product{ID: id, Name: "widget"}, nil
}

func (m *productRepoMock) Update(ctx context.Context, p *product.Product) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *productRepoMock) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (m *productRepoMock) List(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx, page, limit, filter)
	}
	return &product.Page{Products: []*product.Product{}, Total: 0}, nil
}

func (m *productRepoMock) ListByUser(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
	m.listCalls++
	return &product.Page{Products: []*product.Product{}, Total: 0}, nil
}

func (m *productRepoMock) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*product.Product, error) {
	m.listCalls++
	return []*product.Product{}, nil
}

func (m *productRepoMock) Filter(ctx context.Context, params *product.Filter) ([]*product.Product, error) {
	m.listCalls++
	return []*product.Product{}, nil
}

func (m *productRepoMock) IncrementFavorites(ctx context.Context, id uuid.UUID) error { return nil }
func (m *productRepoMock) DecrementFavorites(ctx context.Context, id uuid.UUID) error { return nil }

func newCachedRepo(inner *productRepoMock) *repositories.CachedProductRepository {
	store := cache.NewMemoryStore(1000, time.Hour, nil)
	return repositories.NewCachedProductRepository(inner, store, nil)
}

func TestCachedProductRepository_FindByIDReadThrough(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	inner := &productRepoMock{}
	repo := newCachedRepo(inner)

	first, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, id)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, inner.findByIDCalls, "second read must come from the cache")
}

func TestCachedProductRepository_UpdateInvalidatesByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	catID := uuid.New()
	name := "before"
	inner := &productRepoMock{
		findByIDFn: func(ctx context.Context, _ uuid.UUID) (*product.Product, error) {
			return &product.Product{ID: id, CategoryID: catID, Name: name}, nil
		},
	}
	repo := newCachedRepo(inner)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "before", got.Name)

	name = "after"
	require.NoError(t, repo.Update(ctx, &product.Product{ID: id, CategoryID: catID, Name: name}))

	got, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "after", got.Name, "stale by-id entry must be gone after Update")
	require.Equal(t, 2, inner.findByIDCalls)
}

func TestCachedProductRepository_ListInvalidationEndToEnd(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	catID := uuid.New()
	inner := &productRepoMock{
		listFn: func(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
			return &product.Page{Products: []*product.Product{{ID: id, CategoryID: catID}}, Total: 1}, nil
		},
	}
	repo := newCachedRepo(inner)

	// Two identical listings: one delegate call.
	_, err := repo.List(ctx, 1, 20, &product.Filter{})
	require.NoError(t, err)
	_, err = repo.List(ctx, 1, 20, &product.Filter{})
	require.NoError(t, err)
	require.Equal(t, 1, inner.listCalls)

	// A write invalidates the list family; the next listing re-reads.
	require.NoError(t, repo.Update(ctx, &product.Product{ID: id, CategoryID: catID}))
	_, err = repo.List(ctx, 1, 20, &product.Filter{})
	require.NoError(t, err)
	require.Equal(t, 2, inner.listCalls)
}

func TestCachedProductRepository_DistinctFiltersDistinctKeys(t *testing.T) {
	ctx := context.Background()
	inner := &productRepoMock{}
	repo := newCachedRepo(inner)

	minPrice := 10.0
	_, err := repo.List(ctx, 1, 20, &product.Filter{})
	require.NoError(t, err)
	_, err = repo.List(ctx, 1, 20, &product.Filter{MinPrice: &minPrice})
	require.NoError(t, err)
	_, err = repo.List(ctx, 2, 20, &product.Filter{})
	require.NoError(t, err)

	require.Equal(t, 3, inner.listCalls, "different filter or page must not share a cache entry")
}

func TestCachedProductRepository_EmptyPageCached(t *testing.T) {
	ctx := context.Background()
	inner := &productRepoMock{}
	repo := newCachedRepo(inner)

	page, err := repo.List(ctx, 1, 20, &product.Filter{Query: "nothing"})
	require.NoError(t, err)
	require.Equal(t, 0, page.Total)

	_, err = repo.List(ctx, 1, 20, &product.Filter{Query: "nothing"})
	require.NoError(t, err)
	require.Equal(t, 1, inner.listCalls, "an empty page is a valid cached value")
}

func TestCachedProductRepository_FetchErrorPropagates(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	inner := &productRepoMock{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*product.Product, error) {
			return nil, boom
		},
	}
	repo := newCachedRepo(inner)

	_, err := repo.FindByID(ctx, uuid.New())
	require.ErrorIs(t, err, boom)

	// The failure was not cached: the delegate is asked again.
	_, err = repo.FindByID(ctx, uuid.New())
	require.Error(t, err)
	require.Equal(t, 2, inner.findByIDCalls)
}

func TestCachedProductRepository_NilCacheDelegates(t *testing.T) {
	ctx := context.Background()
	inner := &productRepoMock{}
	repo := repositories.NewCachedProductRepository(inner, nil, nil)

	_, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	_, err = repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	require.Equal(t, 2, inner.findByIDCalls)
}

func TestCachedProductRepository_UpdateErrorSkipsInvalidation(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	inner := &productRepoMock{
		updateFn: func(ctx context.Context, p *product.Product) error {
			return errors.New("constraint violation")
		},
	}
	repo := newCachedRepo(inner)

	_, err := repo.FindByID(ctx, id)
	require.NoError(t, err)

	require.Error(t, repo.Update(ctx, &product.Product{ID: id}))

	// The cached entry survives a failed write.
	_, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 1, inner.findByIDCalls)
}

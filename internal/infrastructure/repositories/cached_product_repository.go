package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/product"
	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/shamcart/storefront/internal/infrastructure/cache"
)

// TTLs are tiered by volatility: a single product changes less often than
// any list that aggregates many of them. Policy only — correctness comes
// from write-path invalidation plus every TTL being finite.
const (
	ttlProductByID     = 30 * time.Minute
	ttlProductList     = 10 * time.Minute
	ttlSearchResults   = 5 * time.Minute
	ttlUserProducts    = 15 * time.Minute
	ttlCategoryProduct = 20 * time.Minute
)

// cachedFetch runs a cache-aside read: on a hit the cached JSON is decoded,
// on a miss fetch runs and its result (empty results included) is cached.
// A fetch error propagates unchanged and nothing is cached. A corrupt cache
// entry degrades to a direct fetch.
func cachedFetch[T any](ctx context.Context, c ports.CacheStore, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if c == nil {
		return fetch(ctx)
	}
	raw, err := c.GetOrSet(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fetch(ctx)
	}
	return v, nil
}

// CachedProductRepository decorates a ProductRepository with cache-aside
// reads and write-path invalidation. Callers stay cache-unaware: it
// implements the same interface as the Postgres repository.
type CachedProductRepository struct {
	inner  ports.ProductRepository
	cache  ports.CacheStore
	logger *logrus.Logger
}

// NewCachedProductRepository creates the caching decorator.
func NewCachedProductRepository(inner ports.ProductRepository, store ports.CacheStore, logger *logrus.Logger) *CachedProductRepository {
	return &CachedProductRepository{inner: inner, cache: store, logger: logger}
}

// FindByID reads through the by-id key.
func (c *CachedProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return cachedFetch(ctx, c.cache, cache.ProductByID(id.String()), ttlProductByID,
		func(ctx context.Context) (*product.Product, error) {
			return c.inner.FindByID(ctx, id)
		})
}

// List reads through the all/list key family, keyed by page, limit and a
// canonical hash of the filter.
func (c *CachedProductRepository) List(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
	key := cache.ProductAll(page, limit, cache.FilterHash(filter))
	return cachedFetch(ctx, c.cache, key, ttlProductList,
		func(ctx context.Context) (*product.Page, error) {
			return c.inner.List(ctx, page, limit, filter)
		})
}

// ListByUser reads through the by-user key family.
func (c *CachedProductRepository) ListByUser(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
	userID := "unknown"
	if filter != nil && filter.CreatedBy != nil {
		userID = filter.CreatedBy.String()
	}
	key := cache.ProductByUser(userID, page, limit)
	return cachedFetch(ctx, c.cache, key, ttlUserProducts,
		func(ctx context.Context) (*product.Page, error) {
			return c.inner.ListByUser(ctx, page, limit, filter)
		})
}

// ListByCategory reads through the by-category key family.
func (c *CachedProductRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*product.Product, error) {
	key := cache.ProductByCategory(categoryID.String(), 1, 100)
	return cachedFetch(ctx, c.cache, key, ttlCategoryProduct,
		func(ctx context.Context) ([]*product.Product, error) {
			return c.inner.ListByCategory(ctx, categoryID)
		})
}

// Filter reads through the filter key family.
func (c *CachedProductRepository) Filter(ctx context.Context, params *product.Filter) ([]*product.Product, error) {
	key := cache.ProductFilter(cache.FilterHash(params))
	return cachedFetch(ctx, c.cache, key, ttlSearchResults,
		func(ctx context.Context) ([]*product.Product, error) {
			return c.inner.Filter(ctx, params)
		})
}

// Search caches a name/category/owner search under the search key family,
// delegating to the paged list with an equivalent filter.
func (c *CachedProductRepository) Search(ctx context.Context, name string, categoryID, createdBy *uuid.UUID, page, limit int) (*product.Page, error) {
	queryHash := cache.FilterHash(&product.Filter{Query: name, CategoryID: categoryID, CreatedBy: createdBy})
	key := cache.ProductSearch(queryHash, page, limit)
	return cachedFetch(ctx, c.cache, key, ttlSearchResults,
		func(ctx context.Context) (*product.Page, error) {
			filter := &product.Filter{Query: name, CategoryID: categoryID, CreatedBy: createdBy}
			result, err := c.inner.List(ctx, page, limit, filter)
			if err != nil {
				return nil, err
			}
			if result == nil {
				result = &product.Page{Products: []*product.Product{}, Total: 0}
			}
			return result, nil
		})
}

// Create writes through the delegate first, then invalidates.
func (c *CachedProductRepository) Create(ctx context.Context, p *product.Product) error {
	if err := c.inner.Create(ctx, p); err != nil {
		return err
	}
	c.invalidateProductCaches(ctx, p)
	return nil
}

// Update writes through the delegate first, then invalidates.
func (c *CachedProductRepository) Update(ctx context.Context, p *product.Product) error {
	if err := c.inner.Update(ctx, p); err != nil {
		return err
	}
	c.invalidateProductCaches(ctx, p)
	return nil
}

// Delete loads the product first so its category and owner key families can
// be invalidated after the delegate delete succeeds.
func (c *CachedProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	p, _ := c.inner.FindByID(ctx, id)
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	if p != nil {
		c.invalidateProductCaches(ctx, p)
	} else if c.cache != nil {
		c.cache.Delete(ctx, cache.ProductByID(id.String()))
		c.invalidateListCaches(ctx)
	}
	return nil
}

// IncrementFavorites invalidates only the by-id key; lists tolerate a stale
// favorites counter until their own TTL.
func (c *CachedProductRepository) IncrementFavorites(ctx context.Context, id uuid.UUID) error {
	if err := c.inner.IncrementFavorites(ctx, id); err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Delete(ctx, cache.ProductByID(id.String()))
	}
	return nil
}

// DecrementFavorites mirrors IncrementFavorites.
func (c *CachedProductRepository) DecrementFavorites(ctx context.Context, id uuid.UUID) error {
	if err := c.inner.DecrementFavorites(ctx, id); err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Delete(ctx, cache.ProductByID(id.String()))
	}
	return nil
}

// invalidateProductCaches removes every key family that could hold stale
// data for p. The write already succeeded; problems here are logged and
// swallowed, staleness stays bounded by the TTLs.
func (c *CachedProductRepository) invalidateProductCaches(ctx context.Context, p *product.Product) {
	if c.cache == nil {
		return
	}
	c.cache.Delete(ctx, cache.ProductByID(p.ID.String()))
	c.cache.DeletePattern(ctx, cache.ProductCategoryPattern(p.CategoryID.String()))
	if p.CreatedBy != uuid.Nil {
		c.cache.DeletePattern(ctx, cache.ProductUserPattern(p.CreatedBy.String()))
	}
	c.invalidateListCaches(ctx)

	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"product_id": p.ID}).Debug("cache: invalidated product key families")
	}
}

func (c *CachedProductRepository) invalidateListCaches(ctx context.Context) {
	// Any list, search or filter result might have included this product.
	c.cache.DeletePattern(ctx, cache.ProductAllPattern)
	c.cache.DeletePattern(ctx, cache.ProductSearchPattern)
	c.cache.DeletePattern(ctx, cache.ProductFilterPattern)
}

// ClearProductCache drops the whole product namespace.
func (c *CachedProductRepository) ClearProductCache(ctx context.Context) {
	removed := c.cache.DeletePattern(ctx, cache.ProductPattern)
	if c.logger != nil {
		c.logger.WithField("removed", removed).Info("cache: product cache cleared")
	}
}

// WarmupCache pre-populates the first page of the default listing.
func (c *CachedProductRepository) WarmupCache(ctx context.Context) error {
	_, err := c.List(ctx, 1, 20, &product.Filter{})
	if err != nil && c.logger != nil {
		c.logger.WithError(err).Warn("cache: warmup failed")
	}
	return err
}

var _ ports.ProductRepository = (*CachedProductRepository)(nil)

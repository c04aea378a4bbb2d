package cache_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shamcart/storefront/internal/core/domain/product"
	"github.com/shamcart/storefront/internal/infrastructure/cache"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	require.Equal(t, "product", cache.Key("product"))
	require.Equal(t, "product:id:P1", cache.Key("product", "id", "P1"))
}

func TestFilterHash_KeyOrderIndependent(t *testing.T) {
	// Logically equal filters hash identically regardless of how the JSON
	// fields would be ordered by the caller.
	a := map[string]any{"a": 1, "b": 2}
	b := map[string]any{"b": 2, "a": 1}
	require.Equal(t, cache.FilterHash(a), cache.FilterHash(b))

	nested := map[string]any{"outer": map[string]any{"x": 1, "y": 2}}
	nested2 := map[string]any{"outer": map[string]any{"y": 2, "x": 1}}
	require.Equal(t, cache.FilterHash(nested), cache.FilterHash(nested2))
}

func TestFilterHash_DistinguishesValues(t *testing.T) {
	min1, min2 := 10.0, 20.0
	f1 := &product.Filter{MinPrice: &min1}
	f2 := &product.Filter{MinPrice: &min2}
	require.NotEqual(t, cache.FilterHash(f1), cache.FilterHash(f2))
}

func TestFilterHash_Stable(t *testing.T) {
	id := uuid.New()
	f := &product.Filter{Query: "shirt", CategoryID: &id, SortBy: product.SortNewest}
	h1 := cache.FilterHash(f)
	h2 := cache.FilterHash(f)
	require.Equal(t, h1, h2)
	require.Len(t, h1, 16)
}

func TestFilterHash_UnsetFieldsOmitted(t *testing.T) {
	// A nil pointer and an absent field are the same filter.
	require.Equal(t,
		cache.FilterHash(&product.Filter{Query: "shirt"}),
		cache.FilterHash(&product.Filter{Query: "shirt", MinPrice: nil}))
}

func TestKeyFamilies(t *testing.T) {
	require.Equal(t, "product:id:P1", cache.ProductByID("P1"))
	require.Equal(t, "product:category:C1:2:20", cache.ProductByCategory("C1", 2, 20))
	require.Equal(t, "product:user:U1:1:10", cache.ProductByUser("U1", 1, 10))
	require.Equal(t, "product:all:1:20:abc", cache.ProductAll(1, 20, "abc"))
	require.Equal(t, "product:search:h:1:20", cache.ProductSearch("h", 1, 20))
	require.Equal(t, "product:category:C1:*", cache.ProductCategoryPattern("C1"))
	require.Equal(t, "product:user:U1:*", cache.ProductUserPattern("U1"))
	require.Equal(t, "search:result:h:1:20", cache.SearchResult("h", 1, 20))
	require.Equal(t, "category:id:C1", cache.CategoryByID("C1"))
	require.Equal(t, "user:id:U1", cache.UserByID("U1"))
	require.Equal(t, "autocomplete:shi", cache.Autocomplete("shi"))
}

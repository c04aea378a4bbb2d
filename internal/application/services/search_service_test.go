package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	impl "github.com/shamcart/storefront/internal/application/services"
	"github.com/shamcart/storefront/internal/core/domain/product"
	"github.com/shamcart/storefront/internal/core/domain/search"
	"github.com/shamcart/storefront/internal/infrastructure/cache"
)

// searchRepoMock backs the search orchestrator with a canned listing.
type searchRepoMock struct {
	listCalls int
	listFn    func(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error)
}

func (m *searchRepoMock) Create(ctx context.Context, p *product.Product) error { return nil }
func (m *searchRepoMock) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return nil, nil
}
func (m *searchRepoMock) Update(ctx context.Context, p *product.Product) error { return nil }
func (m *searchRepoMock) Delete(ctx context.Context, id uuid.UUID) error       { return nil }
func (m *searchRepoMock) List(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx, page, limit, filter)
	}
	return &product.Page{Products: []*product.Product{}, Total: 0}, nil
}
func (m *searchRepoMock) ListByUser(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
	return &product.Page{}, nil
}
func (m *searchRepoMock) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*product.Product, error) {
	return nil, nil
}
func (m *searchRepoMock) Filter(ctx context.Context, params *product.Filter) ([]*product.Product, error) {
	return nil, nil
}
func (m *searchRepoMock) IncrementFavorites(ctx context.Context, id uuid.UUID) error { return nil }
func (m *searchRepoMock) DecrementFavorites(ctx context.Context, id uuid.UUID) error { return nil }

func newSearchService(repo *searchRepoMock) *impl.SearchService {
	store := cache.NewMemoryStore(1000, time.Hour, nil)
	return impl.NewSearchService(repo, store, nil)
}

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Shirt  ", "shirt"},
		{"shirt", "shirt"},
		{"RED   Shirt!!", "red shirt"},
		{"t-shirt", "t shirt"},
		{"قميص  أحمر", "قميص أحمر"},
		{"***", ""},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, impl.NormalizeQuery(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeQuery_Idempotent(t *testing.T) {
	once := impl.NormalizeQuery(" Red  SHIRT! ")
	require.Equal(t, once, impl.NormalizeQuery(once))
}

func TestValidateFilters_PriceBounds(t *testing.T) {
	min, max := 100.0, 10.0
	f := impl.ValidateFilters(&search.Filters{MinPrice: &min, MaxPrice: &max})
	require.Equal(t, 10.0, *f.MinPrice, "swapped bounds must be reordered")
	require.Equal(t, 100.0, *f.MaxPrice)

	neg := -5.0
	f = impl.ValidateFilters(&search.Filters{MinPrice: &neg})
	require.Nil(t, f.MinPrice, "negative price is dropped")
}

func TestValidateFilters_RatingClamped(t *testing.T) {
	high := 9.5
	f := impl.ValidateFilters(&search.Filters{Rating: &high})
	require.Equal(t, 5.0, *f.Rating)

	low := -1.0
	f = impl.ValidateFilters(&search.Filters{Rating: &low})
	require.Equal(t, 0.0, *f.Rating)
}

func TestValidateFilters_ArraysAndSort(t *testing.T) {
	f := impl.ValidateFilters(&search.Filters{
		Sizes:  []string{"M", " ", "", "L"},
		SortBy: "bogus",
	})
	require.Equal(t, []string{"M", "L"}, f.Sizes)
	require.Equal(t, product.SortBy(""), f.SortBy)

	f = impl.ValidateFilters(&search.Filters{SortBy: product.SortPriceAsc})
	require.Equal(t, product.SortPriceAsc, f.SortBy)

	require.NotNil(t, impl.ValidateFilters(nil))
}

func TestNormalizeOptions(t *testing.T) {
	// An absent limit means the default page size, not a page of one.
	o := impl.NormalizeOptions(&search.Options{Page: 0, Limit: 0})
	require.Equal(t, 1, o.Page)
	require.Equal(t, 20, o.Limit)

	o = impl.NormalizeOptions(&search.Options{Page: -3, Limit: 500})
	require.Equal(t, 1, o.Page)
	require.Equal(t, 100, o.Limit)

	o = impl.NormalizeOptions(&search.Options{Page: 2, Limit: 10})
	require.Equal(t, 2, o.Page)
	require.Equal(t, 10, o.Limit)

	o = impl.NormalizeOptions(nil)
	require.Equal(t, 1, o.Page)
	require.Equal(t, 20, o.Limit)
}

func TestSearch_PaginationMath(t *testing.T) {
	ctx := context.Background()
	repo := &searchRepoMock{
		listFn: func(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
			return &product.Page{Products: make([]*product.Product, limit), Total: 95}, nil
		},
	}
	svc := newSearchService(repo)

	result, err := svc.Search(ctx, "shirt", nil, &search.Options{Page: 2, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 95, result.Total)
	require.Equal(t, 5, result.TotalPages)
	require.Equal(t, 2, result.Page)
	require.True(t, result.HasNextPage)
	require.True(t, result.HasPrevPage)

	result, err = svc.Search(ctx, "shirt", nil, &search.Options{Page: 5, Limit: 20})
	require.NoError(t, err)
	require.False(t, result.HasNextPage)
	require.True(t, result.HasPrevPage)

	result, err = svc.Search(ctx, "shirt", nil, &search.Options{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.False(t, result.HasPrevPage)
}

func TestSearch_CacheHitSkipsRepository(t *testing.T) {
	ctx := context.Background()
	repo := &searchRepoMock{
		listFn: func(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
			return &product.Page{Products: []*product.Product{{Name: "Shirt"}}, Total: 1}, nil
		},
	}
	svc := newSearchService(repo)

	first, err := svc.Search(ctx, "shirt", nil, &search.Options{Page: 1, Limit: 20})
	require.NoError(t, err)
	second, err := svc.Search(ctx, "  SHIRT  ", nil, &search.Options{Page: 1, Limit: 20})
	require.NoError(t, err)

	require.Equal(t, first.Total, second.Total)
	require.Equal(t, 1, repo.listCalls, "normalized-equal queries share one cache entry")
}

func TestSearch_DifferentPagesDifferentEntries(t *testing.T) {
	ctx := context.Background()
	repo := &searchRepoMock{}
	svc := newSearchService(repo)

	_, err := svc.Search(ctx, "shirt", nil, &search.Options{Page: 1, Limit: 20})
	require.NoError(t, err)
	_, err = svc.Search(ctx, "shirt", nil, &search.Options{Page: 2, Limit: 20})
	require.NoError(t, err)

	require.Equal(t, 2, repo.listCalls)
}

func TestSearch_SuggestionsOnEmptyResult(t *testing.T) {
	ctx := context.Background()
	repo := &searchRepoMock{
		listFn: func(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
			if filter.SortBy == product.SortPopularity {
				return &product.Page{Products: []*product.Product{
					{Name: "Red Shirt"},
					{Name: "Blue Shirt"},
					{Name: "Socks"},
				}, Total: 3}, nil
			}
			return &product.Page{Products: []*product.Product{}, Total: 0}, nil
		},
	}
	svc := newSearchService(repo)

	result, err := svc.Search(ctx, "shirt", nil, &search.Options{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 0, result.Total)
	require.ElementsMatch(t, []string{"red shirt", "blue shirt"}, result.Suggestions)
}

func TestSearch_NoSuggestionsForBlankQuery(t *testing.T) {
	ctx := context.Background()
	repo := &searchRepoMock{}
	svc := newSearchService(repo)

	result, err := svc.Search(ctx, "", nil, &search.Options{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Empty(t, result.Suggestions)
}

func TestAutocomplete_ShortQuery(t *testing.T) {
	ctx := context.Background()
	repo := &searchRepoMock{}
	svc := newSearchService(repo)

	names, err := svc.GetAutocompleteSuggestions(ctx, "s", 10)
	require.NoError(t, err)
	require.Empty(t, names)
	require.Equal(t, 0, repo.listCalls, "short queries never reach the repository")
}

func TestAutocomplete_MatchesAndCaches(t *testing.T) {
	ctx := context.Background()
	repo := &searchRepoMock{
		listFn: func(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
			return &product.Page{Products: []*product.Product{
				{Name: "Red Shirt"},
				{Name: "Shirt Classic"},
				{Name: "Socks"},
				{Name: "Red Shirt"}, // duplicate name is deduplicated
			}, Total: 4}, nil
		},
	}
	svc := newSearchService(repo)

	names, err := svc.GetAutocompleteSuggestions(ctx, "shirt", 10)
	require.NoError(t, err)
	require.Equal(t, []string{"Red Shirt", "Shirt Classic"}, names)

	_, err = svc.GetAutocompleteSuggestions(ctx, "Shirt", 10)
	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls, "second lookup is served from the cache")
}

func TestAutocomplete_LimitApplied(t *testing.T) {
	ctx := context.Background()
	repo := &searchRepoMock{
		listFn: func(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
			return &product.Page{Products: []*product.Product{
				{Name: "Shirt A"}, {Name: "Shirt B"}, {Name: "Shirt C"},
			}, Total: 3}, nil
		},
	}
	svc := newSearchService(repo)

	names, err := svc.GetAutocompleteSuggestions(ctx, "shirt", 2)
	require.NoError(t, err)
	require.Len(t, names, 2)
}

func TestSearchAnalytics_Summary(t *testing.T) {
	ctx := context.Background()
	repo := &searchRepoMock{
		listFn: func(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
			if filter.Query == "unicorn" {
				return &product.Page{Products: []*product.Product{}, Total: 0}, nil
			}
			return &product.Page{Products: []*product.Product{{Name: "Shirt"}}, Total: 1}, nil
		},
	}
	svc := newSearchService(repo)

	for i := 0; i < 3; i++ {
		// Distinct pages so each call reaches the repository and is recorded.
		_, err := svc.Search(ctx, "shirt", nil, &search.Options{Page: i + 1, Limit: 10})
		require.NoError(t, err)
	}
	_, err := svc.Search(ctx, "unicorn", nil, &search.Options{Page: 1, Limit: 10})
	require.NoError(t, err)

	summary, err := svc.GetSearchAnalytics(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 4, summary.TotalSearches)
	require.Equal(t, []string{"shirt", "unicorn"}, summary.PopularQueries)
	require.Equal(t, []string{"unicorn"}, summary.NoResultQueries)
}

func TestSearchAnalytics_EmptyLog(t *testing.T) {
	ctx := context.Background()
	svc := newSearchService(&searchRepoMock{})

	summary, err := svc.GetSearchAnalytics(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 0, summary.TotalSearches)
	require.Empty(t, summary.PopularQueries)
}

func TestClearSearchCache(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(1000, time.Hour, nil)
	repo := &searchRepoMock{}
	svc := impl.NewSearchService(repo, store, nil)

	_, err := svc.Search(ctx, "shirt", nil, &search.Options{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.NoError(t, svc.ClearSearchCache(ctx))

	_, err = svc.Search(ctx, "shirt", nil, &search.Options{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 2, repo.listCalls, "cleared entries force a re-read")
}

package services

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/shamcart/storefront/internal/core/domain/product"
	"github.com/shamcart/storefront/internal/core/domain/search"
	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/shamcart/storefront/internal/infrastructure/cache"
)

const (
	searchResultTTL    = 5 * time.Minute
	popularTermsTTL    = 1 * time.Hour
	autocompleteTTL    = 1 * time.Hour
	analyticsTTL       = 7 * 24 * time.Hour
	frequencyTTL       = 24 * time.Hour
	maxSuggestions     = 5
	maxAnalyticsLog    = 500
	popularTermsLimit  = 50
	defaultSearchLimit = 20
)

// queryAllowed keeps alphanumerics and the Arabic script range; everything
// else is punctuation as far as search text is concerned.
var (
	queryStrip    = regexp.MustCompile(`[^a-z0-9\x{0600}-\x{06FF} ]+`)
	queryCollapse = regexp.MustCompile(`\s+`)
)

// SearchService turns free-text queries plus structured filters into cached,
// paginated results, with suggestion and analytics side effects.
type SearchService struct {
	products ports.ProductRepository
	cache    ports.CacheStore
	logger   *logrus.Logger
	group    singleflight.Group
}

func NewSearchService(products ports.ProductRepository, cacheStore ports.CacheStore, logger *logrus.Logger) *SearchService {
	return &SearchService{products: products, cache: cacheStore, logger: logger}
}

// NormalizeQuery lowercases, strips punctuation and collapses whitespace, so
// queries differing only in case or spacing share one cache entry.
func NormalizeQuery(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	q = queryStrip.ReplaceAllString(q, " ")
	q = queryCollapse.ReplaceAllString(q, " ")
	return strings.TrimSpace(q)
}

// ValidateFilters corrects invalid filter values in place rather than
// rejecting them: negative prices are dropped, swapped bounds reordered,
// ratings clamped to [0,5], blank array entries removed and unknown sort
// values silently discarded.
func ValidateFilters(f *search.Filters) *search.Filters {
	if f == nil {
		return &search.Filters{}
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		f.MinPrice = nil
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		f.MaxPrice = nil
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		f.MinPrice, f.MaxPrice = f.MaxPrice, f.MinPrice
	}
	if f.Rating != nil {
		r := math.Min(math.Max(*f.Rating, 0), 5)
		f.Rating = &r
	}
	f.Sizes = dropBlank(f.Sizes)
	f.Colors = dropBlank(f.Colors)
	f.Brands = dropBlank(f.Brands)
	if f.SortBy != "" && !f.SortBy.IsValid() {
		f.SortBy = ""
	}
	return f
}

// NormalizeOptions clamps pagination to page >= 1 and limit in [1,100]. An
// absent limit falls back to the default page size before clamping.
func NormalizeOptions(o *search.Options) *search.Options {
	if o == nil {
		o = &search.Options{}
	}
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = defaultSearchLimit
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	return o
}

func dropBlank(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := values[:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *SearchService) Search(ctx context.Context, query string, filters *search.Filters, options *search.Options) (*search.Result, error) {
	start := time.Now()

	normalized := NormalizeQuery(query)
	filters = ValidateFilters(filters)
	options = NormalizeOptions(options)

	queryHash := cache.FilterHash(struct {
		Query   string          `json:"query"`
		Filters *search.Filters `json:"filters"`
	}{normalized, filters})
	key := cache.SearchResult(queryHash, options.Page, options.Limit)

	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached search.Result
		if err := json.Unmarshal(raw, &cached); err == nil {
			// Served from cache; searchTime still reflects this call.
			cached.SearchTimeMs = time.Since(start).Milliseconds()
			return &cached, nil
		}
		if s.logger != nil {
			s.logger.WithField("key", key).Warn("search: corrupt cached result, refetching")
		}
	}

	page, err := s.products.List(ctx, options.Page, options.Limit, s.toProductFilter(normalized, filters, options))
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if page.Total > 0 {
		totalPages = int(math.Ceil(float64(page.Total) / float64(options.Limit)))
	}
	result := &search.Result{
		Products:     page.Products,
		Total:        page.Total,
		Page:         options.Page,
		TotalPages:   totalPages,
		HasNextPage:  options.Page < totalPages,
		HasPrevPage:  options.Page > 1,
		Filters:      *filters,
		SearchTimeMs: time.Since(start).Milliseconds(),
	}
	if page.Total == 0 && normalized != "" {
		result.Suggestions = s.suggestions(ctx, normalized)
	}

	if raw, err := json.Marshal(result); err == nil {
		s.cache.Set(ctx, key, raw, searchResultTTL)
	}

	s.recordAnalytics(ctx, normalized, filters, result)
	return result, nil
}

// toProductFilter translates the validated search filters into the product
// repository's structured filter.
func (s *SearchService) toProductFilter(query string, f *search.Filters, o *search.Options) *product.Filter {
	pf := &product.Filter{
		Query:           query,
		Sizes:           f.Sizes,
		Colors:          f.Colors,
		Brands:          f.Brands,
		MinPrice:        f.MinPrice,
		MaxPrice:        f.MaxPrice,
		InStock:         f.InStock,
		MinRating:       f.Rating,
		SortBy:          f.SortBy,
		IncludeInactive: o.IncludeInactive,
	}
	if f.Category != "" {
		if id, err := uuid.Parse(f.Category); err == nil {
			pf.CategoryID = &id
		}
	}
	return pf
}

// suggestions matches the query against the cached popular-term list. A term
// qualifies when either string contains the other.
func (s *SearchService) suggestions(ctx context.Context, query string) []string {
	terms := s.popularTerms(ctx)
	out := []string{}
	for _, term := range terms {
		if term == query {
			continue
		}
		if strings.Contains(term, query) || strings.Contains(query, term) {
			out = append(out, term)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

// popularTerms returns the cached list of popular product names, refreshed
// at most once per TTL. Concurrent refreshes are coalesced.
func (s *SearchService) popularTerms(ctx context.Context) []string {
	v, err, _ := s.group.Do(cache.PopularTermsKey, func() (any, error) {
		raw, err := s.cache.GetOrSet(ctx, cache.PopularTermsKey, popularTermsTTL, func(ctx context.Context) ([]byte, error) {
			page, err := s.products.List(ctx, 1, popularTermsLimit, &product.Filter{SortBy: product.SortPopularity})
			if err != nil {
				return nil, err
			}
			seen := map[string]struct{}{}
			terms := []string{}
			for _, p := range page.Products {
				for _, name := range []string{p.Name, p.NameAr} {
					t := NormalizeQuery(name)
					if t == "" {
						continue
					}
					if _, dup := seen[t]; dup {
						continue
					}
					seen[t] = struct{}{}
					terms = append(terms, t)
				}
			}
			return json.Marshal(terms)
		})
		if err != nil {
			return nil, err
		}
		var terms []string
		if err := json.Unmarshal(raw, &terms); err != nil {
			return nil, err
		}
		return terms, nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("search: failed to load popular terms")
		}
		return nil
	}
	return v.([]string)
}

// GetAutocompleteSuggestions returns up to limit product names matching the
// query. Queries shorter than two characters short-circuit to an empty list.
func (s *SearchService) GetAutocompleteSuggestions(ctx context.Context, query string, limit int) ([]string, error) {
	normalized := NormalizeQuery(query)
	if len([]rune(normalized)) < 2 {
		return []string{}, nil
	}
	if limit < 1 {
		limit = maxSuggestions
	}

	key := cache.Autocomplete(normalized)
	v, err, _ := s.group.Do(key, func() (any, error) {
		raw, err := s.cache.GetOrSet(ctx, key, autocompleteTTL, func(ctx context.Context) ([]byte, error) {
			// Oversized candidate set so the unique-name cap still fills.
			page, err := s.products.List(ctx, 1, 100, &product.Filter{Query: normalized})
			if err != nil {
				return nil, err
			}
			seen := map[string]struct{}{}
			names := []string{}
			for _, p := range page.Products {
				for _, name := range []string{p.Name, p.NameAr} {
					if name == "" || !strings.Contains(strings.ToLower(name), normalized) {
						continue
					}
					if _, dup := seen[name]; dup {
						continue
					}
					seen[name] = struct{}{}
					names = append(names, name)
				}
			}
			return json.Marshal(names)
		})
		if err != nil {
			return nil, err
		}
		var names []string
		if err := json.Unmarshal(raw, &names); err != nil {
			return nil, err
		}
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	names := v.([]string)
	if len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

// recordAnalytics appends a record to the rolling analytics log and bumps
// the query's frequency counter. Failures never affect the search response.
func (s *SearchService) recordAnalytics(ctx context.Context, query string, filters *search.Filters, result *search.Result) {
	record := search.AnalyticsRecord{
		Query:        query,
		Filters:      *filters,
		ResultCount:  result.Total,
		SearchTimeMs: result.SearchTimeMs,
		Timestamp:    time.Now(),
	}

	log := []search.AnalyticsRecord{}
	if raw, ok := s.cache.Get(ctx, cache.SearchAnalyticsKey); ok {
		if err := json.Unmarshal(raw, &log); err != nil {
			log = nil
		}
	}
	log = append(log, record)
	if len(log) > maxAnalyticsLog {
		log = log[len(log)-maxAnalyticsLog:]
	}
	if raw, err := json.Marshal(log); err == nil {
		s.cache.Set(ctx, cache.SearchAnalyticsKey, raw, analyticsTTL)
	}

	if query != "" {
		s.cache.Increment(ctx, cache.SearchFrequency(query), 1)
		s.cache.Expire(ctx, cache.SearchFrequency(query), frequencyTTL)
	}
}

// GetSearchAnalytics summarizes the analytics log over the last days days.
func (s *SearchService) GetSearchAnalytics(ctx context.Context, days int) (*search.AnalyticsSummary, error) {
	if days < 1 {
		days = 7
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	log := []search.AnalyticsRecord{}
	if raw, ok := s.cache.Get(ctx, cache.SearchAnalyticsKey); ok {
		if err := json.Unmarshal(raw, &log); err != nil {
			log = nil
		}
	}

	summary := &search.AnalyticsSummary{
		PopularQueries:  []string{},
		NoResultQueries: []string{},
	}
	counts := map[string]int{}
	noResult := map[string]struct{}{}
	var totalTime int64
	for _, r := range log {
		if r.Timestamp.Before(cutoff) {
			continue
		}
		summary.TotalSearches++
		totalTime += r.SearchTimeMs
		if r.Query == "" {
			continue
		}
		counts[r.Query]++
		if r.ResultCount == 0 {
			noResult[r.Query] = struct{}{}
		}
	}
	if summary.TotalSearches > 0 {
		summary.AverageSearchTimeMs = float64(totalTime) / float64(summary.TotalSearches)
	}

	type freq struct {
		query string
		count int
	}
	ranked := make([]freq, 0, len(counts))
	for q, c := range counts {
		ranked = append(ranked, freq{q, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].query < ranked[j].query
	})
	for i, f := range ranked {
		if i == 10 {
			break
		}
		summary.PopularQueries = append(summary.PopularQueries, f.query)
	}
	for q := range noResult {
		summary.NoResultQueries = append(summary.NoResultQueries, q)
	}
	sort.Strings(summary.NoResultQueries)
	return summary, nil
}

// ClearSearchCache drops every search and autocomplete entry.
func (s *SearchService) ClearSearchCache(ctx context.Context) error {
	removed := s.cache.DeletePattern(ctx, cache.SearchPattern)
	removed += s.cache.DeletePattern(ctx, cache.AutocompletePrefix)
	if s.logger != nil {
		s.logger.WithField("removed", removed).Info("search: cache cleared")
	}
	return nil
}

var _ ports.SearchService = (*SearchService)(nil)

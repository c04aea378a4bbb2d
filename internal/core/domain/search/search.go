package search

import (
	"time"

	"github.com/shamcart/storefront/internal/core/domain/product"
)

// Filters is the structured filter set accepted by the search endpoints.
// Invalid values are corrected rather than rejected: negative prices are
// dropped, swapped bounds are reordered, ratings are clamped to [0,5] and
// unknown sort values fall back to no explicit sort.
type Filters struct {
	Category string         `json:"category,omitempty"`
	MinPrice *float64       `json:"min_price,omitempty"`
	MaxPrice *float64       `json:"max_price,omitempty"`
	Sizes    []string       `json:"sizes,omitempty"`
	Colors   []string       `json:"colors,omitempty"`
	Brands   []string       `json:"brands,omitempty"`
	InStock  *bool          `json:"in_stock,omitempty"`
	Rating   *float64       `json:"rating,omitempty"`
	SortBy   product.SortBy `json:"sort_by,omitempty"`
}

type Options struct {
	Page            int  `json:"page"`
	Limit           int  `json:"limit"`
	IncludeInactive bool `json:"include_inactive"`
	FuzzySearch     bool `json:"fuzzy_search"`
}

// Result is the composed, cacheable search response. SearchTimeMs is always
// the elapsed time of the current call, recomputed on cache hits.
type Result struct {
	Products     []*product.Product `json:"products"`
	Total        int                `json:"total"`
	Page         int                `json:"page"`
	TotalPages   int                `json:"total_pages"`
	HasNextPage  bool               `json:"has_next_page"`
	HasPrevPage  bool               `json:"has_prev_page"`
	Filters      Filters            `json:"filters"`
	SearchTimeMs int64              `json:"search_time_ms"`
	Suggestions  []string           `json:"suggestions,omitempty"`
}

// AnalyticsRecord is the short-lived per-search record kept in the cache.
type AnalyticsRecord struct {
	Query        string    `json:"query"`
	Filters      Filters   `json:"filters"`
	ResultCount  int       `json:"result_count"`
	SearchTimeMs int64     `json:"search_time_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

type AnalyticsSummary struct {
	TotalSearches       int      `json:"total_searches"`
	AverageSearchTimeMs float64  `json:"average_search_time_ms"`
	PopularQueries      []string `json:"popular_queries"`
	NoResultQueries     []string `json:"no_result_queries"`
}

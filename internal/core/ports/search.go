package ports

import (
	"context"

	"github.com/shamcart/storefront/internal/core/domain/search"
)

// SearchService defines the interface for product search
type SearchService interface {
	Search(ctx context.Context, query string, filters *search.Filters, options *search.Options) (*search.Result, error)
	GetAutocompleteSuggestions(ctx context.Context, query string, limit int) ([]string, error)
	GetSearchAnalytics(ctx context.Context, days int) (*search.AnalyticsSummary, error)
	ClearSearchCache(ctx context.Context) error
}

package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shamcart/storefront/internal/core/domain/product"
	"github.com/shamcart/storefront/internal/core/domain/search"
)

// Search handlers

func (s *Server) search(c echo.Context) error {
	query := c.QueryParam("q")

	filters := &search.Filters{
		Category: c.QueryParam("category_id"),
		SortBy:   product.SortBy(c.QueryParam("sort_by")),
	}
	if v := c.QueryParam("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MinPrice = &p
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MaxPrice = &p
		}
	}
	if v := c.QueryParam("sizes"); v != "" {
		filters.Sizes = strings.Split(v, ",")
	}
	if v := c.QueryParam("colors"); v != "" {
		filters.Colors = strings.Split(v, ",")
	}
	if v := c.QueryParam("brands"); v != "" {
		filters.Brands = strings.Split(v, ",")
	}
	if v := c.QueryParam("in_stock"); v != "" {
		inStock := v == "true" || v == "1"
		filters.InStock = &inStock
	}
	if v := c.QueryParam("rating"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			filters.Rating = &r
		}
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	options := &search.Options{Page: page, Limit: limit}

	result, err := s.searchSvc.Search(c.Request().Context(), query, filters, options)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) autocomplete(c echo.Context) error {
	query := c.QueryParam("q")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	suggestions, err := s.searchSvc.GetAutocompleteSuggestions(c.Request().Context(), query, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "autocomplete failed")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

func (s *Server) searchAnalytics(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	summary, err := s.searchSvc.GetSearchAnalytics(c.Request().Context(), days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load search analytics")
	}
	return c.JSON(http.StatusOK, summary)
}

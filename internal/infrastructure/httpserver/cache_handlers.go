package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Cache admin handlers

func (s *Server) cacheStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.cacheStore.Stats())
}

// invalidateCachePattern bulk-deletes one key family, e.g. product:all:*.
func (s *Server) invalidateCachePattern(c echo.Context) error {
	pattern := c.QueryParam("pattern")
	if pattern == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing pattern parameter")
	}

	removed := s.cacheStore.DeletePattern(c.Request().Context(), pattern)
	if s.logger != nil {
		s.logger.WithField("pattern", pattern).WithField("removed", removed).Info("cache pattern invalidated")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"pattern": pattern,
		"removed": removed,
	})
}

func (s *Server) clearSearchCache(c echo.Context) error {
	if err := s.searchSvc.ClearSearchCache(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear search cache")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "search cache cleared"})
}

func (s *Server) clearCache(c echo.Context) error {
	s.cacheStore.Clear()
	if s.logger != nil {
		s.logger.Warn("cache fully cleared")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "cache cleared"})
}

package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shamcart/storefront/internal/infrastructure/httpserver/helpers"
)

// Wishlist handlers

func (s *Server) listWishlist(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	products, err := s.wishlistSvc.ListProducts(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load wishlist")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    len(products),
	})
}

func (s *Server) addToWishlist(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := s.wishlistSvc.AddProduct(c.Request().Context(), userID, productID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "added to wishlist"})
}

func (s *Server) toggleWishlist(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	inWishlist, err := s.wishlistSvc.ToggleProduct(c.Request().Context(), userID, productID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"in_wishlist": inWishlist})
}

func (s *Server) removeFromWishlist(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := s.wishlistSvc.RemoveProduct(c.Request().Context(), userID, productID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to remove from wishlist")
	}
	return c.NoContent(http.StatusNoContent)
}

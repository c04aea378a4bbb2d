package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shamcart/storefront/internal/core/domain/product"
	"github.com/shamcart/storefront/internal/infrastructure/httpserver/helpers"
)

// Product handlers

func (s *Server) createProduct(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req product.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := s.productSvc.CreateProduct(c.Request().Context(), &req, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) getProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := s.productSvc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) updateProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req product.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Vendors can only update their own products.
	if !helpers.IsAdmin(c) {
		userID, err := helpers.GetUserIDFromContext(c)
		if err != nil {
			return err
		}
		existing, err := s.productSvc.GetProduct(c.Request().Context(), id)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		if existing.CreatedBy != userID {
			return echo.NewHTTPError(http.StatusForbidden, "you can only update your own products")
		}
	}

	p, err := s.productSvc.UpdateProduct(c.Request().Context(), id, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if !helpers.IsAdmin(c) {
		userID, err := helpers.GetUserIDFromContext(c)
		if err != nil {
			return err
		}
		existing, err := s.productSvc.GetProduct(c.Request().Context(), id)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		if existing.CreatedBy != userID {
			return echo.NewHTTPError(http.StatusForbidden, "you can only delete your own products")
		}
	}

	if err := s.productSvc.DeleteProduct(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listProducts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := s.productSvc.ListProducts(c.Request().Context(), page, limit, productFilterFromQuery(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list products")
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) filterProducts(c echo.Context) error {
	products, err := s.productSvc.FilterProducts(c.Request().Context(), productFilterFromQuery(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to filter products")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    len(products),
	})
}

func (s *Server) listCategoryProducts(c echo.Context) error {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	products, err := s.productSvc.ListCategoryProducts(c.Request().Context(), categoryID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list products")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    len(products),
	})
}

// productFilterFromQuery maps list/filter query parameters onto the
// structured product filter.
func productFilterFromQuery(c echo.Context) *product.Filter {
	f := &product.Filter{Query: c.QueryParam("q")}

	if v := c.QueryParam("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.CategoryID = &id
		}
	}
	if v := c.QueryParam("sizes"); v != "" {
		f.Sizes = strings.Split(v, ",")
	}
	if v := c.QueryParam("colors"); v != "" {
		f.Colors = strings.Split(v, ",")
	}
	if v := c.QueryParam("brands"); v != "" {
		f.Brands = strings.Split(v, ",")
	}
	if v := c.QueryParam("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}
	if v := c.QueryParam("in_stock"); v != "" {
		inStock := v == "true" || v == "1"
		f.InStock = &inStock
	}
	if v := c.QueryParam("min_rating"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinRating = &r
		}
	}
	f.SortBy = product.SortBy(c.QueryParam("sort_by"))
	if !f.SortBy.IsValid() {
		f.SortBy = ""
	}
	return f
}

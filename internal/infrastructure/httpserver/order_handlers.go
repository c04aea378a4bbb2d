package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shamcart/storefront/internal/core/domain/order"
	"github.com/shamcart/storefront/internal/infrastructure/httpserver/helpers"
)

// Order handlers

func (s *Server) createOrder(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req order.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	o, err := s.orderSvc.CreateOrder(c.Request().Context(), userID, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, o)
}

func (s *Server) getOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	o, err := s.orderSvc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	// Customers can only see their own orders.
	if !helpers.IsAdmin(c) {
		userID, err := helpers.GetUserIDFromContext(c)
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return echo.NewHTTPError(http.StatusForbidden, "not your order")
		}
	}
	return c.JSON(http.StatusOK, o)
}

func (s *Server) getOrderByNumber(c echo.Context) error {
	orderNumber := c.Param("orderNumber")
	if orderNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order number")
	}

	o, err := s.orderSvc.GetOrderByNumber(c.Request().Context(), orderNumber)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	if !helpers.IsAdmin(c) {
		userID, err := helpers.GetUserIDFromContext(c)
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return echo.NewHTTPError(http.StatusForbidden, "not your order")
		}
	}
	return c.JSON(http.StatusOK, o)
}

func (s *Server) updateOrderPaymentStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req order.UpdatePaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	o, err := s.orderSvc.UpdatePaymentStatus(c.Request().Context(), id, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}

func (s *Server) updateOrderStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req order.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	o, err := s.orderSvc.UpdateOrderStatus(c.Request().Context(), id, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}

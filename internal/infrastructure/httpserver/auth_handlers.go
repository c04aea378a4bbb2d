package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shamcart/storefront/internal/core/domain/auth"
	"github.com/shamcart/storefront/internal/core/domain/user"
	"github.com/shamcart/storefront/internal/infrastructure/httpserver/helpers"
)

// Auth handlers

func (s *Server) register(c echo.Context) error {
	var req user.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := s.userService.Register(c.Request().Context(), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusCreated, u)
}

func (s *Server) login(c echo.Context) error {
	var req user.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tokens, u, err := s.authSvc.Login(c.Request().Context(), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tokens": tokens,
		"user":   u,
	})
}

func (s *Server) refreshToken(c echo.Context) error {
	var req auth.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tokens, err := s.authSvc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	return c.JSON(http.StatusOK, tokens)
}

func (s *Server) logout(c echo.Context) error {
	token, err := helpers.GetJWTTokenFromContext(c)
	if err != nil {
		return err
	}
	if err := s.authSvc.Logout(c.Request().Context(), token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to logout")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) verifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		var req user.VerifyEmailRequest
		if err := c.Bind(&req); err != nil || req.Token == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "missing verification token")
		}
		token = req.Token
	}

	u, err := s.userService.VerifyEmail(c.Request().Context(), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "email verified",
		"user":    u,
	})
}

func (s *Server) resendVerification(c echo.Context) error {
	var req user.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := s.userService.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to resend verification email")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "verification email sent"})
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req user.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := s.userService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to start password reset")
	}
	// Deliberately identical response whether or not the address exists.
	return c.JSON(http.StatusOK, map[string]string{"message": "if the address exists, a reset email has been sent"})
}

func (s *Server) resetPassword(c echo.Context) error {
	var req user.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := s.userService.ResetPassword(c.Request().Context(), &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password reset"})
}

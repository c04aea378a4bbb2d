package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/user"
	"github.com/shamcart/storefront/internal/infrastructure/httpserver/helpers"
)

type RoleMiddleware struct {
	logger *logrus.Logger
}

func NewRoleMiddleware(logger *logrus.Logger) *RoleMiddleware {
	return &RoleMiddleware{logger: logger}
}

// RequireRole restricts a route to the given roles. Runs after RequireJWT.
func (m *RoleMiddleware) RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, err := helpers.GetUserRoleFromContext(c)
			if err != nil {
				return err
			}
			if _, ok := allowed[role]; !ok {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"role": role, "path": c.Request().URL.Path}).Warn("role not permitted")
				}
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}
			return next(c)
		}
	}
}

package helpers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/shamcart/storefront/internal/core/domain/user"
	"github.com/shamcart/storefront/internal/infrastructure/httpserver/helpers"
)

func newTestContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestGetUserIDFromContext(t *testing.T) {
	c := newTestContext(t)

	_, err := helpers.GetUserIDFromContext(c)
	require.Error(t, err, "missing context must be rejected")

	id := uuid.New()
	helpers.SetUserID(c, id)
	got, err := helpers.GetUserIDFromContext(c)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestGetUserRoleFromContext(t *testing.T) {
	c := newTestContext(t)

	_, err := helpers.GetUserRoleFromContext(c)
	require.Error(t, err)

	helpers.SetUserRole(c, user.RoleVendor)
	got, err := helpers.GetUserRoleFromContext(c)
	require.NoError(t, err)
	require.Equal(t, user.RoleVendor, got)
}

func TestIsAdmin(t *testing.T) {
	c := newTestContext(t)
	require.False(t, helpers.IsAdmin(c))

	helpers.SetUserRole(c, user.RoleCustomer)
	require.False(t, helpers.IsAdmin(c))

	helpers.SetUserRole(c, user.RoleAdmin)
	require.True(t, helpers.IsAdmin(c))
}

func TestGetJWTTokenFromContext(t *testing.T) {
	c := newTestContext(t)
	_, err := helpers.GetJWTTokenFromContext(c)
	require.Error(t, err, "missing header")

	c.Request().Header.Set("Authorization", "Basic abc")
	_, err = helpers.GetJWTTokenFromContext(c)
	require.Error(t, err, "non-bearer scheme")

	c.Request().Header.Set("Authorization", "Bearer ")
	_, err = helpers.GetJWTTokenFromContext(c)
	require.Error(t, err, "empty token")

	c.Request().Header.Set("Authorization", "Bearer tok123")
	token, err := helpers.GetJWTTokenFromContext(c)
	require.NoError(t, err)
	require.Equal(t, "tok123", token)
}

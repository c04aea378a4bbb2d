package ports

import (
	"context"

	"github.com/shamcart/storefront/internal/core/domain/auth"
	"github.com/shamcart/storefront/internal/core/domain/user"
)

// AuthService defines the interface for authentication
type AuthService interface {
	Login(ctx context.Context, req *user.LoginRequest) (*auth.TokenPair, *user.User, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	// Logout blacklists the access token for its remaining lifetime.
	Logout(ctx context.Context, accessToken string) error
	ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error)
}

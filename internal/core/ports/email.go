package ports

import (
	"context"

	"github.com/shamcart/storefront/internal/core/domain/order"
	"github.com/shamcart/storefront/internal/core/domain/user"
)

// EmailService defines the interface for transactional email
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, u *user.User) error
	SendVerificationEmail(ctx context.Context, u *user.User, token string) error
	SendPasswordResetEmail(ctx context.Context, u *user.User, token string) error
	SendPasswordResetSuccessEmail(ctx context.Context, u *user.User) error
	SendOrderConfirmationEmail(ctx context.Context, u *user.User, o *order.Order) error
}

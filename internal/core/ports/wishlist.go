package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shamcart/storefront/internal/core/domain/product"
)

// WishlistRepository defines the interface for wishlist data operations
type WishlistRepository interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// WishlistService defines the interface for wishlist business logic
type WishlistService interface {
	AddProduct(ctx context.Context, userID, productID uuid.UUID) error
	RemoveProduct(ctx context.Context, userID, productID uuid.UUID) error
	// ToggleProduct adds the product if absent, removes it if present, and
	// reports whether it ended up in the wishlist.
	ToggleProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	ListProducts(ctx context.Context, userID uuid.UUID) ([]*product.Product, error)
}

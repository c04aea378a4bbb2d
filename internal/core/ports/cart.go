package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shamcart/storefront/internal/core/domain/cart"
)

// CartRepository defines the interface for cart data operations
type CartRepository interface {
	// GetOrCreate returns the user's cart with its items, creating an empty
	// cart on first use.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	AddItem(ctx context.Context, item *cart.Item) error
	FindItem(ctx context.Context, cartID, productID uuid.UUID, size, color string) (*cart.Item, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	Clear(ctx context.Context, cartID uuid.UUID) error
}

// CartService defines the interface for cart business logic
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *cart.AddItemRequest) (*cart.Cart, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *cart.UpdateItemRequest) (*cart.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*cart.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

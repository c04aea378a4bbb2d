package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shamcart/storefront/internal/core/domain/order"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*order.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status order.PaymentStatus) error
}

// OrderService defines the interface for order business logic
type OrderService interface {
	// CreateOrder turns the user's cart into an order, decrements stock and
	// clears the cart.
	CreateOrder(ctx context.Context, userID uuid.UUID, req *order.CreateOrderRequest) (*order.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*order.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*order.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, req *order.UpdateStatusRequest) (*order.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req *order.UpdatePaymentStatusRequest) (*order.Order, error)
}

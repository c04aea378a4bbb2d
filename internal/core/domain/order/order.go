package order

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo enforces the order lifecycle: forward-only through the
// fulfilment states, cancellable until shipped.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered
	default:
		return false
	}
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentOnline:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	default:
		return false
	}
}

type Order struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	OrderNumber   string        `json:"order_number" db:"order_number"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	Items         []*Item       `json:"items"`
	Total         float64       `json:"total" db:"total"`
	Status        Status        `json:"status" db:"status"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	ShippingName  string        `json:"shipping_name" db:"shipping_name"`
	ShippingPhone string        `json:"shipping_phone" db:"shipping_phone"`
	ShippingCity  string        `json:"shipping_city" db:"shipping_city"`
	ShippingLine  string        `json:"shipping_line" db:"shipping_line"`
	Notes         string        `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

type Item struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	Size      string    `json:"size" db:"size"`
	Color     string    `json:"color" db:"color"`
}

// CreateOrderRequest turns the caller's cart into an order; totals and the
// order number are computed server-side.
type CreateOrderRequest struct {
	ShippingName  string        `json:"shipping_name" validate:"required"`
	ShippingPhone string        `json:"shipping_phone" validate:"required"`
	ShippingCity  string        `json:"shipping_city" validate:"required"`
	ShippingLine  string        `json:"shipping_line" validate:"required"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=cash card online"`
	Notes         string        `json:"notes,omitempty"`
}

// UpdateStatusRequest represents a status transition request
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required"`
}

// UpdatePaymentStatusRequest represents a payment state change
type UpdatePaymentStatusRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status" validate:"required,oneof=pending paid failed"`
}

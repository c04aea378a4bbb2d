package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/order"
	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/shamcart/storefront/internal/infrastructure/db"
)

// OrderRepository implements the order repository interface
type OrderRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(database *db.Database, logger *logrus.Logger) ports.OrderRepository {
	return &OrderRepository{db: database, logger: logger}
}

const orderColumns = "id, order_number, user_id, total, status, payment_method, payment_status, shipping_name, shipping_phone, shipping_city, shipping_line, notes, created_at, updated_at"

// Create persists the order and its items in a single transaction.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (id, order_number, user_id, total, status, payment_method, payment_status, shipping_name, shipping_phone, shipping_city, shipping_line, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := tx.ExecContext(ctx, orderQuery,
		o.ID, o.OrderNumber, o.UserID, o.Total, o.Status, o.PaymentMethod, o.PaymentStatus,
		o.ShippingName, o.ShippingPhone, o.ShippingCity, o.ShippingLine, o.Notes); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"order_id": o.ID, "user_id": o.UserID}).WithError(err).Error("db: failed to create order")
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, name, quantity, price, size, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, item := range o.Items {
		if _, err := tx.ExecContext(ctx, itemQuery,
			item.ID, item.OrderID, item.ProductID, item.Name, item.Quantity, item.Price, item.Size, item.Color); err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &o, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"order_id": id}).WithError(err).Error("db: failed to get order by ID")
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	err := r.db.DB.GetContext(ctx, &o, query, orderNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("order %s not found", orderNumber)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"order_number": orderNumber}).WithError(err).Error("db: failed to get order by number")
		}
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*order.Order, int, error) {
	var total int
	if err := r.db.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	orders := []*order.Order{}
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.DB.SelectContext(ctx, &orders, query, userID, limit, offset); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to list orders")
		}
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"order_id": id, "status": status}).WithError(err).Error("db: failed to update order status")
		}
		return fmt.Errorf("failed to update order status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found", id)
	}
	return nil
}

func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status order.PaymentStatus) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE orders SET payment_status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"order_id": id, "payment_status": status}).WithError(err).Error("db: failed to update payment status")
		}
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found", id)
	}
	return nil
}

func (r *OrderRepository) loadItems(ctx context.Context, o *order.Order) error {
	items := []*order.Item{}
	query := `
		SELECT id, order_id, product_id, name, quantity, price, size, color
		FROM order_items
		WHERE order_id = $1`
	if err := r.db.DB.SelectContext(ctx, &items, query, o.ID); err != nil {
		return fmt.Errorf("failed to list order items: %w", err)
	}
	o.Items = items
	return nil
}

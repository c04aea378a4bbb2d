package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/cart"
	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/shamcart/storefront/internal/infrastructure/db"
)

// CartRepository implements the cart repository interface
type CartRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewCartRepository creates a new cart repository
func NewCartRepository(database *db.Database, logger *logrus.Logger) ports.CartRepository {
	return &CartRepository{db: database, logger: logger}
}

func (r *CartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	query := `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`

	err := r.db.DB.GetContext(ctx, &c, query, userID)
	if err == sql.ErrNoRows {
		c = cart.Cart{ID: uuid.New(), UserID: userID}
		insert := `INSERT INTO carts (id, user_id) VALUES ($1, $2) RETURNING created_at, updated_at`
		if err := r.db.DB.QueryRowxContext(ctx, insert, c.ID, c.UserID).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to create cart")
			}
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
	} else if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to get cart")
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	items := []*cart.Item{}
	itemsQuery := `
		SELECT id, cart_id, product_id, quantity, price, size, color, created_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at ASC`
	if err := r.db.DB.SelectContext(ctx, &items, itemsQuery, c.ID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"cart_id": c.ID}).WithError(err).Error("db: failed to list cart items")
		}
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	c.Items = items
	return &c, nil
}

func (r *CartRepository) AddItem(ctx context.Context, item *cart.Item) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, price, size, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.DB.ExecContext(ctx, query,
		item.ID, item.CartID, item.ProductID, item.Quantity, item.Price, item.Size, item.Color)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"cart_id": item.CartID, "product_id": item.ProductID}).WithError(err).Error("db: failed to add cart item")
		}
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) FindItem(ctx context.Context, cartID, productID uuid.UUID, size, color string) (*cart.Item, error) {
	var item cart.Item
	query := `
		SELECT id, cart_id, product_id, quantity, price, size, color, created_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2 AND size = $3 AND color = $4`

	err := r.db.DB.GetContext(ctx, &item, query, cartID, productID, size, color)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return &item, nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	result, err := r.db.DB.ExecContext(ctx, `UPDATE cart_items SET quantity = $2 WHERE id = $1`, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s not found", itemID)
	}
	return nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s not found", itemID)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.db.DB.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"cart_id": cartID}).WithError(err).Error("db: failed to clear cart")
		}
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

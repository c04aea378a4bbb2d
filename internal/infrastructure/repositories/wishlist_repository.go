package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/shamcart/storefront/internal/infrastructure/db"
)

// WishlistRepository implements the wishlist repository interface
type WishlistRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(database *db.Database, logger *logrus.Logger) ports.WishlistRepository {
	return &WishlistRepository{db: database, logger: logger}
}

// Add is idempotent: re-adding an already wishlisted product is a no-op.
func (r *WishlistRepository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	query := `
		INSERT INTO wishlists (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`

	if _, err := r.db.DB.ExecContext(ctx, query, userID, productID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID, "product_id": productID}).WithError(err).Error("db: failed to add to wishlist")
		}
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	query := `DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`
	if _, err := r.db.DB.ExecContext(ctx, query, userID, productID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID, "product_id": productID}).WithError(err).Error("db: failed to remove from wishlist")
		}
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}

func (r *WishlistRepository) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM wishlists WHERE user_id = $1 AND product_id = $2)`
	if err := r.db.DB.GetContext(ctx, &exists, query, userID, productID); err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return exists, nil
}

func (r *WishlistRepository) ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	query := `SELECT product_id FROM wishlists WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.DB.SelectContext(ctx, &ids, query, userID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to list wishlist")
		}
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return ids, nil
}

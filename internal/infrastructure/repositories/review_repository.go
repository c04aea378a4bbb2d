package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/review"
	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/shamcart/storefront/internal/infrastructure/db"
)

// ReviewRepository implements the review repository interface
type ReviewRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(database *db.Database, logger *logrus.Logger) ports.ReviewRepository {
	return &ReviewRepository{db: database, logger: logger}
}

func (r *ReviewRepository) Create(ctx context.Context, rev *review.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.DB.ExecContext(ctx, query, rev.ID, rev.ProductID, rev.UserID, rev.Rating, rev.Comment)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": rev.ProductID, "user_id": rev.UserID}).WithError(err).Error("db: failed to create review")
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rev review.Review
	query := `
		SELECT id, product_id, user_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &rev, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("review with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get review by ID: %w", err)
	}
	return &rev, nil
}

// FindByProductAndUser returns nil without error when the user has not
// reviewed the product.
func (r *ReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*review.Review, error) {
	var rev review.Review
	query := `
		SELECT id, product_id, user_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE product_id = $1 AND user_id = $2`

	err := r.db.DB.GetContext(ctx, &rev, query, productID, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &rev, nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*review.Review, error) {
	reviews := []*review.Review{}
	query := `
		SELECT id, product_id, user_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC`

	if err := r.db.DB.SelectContext(ctx, &reviews, query, productID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": productID}).WithError(err).Error("db: failed to list reviews")
		}
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) AverageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	var avg float64
	query := `SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = $1`
	if err := r.db.DB.GetContext(ctx, &avg, query, productID); err != nil {
		return 0, fmt.Errorf("failed to compute average rating: %w", err)
	}
	return avg, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("review with ID %s not found", id)
	}
	return nil
}

package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shamcart/storefront/internal/core/domain/review"
)

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	Create(ctx context.Context, r *review.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error)
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*review.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*review.Review, error)
	AverageRating(ctx context.Context, productID uuid.UUID) (float64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewService defines the interface for review business logic
type ReviewService interface {
	CreateReview(ctx context.Context, productID, userID uuid.UUID, req *review.CreateReviewRequest) (*review.Review, error)
	ListProductReviews(ctx context.Context, productID uuid.UUID) ([]*review.Review, float64, error)
	DeleteReview(ctx context.Context, id, userID uuid.UUID, isAdmin bool) error
}

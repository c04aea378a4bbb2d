package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/review"
	"github.com/shamcart/storefront/internal/core/ports"
)

// ReviewService enforces one review per user per product and keeps the
// product's aggregate rating current.
type ReviewService struct {
	repo     ports.ReviewRepository
	products ports.ProductRepository
	logger   *logrus.Logger
}

func NewReviewService(repo ports.ReviewRepository, products ports.ProductRepository, logger *logrus.Logger) ports.ReviewService {
	return &ReviewService{repo: repo, products: products, logger: logger}
}

func (s *ReviewService) CreateReview(ctx context.Context, productID, userID uuid.UUID, req *review.CreateReviewRequest) (*review.Review, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByProductAndUser(ctx, productID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("you have already reviewed this product")
	}

	r := &review.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	s.refreshProductRating(ctx, productID)
	return r, nil
}

func (s *ReviewService) ListProductReviews(ctx context.Context, productID uuid.UUID) ([]*review.Review, float64, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	avg, err := s.repo.AverageRating(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	return reviews, avg, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, id, userID uuid.UUID, isAdmin bool) error {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && r.UserID != userID {
		return fmt.Errorf("you can only delete your own reviews")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshProductRating(ctx, r.ProductID)
	return nil
}

// refreshProductRating recomputes the aggregate and writes it through the
// product repository, which also invalidates the product's cache entries.
func (s *ReviewService) refreshProductRating(ctx context.Context, productID uuid.UUID) {
	avg, err := s.repo.AverageRating(ctx, productID)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"product_id": productID}).WithError(err).Warn("failed to recompute product rating")
		}
		return
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return
	}
	p.Rating = avg
	if err := s.products.Update(ctx, p); err != nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"product_id": productID}).WithError(err).Warn("failed to update product rating")
	}
}

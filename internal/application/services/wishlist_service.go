package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/product"
	"github.com/shamcart/storefront/internal/core/ports"
)

// WishlistService keeps the product favorites counter in step with
// wishlist membership.
type WishlistService struct {
	repo     ports.WishlistRepository
	products ports.ProductRepository
	logger   *logrus.Logger
}

func NewWishlistService(repo ports.WishlistRepository, products ports.ProductRepository, logger *logrus.Logger) ports.WishlistService {
	return &WishlistService{repo: repo, products: products, logger: logger}
}

func (s *WishlistService) AddProduct(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return err
	}
	already, err := s.repo.Contains(ctx, userID, productID)
	if err != nil {
		return err
	}
	if already {
		return nil
	}
	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return err
	}
	if err := s.products.IncrementFavorites(ctx, productID); err != nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"product_id": productID}).WithError(err).Warn("failed to increment favorites count")
	}
	return nil
}

func (s *WishlistService) RemoveProduct(ctx context.Context, userID, productID uuid.UUID) error {
	present, err := s.repo.Contains(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !present {
		return nil
	}
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return err
	}
	if err := s.products.DecrementFavorites(ctx, productID); err != nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"product_id": productID}).WithError(err).Warn("failed to decrement favorites count")
	}
	return nil
}

func (s *WishlistService) ToggleProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	present, err := s.repo.Contains(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	if present {
		return false, s.RemoveProduct(ctx, userID, productID)
	}
	return true, s.AddProduct(ctx, userID, productID)
}

func (s *WishlistService) ListProducts(ctx context.Context, userID uuid.UUID) ([]*product.Product, error) {
	ids, err := s.repo.ListProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	products := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			// Product removed since it was wishlisted; skip it.
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/cart"
	"github.com/shamcart/storefront/internal/core/ports"
)

// CartService implements cart business logic. Prices are captured at
// add-time; checkout recomputes totals from current prices.
type CartService struct {
	repo     ports.CartRepository
	products ports.ProductRepository
	logger   *logrus.Logger
}

func NewCartService(repo ports.CartRepository, products ports.ProductRepository, logger *logrus.Logger) ports.CartService {
	return &CartService{repo: repo, products: products, logger: logger}
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req *cart.AddItemRequest) (*cart.Cart, error) {
	p, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}
	if !p.IsActive {
		return nil, fmt.Errorf("product is not available")
	}
	if p.Stock < req.Quantity {
		return nil, fmt.Errorf("insufficient stock: %d available", p.Stock)
	}
	if req.Size != "" && !contains(p.Sizes, req.Size) {
		return nil, fmt.Errorf("size %q is not available for this product", req.Size)
	}
	if req.Color != "" && !contains(p.Colors, req.Color) {
		return nil, fmt.Errorf("color %q is not available for this product", req.Color)
	}

	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Same product + variant merges into the existing line.
	existing, err := s.repo.FindItem(ctx, c.ID, req.ProductID, req.Size, req.Color)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		newQuantity := existing.Quantity + req.Quantity
		if p.Stock < newQuantity {
			return nil, fmt.Errorf("insufficient stock: %d available", p.Stock)
		}
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, newQuantity); err != nil {
			return nil, err
		}
	} else {
		item := &cart.Item{
			ID:        uuid.New(),
			CartID:    c.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     p.Price,
			Size:      req.Size,
			Color:     req.Color,
		}
		if err := s.repo.AddItem(ctx, item); err != nil {
			return nil, err
		}
	}
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *cart.UpdateItemRequest) (*cart.Cart, error) {
	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	item := findCartItem(c, itemID)
	if item == nil {
		return nil, fmt.Errorf("cart item not found")
	}

	p, err := s.products.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}
	if p.Stock < req.Quantity {
		return nil, fmt.Errorf("insufficient stock: %d available", p.Stock)
	}
	if err := s.repo.UpdateItemQuantity(ctx, itemID, req.Quantity); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*cart.Cart, error) {
	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if findCartItem(c, itemID) == nil {
		return nil, fmt.Errorf("cart item not found")
	}
	if err := s.repo.RemoveItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.Clear(ctx, c.ID)
}

func findCartItem(c *cart.Cart, itemID uuid.UUID) *cart.Item {
	for _, item := range c.Items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

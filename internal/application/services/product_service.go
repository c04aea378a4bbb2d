package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/product"
	"github.com/shamcart/storefront/internal/core/ports"
)

// ProductService implements catalog business logic over the (cached)
// product repository. Cache behavior is entirely the repository's concern.
type ProductService struct {
	repo       ports.ProductRepository
	categories ports.CategoryRepository
	logger     *logrus.Logger
}

func NewProductService(repo ports.ProductRepository, categories ports.CategoryRepository, logger *logrus.Logger) ports.ProductService {
	return &ProductService{repo: repo, categories: categories, logger: logger}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *product.CreateProductRequest, createdBy uuid.UUID) (*product.Product, error) {
	if s.categories != nil {
		if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
			return nil, fmt.Errorf("category %s does not exist", req.CategoryID)
		}
	}

	p := &product.Product{
		ID:            uuid.New(),
		Name:          req.Name,
		NameAr:        req.NameAr,
		Description:   req.Description,
		DescriptionAr: req.DescriptionAr,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		CreatedBy:     createdBy,
		Images:        req.Images,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		Stock:         req.Stock,
		Brand:         req.Brand,
		MinAge:        req.MinAge,
		MaxAge:        req.MaxAge,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"product_id": p.ID, "created_by": createdBy}).Info("product created")
	}
	return p, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *product.UpdateProductRequest) (*product.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.NameAr != nil {
		p.NameAr = *req.NameAr
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.DescriptionAr != nil {
		p.DescriptionAr = *req.DescriptionAr
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.CategoryID != nil {
		if s.categories != nil {
			if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
				return nil, fmt.Errorf("category %s does not exist", *req.CategoryID)
			}
		}
		p.CategoryID = *req.CategoryID
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.Sizes != nil {
		p.Sizes = req.Sizes
	}
	if req.Colors != nil {
		p.Colors = req.Colors
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.MinAge != nil {
		p.MinAge = req.MinAge
	}
	if req.MaxAge != nil {
		p.MaxAge = req.MaxAge
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, page, limit, filter)
}

func (s *ProductService) ListUserProducts(ctx context.Context, userID uuid.UUID, page, limit int) (*product.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, page, limit, &product.Filter{CreatedBy: &userID})
}

func (s *ProductService) ListCategoryProducts(ctx context.Context, categoryID uuid.UUID) ([]*product.Product, error) {
	return s.repo.ListByCategory(ctx, categoryID)
}

func (s *ProductService) FilterProducts(ctx context.Context, params *product.Filter) ([]*product.Product, error) {
	return s.repo.Filter(ctx, params)
}

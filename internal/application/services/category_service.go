package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/category"
	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/shamcart/storefront/internal/infrastructure/cache"
)

const ttlCategory = 20 * time.Minute

// CategoryService caches the small, slow-moving category set directly; any
// write drops the whole family plus the per-category product listings.
type CategoryService struct {
	repo   ports.CategoryRepository
	cache  ports.CacheStore
	logger *logrus.Logger
}

func NewCategoryService(repo ports.CategoryRepository, cacheStore ports.CacheStore, logger *logrus.Logger) ports.CategoryService {
	return &CategoryService{repo: repo, cache: cacheStore, logger: logger}
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *category.CreateCategoryRequest) (*category.Category, error) {
	c := &category.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		NameAr:      req.NameAr,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, c.ID)
	return c, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	if s.cache == nil {
		return s.repo.FindByID(ctx, id)
	}
	raw, err := s.cache.GetOrSet(ctx, cache.CategoryByID(id.String()), ttlCategory, func(ctx context.Context) ([]byte, error) {
		c, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(c)
	})
	if err != nil {
		return nil, err
	}
	var c category.Category
	if err := json.Unmarshal(raw, &c); err != nil {
		return s.repo.FindByID(ctx, id)
	}
	return &c, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*category.Category, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	raw, err := s.cache.GetOrSet(ctx, cache.CategoryAll(), ttlCategory, func(ctx context.Context) ([]byte, error) {
		categories, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(categories)
	})
	if err != nil {
		return nil, err
	}
	categories := []*category.Category{}
	if err := json.Unmarshal(raw, &categories); err != nil {
		return s.repo.List(ctx)
	}
	return categories, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *category.UpdateCategoryRequest) (*category.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.NameAr != nil {
		c.NameAr = *req.NameAr
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.ImageURL != nil {
		c.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return c, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	removed := s.cache.DeletePattern(ctx, cache.CategoryPattern)
	removed += s.cache.DeletePattern(ctx, cache.ProductCategoryPattern(id.String()))
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"category_id": id, "removed": removed}).Debug("category cache invalidated")
	}
}

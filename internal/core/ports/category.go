package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shamcart/storefront/internal/core/domain/category"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, c *category.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*category.Category, error)
	List(ctx context.Context) ([]*category.Category, error)
	Update(ctx context.Context, c *category.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryService defines the interface for category business logic
type CategoryService interface {
	CreateCategory(ctx context.Context, req *category.CreateCategoryRequest) (*category.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error)
	ListCategories(ctx context.Context) ([]*category.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *category.UpdateCategoryRequest) (*category.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

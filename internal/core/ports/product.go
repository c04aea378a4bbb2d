package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shamcart/storefront/internal/core/domain/product"
)

// ProductRepository defines the interface for product data operations.
// The Postgres implementation is the source of truth; the caching decorator
// implements the same interface and is transparent to callers.
type ProductRepository interface {
	Create(ctx context.Context, p *product.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
	Update(ctx context.Context, p *product.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns one page of products matching filter, newest first.
	List(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error)
	// ListByUser pages through products owned by filter.CreatedBy.
	ListByUser(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*product.Product, error)
	// Filter returns all products matching the structured params, unpaged.
	Filter(ctx context.Context, params *product.Filter) ([]*product.Product, error)
	IncrementFavorites(ctx context.Context, id uuid.UUID) error
	DecrementFavorites(ctx context.Context, id uuid.UUID) error
}

// ProductService defines the interface for product business logic
type ProductService interface {
	CreateProduct(ctx context.Context, req *product.CreateProductRequest, createdBy uuid.UUID) (*product.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *product.UpdateProductRequest) (*product.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error)
	ListUserProducts(ctx context.Context, userID uuid.UUID, page, limit int) (*product.Page, error)
	ListCategoryProducts(ctx context.Context, categoryID uuid.UUID) ([]*product.Product, error)
	FilterProducts(ctx context.Context, params *product.Filter) ([]*product.Product, error)
}

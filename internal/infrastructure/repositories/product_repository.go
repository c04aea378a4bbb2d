package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/product"
	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/shamcart/storefront/internal/infrastructure/db"
)

const productColumns = `id, name, name_ar, description, description_ar, price, category_id, created_by,
	images, sizes, colors, stock, brand, min_age, max_age, rating, favorites_count, is_active, created_at, updated_at`

// ProductRepository implements the product repository interface on Postgres
type ProductRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(database *db.Database, logger *logrus.Logger) ports.ProductRepository {
	return &ProductRepository{db: database, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.NameAr, &p.Description, &p.DescriptionAr, &p.Price,
		&p.CategoryID, &p.CreatedBy,
		pq.Array(&p.Images), pq.Array(&p.Sizes), pq.Array(&p.Colors),
		&p.Stock, &p.Brand, &p.MinAge, &p.MaxAge, &p.Rating, &p.FavoritesCount,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// productWhere accumulates WHERE conditions with positional arguments.
type productWhere struct {
	conds []string
	args  []any
}

func (w *productWhere) add(cond string, vals ...any) {
	placeholders := make([]any, len(vals))
	for i, v := range vals {
		w.args = append(w.args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(w.args))
	}
	w.conds = append(w.conds, fmt.Sprintf(cond, placeholders...))
}

func (w *productWhere) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

func buildProductWhere(filter *product.Filter) *productWhere {
	w := &productWhere{}
	if filter == nil {
		w.add("is_active = %s", true)
		return w
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + q + "%"
		w.add("(name ILIKE %[1]s OR name_ar ILIKE %[1]s OR description ILIKE %[1]s OR description_ar ILIKE %[1]s OR brand ILIKE %[1]s)", like)
	}
	if filter.CategoryID != nil {
		w.add("category_id = %s", *filter.CategoryID)
	}
	if filter.CreatedBy != nil {
		w.add("created_by = %s", *filter.CreatedBy)
	}
	if len(filter.Sizes) > 0 {
		w.add("sizes && %s", pq.Array(filter.Sizes))
	}
	if len(filter.Colors) > 0 {
		w.add("colors && %s", pq.Array(filter.Colors))
	}
	if len(filter.Brands) > 0 {
		w.add("brand = ANY(%s)", pq.Array(filter.Brands))
	}
	if filter.MinPrice != nil {
		w.add("price >= %s", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		w.add("price <= %s", *filter.MaxPrice)
	}
	if filter.InStock != nil && *filter.InStock {
		w.conds = append(w.conds, "stock > 0")
	}
	if filter.MinRating != nil {
		w.add("rating >= %s", *filter.MinRating)
	}
	if !filter.IncludeInactive {
		w.add("is_active = %s", true)
	}
	return w
}

func orderClause(sortBy product.SortBy) string {
	switch sortBy {
	case product.SortOldest:
		return "ORDER BY created_at ASC"
	case product.SortPriceAsc:
		return "ORDER BY price ASC"
	case product.SortPriceDesc:
		return "ORDER BY price DESC"
	case product.SortRating:
		return "ORDER BY rating DESC"
	case product.SortPopularity:
		return "ORDER BY favorites_count DESC"
	default:
		return "ORDER BY created_at DESC"
	}
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	query := `
		INSERT INTO products (id, name, name_ar, description, description_ar, price, category_id, created_by,
			images, sizes, colors, stock, brand, min_age, max_age, rating, favorites_count, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.db.DB.ExecContext(ctx, query,
		p.ID, p.Name, p.NameAr, p.Description, p.DescriptionAr, p.Price, p.CategoryID, p.CreatedBy,
		pq.Array(p.Images), pq.Array(p.Sizes), pq.Array(p.Colors),
		p.Stock, p.Brand, p.MinAge, p.MaxAge, p.Rating, p.FavoritesCount, p.IsActive)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": p.ID, "name": p.Name}).WithError(err).Error("db: failed to create product")
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"product_id": p.ID, "name": p.Name}).Info("db: product created")
	}
	return nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)

	p, err := scanProduct(r.db.DB.QueryRowxContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": id}).WithError(err).Error("db: failed to get product by ID")
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	return p, nil
}

// Update rewrites an existing product
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	query := `
		UPDATE products
		SET name = $2, name_ar = $3, description = $4, description_ar = $5, price = $6, category_id = $7,
			images = $8, sizes = $9, colors = $10, stock = $11, brand = $12, min_age = $13, max_age = $14,
			rating = $15, is_active = $16, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		p.ID, p.Name, p.NameAr, p.Description, p.DescriptionAr, p.Price, p.CategoryID,
		pq.Array(p.Images), pq.Array(p.Sizes), pq.Array(p.Colors),
		p.Stock, p.Brand, p.MinAge, p.MaxAge, p.Rating, p.IsActive)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": p.ID}).WithError(err).Error("db: failed to update product")
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found", p.ID)
	}
	return nil
}

// Delete removes a product by ID
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"product_id": id}).WithError(err).Error("db: failed to delete product")
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found", id)
	}
	return nil
}

// List returns one page of products matching filter plus the filtered total
func (r *ProductRepository) List(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	where := buildProductWhere(filter)
	sortBy := product.SortBy("")
	if filter != nil {
		sortBy = filter.SortBy
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", where.clause())
	var total int
	if err := r.db.DB.GetContext(ctx, &total, countQuery, where.args...); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to count products")
		}
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	listArgs := append(append([]any{}, where.args...), limit, (page-1)*limit)
	listQuery := fmt.Sprintf("SELECT %s FROM products %s %s LIMIT $%d OFFSET $%d",
		productColumns, where.clause(), orderClause(sortBy), len(where.args)+1, len(where.args)+2)

	rows, err := r.db.DB.QueryxContext(ctx, listQuery, listArgs...)
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list products")
		}
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*product.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return &product.Page{Products: products, Total: total}, nil
}

// ListByUser pages through products owned by filter.CreatedBy
func (r *ProductRepository) ListByUser(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
	return r.List(ctx, page, limit, filter)
}

// ListByCategory returns all active products in a category
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*product.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE category_id = $1 AND is_active = true ORDER BY created_at DESC", productColumns)

	rows, err := r.db.DB.QueryxContext(ctx, query, categoryID)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"category_id": categoryID}).WithError(err).Error("db: failed to list products by category")
		}
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	defer rows.Close()

	products := []*product.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Filter returns all products matching the structured params, unpaged
func (r *ProductRepository) Filter(ctx context.Context, params *product.Filter) ([]*product.Product, error) {
	where := buildProductWhere(params)
	sortBy := product.SortBy("")
	if params != nil {
		sortBy = params.SortBy
	}
	query := fmt.Sprintf("SELECT %s FROM products %s %s", productColumns, where.clause(), orderClause(sortBy))

	rows, err := r.db.DB.QueryxContext(ctx, query, where.args...)
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to filter products")
		}
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}
	defer rows.Close()

	products := []*product.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// IncrementFavorites bumps the denormalized favorites counter
func (r *ProductRepository) IncrementFavorites(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.DB.ExecContext(ctx,
		`UPDATE products SET favorites_count = favorites_count + 1, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment favorites: %w", err)
	}
	return nil
}

// DecrementFavorites lowers the denormalized favorites counter, floored at zero
func (r *ProductRepository) DecrementFavorites(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.DB.ExecContext(ctx,
		`UPDATE products SET favorites_count = GREATEST(favorites_count - 1, 0), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to decrement favorites: %w", err)
	}
	return nil
}

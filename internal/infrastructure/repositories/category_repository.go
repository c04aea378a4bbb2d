package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/category"
	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/shamcart/storefront/internal/infrastructure/db"
)

// CategoryRepository implements the category repository interface
type CategoryRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(database *db.Database, logger *logrus.Logger) ports.CategoryRepository {
	return &CategoryRepository{db: database, logger: logger}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (id, name, name_ar, description, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.DB.ExecContext(ctx, query, c.ID, c.Name, c.NameAr, c.Description, c.ImageURL, c.IsActive)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"category_id": c.ID, "name": c.Name}).WithError(err).Error("db: failed to create category")
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	var c category.Category
	query := `
		SELECT id, name, name_ar, description, image_url, is_active, created_at, updated_at
		FROM categories
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &c, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("category with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"category_id": id}).WithError(err).Error("db: failed to get category by ID")
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	categories := []*category.Category{}
	query := `
		SELECT id, name, name_ar, description, image_url, is_active, created_at, updated_at
		FROM categories
		WHERE is_active = true
		ORDER BY name ASC`

	if err := r.db.DB.SelectContext(ctx, &categories, query); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list categories")
		}
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET name = $2, name_ar = $3, description = $4, image_url = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, c.ID, c.Name, c.NameAr, c.Description, c.ImageURL, c.IsActive)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"category_id": c.ID}).WithError(err).Error("db: failed to update category")
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("category with ID %s not found", c.ID)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"category_id": id}).WithError(err).Error("db: failed to delete category")
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("category with ID %s not found", id)
	}
	return nil
}

package product

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	NameAr         string    `json:"name_ar" db:"name_ar"`
	Description    string    `json:"description" db:"description"`
	DescriptionAr  string    `json:"description_ar" db:"description_ar"`
	Price          float64   `json:"price" db:"price"`
	CategoryID     uuid.UUID `json:"category_id" db:"category_id"`
	CreatedBy      uuid.UUID `json:"created_by" db:"created_by"`
	Images         []string  `json:"images" db:"images"`
	Sizes          []string  `json:"sizes" db:"sizes"`
	Colors         []string  `json:"colors" db:"colors"`
	Stock          int       `json:"stock" db:"stock"`
	Brand          string    `json:"brand" db:"brand"`
	MinAge         *int      `json:"min_age,omitempty" db:"min_age"`
	MaxAge         *int      `json:"max_age,omitempty" db:"max_age"`
	Rating         float64   `json:"rating" db:"rating"`
	FavoritesCount int       `json:"favorites_count" db:"favorites_count"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

// SortBy orders filtered listings. Unknown values are dropped during filter
// validation rather than rejected.
type SortBy string

const (
	SortNewest     SortBy = "newest"
	SortOldest     SortBy = "oldest"
	SortPriceAsc   SortBy = "priceAsc"
	SortPriceDesc  SortBy = "priceDesc"
	SortRating     SortBy = "rating"
	SortPopularity SortBy = "popularity"
)

func (s SortBy) IsValid() bool {
	switch s {
	case SortNewest, SortOldest, SortPriceAsc, SortPriceDesc, SortRating, SortPopularity:
		return true
	default:
		return false
	}
}

// Filter is the structured query used by listings, filtering and search.
// Optional fields are pointers so "unset" and "zero" stay distinct; the JSON
// form (omitempty throughout) is what the cache key hash is derived from.
type Filter struct {
	Query           string     `json:"query,omitempty"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	CreatedBy       *uuid.UUID `json:"created_by,omitempty"`
	Sizes           []string   `json:"sizes,omitempty"`
	Colors          []string   `json:"colors,omitempty"`
	Brands          []string   `json:"brands,omitempty"`
	MinPrice        *float64   `json:"min_price,omitempty"`
	MaxPrice        *float64   `json:"max_price,omitempty"`
	InStock         *bool      `json:"in_stock,omitempty"`
	MinRating       *float64   `json:"min_rating,omitempty"`
	SortBy          SortBy     `json:"sort_by,omitempty"`
	IncludeInactive bool       `json:"include_inactive,omitempty"`
}

// Page is a paginated listing result.
type Page struct {
	Products []*Product `json:"products"`
	Total    int        `json:"total"`
}

// CreateProductRequest represents the request to create a new product
type CreateProductRequest struct {
	Name          string    `json:"name" validate:"required"`
	NameAr        string    `json:"name_ar"`
	Description   string    `json:"description" validate:"required"`
	DescriptionAr string    `json:"description_ar"`
	Price         float64   `json:"price" validate:"required,gt=0"`
	CategoryID    uuid.UUID `json:"category_id" validate:"required"`
	Images        []string  `json:"images"`
	Sizes         []string  `json:"sizes"`
	Colors        []string  `json:"colors"`
	Stock         int       `json:"stock" validate:"gte=0"`
	Brand         string    `json:"brand"`
	MinAge        *int      `json:"min_age,omitempty"`
	MaxAge        *int      `json:"max_age,omitempty"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name          *string    `json:"name,omitempty"`
	NameAr        *string    `json:"name_ar,omitempty"`
	Description   *string    `json:"description,omitempty"`
	DescriptionAr *string    `json:"description_ar,omitempty"`
	Price         *float64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	Images        []string   `json:"images,omitempty"`
	Sizes         []string   `json:"sizes,omitempty"`
	Colors        []string   `json:"colors,omitempty"`
	Stock         *int       `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Brand         *string    `json:"brand,omitempty"`
	MinAge        *int       `json:"min_age,omitempty"`
	MaxAge        *int       `json:"max_age,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
}

package dto

import (
	"github.com/shopspring/decimal"

	"warestock/internal/core/id"
	"warestock/internal/domain/catalogs/product"
)

// --- Categories ---

// CreateCategoryRequest for POST /categories.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCategoryRequest for PUT /categories/:id.
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Products ---

// CreateProductRequest for POST /products.
type CreateProductRequest struct {
	SKU         string          `json:"sku" binding:"required"`
	ShortName   string          `json:"short_name" binding:"required"`
	Description *string         `json:"description"`
	CategoryID  string          `json:"category_id" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// ToProduct converts the request into a new product.
func (r CreateProductRequest) ToProduct() (*product.Product, error) {
	categoryID, err := id.Parse(r.CategoryID)
	if err != nil {
		return nil, err
	}
	p := product.New(r.SKU, r.ShortName, categoryID, r.UnitPrice)
	p.Description = r.Description
	return p, nil
}

// UpdateProductRequest for PUT /products/:id.
type UpdateProductRequest struct {
	SKU         *string          `json:"sku"`
	ShortName   *string          `json:"short_name"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"category_id"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// ApplyTo merges the non-nil fields into an existing product.
func (r UpdateProductRequest) ApplyTo(p *product.Product) error {
	if r.SKU != nil {
		p.SKU = *r.SKU
	}
	if r.ShortName != nil {
		p.ShortName = *r.ShortName
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	if r.CategoryID != nil {
		categoryID, err := id.Parse(*r.CategoryID)
		if err != nil {
			return err
		}
		p.CategoryID = categoryID
	}
	if r.UnitPrice != nil {
		p.UnitPrice = *r.UnitPrice
	}
	return nil
}

// ProductListQuery filters GET /products.
type ProductListQuery struct {
	PageQuery
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	IsActive   *bool  `form:"is_active"`
}

// --- Warehouses ---

// CreateWarehouseRequest for POST /warehouses.
type CreateWarehouseRequest struct {
	Description string `json:"description" binding:"required"`
}

// UpdateWarehouseRequest for PUT /warehouses/:id.
type UpdateWarehouseRequest struct {
	Description string `json:"description" binding:"required"`
}

// WarehouseListQuery filters GET /warehouses.
type WarehouseListQuery struct {
	PageQuery
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
}

// CategoryListQuery filters GET /categories.
type CategoryListQuery struct {
	PageQuery
	Search string `form:"search"`
}

// Package product provides the product catalog.
package product

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
)

// Product is a stockable item. Products referenced by historical
// movement lines are deactivated, never deleted.
type Product struct {
	ID          id.ID           `db:"id" json:"id"`
	SKU         string          `db:"sku" json:"sku"`
	ShortName   string          `db:"short_name" json:"short_name"`
	Description *string         `db:"description" json:"description,omitempty"`
	CategoryID  id.ID           `db:"category_id" json:"category_id"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	IsActive    bool            `db:"is_active" json:"is_active"`
}

// New creates an active product.
func New(sku, shortName string, categoryID id.ID, unitPrice decimal.Decimal) *Product {
	return &Product{
		ID:         id.New(),
		SKU:        strings.TrimSpace(sku),
		ShortName:  strings.TrimSpace(shortName),
		CategoryID: categoryID,
		UnitPrice:  unitPrice,
		IsActive:   true,
	}
}

// Validate checks required fields.
func (p *Product) Validate(ctx context.Context) error {
	if p.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}
	if p.ShortName == "" {
		return apperror.NewValidation("short_name is required").
			WithDetail("field", "short_name")
	}
	if id.IsNil(p.CategoryID) {
		return apperror.NewValidation("category_id is required").
			WithDetail("field", "category_id")
	}
	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit_price must not be negative").
			WithDetail("field", "unit_price")
	}
	return nil
}

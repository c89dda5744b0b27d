// Package warehouse provides the warehouse catalog.
package warehouse

import (
	"context"
	"strings"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
)

// Warehouse is a storage location. Warehouses referenced by historical
// movement lines are deactivated, never deleted.
type Warehouse struct {
	ID          id.ID  `db:"id" json:"id"`
	Description string `db:"description" json:"description"`
	IsActive    bool   `db:"is_active" json:"is_active"`
}

// New creates an active warehouse.
func New(description string) *Warehouse {
	return &Warehouse{
		ID:          id.New(),
		Description: strings.TrimSpace(description),
		IsActive:    true,
	}
}

// Validate checks required fields.
func (w *Warehouse) Validate(ctx context.Context) error {
	if w.Description == "" {
		return apperror.NewValidation("description is required").
			WithDetail("field", "description")
	}
	if len(w.Description) > 255 {
		return apperror.NewValidation("description exceeds 255 characters").
			WithDetail("field", "description")
	}
	return nil
}

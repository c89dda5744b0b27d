package product

import (
	"context"

	"warestock/internal/core/id"
)

// Repository defines storage operations for products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	Update(ctx context.Context, p *Product) error
	SetActive(ctx context.Context, productID id.ID, active bool) error
	List(ctx context.Context, f ListFilter) ([]Product, int64, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// ActiveIDs returns the subset of ids that exist and are active.
	// Serves the movement admission reference gate.
	ActiveIDs(ctx context.Context, ids []id.ID) ([]id.ID, error)
}

// ListFilter restricts product listings.
type ListFilter struct {
	// Search matches sku or short name, case-insensitive.
	Search     string
	CategoryID *id.ID
	IsActive   *bool

	Limit  int
	Offset int
}

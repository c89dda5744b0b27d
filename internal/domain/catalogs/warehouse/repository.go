package warehouse

import (
	"context"

	"warestock/internal/core/id"
)

// Repository defines storage operations for warehouses.
type Repository interface {
	Create(ctx context.Context, w *Warehouse) error
	GetByID(ctx context.Context, warehouseID id.ID) (*Warehouse, error)
	Update(ctx context.Context, w *Warehouse) error
	SetActive(ctx context.Context, warehouseID id.ID, active bool) error
	List(ctx context.Context, search string, isActive *bool, limit, offset int) ([]Warehouse, int64, error)

	// ActiveIDs returns the subset of ids that exist and are active.
	// Serves the movement admission reference gate.
	ActiveIDs(ctx context.Context, ids []id.ID) ([]id.ID, error)
}

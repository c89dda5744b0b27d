package stock

import (
	"context"
	"time"

	"warestock/internal/core/id"
)

// Repository defines the read operations over the stock projection and
// the movement ledger. All methods are side-effect free except
// VerifyProjection, which only reads.
type Repository interface {
	// Positions returns projection rows matching any subset of the key,
	// ordered by (warehouse, product, lot), with the total match count.
	Positions(ctx context.Context, f PositionFilter) ([]Position, int64, error)

	// PositionsExpiring returns positions with quantity > 0 whose
	// expiration date falls in the window, with the total match count.
	PositionsExpiring(ctx context.Context, w ExpirationWindow, limit, offset int) ([]Position, int64, error)

	// TotalsByProductInWarehouse sums quantity per product for one
	// warehouse.
	TotalsByProductInWarehouse(ctx context.Context, warehouseID id.ID) ([]WarehouseProductTotal, error)

	// TotalsByWarehouse sums quantity per warehouse across all
	// warehouses.
	TotalsByWarehouse(ctx context.Context) ([]WarehouseTotal, error)

	// TotalsForProduct sums one product's quantity per warehouse, with
	// the total group count.
	TotalsForProduct(ctx context.Context, productID id.ID, limit, offset int) ([]ProductWarehouseTotal, int64, error)

	// TotalsByCategory sums quantity per product category.
	TotalsByCategory(ctx context.Context) ([]CategoryTotal, error)

	// TotalsByProductInCategory sums quantity per product within one
	// category.
	TotalsByProductInCategory(ctx context.Context, categoryID id.ID) ([]CategoryProductTotal, error)

	// AvailableLots returns lots with quantity > 0 for a (product,
	// warehouse) pair, expiration ascending with nulls last.
	AvailableLots(ctx context.Context, productID, warehouseID id.ID) ([]AvailableLot, error)

	// SemaphoreTotals sums quantities into the three expiration buckets.
	// The three boundary dates are today, today+1 month, today+6 months.
	SemaphoreTotals(ctx context.Context, today, inOneMonth, inSixMonths time.Time) (Semaphore, error)

	// History returns flattened movement lines matching the filter,
	// ordered by movement timestamp descending then lot, with the total
	// match count.
	History(ctx context.Context, f HistoryFilter) ([]HistoryEntry, int64, error)

	// VerifyProjection replays the ledger per (warehouse, product, lot)
	// and returns every triple whose replayed sum differs from the live
	// projection row (or that is missing from it).
	VerifyProjection(ctx context.Context) ([]Mismatch, error)
}

// Package stock provides the read side of the stock projection: the
// materialized per-(warehouse, product, lot) quantities maintained by the
// movement ledger, and the aggregations served from them.
package stock

import (
	"time"

	"warestock/internal/core/id"
)

// Position is one row of the stock projection joined with display data.
// Uniquely identified by (warehouse, product, lot); the lot is the unit
// of expiration. Quantity may sit at zero indefinitely; positions are
// never deleted.
type Position struct {
	WarehouseID    id.ID      `db:"warehouse_id" json:"warehouse_id"`
	WarehouseName  string     `db:"warehouse_name" json:"warehouse_name"`
	ProductID      id.ID      `db:"product_id" json:"product_id"`
	ProductName    string     `db:"product_name" json:"product_name"`
	SKU            string     `db:"sku" json:"sku"`
	Lot            string     `db:"lot" json:"lot"`
	ExpirationDate *time.Time `db:"expiration_date" json:"expiration_date,omitempty"`
	Quantity       int64      `db:"quantity" json:"quantity"`
}

// WarehouseProductTotal is the per-product sum within one warehouse.
type WarehouseProductTotal struct {
	ProductID   id.ID  `db:"product_id" json:"product_id"`
	ProductName string `db:"product_name" json:"product_name"`
	Total       int64  `db:"total_quantity" json:"total_quantity"`
}

// WarehouseTotal is the total quantity held by one warehouse.
type WarehouseTotal struct {
	WarehouseID   id.ID  `db:"warehouse_id" json:"warehouse_id"`
	WarehouseName string `db:"warehouse_name" json:"warehouse_name"`
	Total         int64  `db:"total_quantity" json:"total_quantity"`
}

// ProductWarehouseTotal is one product's total within one warehouse.
type ProductWarehouseTotal struct {
	ProductID     id.ID  `db:"product_id" json:"product_id"`
	WarehouseID   id.ID  `db:"warehouse_id" json:"warehouse_id"`
	WarehouseName string `db:"warehouse_name" json:"warehouse_name"`
	Total         int64  `db:"total_quantity" json:"total_quantity"`
}

// CategoryTotal is the total quantity across one product category.
type CategoryTotal struct {
	CategoryID   id.ID  `db:"category_id" json:"category_id"`
	CategoryName string `db:"category_name" json:"category_name"`
	Total        int64  `db:"total_quantity" json:"total_quantity"`
}

// CategoryProductTotal is one product's total within a category.
type CategoryProductTotal struct {
	ProductID   id.ID  `db:"product_id" json:"product_id"`
	ProductName string `db:"product_name" json:"product_name"`
	Total       int64  `db:"total_quantity" json:"total_quantity"`
}

// AvailableLot is a lot with remaining stock for a (product, warehouse)
// pair, ordered by expiration date (lots without one sort last).
type AvailableLot struct {
	Lot            string     `db:"lot" json:"lot"`
	ExpirationDate *time.Time `db:"expiration_date" json:"expiration_date,omitempty"`
	Quantity       int64      `db:"quantity" json:"quantity"`
}

// Semaphore partitions all stock into three exclusive expiration buckets
// relative to today. Already-expired positions are excluded from all
// three.
type Semaphore struct {
	// ExpiringNow: today < expiration <= today + 1 month
	ExpiringNow int64 `json:"expiring_now"`
	// ExpiringSoon: today + 1 month < expiration <= today + 6 months
	ExpiringSoon int64 `json:"expiring_soon"`
	// NoExpiration: no expiration date, or beyond 6 months
	NoExpiration int64 `json:"no_expiration"`
}

// HistoryEntry is one movement line flattened with its header and
// display names, newest movements first.
type HistoryEntry struct {
	MoveID      id.ID     `db:"move_id" json:"move_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Kind        string    `db:"move_type" json:"move_type"`
	WarehouseID id.ID     `db:"warehouse_id" json:"warehouse_id"`
	ProductID   id.ID     `db:"product_id" json:"product_id"`
	SKU         string    `db:"sku" json:"sku"`
	Lot         string    `db:"lot" json:"lot"`
	Quantity    int64     `db:"quantity" json:"quantity"`
	UserName    string    `db:"user_name" json:"user_name"`
}

// HistoryFilter restricts the movement history view.
type HistoryFilter struct {
	ProductID   *id.ID
	WarehouseID *id.ID

	// UserID scopes to one owner; set by the service for non-admins.
	UserID *id.ID

	Limit  int
	Offset int
}

// PositionFilter restricts position listings by any subset of the key.
type PositionFilter struct {
	WarehouseID *id.ID
	ProductID   *id.ID
	Lot         *string

	Limit  int
	Offset int
}

// ExpirationWindow is a half-open (start, end] date window; only positions
// with quantity > 0 and an expiration inside the window match.
type ExpirationWindow struct {
	Start time.Time
	End   time.Time
}

// Mismatch is one projection row whose quantity disagrees with the sum of
// its ledger deltas.
type Mismatch struct {
	WarehouseID id.ID  `db:"warehouse_id" json:"warehouse_id"`
	ProductID   id.ID  `db:"product_id" json:"product_id"`
	Lot         string `db:"lot" json:"lot"`
	Projected   int64  `db:"projected" json:"projected"`
	Replayed    int64  `db:"replayed" json:"replayed"`
}

// ConsistencyReport is the result of replaying the ledger against the
// live projection.
type ConsistencyReport struct {
	Consistent bool       `json:"consistent"`
	Mismatches []Mismatch `json:"mismatches"`
}

// Package stock_repo provides the PostgreSQL read side of the stock
// projection: positions, aggregates and the ledger replay check.
package stock_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"warestock/internal/core/id"
	"warestock/internal/domain/stock"
	"warestock/internal/infrastructure/storage/postgres"
)

const (
	stockTable = "stock"
	movesTable = "stock_moves"
	linesTable = "stock_move_lines"
)

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock read repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Positions returns projection rows matching any subset of the key.
func (r *StockRepo) Positions(ctx context.Context, f stock.PositionFilter) ([]stock.Position, int64, error) {
	base := r.positionBase()
	if f.WarehouseID != nil {
		base = base.Where(squirrel.Eq{"s.warehouse_id": *f.WarehouseID})
	}
	if f.ProductID != nil {
		base = base.Where(squirrel.Eq{"s.product_id": *f.ProductID})
	}
	if f.Lot != nil {
		base = base.Where(squirrel.Eq{"s.lot": *f.Lot})
	}

	return r.selectPositions(ctx, base, f.Limit, f.Offset)
}

// PositionsExpiring returns held positions expiring inside the window.
// The window is half-open: strictly after start, up to and including end.
func (r *StockRepo) PositionsExpiring(ctx context.Context, w stock.ExpirationWindow, limit, offset int) ([]stock.Position, int64, error) {
	base := r.positionBase().
		Where(squirrel.Gt{"s.quantity": 0}).
		Where(squirrel.Gt{"s.expiration_date": w.Start}).
		Where(squirrel.LtOrEq{"s.expiration_date": w.End})

	return r.selectPositions(ctx, base, limit, offset)
}

// TotalsByProductInWarehouse sums quantity per product for one warehouse.
func (r *StockRepo) TotalsByProductInWarehouse(ctx context.Context, warehouseID id.ID) ([]stock.WarehouseProductTotal, error) {
	q := r.builder.Select(
		"s.product_id",
		"p.short_name AS product_name",
		"SUM(s.quantity) AS total_quantity",
	).
		From(stockTable + " s").
		Join("products p ON p.id = s.product_id").
		Where(squirrel.Eq{"s.warehouse_id": warehouseID}).
		GroupBy("s.product_id", "p.short_name").
		OrderBy("p.short_name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var totals []stock.WarehouseProductTotal
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &totals, sql, args...); err != nil {
		return nil, postgres.MapError(err)
	}
	return totals, nil
}

// TotalsByWarehouse sums quantity per warehouse.
func (r *StockRepo) TotalsByWarehouse(ctx context.Context) ([]stock.WarehouseTotal, error) {
	q := r.builder.Select(
		"s.warehouse_id",
		"w.description AS warehouse_name",
		"SUM(s.quantity) AS total_quantity",
	).
		From(stockTable + " s").
		Join("warehouses w ON w.id = s.warehouse_id").
		GroupBy("s.warehouse_id", "w.description").
		OrderBy("w.description")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var totals []stock.WarehouseTotal
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &totals, sql, args...); err != nil {
		return nil, postgres.MapError(err)
	}
	return totals, nil
}

// TotalsForProduct sums one product's quantity per warehouse.
func (r *StockRepo) TotalsForProduct(ctx context.Context, productID id.ID, limit, offset int) ([]stock.ProductWarehouseTotal, int64, error) {
	countQ := r.builder.Select("COUNT(DISTINCT warehouse_id)").
		From(stockTable).
		Where(squirrel.Eq{"product_id": productID})

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &total, countSQL, countArgs...); err != nil {
		return nil, 0, postgres.MapError(err)
	}

	q := r.builder.Select(
		"s.product_id",
		"s.warehouse_id",
		"w.description AS warehouse_name",
		"SUM(s.quantity) AS total_quantity",
	).
		From(stockTable + " s").
		Join("warehouses w ON w.id = s.warehouse_id").
		Where(squirrel.Eq{"s.product_id": productID}).
		GroupBy("s.product_id", "s.warehouse_id", "w.description").
		OrderBy("w.description").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var totals []stock.ProductWarehouseTotal
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &totals, sql, args...); err != nil {
		return nil, 0, postgres.MapError(err)
	}
	return totals, total, nil
}

// TotalsByCategory sums quantity per product category.
func (r *StockRepo) TotalsByCategory(ctx context.Context) ([]stock.CategoryTotal, error) {
	q := r.builder.Select(
		"c.id AS category_id",
		"c.name AS category_name",
		"SUM(s.quantity) AS total_quantity",
	).
		From(stockTable + " s").
		Join("products p ON p.id = s.product_id").
		Join("product_categories c ON c.id = p.category_id").
		GroupBy("c.id", "c.name").
		OrderBy("c.name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var totals []stock.CategoryTotal
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &totals, sql, args...); err != nil {
		return nil, postgres.MapError(err)
	}
	return totals, nil
}

// TotalsByProductInCategory sums quantity per product within a category.
func (r *StockRepo) TotalsByProductInCategory(ctx context.Context, categoryID id.ID) ([]stock.CategoryProductTotal, error) {
	q := r.builder.Select(
		"s.product_id",
		"p.short_name AS product_name",
		"SUM(s.quantity) AS total_quantity",
	).
		From(stockTable + " s").
		Join("products p ON p.id = s.product_id").
		Where(squirrel.Eq{"p.category_id": categoryID}).
		GroupBy("s.product_id", "p.short_name").
		OrderBy("p.short_name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var totals []stock.CategoryProductTotal
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &totals, sql, args...); err != nil {
		return nil, postgres.MapError(err)
	}
	return totals, nil
}

// AvailableLots returns held lots for a (product, warehouse) pair,
// soonest expiration first, lots without one last.
func (r *StockRepo) AvailableLots(ctx context.Context, productID, warehouseID id.ID) ([]stock.AvailableLot, error) {
	q := r.builder.Select("lot", "expiration_date", "quantity").
		From(stockTable).
		Where(squirrel.Eq{
			"product_id":   productID,
			"warehouse_id": warehouseID,
		}).
		Where(squirrel.Gt{"quantity": 0}).
		OrderBy("expiration_date ASC NULLS LAST", "lot")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lots []stock.AvailableLot
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lots, sql, args...); err != nil {
		return nil, postgres.MapError(err)
	}
	return lots, nil
}

const semaphoreSQL = `
SELECT
	COALESCE(SUM(quantity) FILTER (WHERE expiration_date > $1 AND expiration_date <= $2), 0) AS expiring_now,
	COALESCE(SUM(quantity) FILTER (WHERE expiration_date > $2 AND expiration_date <= $3), 0) AS expiring_soon,
	COALESCE(SUM(quantity) FILTER (WHERE expiration_date IS NULL OR expiration_date > $3), 0) AS no_expiration
FROM stock
WHERE quantity > 0
  AND (expiration_date IS NULL OR expiration_date > $1)`

// SemaphoreTotals sums held quantities into the three exclusive
// expiration buckets. Already-expired positions fall outside all three.
func (r *StockRepo) SemaphoreTotals(ctx context.Context, today, inOneMonth, inSixMonths time.Time) (stock.Semaphore, error) {
	var row struct {
		ExpiringNow  int64 `db:"expiring_now"`
		ExpiringSoon int64 `db:"expiring_soon"`
		NoExpiration int64 `db:"no_expiration"`
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, semaphoreSQL, today, inOneMonth, inSixMonths); err != nil {
		return stock.Semaphore{}, postgres.MapError(err)
	}

	return stock.Semaphore{
		ExpiringNow:  row.ExpiringNow,
		ExpiringSoon: row.ExpiringSoon,
		NoExpiration: row.NoExpiration,
	}, nil
}

// History returns flattened movement lines matching the filter.
func (r *StockRepo) History(ctx context.Context, f stock.HistoryFilter) ([]stock.HistoryEntry, int64, error) {
	base := r.builder.Select().
		From(linesTable + " l").
		Join(movesTable + " m ON m.move_id = l.move_id").
		Join("products p ON p.id = l.product_id").
		Join("users u ON u.id = m.user_id")

	if f.ProductID != nil {
		base = base.Where(squirrel.Eq{"l.product_id": *f.ProductID})
	}
	if f.WarehouseID != nil {
		base = base.Where(squirrel.Eq{"l.warehouse_id": *f.WarehouseID})
	}
	if f.UserID != nil {
		base = base.Where(squirrel.Eq{"m.user_id": *f.UserID})
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &total, countSQL, countArgs...); err != nil {
		return nil, 0, postgres.MapError(err)
	}

	q := base.Columns(
		"m.move_id", "m.created_at", "m.move_type",
		"l.warehouse_id", "l.product_id", "p.sku",
		"l.lot", "l.quantity",
		"u.name AS user_name",
	).
		OrderBy("m.created_at DESC", "l.lot").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var entries []stock.HistoryEntry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, 0, postgres.MapError(err)
	}
	return entries, total, nil
}

const verifySQL = `
WITH replay AS (
	SELECT l.warehouse_id, l.product_id, l.lot,
	       SUM(CASE WHEN m.move_type = 'incoming' THEN l.quantity ELSE -l.quantity END) AS replayed
	FROM stock_move_lines l
	JOIN stock_moves m ON m.move_id = l.move_id
	GROUP BY l.warehouse_id, l.product_id, l.lot
)
SELECT
	COALESCE(r.warehouse_id, s.warehouse_id) AS warehouse_id,
	COALESCE(r.product_id, s.product_id) AS product_id,
	COALESCE(r.lot, s.lot) AS lot,
	COALESCE(s.quantity, 0) AS projected,
	COALESCE(r.replayed, 0) AS replayed
FROM replay r
FULL JOIN stock s
  ON s.warehouse_id = r.warehouse_id
 AND s.product_id = r.product_id
 AND s.lot = r.lot
WHERE COALESCE(s.quantity, 0) <> COALESCE(r.replayed, 0)
ORDER BY 1, 2, 3`

// VerifyProjection replays the ledger per (warehouse, product, lot) and
// reports every triple where the projection disagrees with the replayed
// sum, including triples missing from either side.
func (r *StockRepo) VerifyProjection(ctx context.Context) ([]stock.Mismatch, error) {
	var mismatches []stock.Mismatch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &mismatches, verifySQL); err != nil {
		return nil, postgres.MapError(err)
	}
	return mismatches, nil
}

func (r *StockRepo) positionBase() squirrel.SelectBuilder {
	return r.builder.Select().
		From(stockTable + " s").
		Join("warehouses w ON w.id = s.warehouse_id").
		Join("products p ON p.id = s.product_id")
}

func (r *StockRepo) selectPositions(ctx context.Context, base squirrel.SelectBuilder, limit, offset int) ([]stock.Position, int64, error) {
	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &total, countSQL, countArgs...); err != nil {
		return nil, 0, postgres.MapError(err)
	}

	q := base.Columns(
		"s.warehouse_id",
		"w.description AS warehouse_name",
		"s.product_id",
		"p.short_name AS product_name",
		"p.sku",
		"s.lot",
		"s.expiration_date",
		"s.quantity",
	).
		OrderBy("w.description", "p.short_name", "s.lot").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var positions []stock.Position
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &positions, sql, args...); err != nil {
		return nil, 0, postgres.MapError(err)
	}
	return positions, total, nil
}

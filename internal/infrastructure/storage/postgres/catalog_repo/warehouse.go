package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
	"warestock/internal/domain/catalogs/warehouse"
	"warestock/internal/infrastructure/storage/postgres"
)

const warehousesTable = "warehouses"

var warehouseColumns = []string{"id", "description", "is_active"}

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txm *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new warehouse.
func (r *WarehouseRepo) Create(ctx context.Context, w *warehouse.Warehouse) error {
	q := r.builder.Insert(warehousesTable).
		Columns(warehouseColumns...).
		Values(w.ID, w.Description, w.IsActive)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err)
	}
	return nil
}

// GetByID retrieves a warehouse by ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, warehouseID id.ID) (*warehouse.Warehouse, error) {
	q := r.builder.Select(warehouseColumns...).
		From(warehousesTable).
		Where(squirrel.Eq{"id": warehouseID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var w warehouse.Warehouse
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &w, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("warehouse", warehouseID.String())
	}
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &w, nil
}

// Update persists mutable warehouse fields.
func (r *WarehouseRepo) Update(ctx context.Context, w *warehouse.Warehouse) error {
	q := r.builder.Update(warehousesTable).
		Set("description", w.Description).
		Set("is_active", w.IsActive).
		Where(squirrel.Eq{"id": w.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("warehouse", w.ID.String())
	}
	return nil
}

// SetActive toggles warehouse availability for new movement lines.
func (r *WarehouseRepo) SetActive(ctx context.Context, warehouseID id.ID, active bool) error {
	q := r.builder.Update(warehousesTable).
		Set("is_active", active).
		Where(squirrel.Eq{"id": warehouseID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("warehouse", warehouseID.String())
	}
	return nil
}

// List retrieves warehouses with filtering.
func (r *WarehouseRepo) List(ctx context.Context, search string, isActive *bool, limit, offset int) ([]warehouse.Warehouse, int64, error) {
	base := r.builder.Select().From(warehousesTable)
	if search != "" {
		base = base.Where(squirrel.ILike{"description": "%" + search + "%"})
	}
	if isActive != nil {
		base = base.Where(squirrel.Eq{"is_active": *isActive})
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &total, countSQL, countArgs...); err != nil {
		return nil, 0, postgres.MapError(err)
	}

	q := base.Columns(warehouseColumns...).
		OrderBy("description").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var warehouses []warehouse.Warehouse
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &warehouses, sql, args...); err != nil {
		return nil, 0, postgres.MapError(err)
	}
	return warehouses, total, nil
}

// ActiveIDs returns the subset of ids that exist and are active.
func (r *WarehouseRepo) ActiveIDs(ctx context.Context, ids []id.ID) ([]id.ID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := r.builder.Select("id").
		From(warehousesTable).
		Where(squirrel.Eq{"id": ids, "is_active": true})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var active []id.ID
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &active, sql, args...); err != nil {
		return nil, postgres.MapError(err)
	}
	return active, nil
}

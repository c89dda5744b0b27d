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
	"warestock/internal/domain/catalogs/product"
	"warestock/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productColumns = []string{
	"id", "sku", "short_name", "description", "category_id",
	"unit_price", "is_active",
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new product.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	q := r.builder.Insert(productsTable).
		Columns(productColumns...).
		Values(
			p.ID, p.SKU, p.ShortName, p.Description, p.CategoryID,
			p.UnitPrice, p.IsActive,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err)
	}
	return nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &p, nil
}

// Update persists mutable product fields.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	q := r.builder.Update(productsTable).
		Set("sku", p.SKU).
		Set("short_name", p.ShortName).
		Set("description", p.Description).
		Set("category_id", p.CategoryID).
		Set("unit_price", p.UnitPrice).
		Set("is_active", p.IsActive).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID.String())
	}
	return nil
}

// SetActive toggles product availability for new movement lines.
func (r *ProductRepo) SetActive(ctx context.Context, productID id.ID, active bool) error {
	q := r.builder.Update(productsTable).
		Set("is_active", active).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

// List retrieves products with filtering.
func (r *ProductRepo) List(ctx context.Context, f product.ListFilter) ([]product.Product, int64, error) {
	base := r.builder.Select().From(productsTable)
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"sku": pattern},
			squirrel.ILike{"short_name": pattern},
		})
	}
	if f.CategoryID != nil {
		base = base.Where(squirrel.Eq{"category_id": *f.CategoryID})
	}
	if f.IsActive != nil {
		base = base.Where(squirrel.Eq{"is_active": *f.IsActive})
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &total, countSQL, countArgs...); err != nil {
		return nil, 0, postgres.MapError(err)
	}

	q := base.Columns(productColumns...).
		OrderBy("short_name").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var products []product.Product
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &products, sql, args...); err != nil {
		return nil, 0, postgres.MapError(err)
	}
	return products, total, nil
}

// ExistsBySKU checks for a product with the given SKU.
func (r *ProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	q := r.builder.Select("1").
		From(productsTable).
		Where(squirrel.Eq{"sku": sku}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &one, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, postgres.MapError(err)
	}
	return true, nil
}

// ActiveIDs returns the subset of ids that exist and are active.
func (r *ProductRepo) ActiveIDs(ctx context.Context, ids []id.ID) ([]id.ID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := r.builder.Select("id").
		From(productsTable).
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

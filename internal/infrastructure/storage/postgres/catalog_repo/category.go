// Package catalog_repo provides PostgreSQL implementations of the
// catalog repositories.
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
	"warestock/internal/domain/catalogs/category"
	"warestock/internal/infrastructure/storage/postgres"
)

const categoriesTable = "product_categories"

var categoryColumns = []string{"id", "name", "created_at"}

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txm *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new category.
func (r *CategoryRepo) Create(ctx context.Context, c *category.Category) error {
	q := r.builder.Insert(categoriesTable).
		Columns(categoryColumns...).
		Values(c.ID, c.Name, c.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err)
	}
	return nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*category.Category, error) {
	q := r.builder.Select(categoryColumns...).
		From(categoriesTable).
		Where(squirrel.Eq{"id": categoryID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c category.Category
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("category", categoryID.String())
	}
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &c, nil
}

// Update persists the category name.
func (r *CategoryRepo) Update(ctx context.Context, c *category.Category) error {
	q := r.builder.Update(categoriesTable).
		Set("name", c.Name).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("category", c.ID.String())
	}
	return nil
}

// Delete removes a category. Fails with an integrity error when products
// still reference it.
func (r *CategoryRepo) Delete(ctx context.Context, categoryID id.ID) error {
	q := r.builder.Delete(categoriesTable).
		Where(squirrel.Eq{"id": categoryID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("category", categoryID.String())
	}
	return nil
}

// List retrieves categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context, search string, limit, offset int) ([]category.Category, int64, error) {
	base := r.builder.Select().From(categoriesTable)
	if search != "" {
		base = base.Where(squirrel.ILike{"name": "%" + search + "%"})
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &total, countSQL, countArgs...); err != nil {
		return nil, 0, postgres.MapError(err)
	}

	q := base.Columns(categoryColumns...).
		OrderBy("name").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var categories []category.Category
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &categories, sql, args...); err != nil {
		return nil, 0, postgres.MapError(err)
	}
	return categories, total, nil
}

// ExistsByName checks for a category with the exact normalized name.
func (r *CategoryRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	q := r.builder.Select("1").
		From(categoriesTable).
		Where(squirrel.Eq{"name": name}).
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

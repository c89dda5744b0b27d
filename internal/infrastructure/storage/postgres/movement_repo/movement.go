// Package movement_repo provides the PostgreSQL implementation of the
// stock movement ledger: the append-only header and line tables plus the
// in-transaction maintenance of the stock projection.
package movement_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
	"warestock/internal/domain/movements"
	"warestock/internal/infrastructure/storage/postgres"
)

const (
	movesTable = "stock_moves"
	linesTable = "stock_move_lines"
	stockTable = "stock"
)

var lineColumns = []string{
	"move_id", "line_no", "warehouse_id", "product_id",
	"lot", "expiration_date", "quantity",
}

// MovementRepo implements movements.Repository.
type MovementRepo struct {
	txm      *postgres.TxManager
	inserter *postgres.BatchInserter
	executor *postgres.BatchExecutor
	builder  squirrel.StatementBuilderType
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txm *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txm:      txm,
		inserter: postgres.NewBatchInserter(txm),
		executor: postgres.NewBatchExecutor(txm),
		builder:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert writes the movement header.
func (r *MovementRepo) Insert(ctx context.Context, m *movements.Movement) error {
	q := r.builder.Insert(movesTable).
		Columns("move_id", "created_at", "move_type", "user_id").
		Values(m.MoveID, m.CreatedAt, m.Kind, m.UserID)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err)
	}
	return nil
}

// InsertLines writes the movement lines via COPY, preserving their order.
func (r *MovementRepo) InsertLines(ctx context.Context, lines []movements.Line) error {
	if len(lines) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []any{
			l.MoveID, l.LineNo, l.WarehouseID, l.ProductID,
			l.Lot, l.ExpirationDate, l.Quantity,
		})
	}

	if _, err := r.inserter.CopyFromSlice(ctx, linesTable, lineColumns, rows); err != nil {
		return postgres.MapError(err)
	}
	return nil
}

// ApplyToStock folds each line's delta into the stock projection.
// Incoming adds, outgoing subtracts. A position is created on first touch
// with the line's expiration date; existing positions keep theirs. One
// upsert per line, batched into a single round-trip, so repeated
// (warehouse, product, lot) triples within a movement accumulate.
func (r *MovementRepo) ApplyToStock(ctx context.Context, kind movements.Kind, lines []movements.Line) error {
	if len(lines) == 0 {
		return nil
	}

	queries := make([]postgres.BatchQuery, 0, len(lines))
	for _, l := range lines {
		delta := l.Quantity
		if kind == movements.KindOutgoing {
			delta = -delta
		}

		q := r.builder.Insert(stockTable).
			Columns("warehouse_id", "product_id", "lot", "expiration_date", "quantity").
			Values(l.WarehouseID, l.ProductID, l.Lot, l.ExpirationDate, delta).
			Suffix("ON CONFLICT (warehouse_id, product_id, lot) DO UPDATE SET quantity = " +
				stockTable + ".quantity + EXCLUDED.quantity")

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		queries = append(queries, postgres.BatchQuery{SQL: sql, Args: args})
	}

	if err := r.executor.ExecuteBatch(ctx, queries); err != nil {
		return postgres.MapError(err)
	}
	return nil
}

// GetByID returns the header with the owner's display name resolved.
func (r *MovementRepo) GetByID(ctx context.Context, moveID id.ID) (*movements.Movement, error) {
	q := r.headerSelect().
		Where(squirrel.Eq{"m.move_id": moveID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m movements.Movement
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &m, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("movement", moveID.String())
	}
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &m, nil
}

// GetLines returns all lines of a movement ordered by line number.
func (r *MovementRepo) GetLines(ctx context.Context, moveID id.ID) ([]movements.Line, error) {
	q := r.builder.Select(lineColumns...).
		From(linesTable).
		Where(squirrel.Eq{"move_id": moveID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []movements.Line
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, postgres.MapError(err)
	}
	return lines, nil
}

// List returns headers matching the filter, newest first.
func (r *MovementRepo) List(ctx context.Context, f movements.ListFilter) ([]movements.Movement, int64, error) {
	base := r.builder.Select().
		From(movesTable + " m").
		Join("users u ON u.id = m.user_id")

	if f.Search != "" {
		base = base.Where(squirrel.ILike{"u.name": "%" + f.Search + "%"})
	}
	if f.Kind != nil {
		base = base.Where(squirrel.Eq{"m.move_type": *f.Kind})
	}
	if f.DateFrom != nil {
		base = base.Where(squirrel.GtOrEq{"m.created_at": *f.DateFrom})
	}
	if f.DateTo != nil {
		base = base.Where(squirrel.LtOrEq{"m.created_at": *f.DateTo})
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
		"m.move_id", "m.created_at", "m.move_type", "m.user_id",
		"u.name AS user_name",
	).
		OrderBy("m.created_at DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var moves []movements.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &moves, sql, args...); err != nil {
		return nil, 0, postgres.MapError(err)
	}
	return moves, total, nil
}

// ListSince returns headers created in [since, until], newest first.
func (r *MovementRepo) ListSince(ctx context.Context, since, until time.Time, userID *id.ID) ([]movements.Movement, error) {
	q := r.headerSelect().
		Where(squirrel.GtOrEq{"m.created_at": since}).
		Where(squirrel.LtOrEq{"m.created_at": until}).
		OrderBy("m.created_at DESC")

	if userID != nil {
		q = q.Where(squirrel.Eq{"m.user_id": *userID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var moves []movements.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &moves, sql, args...); err != nil {
		return nil, postgres.MapError(err)
	}
	return moves, nil
}

// LineDetails returns a page of lines with product and warehouse names.
func (r *MovementRepo) LineDetails(ctx context.Context, moveID id.ID, limit, offset int) ([]movements.LineDetail, int64, error) {
	countQ := r.builder.Select("COUNT(*)").
		From(linesTable).
		Where(squirrel.Eq{"move_id": moveID})

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &total, countSQL, countArgs...); err != nil {
		return nil, 0, postgres.MapError(err)
	}

	q := r.builder.Select(
		"l.move_id", "l.line_no", "l.warehouse_id", "l.product_id",
		"l.lot", "l.expiration_date", "l.quantity",
		"p.short_name AS product_name",
		"w.description AS warehouse_name",
	).
		From(linesTable + " l").
		Join("products p ON p.id = l.product_id").
		Join("warehouses w ON w.id = l.warehouse_id").
		Where(squirrel.Eq{"l.move_id": moveID}).
		OrderBy("l.line_no").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var details []movements.LineDetail
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &details, sql, args...); err != nil {
		return nil, 0, postgres.MapError(err)
	}
	return details, total, nil
}

// CountByKind returns movement counts grouped by kind.
func (r *MovementRepo) CountByKind(ctx context.Context, userID *id.ID) (map[movements.Kind]int64, error) {
	q := r.builder.Select("move_type", "COUNT(*) AS quantity").
		From(movesTable).
		GroupBy("move_type")

	if userID != nil {
		q = q.Where(squirrel.Eq{"user_id": *userID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []struct {
		Kind     movements.Kind `db:"move_type"`
		Quantity int64          `db:"quantity"`
	}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err)
	}

	counts := make(map[movements.Kind]int64, len(rows))
	for _, row := range rows {
		counts[row.Kind] = row.Quantity
	}
	return counts, nil
}

func (r *MovementRepo) headerSelect() squirrel.SelectBuilder {
	return r.builder.Select(
		"m.move_id", "m.created_at", "m.move_type", "m.user_id",
		"u.name AS user_name",
	).
		From(movesTable + " m").
		Join("users u ON u.id = m.user_id")
}

package movements

import (
	"context"
	"time"

	"warestock/internal/core/id"
)

// Repository defines storage operations for the movement ledger.
// Mutating methods must be called inside a transaction managed by the
// service; the ledger is append-only.
type Repository interface {
	// Insert writes the movement header.
	Insert(ctx context.Context, m *Movement) error

	// InsertLines writes the movement lines, preserving their order.
	InsertLines(ctx context.Context, lines []Line) error

	// ApplyToStock applies each line's quantity delta to the stock
	// position table: incoming adds, outgoing subtracts. A position is
	// created on first touch, recording the line's expiration date;
	// existing positions keep theirs. Must run in the same transaction
	// as the line insert.
	ApplyToStock(ctx context.Context, kind Kind, lines []Line) error

	// GetByID returns the header with the owner's display name resolved.
	GetByID(ctx context.Context, moveID id.ID) (*Movement, error)

	// GetLines returns all lines of a movement ordered by line number.
	GetLines(ctx context.Context, moveID id.ID) ([]Line, error)

	// List returns headers (with owner names) matching the filter,
	// newest first, and the total match count.
	List(ctx context.Context, f ListFilter) ([]Movement, int64, error)

	// ListSince returns headers created in [since, until], newest first,
	// optionally restricted to one owner.
	ListSince(ctx context.Context, since, until time.Time, userID *id.ID) ([]Movement, error)

	// LineDetails returns a page of a movement's lines with product and
	// warehouse names joined, plus the total line count.
	LineDetails(ctx context.Context, moveID id.ID, limit, offset int) ([]LineDetail, int64, error)

	// CountByKind returns movement counts grouped by kind, optionally
	// restricted to one owner. Missing kinds are absent from the map.
	CountByKind(ctx context.Context, userID *id.ID) (map[Kind]int64, error)
}

// ReferenceGate answers active-entity checks against the catalogs.
// Historical lines referencing since-deactivated entities remain valid;
// the gate is consulted only at admission time.
type ReferenceGate interface {
	// ActiveWarehouseIDs returns the subset of ids that exist and are
	// currently active.
	ActiveWarehouseIDs(ctx context.Context, ids []id.ID) ([]id.ID, error)

	// ActiveProductIDs returns the subset of ids that exist and are
	// currently active.
	ActiveProductIDs(ctx context.Context, ids []id.ID) ([]id.ID, error)
}

// Notifier receives a human-readable note after a successful commit.
// Delivery is best-effort: implementations must never block or fail the
// caller.
type Notifier interface {
	Publish(msg string)
}

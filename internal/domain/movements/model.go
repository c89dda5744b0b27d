// Package movements provides the stock movement ledger: validation and
// atomic recording of multi-line stock movements, plus the read side of
// the movement log.
package movements

import (
	"fmt"
	"time"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
)

// Kind is the direction of a stock movement.
type Kind string

const (
	KindIncoming Kind = "incoming"
	KindOutgoing Kind = "outgoing"
)

// Valid reports whether k is a known movement kind.
func (k Kind) Valid() bool {
	return k == KindIncoming || k == KindOutgoing
}

const (
	// MaxLines is the maximum number of lines per movement.
	MaxLines = 100

	// DefaultLot is the sentinel lot for untracked stock.
	DefaultLot = "NO_LOT"

	maxLotLength = 50
)

// Movement is one admitted change event. Immutable once created: there is
// no update or delete operation for a movement.
type Movement struct {
	MoveID    id.ID     `db:"move_id" json:"move_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Kind      Kind      `db:"move_type" json:"move_type"`
	UserID    id.ID     `db:"user_id" json:"user_id"`
	UserName  string    `db:"user_name" json:"user_name"`
	Lines     []Line    `db:"-" json:"lines,omitempty"`
}

// Line is one (warehouse, product, lot, quantity) delta within a movement.
// Lines belong to exactly one movement and share its lifetime.
type Line struct {
	MoveID         id.ID      `db:"move_id" json:"move_id"`
	LineNo         int        `db:"line_no" json:"line_no"`
	WarehouseID    id.ID      `db:"warehouse_id" json:"warehouse_id"`
	ProductID      id.ID      `db:"product_id" json:"product_id"`
	Lot            string     `db:"lot" json:"lot"`
	ExpirationDate *time.Time `db:"expiration_date" json:"expiration_date,omitempty"`
	Quantity       int64      `db:"quantity" json:"quantity"`
}

// LineDetail is a line with product and warehouse display names attached.
type LineDetail struct {
	Line
	ProductName   string `db:"product_name" json:"product_name"`
	WarehouseName string `db:"warehouse_name" json:"warehouse_name"`
}

// KindCount is the per-kind movement count summary.
type KindCount struct {
	Kind     Kind  `json:"move_type"`
	Quantity int64 `json:"quantity"`
}

// CreateInput is the request to record a movement.
type CreateInput struct {
	Kind   Kind        `json:"move_type"`
	UserID id.ID       `json:"user_id"`
	Lines  []LineInput `json:"lines"`
}

// LineInput is one requested line. Order is caller-significant and is
// preserved verbatim as the 1-based line number.
type LineInput struct {
	WarehouseID    id.ID      `json:"warehouse_id"`
	ProductID      id.ID      `json:"product_id"`
	Lot            string     `json:"lot"`
	ExpirationDate *time.Time `json:"expiration_date"`
	Quantity       int64      `json:"quantity"`
}

// validate checks the structural shape of the input. Admission rules that
// need the clock or the reference gate live in Service.Create.
func (in *CreateInput) validate() error {
	if !in.Kind.Valid() {
		return apperror.NewValidation("move_type must be 'incoming' or 'outgoing'").
			WithDetail("move_type", string(in.Kind))
	}
	if id.IsNil(in.UserID) {
		return apperror.NewValidation("user_id is required")
	}
	for i, line := range in.Lines {
		if id.IsNil(line.WarehouseID) {
			return apperror.NewValidation(fmt.Sprintf("line %d: warehouse_id is required", i+1))
		}
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation(fmt.Sprintf("line %d: product_id is required", i+1))
		}
		if line.Quantity < 1 {
			return apperror.NewValidation(fmt.Sprintf("line %d: quantity must be at least 1", i+1))
		}
		if len(line.Lot) > maxLotLength {
			return apperror.NewValidation(fmt.Sprintf("line %d: lot exceeds %d characters", i+1, maxLotLength))
		}
	}
	return nil
}

// ListFilter filters the movement list.
type ListFilter struct {
	// Search matches the owning user's display name, case-insensitive.
	Search string

	Kind     *Kind
	DateFrom *time.Time
	DateTo   *time.Time

	// UserID restricts to one owner. The service sets it for non-admin
	// actors and honors the caller-supplied value only for admins.
	UserID *id.ID

	Limit  int
	Offset int
}

package dto

import (
	"time"

	"warestock/internal/core/id"
	"warestock/internal/domain/movements"
)

// CreateMovementRequest for POST /stock-movements. Line order is
// preserved as the 1-based line number.
type CreateMovementRequest struct {
	MoveType string              `json:"move_type" binding:"required"`
	UserID   string              `json:"user_id" binding:"required"`
	Lines    []MovementLineEntry `json:"lines"`
}

// MovementLineEntry is one requested movement line.
type MovementLineEntry struct {
	WarehouseID    string     `json:"warehouse_id" binding:"required"`
	ProductID      string     `json:"product_id" binding:"required"`
	Lot            string     `json:"lot"`
	ExpirationDate *time.Time `json:"expiration_date"`
	Quantity       int64      `json:"quantity" binding:"required"`
}

// ToCreateInput converts the request into domain input.
func (r CreateMovementRequest) ToCreateInput() (movements.CreateInput, error) {
	userID, err := id.Parse(r.UserID)
	if err != nil {
		return movements.CreateInput{}, err
	}

	lines := make([]movements.LineInput, len(r.Lines))
	for i, l := range r.Lines {
		warehouseID, err := id.Parse(l.WarehouseID)
		if err != nil {
			return movements.CreateInput{}, err
		}
		productID, err := id.Parse(l.ProductID)
		if err != nil {
			return movements.CreateInput{}, err
		}
		lines[i] = movements.LineInput{
			WarehouseID:    warehouseID,
			ProductID:      productID,
			Lot:            l.Lot,
			ExpirationDate: l.ExpirationDate,
			Quantity:       l.Quantity,
		}
	}

	return movements.CreateInput{
		Kind:   movements.Kind(r.MoveType),
		UserID: userID,
		Lines:  lines,
	}, nil
}

// MovementListQuery filters GET /stock-movements.
type MovementListQuery struct {
	PageQuery
	Search   string     `form:"search"`
	MoveType string     `form:"move_type"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
	UserID   string     `form:"user_id"`
}

// ToListFilter converts the query into a domain filter.
func (q MovementListQuery) ToListFilter() (movements.ListFilter, error) {
	f := movements.ListFilter{
		Search:   q.Search,
		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,
	}
	if q.MoveType != "" {
		kind := movements.Kind(q.MoveType)
		f.Kind = &kind
	}
	if q.UserID != "" {
		userID, err := id.Parse(q.UserID)
		if err != nil {
			return movements.ListFilter{}, err
		}
		f.UserID = &userID
	}
	return f, nil
}

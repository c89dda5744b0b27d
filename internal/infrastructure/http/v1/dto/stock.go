package dto

import (
	"time"

	"warestock/internal/core/id"
	"warestock/internal/domain/stock"
)

// PositionQuery filters GET /stock.
type PositionQuery struct {
	PageQuery
	WarehouseID string `form:"warehouse_id"`
	ProductID   string `form:"product_id"`
	Lot         string `form:"lot"`
}

// ToFilter converts the query into a domain filter.
func (q PositionQuery) ToFilter() (stock.PositionFilter, error) {
	var f stock.PositionFilter
	if q.WarehouseID != "" {
		warehouseID, err := id.Parse(q.WarehouseID)
		if err != nil {
			return f, err
		}
		f.WarehouseID = &warehouseID
	}
	if q.ProductID != "" {
		productID, err := id.Parse(q.ProductID)
		if err != nil {
			return f, err
		}
		f.ProductID = &productID
	}
	if q.Lot != "" {
		lot := q.Lot
		f.Lot = &lot
	}
	return f, nil
}

// ExpiringRelativeQuery for GET /stock/expiring: a window measured in
// months from today.
type ExpiringRelativeQuery struct {
	PageQuery
	FromMonths  int `form:"from_months"`
	RangeMonths int `form:"range_months"`
}

// ExpiringBetweenQuery for GET /stock/expiring-between.
type ExpiringBetweenQuery struct {
	PageQuery
	DateFrom time.Time `form:"date_from" binding:"required" time_format:"2006-01-02"`
	DateTo   time.Time `form:"date_to" binding:"required" time_format:"2006-01-02"`
}

// HistoryQuery filters GET /stock/history.
type HistoryQuery struct {
	PageQuery
	ProductID   string `form:"product_id"`
	WarehouseID string `form:"warehouse_id"`
}

// ToFilter converts the query into a domain filter.
func (q HistoryQuery) ToFilter() (stock.HistoryFilter, error) {
	var f stock.HistoryFilter
	if q.ProductID != "" {
		productID, err := id.Parse(q.ProductID)
		if err != nil {
			return f, err
		}
		f.ProductID = &productID
	}
	if q.WarehouseID != "" {
		warehouseID, err := id.Parse(q.WarehouseID)
		if err != nil {
			return f, err
		}
		f.WarehouseID = &warehouseID
	}
	return f, nil
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"warestock/internal/domain"
	"warestock/internal/domain/stock"
	"warestock/internal/infrastructure/http/v1/dto"
)

// StockHandler serves the stock projection and its aggregations.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock query handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// Positions handles GET /stock.
func (h *StockHandler) Positions(c *gin.Context) {
	var q dto.PositionQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page := h.Page(q.PageQuery)

	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	items, total, err := h.service.Positions(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, domain.NewListResult(items, total, page))
}

// Expiring handles GET /stock/expiring: a window in months from today.
func (h *StockHandler) Expiring(c *gin.Context) {
	var q dto.ExpiringRelativeQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page := h.Page(q.PageQuery)

	items, total, err := h.service.ExpiringRelative(c.Request.Context(), q.FromMonths, q.RangeMonths, page.Limit, page.Offset)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, domain.NewListResult(items, total, page))
}

// ExpiringBetween handles GET /stock/expiring-between: an explicit range.
func (h *StockHandler) ExpiringBetween(c *gin.Context) {
	var q dto.ExpiringBetweenQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page := h.Page(q.PageQuery)

	items, total, err := h.service.ExpiringBetween(c.Request.Context(), q.DateFrom, q.DateTo, page.Limit, page.Offset)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, domain.NewListResult(items, total, page))
}

// WarehouseTotals handles GET /stock/warehouses.
func (h *StockHandler) WarehouseTotals(c *gin.Context) {
	totals, err := h.service.WarehouseTotals(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if totals == nil {
		totals = []stock.WarehouseTotal{}
	}
	h.OK(c, totals)
}

// WarehouseDetail handles GET /stock/warehouses/:id.
func (h *StockHandler) WarehouseDetail(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	totals, err := h.service.WarehouseDetail(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if totals == nil {
		totals = []stock.WarehouseProductTotal{}
	}
	h.OK(c, totals)
}

// ProductTotals handles GET /stock/products/:id.
func (h *StockHandler) ProductTotals(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var q dto.PageQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page := h.Page(q)

	totals, total, err := h.service.ProductTotals(c.Request.Context(), productID, page.Limit, page.Offset)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, domain.NewListResult(totals, total, page))
}

// CategoryTotals handles GET /stock/categories.
func (h *StockHandler) CategoryTotals(c *gin.Context) {
	totals, err := h.service.CategoryTotals(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if totals == nil {
		totals = []stock.CategoryTotal{}
	}
	h.OK(c, totals)
}

// CategoryDetail handles GET /stock/categories/:id.
func (h *StockHandler) CategoryDetail(c *gin.Context) {
	categoryID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	totals, err := h.service.CategoryDetail(c.Request.Context(), categoryID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if totals == nil {
		totals = []stock.CategoryProductTotal{}
	}
	h.OK(c, totals)
}

// AvailableLots handles GET /stock/lots.
func (h *StockHandler) AvailableLots(c *gin.Context) {
	productID, ok := h.parseID(c, c.Query("product_id"), "product_id")
	if !ok {
		return
	}
	warehouseID, ok := h.parseID(c, c.Query("warehouse_id"), "warehouse_id")
	if !ok {
		return
	}

	lots, err := h.service.AvailableLots(c.Request.Context(), productID, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if lots == nil {
		lots = []stock.AvailableLot{}
	}
	h.OK(c, lots)
}

// Semaphore handles GET /stock/semaphore.
func (h *StockHandler) Semaphore(c *gin.Context) {
	buckets, err := h.service.SemaphoreTotals(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, buckets)
}

// History handles GET /stock/history.
func (h *StockHandler) History(c *gin.Context) {
	var q dto.HistoryQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page := h.Page(q.PageQuery)

	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	entries, total, err := h.service.History(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, domain.NewListResult(entries, total, page))
}

// Consistency handles GET /stock/consistency.
func (h *StockHandler) Consistency(c *gin.Context) {
	report, err := h.service.VerifyProjection(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

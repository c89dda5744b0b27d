package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warestock/internal/domain"
	"warestock/internal/domain/movements"
	"warestock/internal/infrastructure/http/v1/dto"
)

// MovementHandler handles the stock movement ledger endpoints.
type MovementHandler struct {
	*BaseHandler
	service *movements.Service
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler(base *BaseHandler, service *movements.Service) *MovementHandler {
	return &MovementHandler{BaseHandler: base, service: service}
}

// Create handles POST /stock-movements.
func (h *MovementHandler) Create(c *gin.Context) {
	var req dto.CreateMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToCreateInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List handles GET /stock-movements.
func (h *MovementHandler) List(c *gin.Context) {
	var q dto.MovementListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page := h.Page(q.PageQuery)

	filter, err := q.ToListFilter()
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, domain.NewListResult(items, total, page))
}

// ListLastYear handles GET /stock-movements/last-year.
func (h *MovementHandler) ListLastYear(c *gin.Context) {
	items, err := h.service.ListLastYear(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if items == nil {
		items = []movements.Movement{}
	}
	h.OK(c, items)
}

// Summary handles GET /stock-movements/summary.
func (h *MovementHandler) Summary(c *gin.Context) {
	counts, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, counts)
}

// GetByID handles GET /stock-movements/:id.
func (h *MovementHandler) GetByID(c *gin.Context) {
	moveID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	movement, err := h.service.GetByID(c.Request.Context(), moveID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, movement)
}

// Lines handles GET /stock-movements/:id/lines.
func (h *MovementHandler) Lines(c *gin.Context) {
	moveID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var q dto.PageQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page := h.Page(q)

	details, total, err := h.service.LineDetails(c.Request.Context(), moveID, page.Limit, page.Offset)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, domain.NewListResult(details, total, page))
}

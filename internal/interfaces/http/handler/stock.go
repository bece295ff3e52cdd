package handler

import (
	inventoryapp "github.com/atlaserp/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	ledgerService *inventoryapp.LedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledgerService *inventoryapp.LedgerService) *StockHandler {
	return &StockHandler{ledgerService: ledgerService}
}

// StockIn handles POST /api/v1/stock/in
func (h *StockHandler) StockIn(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req inventoryapp.StockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.ledgerService.StockIn(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// StockOut handles POST /api/v1/stock/out
func (h *StockHandler) StockOut(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req inventoryapp.StockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.ledgerService.StockOut(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Adjust handles POST /api/v1/stock/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.ledgerService.AdjustStock(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Transfer handles POST /api/v1/stock/transfer
func (h *StockHandler) Transfer(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req inventoryapp.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.ledgerService.TransferStock(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Get handles GET /api/v1/stock/:id
func (h *StockHandler) Get(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	itemID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.ledgerService.GetStockItem(c.Request.Context(), tenantID, userID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// List handles GET /api/v1/stock
func (h *StockHandler) List(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	filter := inventoryapp.StockListFilter{
		Page:         queryInt(c, "page", 1),
		PageSize:     queryInt(c, "page_size", 20),
		OrderBy:      c.Query("order_by"),
		OrderDir:     c.Query("order_dir"),
		Search:       c.Query("search"),
		ProductID:    queryUUID(c, "product_id"),
		LocationID:   queryUUID(c, "location_id"),
		BelowMinimum: queryBool(c, "below_minimum"),
	}

	items, total, err := h.ledgerService.ListStockItems(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListMovements handles GET /api/v1/stock/movements
func (h *StockHandler) ListMovements(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	filter := inventoryapp.MovementListFilter{
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 20),
		ProductID:  queryUUID(c, "product_id"),
		LocationID: queryUUID(c, "location_id"),
		Type:       c.Query("type"),
		Reference:  c.Query("reference"),
	}

	movements, total, err := h.ledgerService.ListMovements(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// ListBatches handles GET /api/v1/stock/batches
func (h *StockHandler) ListBatches(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	filter := inventoryapp.BatchListFilter{
		Page:            queryInt(c, "page", 1),
		PageSize:        queryInt(c, "page_size", 20),
		ProductID:       queryUUID(c, "product_id"),
		LocationID:      queryUUID(c, "location_id"),
		BatchNumber:     c.Query("batch_number"),
		IncludeConsumed: queryBool(c, "include_consumed"),
	}

	batches, total, err := h.ledgerService.ListBatches(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, batches, total, filter.Page, filter.PageSize)
}

// ListBelowMinimum handles GET /api/v1/stock/below-minimum
func (h *StockHandler) ListBelowMinimum(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	items, err := h.ledgerService.ListBelowMinimum(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

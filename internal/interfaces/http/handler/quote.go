package handler

import (
	salesapp "github.com/atlaserp/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
)

// QuoteHandler handles sales quote API endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService *salesapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *salesapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Create handles POST /api/v1/quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req salesapp.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quote)
}

// Update handles PUT /api/v1/quotes/:id
func (h *QuoteHandler) Update(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req salesapp.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	quote, err := h.quoteService.UpdateQuote(c.Request.Context(), tenantID, userID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// ChangeStatus handles POST /api/v1/quotes/:id/status
func (h *QuoteHandler) ChangeStatus(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req salesapp.ChangeQuoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	quote, err := h.quoteService.ChangeQuoteStatus(c.Request.Context(), tenantID, userID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Convert handles POST /api/v1/quotes/:id/convert
func (h *QuoteHandler) Convert(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	conversion, err := h.quoteService.ConvertToOrder(c.Request.Context(), tenantID, userID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, conversion)
}

// Get handles GET /api/v1/quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	quote, err := h.quoteService.GetQuote(c.Request.Context(), tenantID, userID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// List handles GET /api/v1/quotes
func (h *QuoteHandler) List(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	filter := salesapp.QuoteListFilter{
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 20),
		Status:     c.Query("status"),
		Search:     c.Query("search"),
		CustomerID: queryUUID(c, "customer_id"),
	}

	quotes, total, err := h.quoteService.ListQuotes(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, quotes, total, filter.Page, filter.PageSize)
}

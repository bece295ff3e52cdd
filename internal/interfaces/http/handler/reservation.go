package handler

import (
	inventoryapp "github.com/atlaserp/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// ReservationHandler handles stock reservation API endpoints
type ReservationHandler struct {
	BaseHandler
	reservationService *inventoryapp.ReservationService
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservationService *inventoryapp.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// Create handles POST /api/v1/reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req inventoryapp.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	reservation, err := h.reservationService.CreateReservation(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, reservation)
}

// Cancel handles POST /api/v1/reservations/:id/cancel
func (h *ReservationHandler) Cancel(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	reservationID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	// The body is optional; an empty one cancels without a reason
	var req inventoryapp.CancelReservationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindingError(c, err)
			return
		}
	}

	reservation, err := h.reservationService.CancelReservation(c.Request.Context(), tenantID, userID, reservationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reservation)
}

// Get handles GET /api/v1/reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	reservationID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := h.reservationService.GetReservation(c.Request.Context(), tenantID, userID, reservationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reservation)
}

// List handles GET /api/v1/reservations
func (h *ReservationHandler) List(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	filter := inventoryapp.ReservationListFilter{
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
		ProductID: queryUUID(c, "product_id"),
		Status:    c.Query("status"),
		Reference: c.Query("reference"),
	}

	reservations, total, err := h.reservationService.ListReservations(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, reservations, total, filter.Page, filter.PageSize)
}

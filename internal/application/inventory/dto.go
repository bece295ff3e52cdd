package inventory

import (
	"time"

	"github.com/atlaserp/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockInRequest is the input for receiving stock
type StockInRequest struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	LocationID  *uuid.UUID       `json:"location_id,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity" binding:"required"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	BatchNumber string           `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time       `json:"expiry_date,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// StockOutRequest is the input for issuing stock
type StockOutRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}

// AdjustStockRequest is the input for an absolute quantity correction
type AdjustStockRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason" binding:"required"`
}

// TransferStockRequest is the input for moving stock between locations
type TransferStockRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	FromLocationID *uuid.UUID      `json:"from_location_id,omitempty"`
	ToLocationID   *uuid.UUID      `json:"to_location_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Reference      string          `json:"reference,omitempty"`
}

// CreateReservationRequest is the input for placing a stock hold
type CreateReservationRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	LocationID *uuid.UUID      `json:"location_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Reference  string          `json:"reference,omitempty"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
}

// CancelReservationRequest is the input for cancelling a stock hold
type CancelReservationRequest struct {
	Reason string `json:"reason,omitempty"`
}

// StockListFilter carries list query parameters for stock items
type StockListFilter struct {
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir"`
	Search       string     `form:"search"`
	ProductID    *uuid.UUID `form:"product_id"`
	LocationID   *uuid.UUID `form:"location_id"`
	BelowMinimum *bool      `form:"below_minimum"`
}

// MovementListFilter carries list query parameters for the movement journal
type MovementListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	ProductID  *uuid.UUID `form:"product_id"`
	LocationID *uuid.UUID `form:"location_id"`
	Type       string     `form:"type"`
	Reference  string     `form:"reference"`
}

// BatchListFilter carries list query parameters for stock batches
type BatchListFilter struct {
	Page            int        `form:"page"`
	PageSize        int        `form:"page_size"`
	ProductID       *uuid.UUID `form:"product_id"`
	LocationID      *uuid.UUID `form:"location_id"`
	BatchNumber     string     `form:"batch_number"`
	IncludeConsumed *bool      `form:"include_consumed"`
}

// ReservationListFilter carries list query parameters for reservations
type ReservationListFilter struct {
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
	ProductID *uuid.UUID `form:"product_id"`
	Status    string     `form:"status"`
	Reference string     `form:"reference"`
}

// StockItemResponse is the API representation of a stock item
type StockItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	LocationID        *uuid.UUID      `json:"location_id,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	MinStock          decimal.Decimal `json:"min_stock"`
	MaxStock          decimal.Decimal `json:"max_stock"`
	BelowMinimum      bool            `json:"below_minimum"`
	LastMovementAt    *time.Time      `json:"last_movement_at,omitempty"`
	LastMovementType  string          `json:"last_movement_type,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToStockItemResponse converts a stock item to its API representation
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		LocationID:        item.LocationID,
		Quantity:          item.Quantity,
		ReservedQuantity:  item.ReservedQuantity,
		AvailableQuantity: item.Available(),
		UnitCost:          item.UnitCost,
		MinStock:          item.MinStock,
		MaxStock:          item.MaxStock,
		BelowMinimum:      item.IsBelowMinimum(),
		LastMovementAt:    item.LastMovementAt,
		LastMovementType:  string(item.LastMovementType),
		UpdatedAt:         item.UpdatedAt,
	}
}

// ToStockItemResponses converts a slice of stock items
func ToStockItemResponses(items []inventory.StockItem) []StockItemResponse {
	responses := make([]StockItemResponse, len(items))
	for idx := range items {
		responses[idx] = ToStockItemResponse(&items[idx])
	}
	return responses
}

// MovementResponse is the API representation of a movement record
type MovementResponse struct {
	ID             uuid.UUID        `json:"id"`
	ProductID      uuid.UUID        `json:"product_id"`
	Type           string           `json:"type"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost      *decimal.Decimal `json:"total_cost,omitempty"`
	QuantityBefore decimal.Decimal  `json:"quantity_before"`
	QuantityAfter  decimal.Decimal  `json:"quantity_after"`
	FromLocationID *uuid.UUID       `json:"from_location_id,omitempty"`
	ToLocationID   *uuid.UUID       `json:"to_location_id,omitempty"`
	BatchNumber    string           `json:"batch_number,omitempty"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	Reference      string           `json:"reference,omitempty"`
	CreatedBy      *uuid.UUID       `json:"created_by,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ToMovementResponse converts a movement to its API representation
func ToMovementResponse(movement *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             movement.ID,
		ProductID:      movement.ProductID,
		Type:           string(movement.Type),
		Quantity:       movement.Quantity,
		UnitCost:       movement.UnitCost,
		TotalCost:      movement.TotalCost,
		QuantityBefore: movement.QuantityBefore,
		QuantityAfter:  movement.QuantityAfter,
		FromLocationID: movement.FromLocationID,
		ToLocationID:   movement.ToLocationID,
		BatchNumber:    movement.BatchNumber,
		ExpirationDate: movement.ExpirationDate,
		Reason:         movement.Reason,
		Reference:      movement.Reference,
		CreatedBy:      movement.CreatedBy,
		CreatedAt:      movement.CreatedAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []inventory.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for idx := range movements {
		responses[idx] = ToMovementResponse(&movements[idx])
	}
	return responses
}

// BatchResponse is the API representation of a stock batch
type BatchResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Consumed    bool            `json:"consumed"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToBatchResponse converts a batch to its API representation
func ToBatchResponse(batch *inventory.StockBatch) BatchResponse {
	return BatchResponse{
		ID:          batch.ID,
		ProductID:   batch.ProductID,
		LocationID:  batch.LocationID,
		BatchNumber: batch.BatchNumber,
		Quantity:    batch.Quantity,
		UnitCost:    batch.UnitCost,
		ExpiryDate:  batch.ExpiryDate,
		Consumed:    batch.Consumed,
		CreatedAt:   batch.CreatedAt,
	}
}

// ToBatchResponses converts a slice of batches
func ToBatchResponses(batches []inventory.StockBatch) []BatchResponse {
	responses := make([]BatchResponse, len(batches))
	for idx := range batches {
		responses[idx] = ToBatchResponse(&batches[idx])
	}
	return responses
}

// ReservationResponse is the API representation of a reservation
type ReservationResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	ReleasedAt  *time.Time      `json:"released_at,omitempty"`
	FulfilledAt *time.Time      `json:"fulfilled_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToReservationResponse converts a reservation to its API representation
func ToReservationResponse(reservation *inventory.StockReservation) ReservationResponse {
	return ReservationResponse{
		ID:          reservation.ID,
		ProductID:   reservation.ProductID,
		LocationID:  reservation.LocationID,
		Quantity:    reservation.Quantity,
		Status:      string(reservation.Status),
		Reference:   reservation.Reference,
		Notes:       reservation.Notes,
		ExpiresAt:   reservation.ExpiresAt,
		ReleasedAt:  reservation.ReleasedAt,
		FulfilledAt: reservation.FulfilledAt,
		CreatedAt:   reservation.CreatedAt,
	}
}

// ToReservationResponses converts a slice of reservations
func ToReservationResponses(reservations []inventory.StockReservation) []ReservationResponse {
	responses := make([]ReservationResponse, len(reservations))
	for idx := range reservations {
		responses[idx] = ToReservationResponse(&reservations[idx])
	}
	return responses
}

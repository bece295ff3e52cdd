package inventory

import (
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the inventory domain
const (
	EventTypeStockReceived       = "inventory.stock_received"
	EventTypeStockIssued         = "inventory.stock_issued"
	EventTypeStockAdjusted       = "inventory.stock_adjusted"
	EventTypeStockTransferred    = "inventory.stock_transferred"
	EventTypeStockBelowMinimum   = "inventory.stock_below_minimum"
	EventTypeStockReserved       = "inventory.stock_reserved"
	EventTypeReservationReleased = "inventory.reservation_released"
)

// StockReceivedEvent is published when stock enters the ledger
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID        `json:"product_id"`
	LocationID *uuid.UUID       `json:"location_id,omitempty"`
	Quantity   decimal.Decimal  `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	NewTotal   decimal.Decimal  `json:"new_total"`
}

// NewStockReceivedEvent creates a stock received event
func NewStockReceivedEvent(item *StockItem, quantity decimal.Decimal, unitCost *decimal.Decimal) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, "StockItem", item.ID, item.TenantID),
		ProductID:       item.ProductID,
		LocationID:      item.LocationID,
		Quantity:        quantity,
		UnitCost:        unitCost,
		NewTotal:        item.Quantity,
	}
}

// StockIssuedEvent is published when stock leaves the ledger
type StockIssuedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID       `json:"product_id"`
	LocationID *uuid.UUID      `json:"location_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	NewTotal   decimal.Decimal `json:"new_total"`
}

// NewStockIssuedEvent creates a stock issued event
func NewStockIssuedEvent(item *StockItem, quantity decimal.Decimal) *StockIssuedEvent {
	return &StockIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIssued, "StockItem", item.ID, item.TenantID),
		ProductID:       item.ProductID,
		LocationID:      item.LocationID,
		Quantity:        quantity,
		NewTotal:        item.Quantity,
	}
}

// StockAdjustedEvent is published when a count correction is applied
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason"`
}

// NewStockAdjustedEvent creates a stock adjusted event
func NewStockAdjustedEvent(item *StockItem, oldQuantity, newQuantity decimal.Decimal, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, "StockItem", item.ID, item.TenantID),
		ProductID:       item.ProductID,
		LocationID:      item.LocationID,
		OldQuantity:     oldQuantity,
		NewQuantity:     newQuantity,
		Reason:          reason,
	}
}

// StockTransferredEvent is published once per transfer, keyed on the
// source item.
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	FromLocationID *uuid.UUID      `json:"from_location_id,omitempty"`
	ToLocationID   *uuid.UUID      `json:"to_location_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// NewStockTransferredEvent creates a stock transferred event
func NewStockTransferredEvent(source *StockItem, toLocationID *uuid.UUID, quantity decimal.Decimal) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, "StockItem", source.ID, source.TenantID),
		ProductID:       source.ProductID,
		FromLocationID:  source.LocationID,
		ToLocationID:    toLocationID,
		Quantity:        quantity,
	}
}

// StockBelowMinimumEvent is published when a movement drops the quantity
// below the configured minimum threshold.
type StockBelowMinimumEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID       `json:"product_id"`
	LocationID *uuid.UUID      `json:"location_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	MinStock   decimal.Decimal `json:"min_stock"`
}

// NewStockBelowMinimumEvent creates a below-minimum alert event
func NewStockBelowMinimumEvent(item *StockItem) *StockBelowMinimumEvent {
	return &StockBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowMinimum, "StockItem", item.ID, item.TenantID),
		ProductID:       item.ProductID,
		LocationID:      item.LocationID,
		Quantity:        item.Quantity,
		MinStock:        item.MinStock,
	}
}

// StockReservedEvent is published when a reservation is placed
type StockReservedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID       `json:"product_id"`
	LocationID *uuid.UUID      `json:"location_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reference  string          `json:"reference,omitempty"`
}

// NewStockReservedEvent creates a stock reserved event
func NewStockReservedEvent(reservation *StockReservation) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, "StockReservation", reservation.ID, reservation.TenantID),
		ProductID:       reservation.ProductID,
		LocationID:      reservation.LocationID,
		Quantity:        reservation.Quantity,
		Reference:       reservation.Reference,
	}
}

// ReservationReleasedEvent is published when a hold returns to available,
// whether by cancellation or expiry.
type ReservationReleasedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID       `json:"product_id"`
	LocationID *uuid.UUID      `json:"location_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Outcome    string          `json:"outcome"`
}

// NewReservationReleasedEvent creates a reservation released event
func NewReservationReleasedEvent(reservation *StockReservation, outcome string) *ReservationReleasedEvent {
	return &ReservationReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationReleased, "StockReservation", reservation.ID, reservation.TenantID),
		ProductID:       reservation.ProductID,
		LocationID:      reservation.LocationID,
		Quantity:        reservation.Quantity,
		Outcome:         outcome,
	}
}

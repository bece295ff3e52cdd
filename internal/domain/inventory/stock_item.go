package inventory

import (
	"time"

	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem holds the current stock state of one product at one location.
// It is the aggregate root for ledger operations. LocationID is nil for the
// "unlocated" bucket, so the composite identifier is ProductID + LocationID.
// Uniqueness, including a single row for the nil bucket, comes from a
// NULLS NOT DISTINCT unique index created at migration time. Items are
// created lazily on the first inbound movement and never hard-deleted; the
// quantity just drifts to zero.
type StockItem struct {
	shared.TenantAggregateRoot
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocationID       *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Last inbound cost (lot costs are tracked per batch)
	MinStock         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaxStock         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastMovementAt   *time.Time      `gorm:"type:timestamptz"`
	LastMovementType MovementType    `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock item for a product-location combination
func NewStockItem(tenantID, productID uuid.UUID, locationID *uuid.UUID) (*StockItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &StockItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		LocationID:          locationID,
		Quantity:            decimal.Zero,
		ReservedQuantity:    decimal.Zero,
		UnitCost:            decimal.Zero,
		MinStock:            decimal.Zero,
		MaxStock:            decimal.Zero,
	}, nil
}

// Available returns the quantity eligible for outbound movements and new
// reservations: quantity minus reserved quantity.
func (i *StockItem) Available() decimal.Decimal {
	return i.Quantity.Sub(i.ReservedQuantity)
}

// CanFulfill returns true if the available quantity covers the request
func (i *StockItem) CanFulfill(quantity decimal.Decimal) bool {
	return i.Available().GreaterThanOrEqual(quantity)
}

// StockIn increases the quantity. When a cost is supplied the item's unit
// cost is overwritten with it (last-cost policy; lot-level costs use a
// weighted average, see StockBatch.Merge).
func (i *StockItem) StockIn(quantity decimal.Decimal, unitCost *decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost != nil && unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	i.Quantity = i.Quantity.Add(quantity)
	if unitCost != nil {
		i.UnitCost = *unitCost
	}
	i.touch(MovementTypeIn)

	i.AddDomainEvent(NewStockReceivedEvent(i, quantity, unitCost))

	return nil
}

// StockOut decreases the quantity. Only non-reserved stock may leave:
// requests above the available quantity are rejected, which keeps
// quantity >= reservedQuantity >= 0 after the decrement.
func (i *StockItem) StockOut(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.Available().LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient available stock")
	}

	i.Quantity = i.Quantity.Sub(quantity)
	i.touch(MovementTypeOut)

	i.AddDomainEvent(NewStockIssuedEvent(i, quantity))
	i.emitBelowMinimum()

	return nil
}

// AdjustTo sets the quantity to the counted value and returns the applied
// delta. A no-op adjustment (delta zero) is rejected rather than silently
// accepted, and the new quantity may not undercut outstanding reservations.
func (i *StockItem) AdjustTo(newQuantity decimal.Decimal, reason string) (decimal.Decimal, error) {
	if newQuantity.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Adjusted quantity cannot be negative")
	}
	if reason == "" {
		return decimal.Zero, shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}

	delta := newQuantity.Sub(i.Quantity)
	if delta.IsZero() {
		return decimal.Zero, shared.NewDomainError("NOOP_ADJUSTMENT", "Adjustment does not change the quantity")
	}
	if newQuantity.LessThan(i.ReservedQuantity) {
		return decimal.Zero, shared.NewDomainError("INSUFFICIENT_STOCK", "Cannot adjust below the reserved quantity")
	}

	oldQuantity := i.Quantity
	i.Quantity = newQuantity
	i.touch(MovementTypeAdjustment)

	i.AddDomainEvent(NewStockAdjustedEvent(i, oldQuantity, newQuantity, reason))
	i.emitBelowMinimum()

	return delta, nil
}

// TransferOut removes quantity from this item as the source of a transfer
func (i *StockItem) TransferOut(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.Available().LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient available stock at source location")
	}

	i.Quantity = i.Quantity.Sub(quantity)
	i.touch(MovementTypeTransfer)
	i.emitBelowMinimum()

	return nil
}

// TransferIn adds quantity to this item as the destination of a transfer,
// carrying over the source item's unit cost.
func (i *StockItem) TransferIn(quantity, unitCost decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = i.Quantity.Add(quantity)
	i.UnitCost = unitCost
	i.touch(MovementTypeTransfer)

	return nil
}

// Reserve places a soft hold on available quantity
func (i *StockItem) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Reservation quantity must be positive")
	}
	if i.Available().LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient available stock to reserve")
	}

	i.ReservedQuantity = i.ReservedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// ReleaseReservation returns a previously held quantity to available,
// floored at zero.
func (i *StockItem) ReleaseReservation(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
	}

	i.ReservedQuantity = i.ReservedQuantity.Sub(quantity)
	if i.ReservedQuantity.IsNegative() {
		i.ReservedQuantity = decimal.Zero
	}
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetThresholds sets the min/max stock thresholds
func (i *StockItem) SetThresholds(minStock, maxStock decimal.Decimal) error {
	if minStock.IsNegative() || maxStock.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Thresholds cannot be negative")
	}

	i.MinStock = minStock
	i.MaxStock = maxStock
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// IsBelowMinimum returns true if the quantity is below the minimum threshold
func (i *StockItem) IsBelowMinimum() bool {
	return i.MinStock.GreaterThan(decimal.Zero) && i.Quantity.LessThan(i.MinStock)
}

// TotalValue returns quantity * unit cost
func (i *StockItem) TotalValue() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost)
}

func (i *StockItem) touch(movementType MovementType) {
	now := time.Now()
	i.LastMovementAt = &now
	i.LastMovementType = movementType
	i.UpdatedAt = now
	i.IncrementVersion()
}

func (i *StockItem) emitBelowMinimum() {
	if i.IsBelowMinimum() {
		i.AddDomainEvent(NewStockBelowMinimumEvent(i))
	}
}

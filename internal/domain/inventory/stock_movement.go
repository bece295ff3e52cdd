package inventory

import (
	"time"

	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType represents the type of stock movement
type MovementType string

const (
	MovementTypeIn         MovementType = "IN"
	MovementTypeOut        MovementType = "OUT"
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
	MovementTypeTransfer   MovementType = "TRANSFER"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment, MovementTypeTransfer:
		return true
	}
	return false
}

// StockMovement is an append-only audit record of one ledger operation.
// Quantity is always the positive magnitude; the direction lives in Type
// (for adjustments, in the before/after pair). Movements are never updated
// or deleted after creation.
type StockMovement struct {
	shared.TenantAggregateRoot
	ProductID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_movement_product"`
	Type           MovementType     `gorm:"type:varchar(20);not null;index:idx_movement_type"`
	Quantity       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UnitCost       *decimal.Decimal `gorm:"type:decimal(18,4)"`
	TotalCost      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	QuantityBefore decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	QuantityAfter  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	FromLocationID *uuid.UUID       `gorm:"type:uuid;index"`
	ToLocationID   *uuid.UUID       `gorm:"type:uuid;index"`
	BatchNumber    string           `gorm:"type:varchar(100);index"`
	ExpirationDate *time.Time       `gorm:"type:date"`
	Reason         string           `gorm:"type:varchar(255)"`
	Reference      string           `gorm:"type:varchar(100);index"` // Source document, e.g. an order number
	Notes          string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

func newStockMovement(tenantID, productID uuid.UUID, movementType MovementType, quantity, before, after decimal.Decimal) *StockMovement {
	return &StockMovement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		Type:                movementType,
		Quantity:            quantity,
		QuantityBefore:      before,
		QuantityAfter:       after,
	}
}

// NewInboundMovement records a stock-in against the item's location
func NewInboundMovement(tenantID, productID uuid.UUID, locationID *uuid.UUID, quantity, before, after decimal.Decimal) *StockMovement {
	m := newStockMovement(tenantID, productID, MovementTypeIn, quantity, before, after)
	m.ToLocationID = locationID
	return m
}

// NewOutboundMovement records a stock-out from the item's location
func NewOutboundMovement(tenantID, productID uuid.UUID, locationID *uuid.UUID, quantity, before, after decimal.Decimal) *StockMovement {
	m := newStockMovement(tenantID, productID, MovementTypeOut, quantity, before, after)
	m.FromLocationID = locationID
	return m
}

// NewAdjustmentMovement records an absolute quantity correction. The stored
// quantity is the magnitude of the delta; before/after carry the direction.
func NewAdjustmentMovement(tenantID, productID uuid.UUID, locationID *uuid.UUID, before, after decimal.Decimal, reason string) *StockMovement {
	m := newStockMovement(tenantID, productID, MovementTypeAdjustment, after.Sub(before).Abs(), before, after)
	m.FromLocationID = locationID
	m.ToLocationID = locationID
	m.Reason = reason
	return m
}

// NewTransferMovement records a move between two locations as a single
// record with both endpoints. Before/after refer to the source item.
func NewTransferMovement(tenantID, productID uuid.UUID, fromLocationID, toLocationID *uuid.UUID, quantity, before, after decimal.Decimal) *StockMovement {
	m := newStockMovement(tenantID, productID, MovementTypeTransfer, quantity, before, after)
	m.FromLocationID = fromLocationID
	m.ToLocationID = toLocationID
	return m
}

// WithCost attaches the unit cost and the derived total cost
func (m *StockMovement) WithCost(unitCost decimal.Decimal) *StockMovement {
	total := unitCost.Mul(m.Quantity)
	m.UnitCost = &unitCost
	m.TotalCost = &total
	return m
}

// WithBatch links the movement to the lot it received into or issued from
func (m *StockMovement) WithBatch(batchNumber string, expirationDate *time.Time) *StockMovement {
	m.BatchNumber = batchNumber
	m.ExpirationDate = expirationDate
	return m
}

// WithReason sets the reason for the movement
func (m *StockMovement) WithReason(reason string) *StockMovement {
	m.Reason = reason
	return m
}

// WithReference links the movement to a source document
func (m *StockMovement) WithReference(reference string) *StockMovement {
	m.Reference = reference
	return m
}

// WithNotes sets free-form notes on the movement
func (m *StockMovement) WithNotes(notes string) *StockMovement {
	m.Notes = notes
	return m
}

// WithCreator records the acting user
func (m *StockMovement) WithCreator(userID uuid.UUID) *StockMovement {
	m.SetCreatedBy(userID)
	return m
}

// IsInbound returns true for movements that increase stock at a location
func (m *StockMovement) IsInbound() bool {
	return m.Type == MovementTypeIn
}

// IsOutbound returns true for movements that decrease stock at a location
func (m *StockMovement) IsOutbound() bool {
	return m.Type == MovementTypeOut
}

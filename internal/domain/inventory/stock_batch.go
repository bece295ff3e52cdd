package inventory

import (
	"time"

	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBatch is a lot of stock received under one batch number at one
// location; the same number in another location is a distinct lot. Batches
// refine the item-level quantity for cost and expiry tracking; the item
// total remains authoritative and batch rows are tolerated drifting when
// untracked outbounds outrun them. The lot key (tenant, product, location,
// batch number) is enforced by a NULLS NOT DISTINCT unique index created
// at migration time, so the unlocated bucket is a single lot per number.
type StockBatch struct {
	shared.TenantAggregateRoot
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocationID  *uuid.UUID      `gorm:"type:uuid;index"`
	BatchNumber string          `gorm:"type:varchar(100);not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpiryDate  *time.Time      `gorm:"type:date"`
	Consumed    bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StockBatch) TableName() string {
	return "stock_batches"
}

// NewStockBatch creates a new batch from an inbound receipt
func NewStockBatch(tenantID, productID uuid.UUID, locationID *uuid.UUID, batchNumber string, quantity, unitCost decimal.Decimal, expiryDate *time.Time) (*StockBatch, error) {
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Batch unit cost cannot be negative")
	}

	return &StockBatch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		LocationID:          locationID,
		BatchNumber:         batchNumber,
		Quantity:            quantity,
		UnitCost:            unitCost,
		ExpiryDate:          expiryDate,
	}, nil
}

// Merge folds a new receipt into an existing batch with the same number.
// The unit cost becomes the quantity-weighted average of the old and new
// lots; an expiry date on the receipt overwrites the stored one.
func (b *StockBatch) Merge(quantity, unitCost decimal.Decimal, expiryDate *time.Time) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Merged quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Merged unit cost cannot be negative")
	}

	newTotal := b.Quantity.Add(quantity)
	if newTotal.GreaterThan(decimal.Zero) {
		oldValue := b.Quantity.Mul(b.UnitCost)
		newValue := quantity.Mul(unitCost)
		b.UnitCost = oldValue.Add(newValue).Div(newTotal)
	}
	b.Quantity = newTotal
	if expiryDate != nil {
		b.ExpiryDate = expiryDate
	}
	b.Consumed = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Deduct removes up to the requested quantity from the batch and returns
// how much was actually taken. The batch floors at zero instead of going
// negative; callers decide what to do with any shortfall.
func (b *StockBatch) Deduct(quantity decimal.Decimal) decimal.Decimal {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	deducted := quantity
	if b.Quantity.LessThan(quantity) {
		deducted = b.Quantity
	}
	b.Quantity = b.Quantity.Sub(deducted)
	if b.Quantity.IsZero() {
		b.Consumed = true
	}
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return deducted
}

// IsExpired returns true if the batch has an expiry date in the past
func (b *StockBatch) IsExpired(now time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(now)
}

// TotalValue returns quantity * unit cost for the batch
func (b *StockBatch) TotalValue() decimal.Decimal {
	return b.Quantity.Mul(b.UnitCost)
}

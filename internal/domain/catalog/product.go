package catalog

import (
	"time"

	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive  ProductStatus = "ACTIVE"
	ProductStatusDeleted ProductStatus = "DELETED"
)

// Product is the minimal catalog aggregate needed by the stock and sales
// core: movements and document lines reference products by ID and the
// ledger refuses operations on missing or soft-deleted products.
type Product struct {
	shared.TenantAggregateRoot
	SKU          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_sku,priority:2"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	Unit         string          `gorm:"type:varchar(20);not null;default:'un'"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       ProductStatus   `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	DeletedAt    *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, sku, name, unit string) (*Product, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		unit = "un"
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                name,
		Unit:                unit,
		CostPrice:           decimal.Zero,
		SellingPrice:        decimal.Zero,
		Status:              ProductStatusActive,
	}, nil
}

// IsActive returns true if the product has not been soft-deleted
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive && p.DeletedAt == nil
}

// SoftDelete marks the product as deleted without removing the row
func (p *Product) SoftDelete() {
	now := time.Now()
	p.Status = ProductStatusDeleted
	p.DeletedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
}

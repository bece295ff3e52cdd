package persistence

import (
	"context"

	appinventory "github.com/atlaserp/backend/internal/application/inventory"
	appsales "github.com/atlaserp/backend/internal/application/sales"
	"github.com/atlaserp/backend/internal/domain/inventory"
	"github.com/atlaserp/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the ledger TransactionScope
// using GORM transactions
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. All
// repositories handed to fn share the same transaction handle.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

// gormInventoryRepositories provides repositories bound to one transaction
type gormInventoryRepositories struct {
	tx *gorm.DB
}

func (r *gormInventoryRepositories) ItemRepo() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

func (r *gormInventoryRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormInventoryRepositories) BatchRepo() inventory.StockBatchRepository {
	return NewGormStockBatchRepository(r.tx)
}

func (r *gormInventoryRepositories) ReservationRepo() inventory.StockReservationRepository {
	return NewGormStockReservationRepository(r.tx)
}

// GormSalesTransactionScope implements the sales TransactionScope using
// GORM transactions
type GormSalesTransactionScope struct {
	db *gorm.DB
}

// NewGormSalesTransactionScope creates a new GormSalesTransactionScope
func NewGormSalesTransactionScope(db *gorm.DB) *GormSalesTransactionScope {
	return &GormSalesTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormSalesTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSalesRepositories{tx: tx})
	})
}

// gormSalesRepositories provides repositories bound to one transaction
type gormSalesRepositories struct {
	tx *gorm.DB
}

func (r *gormSalesRepositories) QuoteRepo() sales.QuoteRepository {
	return NewGormQuoteRepository(r.tx)
}

func (r *gormSalesRepositories) OrderRepo() sales.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// Ensure the scopes implement their interfaces
var (
	_ appinventory.TransactionScope          = (*GormInventoryTransactionScope)(nil)
	_ appinventory.TransactionalRepositories = (*gormInventoryRepositories)(nil)
	_ appsales.TransactionScope              = (*GormSalesTransactionScope)(nil)
	_ appsales.TransactionalRepositories     = (*gormSalesRepositories)(nil)
)

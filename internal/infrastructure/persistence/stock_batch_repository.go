package persistence

import (
	"context"
	"errors"

	"github.com/atlaserp/backend/internal/domain/inventory"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockBatchRepository implements StockBatchRepository using GORM
type GormStockBatchRepository struct {
	db *gorm.DB
}

// NewGormStockBatchRepository creates a new GormStockBatchRepository
func NewGormStockBatchRepository(db *gorm.DB) *GormStockBatchRepository {
	return &GormStockBatchRepository{db: db}
}

// FindByProductAndNumber finds the lot for a product, location and batch
// number. A nil locationID addresses the unlocated bucket.
func (r *GormStockBatchRepository) FindByProductAndNumber(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID, batchNumber string) (*inventory.StockBatch, error) {
	var batch inventory.StockBatch
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND batch_number = ?", tenantID, productID, batchNumber)
	query = whereLocation(query, locationID)

	if err := query.First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindOpenByProduct lists unconsumed batches for a product. Ordering for
// allocation is decided by the caller (see inventory.SortFIFO).
func (r *GormStockBatchRepository) FindOpenByProduct(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) ([]*inventory.StockBatch, error) {
	var batches []*inventory.StockBatch
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND consumed = ? AND quantity > 0", tenantID, productID, false)
	query = whereLocation(query, locationID)

	if err := query.Order("created_at ASC").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindAllForTenant lists batches for a tenant, soonest expiry first
func (r *GormStockBatchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	query := r.applyBatchFilter(
		r.db.WithContext(ctx).Model(&inventory.StockBatch{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.
		Order("expiry_date ASC NULLS LAST, created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// CountForTenant counts batches for a tenant
func (r *GormStockBatchRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyBatchFilter(
		r.db.WithContext(ctx).Model(&inventory.StockBatch{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStockBatchRepository) applyBatchFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "batch_number":
			query = query.Where("batch_number = ?", value)
		case "consumed":
			query = query.Where("consumed = ?", value)
		}
	}
	return query
}

// Save creates or updates a batch
func (r *GormStockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// SaveAll persists a set of batches mutated by an allocation
func (r *GormStockBatchRepository) SaveAll(ctx context.Context, batches []*inventory.StockBatch) error {
	for _, batch := range batches {
		if err := r.db.WithContext(ctx).Save(batch).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormStockBatchRepository implements StockBatchRepository
var _ inventory.StockBatchRepository = (*GormStockBatchRepository)(nil)

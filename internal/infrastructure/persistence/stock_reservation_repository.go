package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atlaserp/backend/internal/domain/inventory"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockReservationRepository implements StockReservationRepository using GORM
type GormStockReservationRepository struct {
	db *gorm.DB
}

// NewGormStockReservationRepository creates a new GormStockReservationRepository
func NewGormStockReservationRepository(db *gorm.DB) *GormStockReservationRepository {
	return &GormStockReservationRepository{db: db}
}

// FindByIDForTenant finds a reservation by ID within a tenant
func (r *GormStockReservationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockReservation, error) {
	var reservation inventory.StockReservation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// FindActiveByProduct lists active reservations for a product
func (r *GormStockReservationRepository) FindActiveByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]inventory.StockReservation, error) {
	var reservations []inventory.StockReservation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND status = ?", tenantID, productID, inventory.ReservationStatusActive).
		Order("created_at ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindExpired lists active reservations whose expiry has passed, across
// all tenants. Used by the expiry sweep.
func (r *GormStockReservationRepository) FindExpired(ctx context.Context, asOf time.Time, limit int) ([]inventory.StockReservation, error) {
	var reservations []inventory.StockReservation
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", inventory.ReservationStatusActive, asOf).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindAllForTenant lists reservations for a tenant
func (r *GormStockReservationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockReservation, error) {
	var reservations []inventory.StockReservation
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockReservation{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Save creates or updates a reservation
func (r *GormStockReservationRepository) Save(ctx context.Context, reservation *inventory.StockReservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// CountForTenant counts reservations for a tenant
func (r *GormStockReservationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.StockReservation{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStockReservationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormStockReservationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "reference":
			query = query.Where("reference = ?", value)
		}
	}
	return query
}

// Ensure GormStockReservationRepository implements StockReservationRepository
var _ inventory.StockReservationRepository = (*GormStockReservationRepository)(nil)

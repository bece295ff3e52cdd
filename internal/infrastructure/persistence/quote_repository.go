package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atlaserp/backend/internal/domain/sales"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// quoteNumberPrefix is the prefix for generated quote numbers (ORC-000001)
const quoteNumberPrefix = "ORC-"

// GormQuoteRepository implements QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByIDForTenant finds a quote with its lines by ID within a tenant
func (r *GormQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Quote, error) {
	var quote sales.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindByNumber finds a quote by its quote number within a tenant
func (r *GormQuoteRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, quoteNumber string) (*sales.Quote, error) {
	var quote sales.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND quote_number = ?", tenantID, quoteNumber).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindAllForTenant lists quotes matching the filter
func (r *GormQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Quote, error) {
	var quotes []sales.Quote
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.Quote{}).
			Preload("Items").
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// FindExpired lists sent quotes whose validity date has passed, across all
// tenants. Used by the expiry sweep.
func (r *GormQuoteRepository) FindExpired(ctx context.Context, asOf time.Time, limit int) ([]sales.Quote, error) {
	var quotes []sales.Quote
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ? AND valid_until IS NOT NULL AND valid_until <= ?", sales.QuoteStatusSent, asOf).
		Order("valid_until ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Save creates or updates a quote and replaces its lines
func (r *GormQuoteRepository) Save(ctx context.Context, quote *sales.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(quote).Error; err != nil {
			return err
		}
		return replaceQuoteItems(tx, quote)
	})
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormQuoteRepository) SaveWithLock(ctx context.Context, quote *sales.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&sales.Quote{}).
			Where("id = ? AND version = ?", quote.ID, quote.Version-1).
			Updates(map[string]interface{}{
				"customer_id":        quote.CustomerID,
				"customer_name":      quote.CustomerName,
				"status":             quote.Status,
				"discount_type":      quote.DiscountType,
				"discount_value":     quote.DiscountValue,
				"subtotal":           quote.Subtotal,
				"discount_amount":    quote.DiscountAmount,
				"total_amount":       quote.TotalAmount,
				"valid_until":        quote.ValidUntil,
				"notes":              quote.Notes,
				"converted_order_id": quote.ConvertedOrderID,
				"converted_at":       quote.ConvertedAt,
				"version":            quote.Version,
				"updated_at":         quote.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "Quote was modified by another transaction")
		}
		return replaceQuoteItems(tx, quote)
	})
}

// replaceQuoteItems deletes lines no longer present and upserts the rest
func replaceQuoteItems(tx *gorm.DB, quote *sales.Quote) error {
	itemIDs := make([]uuid.UUID, 0, len(quote.Items))
	for _, item := range quote.Items {
		itemIDs = append(itemIDs, item.ID)
	}

	deleteQuery := tx.Where("quote_id = ?", quote.ID)
	if len(itemIDs) > 0 {
		deleteQuery = deleteQuery.Where("id NOT IN ?", itemIDs)
	}
	if err := deleteQuery.Delete(&sales.QuoteItem{}).Error; err != nil {
		return err
	}

	for i := range quote.Items {
		quote.Items[i].QuoteID = quote.ID
		if err := tx.Save(&quote.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// GenerateQuoteNumber returns the next sequential quote number for a tenant
func (r *GormQuoteRepository) GenerateQuoteNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var lastQuote sales.Quote
	err := r.db.WithContext(ctx).
		Model(&sales.Quote{}).
		Where("tenant_id = ? AND quote_number LIKE ?", tenantID, quoteNumberPrefix+"%").
		Order("quote_number DESC").
		First(&lastQuote).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	next := 1
	if err == nil && lastQuote.QuoteNumber != "" {
		if seq, parseErr := strconv.Atoi(strings.TrimPrefix(lastQuote.QuoteNumber, quoteNumberPrefix)); parseErr == nil {
			next = seq + 1
		}
	}

	// Re-check uniqueness in case of concurrent generation
	for attempts := 0; attempts < 10; attempts++ {
		candidate := fmt.Sprintf("%s%06d", quoteNumberPrefix, next)
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&sales.Quote{}).
			Where("tenant_id = ? AND quote_number = ?", tenantID, candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		next++
	}
	return "", fmt.Errorf("could not generate a unique quote number")
}

// CountForTenant counts quotes matching the filter
func (r *GormQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&sales.Quote{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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

func (r *GormQuoteRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("quote_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}
	return query
}

// Ensure GormQuoteRepository implements QuoteRepository
var _ sales.QuoteRepository = (*GormQuoteRepository)(nil)

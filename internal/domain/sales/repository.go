package sales

import (
	"context"
	"time"

	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	// FindByIDForTenant finds a quote with its lines by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quote, error)

	// FindByNumber finds a quote by its quote number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, quoteNumber string) (*Quote, error)

	// FindAllForTenant lists quotes matching the filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Quote, error)

	// FindExpired lists sent quotes whose validity date has passed
	FindExpired(ctx context.Context, asOf time.Time, limit int) ([]Quote, error)

	// Save creates or updates a quote with its lines
	Save(ctx context.Context, quote *Quote) error

	// SaveWithLock updates a quote guarded by its version; fails with a
	// CONCURRENCY_CONFLICT error when the row was modified concurrently
	SaveWithLock(ctx context.Context, quote *Quote) error

	// GenerateQuoteNumber returns the next quote number for a tenant
	GenerateQuoteNumber(ctx context.Context, tenantID uuid.UUID) (string, error)

	// CountForTenant counts quotes matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByIDForTenant finds an order with its lines by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its order number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)

	// FindByQuoteID finds the order created from a quote, if any
	FindByQuoteID(ctx context.Context, tenantID, quoteID uuid.UUID) (*Order, error)

	// ExistsByQuoteID reports whether a quote already has an order
	ExistsByQuoteID(ctx context.Context, tenantID, quoteID uuid.UUID) (bool, error)

	// FindAllForTenant lists orders matching the filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order with its lines
	Save(ctx context.Context, order *Order) error

	// SaveWithLock updates an order guarded by its version; fails with a
	// CONCURRENCY_CONFLICT error when the row was modified concurrently
	SaveWithLock(ctx context.Context, order *Order) error

	// GenerateOrderNumber returns the next order number for a tenant
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)

	// CountForTenant counts orders matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

package inventory

import (
	"context"
	"time"

	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockItemRepository defines the interface for stock item persistence
type StockItemRepository interface {
	// FindByIDForTenant finds a stock item by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockItem, error)

	// FindByProductAndLocation finds the item for a product-location pair.
	// A nil locationID addresses the unlocated bucket.
	FindByProductAndLocation(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) (*StockItem, error)

	// GetOrCreate returns the item for the pair, creating a zero-quantity
	// row if none exists yet
	GetOrCreate(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) (*StockItem, error)

	// FindAllForTenant lists stock items matching the filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// FindBelowMinimum lists items whose quantity is under their minimum threshold
	FindBelowMinimum(ctx context.Context, tenantID uuid.UUID) ([]StockItem, error)

	// Save creates or updates a stock item
	Save(ctx context.Context, item *StockItem) error

	// SaveWithLock updates a stock item guarded by its version; fails with
	// a CONCURRENCY_CONFLICT error when the row was modified concurrently
	SaveWithLock(ctx context.Context, item *StockItem) error

	// CountForTenant counts stock items matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// StockMovementRepository defines the interface for the append-only
// movement journal.
type StockMovementRepository interface {
	// Save appends a movement record
	Save(ctx context.Context, movement *StockMovement) error

	// FindByIDForTenant finds a movement by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockMovement, error)

	// FindByProduct lists movements for a product, newest first
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindAllForTenant lists movements matching the filter, newest first
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// CountForTenant counts movements matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// StockBatchRepository defines the interface for batch persistence
type StockBatchRepository interface {
	// FindByProductAndNumber finds the lot for a product, location and batch
	// number. A nil locationID addresses the unlocated bucket.
	FindByProductAndNumber(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID, batchNumber string) (*StockBatch, error)

	// FindOpenByProduct lists unconsumed batches for a product
	FindOpenByProduct(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) ([]*StockBatch, error)

	// FindAllForTenant lists batches matching the filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockBatch, error)

	// CountForTenant counts batches matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *StockBatch) error

	// SaveAll persists a set of batches mutated by an allocation
	SaveAll(ctx context.Context, batches []*StockBatch) error
}

// StockReservationRepository defines the interface for reservation persistence
type StockReservationRepository interface {
	// FindByIDForTenant finds a reservation by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockReservation, error)

	// FindActiveByProduct lists active reservations for a product
	FindActiveByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]StockReservation, error)

	// FindExpired lists active reservations whose expiry has passed,
	// across all tenants, for the expiry sweep
	FindExpired(ctx context.Context, asOf time.Time, limit int) ([]StockReservation, error)

	// FindAllForTenant lists reservations matching the filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockReservation, error)

	// Save creates or updates a reservation
	Save(ctx context.Context, reservation *StockReservation) error

	// CountForTenant counts reservations matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

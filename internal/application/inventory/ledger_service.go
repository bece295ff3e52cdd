package inventory

import (
	"context"

	"github.com/atlaserp/backend/internal/domain/catalog"
	"github.com/atlaserp/backend/internal/domain/identity"
	"github.com/atlaserp/backend/internal/domain/inventory"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService handles stock ledger operations: receipts, issues,
// adjustments and transfers. Every write runs inside a transaction scope
// so the item update, batch allocation and movement record commit or roll
// back together, and every operation checks the permission gate first.
type LedgerService struct {
	txScope        TransactionScope
	gate           identity.PermissionGate
	productRepo    catalog.ProductRepository
	locationRepo   catalog.LocationRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	txScope TransactionScope,
	gate identity.PermissionGate,
	productRepo catalog.ProductRepository,
	locationRepo catalog.LocationRepository,
	logger *zap.Logger,
) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		txScope:      txScope,
		gate:         gate,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// StockIn receives stock for a product, optionally into a named batch
func (s *LedgerService) StockIn(ctx context.Context, tenantID, userID uuid.UUID, req StockInRequest) (*StockItemResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockWrite); err != nil {
		return nil, err
	}
	if err := s.checkTargets(ctx, tenantID, req.ProductID, req.LocationID); err != nil {
		return nil, err
	}

	var item *inventory.StockItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().GetOrCreate(ctx, tenantID, req.ProductID, req.LocationID)
		if err != nil {
			return err
		}

		before := item.Quantity
		if err := item.StockIn(req.Quantity, req.UnitCost); err != nil {
			return err
		}
		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}

		if req.BatchNumber != "" {
			if err := s.upsertBatch(ctx, repos, tenantID, req); err != nil {
				return err
			}
		}

		movement := inventory.NewInboundMovement(tenantID, req.ProductID, req.LocationID, req.Quantity, before, item.Quantity).
			WithReference(req.Reference).
			WithNotes(req.Notes).
			WithCreator(userID)
		if req.UnitCost != nil {
			movement.WithCost(*req.UnitCost)
		}
		if req.BatchNumber != "" {
			movement.WithBatch(req.BatchNumber, req.ExpiryDate)
		}
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)

	response := ToStockItemResponse(item)
	return &response, nil
}

// StockOut issues stock for a product. Batch rows are consumed FIFO (or
// from the named batch first); a batch shortfall is logged, not failed,
// because the item total stays authoritative.
func (s *LedgerService) StockOut(ctx context.Context, tenantID, userID uuid.UUID, req StockOutRequest) (*StockItemResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockWrite); err != nil {
		return nil, err
	}

	var item *inventory.StockItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().FindByProductAndLocation(ctx, tenantID, req.ProductID, req.LocationID)
		if err != nil {
			return err
		}

		before := item.Quantity
		if err := item.StockOut(req.Quantity); err != nil {
			return err
		}
		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}

		if err := s.allocateBatches(ctx, repos, tenantID, req); err != nil {
			return err
		}

		movement := inventory.NewOutboundMovement(tenantID, req.ProductID, req.LocationID, req.Quantity, before, item.Quantity).
			WithCost(item.UnitCost).
			WithReason(req.Reason).
			WithReference(req.Reference).
			WithCreator(userID)
		if req.BatchNumber != "" {
			movement.WithBatch(req.BatchNumber, nil)
		}
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)

	response := ToStockItemResponse(item)
	return &response, nil
}

// AdjustStock corrects the quantity to an absolute counted value
func (s *LedgerService) AdjustStock(ctx context.Context, tenantID, userID uuid.UUID, req AdjustStockRequest) (*StockItemResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockAdjust); err != nil {
		return nil, err
	}
	if err := s.checkTargets(ctx, tenantID, req.ProductID, req.LocationID); err != nil {
		return nil, err
	}

	var item *inventory.StockItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().GetOrCreate(ctx, tenantID, req.ProductID, req.LocationID)
		if err != nil {
			return err
		}

		before := item.Quantity
		if _, err := item.AdjustTo(req.NewQuantity, req.Reason); err != nil {
			return err
		}
		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}

		movement := inventory.NewAdjustmentMovement(tenantID, req.ProductID, req.LocationID, before, item.Quantity, req.Reason).
			WithCreator(userID)
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)

	response := ToStockItemResponse(item)
	return &response, nil
}

// TransferStock moves stock between two locations of the same product.
// Both item updates and the single transfer movement commit atomically.
func (s *LedgerService) TransferStock(ctx context.Context, tenantID, userID uuid.UUID, req TransferStockRequest) (*StockItemResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockTransfer); err != nil {
		return nil, err
	}
	if sameLocation(req.FromLocationID, req.ToLocationID) {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and destination locations must differ")
	}
	if err := s.checkTargets(ctx, tenantID, req.ProductID, req.FromLocationID); err != nil {
		return nil, err
	}
	if err := s.checkLocation(ctx, tenantID, req.ToLocationID); err != nil {
		return nil, err
	}

	var source *inventory.StockItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		source, err = repos.ItemRepo().FindByProductAndLocation(ctx, tenantID, req.ProductID, req.FromLocationID)
		if err != nil {
			return err
		}
		dest, err := repos.ItemRepo().GetOrCreate(ctx, tenantID, req.ProductID, req.ToLocationID)
		if err != nil {
			return err
		}

		before := source.Quantity
		if err := source.TransferOut(req.Quantity); err != nil {
			return err
		}
		if err := dest.TransferIn(req.Quantity, source.UnitCost); err != nil {
			return err
		}

		if err := repos.ItemRepo().SaveWithLock(ctx, source); err != nil {
			return err
		}
		if err := repos.ItemRepo().SaveWithLock(ctx, dest); err != nil {
			return err
		}

		source.AddDomainEvent(inventory.NewStockTransferredEvent(source, req.ToLocationID, req.Quantity))

		movement := inventory.NewTransferMovement(tenantID, req.ProductID, req.FromLocationID, req.ToLocationID, req.Quantity, before, source.Quantity).
			WithCost(source.UnitCost).
			WithReference(req.Reference).
			WithCreator(userID)
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, source)

	response := ToStockItemResponse(source)
	return &response, nil
}

// GetStockItem retrieves one stock item by ID
func (s *LedgerService) GetStockItem(ctx context.Context, tenantID, userID, itemID uuid.UUID) (*StockItemResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockRead); err != nil {
		return nil, err
	}

	var item *inventory.StockItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().FindByIDForTenant(ctx, tenantID, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToStockItemResponse(item)
	return &response, nil
}

// ListStockItems lists stock items with filtering and pagination
func (s *LedgerService) ListStockItems(ctx context.Context, tenantID, userID uuid.UUID, filter StockListFilter) ([]StockItemResponse, int64, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockRead); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.LocationID != nil {
		domainFilter.Filters["location_id"] = *filter.LocationID
	}
	if filter.BelowMinimum != nil && *filter.BelowMinimum {
		domainFilter.Filters["below_minimum"] = true
	}

	var items []inventory.StockItem
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, err = repos.ItemRepo().FindAllForTenant(ctx, tenantID, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.ItemRepo().CountForTenant(ctx, tenantID, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return ToStockItemResponses(items), total, nil
}

// ListMovements lists the movement journal with filtering and pagination
func (s *LedgerService) ListMovements(ctx context.Context, tenantID, userID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockRead); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "created_at"
	domainFilter.OrderDir = "desc"
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.LocationID != nil {
		domainFilter.Filters["location_id"] = *filter.LocationID
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Reference != "" {
		domainFilter.Filters["reference"] = filter.Reference
	}

	var movements []inventory.StockMovement
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		movements, err = repos.MovementRepo().FindAllForTenant(ctx, tenantID, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.MovementRepo().CountForTenant(ctx, tenantID, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return ToMovementResponses(movements), total, nil
}

// ListBatches lists stock batches with filtering and pagination. Consumed
// batches are hidden unless explicitly requested.
func (s *LedgerService) ListBatches(ctx context.Context, tenantID, userID uuid.UUID, filter BatchListFilter) ([]BatchResponse, int64, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockRead); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.LocationID != nil {
		domainFilter.Filters["location_id"] = *filter.LocationID
	}
	if filter.BatchNumber != "" {
		domainFilter.Filters["batch_number"] = filter.BatchNumber
	}
	if filter.IncludeConsumed == nil || !*filter.IncludeConsumed {
		domainFilter.Filters["consumed"] = false
	}

	var batches []inventory.StockBatch
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batches, err = repos.BatchRepo().FindAllForTenant(ctx, tenantID, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.BatchRepo().CountForTenant(ctx, tenantID, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return ToBatchResponses(batches), total, nil
}

// ListBelowMinimum lists items under their minimum threshold
func (s *LedgerService) ListBelowMinimum(ctx context.Context, tenantID, userID uuid.UUID) ([]StockItemResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockRead); err != nil {
		return nil, err
	}

	var items []inventory.StockItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, err = repos.ItemRepo().FindBelowMinimum(ctx, tenantID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return ToStockItemResponses(items), nil
}

// checkTargets validates that the product (and location, when given) exist
// and are active for the tenant.
func (s *LedgerService) checkTargets(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if !product.IsActive() {
		return shared.NewDomainError("INVALID_PRODUCT", "Product is not active")
	}

	return s.checkLocation(ctx, tenantID, locationID)
}

func (s *LedgerService) checkLocation(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) error {
	if locationID == nil {
		return nil
	}

	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, *locationID)
	if err != nil {
		return err
	}
	if !location.IsActive() {
		return shared.NewDomainError("INVALID_LOCATION", "Location is not active")
	}
	return nil
}

func (s *LedgerService) upsertBatch(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, req StockInRequest) error {
	unitCost := decimalOrZero(req.UnitCost)

	batch, err := repos.BatchRepo().FindByProductAndNumber(ctx, tenantID, req.ProductID, req.LocationID, req.BatchNumber)
	switch {
	case err == nil:
		if err := batch.Merge(req.Quantity, unitCost, req.ExpiryDate); err != nil {
			return err
		}
	case shared.IsNotFound(err):
		batch, err = inventory.NewStockBatch(tenantID, req.ProductID, req.LocationID, req.BatchNumber, req.Quantity, unitCost, req.ExpiryDate)
		if err != nil {
			return err
		}
	default:
		return err
	}

	return repos.BatchRepo().Save(ctx, batch)
}

func (s *LedgerService) allocateBatches(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, req StockOutRequest) error {
	batches, err := repos.BatchRepo().FindOpenByProduct(ctx, tenantID, req.ProductID, req.LocationID)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		return nil // product is not batch-tracked
	}

	var result inventory.AllocationResult
	if req.BatchNumber != "" {
		result = inventory.ConsumeBatch(batches, req.BatchNumber, req.Quantity)
	} else {
		result = inventory.ConsumeFIFO(batches, req.Quantity)
	}

	if result.Shortfall.GreaterThan(decimal.Zero) {
		s.logger.Warn("batch allocation shortfall",
			zap.String("tenant_id", tenantID.String()),
			zap.String("product_id", req.ProductID.String()),
			zap.String("requested", req.Quantity.String()),
			zap.String("shortfall", result.Shortfall.String()),
		)
	}

	return repos.BatchRepo().SaveAll(ctx, batches)
}

// publishDomainEvents publishes all pending domain events from the item
func (s *LedgerService) publishDomainEvents(ctx context.Context, item *inventory.StockItem) {
	if s.eventPublisher == nil || item == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func sameLocation(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

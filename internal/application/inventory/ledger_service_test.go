package inventory

import (
	"context"
	"testing"

	"github.com/atlaserp/backend/internal/domain/catalog"
	"github.com/atlaserp/backend/internal/domain/identity"
	"github.com/atlaserp/backend/internal/domain/inventory"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ledgerFixture struct {
	service      *LedgerService
	itemRepo     *MockStockItemRepository
	movementRepo *MockStockMovementRepository
	batchRepo    *MockStockBatchRepository
	productRepo  *MockProductRepository
	locationRepo *MockLocationRepository
	publisher    *MockEventPublisher
	gate         *identity.StaticPermissionGate
	tenantID     uuid.UUID
	userID       uuid.UUID
	productID    uuid.UUID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	f := &ledgerFixture{
		itemRepo:     new(MockStockItemRepository),
		movementRepo: new(MockStockMovementRepository),
		batchRepo:    new(MockStockBatchRepository),
		productRepo:  new(MockProductRepository),
		locationRepo: new(MockLocationRepository),
		publisher:    NewMockEventPublisher(),
		gate:         identity.NewStaticPermissionGate(),
		tenantID:     uuid.New(),
		userID:       uuid.New(),
		productID:    uuid.New(),
	}
	f.gate.GrantAll(f.userID)

	scope := NewNoOpTransactionScope(f.itemRepo, f.movementRepo, f.batchRepo, new(MockStockReservationRepository))
	f.service = NewLedgerService(scope, f.gate, f.productRepo, f.locationRepo, zap.NewNop())
	f.service.SetEventPublisher(f.publisher)

	return f
}

func (f *ledgerFixture) expectActiveProduct(t *testing.T) {
	t.Helper()
	product, err := catalog.NewProduct(f.tenantID, "SKU-001", "Widget", "un")
	require.NoError(t, err)
	f.productRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, f.productID).Return(product, nil)
}

func (f *ledgerFixture) newItem(t *testing.T, quantity int64) *inventory.StockItem {
	t.Helper()
	item, err := inventory.NewStockItem(f.tenantID, f.productID, nil)
	require.NoError(t, err)
	if quantity > 0 {
		cost := decimal.NewFromInt(5)
		require.NoError(t, item.StockIn(decimal.NewFromInt(quantity), &cost))
		item.ClearDomainEvents()
	}
	return item
}

func TestLedgerService_StockIn(t *testing.T) {
	ctx := context.Background()

	t.Run("receives stock and records the movement", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.expectActiveProduct(t)
		item := f.newItem(t, 0)
		f.itemRepo.On("GetOrCreate", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return(item, nil)
		f.itemRepo.On("SaveWithLock", mock.Anything, item).Return(nil)
		f.movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

		cost := decimal.NewFromInt(5)
		resp, err := f.service.StockIn(ctx, f.tenantID, f.userID, StockInRequest{
			ProductID: f.productID,
			Quantity:  decimal.NewFromInt(10),
			UnitCost:  &cost,
		})

		require.NoError(t, err)
		assert.Equal(t, "10", resp.Quantity.String())
		assert.Equal(t, "5", resp.UnitCost.String())

		movement := f.movementRepo.Calls[0].Arguments.Get(1).(*inventory.StockMovement)
		assert.Equal(t, inventory.MovementTypeIn, movement.Type)
		assert.Equal(t, "10", movement.Quantity.String())
		assert.True(t, movement.QuantityBefore.IsZero())
		assert.Equal(t, "10", movement.QuantityAfter.String())
		require.NotNil(t, movement.CreatedBy)
		assert.Equal(t, f.userID, *movement.CreatedBy)

		assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeStockReceived), 1)
	})

	t.Run("merges into an existing batch", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.expectActiveProduct(t)
		item := f.newItem(t, 0)
		batch, err := inventory.NewStockBatch(f.tenantID, f.productID, nil, "LOT-9",
			decimal.NewFromInt(100), decimal.NewFromInt(10), nil)
		require.NoError(t, err)

		f.itemRepo.On("GetOrCreate", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return(item, nil)
		f.itemRepo.On("SaveWithLock", mock.Anything, item).Return(nil)
		f.batchRepo.On("FindByProductAndNumber", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil), "LOT-9").Return(batch, nil)
		f.batchRepo.On("Save", mock.Anything, batch).Return(nil)
		f.movementRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		cost := decimal.NewFromInt(16)
		_, err = f.service.StockIn(ctx, f.tenantID, f.userID, StockInRequest{
			ProductID:   f.productID,
			Quantity:    decimal.NewFromInt(50),
			UnitCost:    &cost,
			BatchNumber: "LOT-9",
		})

		require.NoError(t, err)
		assert.Equal(t, "150", batch.Quantity.String())
		assert.Equal(t, "12", batch.UnitCost.String())
	})

	t.Run("creates a batch when the number is new", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.expectActiveProduct(t)
		item := f.newItem(t, 0)
		f.itemRepo.On("GetOrCreate", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return(item, nil)
		f.itemRepo.On("SaveWithLock", mock.Anything, item).Return(nil)
		f.batchRepo.On("FindByProductAndNumber", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil), "LOT-NEW").Return(nil, shared.ErrNotFound)
		f.batchRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockBatch")).Return(nil)
		f.movementRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		_, err := f.service.StockIn(ctx, f.tenantID, f.userID, StockInRequest{
			ProductID:   f.productID,
			Quantity:    decimal.NewFromInt(20),
			BatchNumber: "LOT-NEW",
		})

		require.NoError(t, err)
		f.batchRepo.AssertCalled(t, "Save", mock.Anything, mock.AnythingOfType("*inventory.StockBatch"))

		movement := f.movementRepo.Calls[0].Arguments.Get(1).(*inventory.StockMovement)
		assert.Equal(t, "LOT-NEW", movement.BatchNumber)
	})

	t.Run("same batch number at another location is a distinct lot", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.expectActiveProduct(t)
		locID := uuid.New()
		location, err := catalog.NewLocation(f.tenantID, "B", "Shelf B")
		require.NoError(t, err)
		f.locationRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, locID).Return(location, nil)

		item, err := inventory.NewStockItem(f.tenantID, f.productID, &locID)
		require.NoError(t, err)
		f.itemRepo.On("GetOrCreate", mock.Anything, f.tenantID, f.productID, &locID).Return(item, nil)
		f.itemRepo.On("SaveWithLock", mock.Anything, item).Return(nil)
		// The lot lookup is scoped to the receiving location, so a lot with
		// the same number elsewhere is never merged into
		f.batchRepo.On("FindByProductAndNumber", mock.Anything, f.tenantID, f.productID, &locID, "LOT-1").Return(nil, shared.ErrNotFound)
		f.batchRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockBatch")).Return(nil)
		f.movementRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		_, err = f.service.StockIn(ctx, f.tenantID, f.userID, StockInRequest{
			ProductID:   f.productID,
			LocationID:  &locID,
			Quantity:    decimal.NewFromInt(10),
			BatchNumber: "LOT-1",
		})

		require.NoError(t, err)
		saved := f.batchRepo.Calls[1].Arguments.Get(1).(*inventory.StockBatch)
		require.NotNil(t, saved.LocationID)
		assert.Equal(t, locID, *saved.LocationID)
		assert.Equal(t, "10", saved.Quantity.String())
	})

	t.Run("denied without the stock write capability", func(t *testing.T) {
		f := newLedgerFixture(t)
		stranger := uuid.New()

		_, err := f.service.StockIn(ctx, f.tenantID, stranger, StockInRequest{
			ProductID: f.productID,
			Quantity:  decimal.NewFromInt(10),
		})

		require.ErrorIs(t, err, shared.ErrForbidden)
		f.itemRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an unknown product", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.productRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, f.productID).Return(nil, shared.ErrNotFound)

		_, err := f.service.StockIn(ctx, f.tenantID, f.userID, StockInRequest{
			ProductID: f.productID,
			Quantity:  decimal.NewFromInt(10),
		})

		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLedgerService_StockOut(t *testing.T) {
	ctx := context.Background()

	t.Run("issues stock after a receipt", func(t *testing.T) {
		// In 10 at cost 5, out 3: quantity ends at 7.
		f := newLedgerFixture(t)
		item := f.newItem(t, 10)
		f.itemRepo.On("FindByProductAndLocation", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return(item, nil)
		f.itemRepo.On("SaveWithLock", mock.Anything, item).Return(nil)
		f.batchRepo.On("FindOpenByProduct", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return([]*inventory.StockBatch{}, nil)
		f.movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

		resp, err := f.service.StockOut(ctx, f.tenantID, f.userID, StockOutRequest{
			ProductID: f.productID,
			Quantity:  decimal.NewFromInt(3),
		})

		require.NoError(t, err)
		assert.Equal(t, "7", resp.Quantity.String())
		assert.Equal(t, "7", resp.AvailableQuantity.String())

		movement := f.movementRepo.Calls[0].Arguments.Get(1).(*inventory.StockMovement)
		assert.Equal(t, inventory.MovementTypeOut, movement.Type)
		assert.Equal(t, "10", movement.QuantityBefore.String())
		assert.Equal(t, "7", movement.QuantityAfter.String())
	})

	t.Run("reserved stock cannot leave", func(t *testing.T) {
		// 7 on hand with 5 reserved: issuing 6 must fail untouched.
		f := newLedgerFixture(t)
		item := f.newItem(t, 7)
		require.NoError(t, item.Reserve(decimal.NewFromInt(5)))
		f.itemRepo.On("FindByProductAndLocation", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return(item, nil)

		_, err := f.service.StockOut(ctx, f.tenantID, f.userID, StockOutRequest{
			ProductID: f.productID,
			Quantity:  decimal.NewFromInt(6),
		})

		require.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_STOCK", shared.ErrorCode(err))
		assert.Equal(t, "7", item.Quantity.String())
		f.itemRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		f.movementRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("consumes batches FIFO and tolerates shortfall", func(t *testing.T) {
		f := newLedgerFixture(t)
		item := f.newItem(t, 10)
		batch, err := inventory.NewStockBatch(f.tenantID, f.productID, nil, "LOT-1",
			decimal.NewFromInt(4), decimal.NewFromInt(5), nil)
		require.NoError(t, err)

		f.itemRepo.On("FindByProductAndLocation", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return(item, nil)
		f.itemRepo.On("SaveWithLock", mock.Anything, item).Return(nil)
		f.batchRepo.On("FindOpenByProduct", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return([]*inventory.StockBatch{batch}, nil)
		f.batchRepo.On("SaveAll", mock.Anything, mock.Anything).Return(nil)
		f.movementRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		// Batch only covers 4 of the 6; the item total still moves and the
		// remainder is only logged.
		resp, err := f.service.StockOut(ctx, f.tenantID, f.userID, StockOutRequest{
			ProductID: f.productID,
			Quantity:  decimal.NewFromInt(6),
		})

		require.NoError(t, err)
		assert.Equal(t, "4", resp.Quantity.String())
		assert.True(t, batch.Quantity.IsZero())
		assert.True(t, batch.Consumed)
	})

	t.Run("named batch issue never drains other lots", func(t *testing.T) {
		f := newLedgerFixture(t)
		item := f.newItem(t, 15)
		named, err := inventory.NewStockBatch(f.tenantID, f.productID, nil, "LOT-2",
			decimal.NewFromInt(5), decimal.NewFromInt(5), nil)
		require.NoError(t, err)
		other, err := inventory.NewStockBatch(f.tenantID, f.productID, nil, "LOT-1",
			decimal.NewFromInt(10), decimal.NewFromInt(5), nil)
		require.NoError(t, err)

		f.itemRepo.On("FindByProductAndLocation", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return(item, nil)
		f.itemRepo.On("SaveWithLock", mock.Anything, item).Return(nil)
		f.batchRepo.On("FindOpenByProduct", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return([]*inventory.StockBatch{named, other}, nil)
		f.batchRepo.On("SaveAll", mock.Anything, mock.Anything).Return(nil)
		f.movementRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		// The named lot covers 5 of the 8; the rest is shortfall, LOT-1
		// stays untouched.
		_, err = f.service.StockOut(ctx, f.tenantID, f.userID, StockOutRequest{
			ProductID:   f.productID,
			Quantity:    decimal.NewFromInt(8),
			BatchNumber: "LOT-2",
		})

		require.NoError(t, err)
		assert.True(t, named.Quantity.IsZero())
		assert.Equal(t, "10", other.Quantity.String())

		movement := f.movementRepo.Calls[0].Arguments.Get(1).(*inventory.StockMovement)
		assert.Equal(t, "LOT-2", movement.BatchNumber)
	})

	t.Run("missing item surfaces not found", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.itemRepo.On("FindByProductAndLocation", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return(nil, shared.ErrNotFound)

		_, err := f.service.StockOut(ctx, f.tenantID, f.userID, StockOutRequest{
			ProductID: f.productID,
			Quantity:  decimal.NewFromInt(1),
		})

		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLedgerService_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("corrects the quantity and records the movement", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.expectActiveProduct(t)
		item := f.newItem(t, 10)
		f.itemRepo.On("GetOrCreate", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return(item, nil)
		f.itemRepo.On("SaveWithLock", mock.Anything, item).Return(nil)
		f.movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

		resp, err := f.service.AdjustStock(ctx, f.tenantID, f.userID, AdjustStockRequest{
			ProductID:   f.productID,
			NewQuantity: decimal.NewFromInt(4),
			Reason:      "cycle count",
		})

		require.NoError(t, err)
		assert.Equal(t, "4", resp.Quantity.String())

		movement := f.movementRepo.Calls[0].Arguments.Get(1).(*inventory.StockMovement)
		assert.Equal(t, inventory.MovementTypeAdjustment, movement.Type)
		assert.Equal(t, "6", movement.Quantity.String())
		assert.Equal(t, "cycle count", movement.Reason)
	})

	t.Run("requires the adjust capability", func(t *testing.T) {
		f := newLedgerFixture(t)
		reader := uuid.New()
		f.gate.Grant(reader, identity.PermStockRead, identity.PermStockWrite)

		_, err := f.service.AdjustStock(ctx, f.tenantID, reader, AdjustStockRequest{
			ProductID:   f.productID,
			NewQuantity: decimal.NewFromInt(4),
			Reason:      "cycle count",
		})

		require.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestLedgerService_TransferStock(t *testing.T) {
	ctx := context.Background()

	t.Run("moves stock between locations atomically", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.expectActiveProduct(t)
		fromID := uuid.New()
		toID := uuid.New()
		fromLocation, err := catalog.NewLocation(f.tenantID, "A", "Shelf A")
		require.NoError(t, err)
		toLocation, err := catalog.NewLocation(f.tenantID, "B", "Shelf B")
		require.NoError(t, err)
		f.locationRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, fromID).Return(fromLocation, nil)
		f.locationRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, toID).Return(toLocation, nil)

		source, err := inventory.NewStockItem(f.tenantID, f.productID, &fromID)
		require.NoError(t, err)
		cost := decimal.NewFromInt(5)
		require.NoError(t, source.StockIn(decimal.NewFromInt(10), &cost))
		source.ClearDomainEvents()
		dest, err := inventory.NewStockItem(f.tenantID, f.productID, &toID)
		require.NoError(t, err)

		f.itemRepo.On("FindByProductAndLocation", mock.Anything, f.tenantID, f.productID, &fromID).Return(source, nil)
		f.itemRepo.On("GetOrCreate", mock.Anything, f.tenantID, f.productID, &toID).Return(dest, nil)
		f.itemRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*inventory.StockItem")).Return(nil)
		f.movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

		resp, err := f.service.TransferStock(ctx, f.tenantID, f.userID, TransferStockRequest{
			ProductID:      f.productID,
			FromLocationID: &fromID,
			ToLocationID:   &toID,
			Quantity:       decimal.NewFromInt(4),
		})

		require.NoError(t, err)
		assert.Equal(t, "6", resp.Quantity.String())
		assert.Equal(t, "4", dest.Quantity.String())
		assert.Equal(t, "5", dest.UnitCost.String())

		movement := f.movementRepo.Calls[0].Arguments.Get(1).(*inventory.StockMovement)
		assert.Equal(t, inventory.MovementTypeTransfer, movement.Type)
		assert.Equal(t, fromID, *movement.FromLocationID)
		assert.Equal(t, toID, *movement.ToLocationID)

		assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeStockTransferred), 1)
	})

	t.Run("rejects a same-location transfer", func(t *testing.T) {
		f := newLedgerFixture(t)
		locID := uuid.New()

		_, err := f.service.TransferStock(ctx, f.tenantID, f.userID, TransferStockRequest{
			ProductID:      f.productID,
			FromLocationID: &locID,
			ToLocationID:   &locID,
			Quantity:       decimal.NewFromInt(4),
		})

		require.Error(t, err)
		assert.Equal(t, "INVALID_TRANSFER", shared.ErrorCode(err))
	})

	t.Run("rejects an unknown source location", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.expectActiveProduct(t)
		fromID := uuid.New()
		f.locationRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, fromID).Return(nil, shared.ErrNotFound)

		_, err := f.service.TransferStock(ctx, f.tenantID, f.userID, TransferStockRequest{
			ProductID:      f.productID,
			FromLocationID: &fromID,
			Quantity:       decimal.NewFromInt(4),
		})

		require.ErrorIs(t, err, shared.ErrNotFound)
		f.itemRepo.AssertNotCalled(t, "FindByProductAndLocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient stock at source aborts both sides", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.expectActiveProduct(t)
		fromID := uuid.New()
		fromLocation, err := catalog.NewLocation(f.tenantID, "A", "Shelf A")
		require.NoError(t, err)
		f.locationRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, fromID).Return(fromLocation, nil)

		source, err := inventory.NewStockItem(f.tenantID, f.productID, &fromID)
		require.NoError(t, err)
		require.NoError(t, source.StockIn(decimal.NewFromInt(2), nil))
		dest, err := inventory.NewStockItem(f.tenantID, f.productID, nil)
		require.NoError(t, err)

		f.itemRepo.On("FindByProductAndLocation", mock.Anything, f.tenantID, f.productID, &fromID).Return(source, nil)
		f.itemRepo.On("GetOrCreate", mock.Anything, f.tenantID, f.productID, (*uuid.UUID)(nil)).Return(dest, nil)

		_, err = f.service.TransferStock(ctx, f.tenantID, f.userID, TransferStockRequest{
			ProductID:      f.productID,
			FromLocationID: &fromID,
			Quantity:       decimal.NewFromInt(4),
		})

		require.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_STOCK", shared.ErrorCode(err))
		assert.True(t, dest.Quantity.IsZero())
		f.itemRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestLedgerService_Reads(t *testing.T) {
	ctx := context.Background()

	t.Run("list stock items pages through the repository", func(t *testing.T) {
		f := newLedgerFixture(t)
		item := f.newItem(t, 10)
		f.itemRepo.On("FindAllForTenant", mock.Anything, f.tenantID, mock.AnythingOfType("shared.Filter")).Return([]inventory.StockItem{*item}, nil)
		f.itemRepo.On("CountForTenant", mock.Anything, f.tenantID, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

		items, total, err := f.service.ListStockItems(ctx, f.tenantID, f.userID, StockListFilter{Page: 1, PageSize: 20})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, "10", items[0].Quantity.String())
	})

	t.Run("list batches hides consumed lots by default", func(t *testing.T) {
		f := newLedgerFixture(t)
		batch, err := inventory.NewStockBatch(f.tenantID, f.productID, nil, "LOT-1", decimal.NewFromInt(5), decimal.NewFromInt(2), nil)
		require.NoError(t, err)
		f.batchRepo.On("FindAllForTenant", mock.Anything, f.tenantID, mock.MatchedBy(func(filter shared.Filter) bool {
			consumed, ok := filter.Filters["consumed"].(bool)
			return ok && !consumed
		})).Return([]inventory.StockBatch{*batch}, nil)
		f.batchRepo.On("CountForTenant", mock.Anything, f.tenantID, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

		batches, total, err := f.service.ListBatches(ctx, f.tenantID, f.userID, BatchListFilter{Page: 1, PageSize: 20})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, batches, 1)
		assert.Equal(t, "LOT-1", batches[0].BatchNumber)
	})

	t.Run("reads require the read capability", func(t *testing.T) {
		f := newLedgerFixture(t)
		stranger := uuid.New()

		_, _, err := f.service.ListStockItems(ctx, f.tenantID, stranger, StockListFilter{})

		require.ErrorIs(t, err, shared.ErrForbidden)
	})
}

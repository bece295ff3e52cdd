package sales

import (
	"context"
	"testing"

	"github.com/atlaserp/backend/internal/domain/sales"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (f *salesFixture) pendingOrder(t *testing.T) *sales.Order {
	t.Helper()
	order, err := sales.NewOrder(f.tenantID, "OS-000001", "Acme Ltda")
	require.NoError(t, err)
	item, err := sales.NewOrderItem(uuid.New(), "Widget", decimal.NewFromInt(1), decimal.NewFromInt(10), sales.NoDiscount())
	require.NoError(t, err)
	require.NoError(t, order.SetItems([]sales.OrderItem{item}))
	order.ClearDomainEvents()
	return order
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending order with generated number", func(t *testing.T) {
		f := newSalesFixture(t)
		f.orderRepo.On("GenerateOrderNumber", mock.Anything, f.tenantID).Return("OS-000001", nil)
		f.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*sales.Order")).Return(nil)

		resp, err := f.orderService.CreateOrder(ctx, f.tenantID, f.userID, CreateOrderRequest{
			CustomerName: "Acme Ltda",
			Items:        sampleLines(),
		})

		require.NoError(t, err)
		assert.Equal(t, "OS-000001", resp.OrderNumber)
		assert.Equal(t, string(sales.OrderStatusPending), resp.Status)
		assert.Equal(t, "180", resp.TotalAmount.String())
		assert.Nil(t, resp.QuoteID)
		assert.Len(t, f.publisher.GetEventsByType(sales.EventTypeOrderCreated), 1)
	})

	t.Run("requires the order create capability", func(t *testing.T) {
		f := newSalesFixture(t)
		stranger := uuid.New()

		_, err := f.orderService.CreateOrder(ctx, f.tenantID, stranger, CreateOrderRequest{
			CustomerName: "Acme Ltda",
			Items:        sampleLines(),
		})

		require.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestOrderService_ChangeOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("starts and completes an order", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.pendingOrder(t)
		f.orderRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		resp, err := f.orderService.ChangeOrderStatus(ctx, f.tenantID, f.userID, order.ID, ChangeOrderStatusRequest{Status: "IN_PROGRESS"})
		require.NoError(t, err)
		assert.Equal(t, string(sales.OrderStatusInProgress), resp.Status)

		resp, err = f.orderService.ChangeOrderStatus(ctx, f.tenantID, f.userID, order.ID, ChangeOrderStatusRequest{Status: "COMPLETED"})
		require.NoError(t, err)
		assert.Equal(t, string(sales.OrderStatusCompleted), resp.Status)
		assert.Len(t, f.publisher.GetEventsByType(sales.EventTypeOrderStatusChanged), 2)
	})

	t.Run("reopens a cancelled order", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.pendingOrder(t)
		require.NoError(t, order.ChangeStatus(sales.OrderStatusCancelled))
		order.ClearDomainEvents()

		f.orderRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		resp, err := f.orderService.ChangeOrderStatus(ctx, f.tenantID, f.userID, order.ID, ChangeOrderStatusRequest{Status: "PENDING"})

		require.NoError(t, err)
		assert.Equal(t, string(sales.OrderStatusPending), resp.Status)
	})

	t.Run("invalid transition leaves the order untouched", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.pendingOrder(t)
		f.orderRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)

		_, err := f.orderService.ChangeOrderStatus(ctx, f.tenantID, f.userID, order.ID, ChangeOrderStatusRequest{Status: "COMPLETED"})

		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))
		assert.Equal(t, sales.OrderStatusPending, order.Status)
		f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestOrderService_Reads(t *testing.T) {
	ctx := context.Background()

	t.Run("get order by ID", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.pendingOrder(t)
		f.orderRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)

		resp, err := f.orderService.GetOrder(ctx, f.tenantID, f.userID, order.ID)

		require.NoError(t, err)
		assert.Equal(t, order.OrderNumber, resp.OrderNumber)
	})

	t.Run("list orders with status filter", func(t *testing.T) {
		f := newSalesFixture(t)
		order := f.pendingOrder(t)
		f.orderRepo.On("FindAllForTenant", mock.Anything, f.tenantID, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Filters["status"] == "PENDING"
		})).Return([]sales.Order{*order}, nil)
		f.orderRepo.On("CountForTenant", mock.Anything, f.tenantID, mock.Anything).Return(int64(1), nil)

		orders, total, err := f.orderService.ListOrders(ctx, f.tenantID, f.userID, OrderListFilter{Status: "PENDING"})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
	})

	t.Run("reads require the read capability", func(t *testing.T) {
		f := newSalesFixture(t)
		stranger := uuid.New()

		_, err := f.orderService.GetOrder(ctx, f.tenantID, stranger, uuid.New())

		require.ErrorIs(t, err, shared.ErrForbidden)
	})
}

package sales

import (
	"context"
	"testing"

	"github.com/atlaserp/backend/internal/domain/identity"
	"github.com/atlaserp/backend/internal/domain/sales"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type salesFixture struct {
	quoteService *QuoteService
	orderService *OrderService
	quoteRepo    *MockQuoteRepository
	orderRepo    *MockOrderRepository
	publisher    *MockEventPublisher
	gate         *identity.StaticPermissionGate
	tenantID     uuid.UUID
	userID       uuid.UUID
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()

	f := &salesFixture{
		quoteRepo: new(MockQuoteRepository),
		orderRepo: new(MockOrderRepository),
		publisher: NewMockEventPublisher(),
		gate:      identity.NewStaticPermissionGate(),
		tenantID:  uuid.New(),
		userID:    uuid.New(),
	}
	f.gate.GrantAll(f.userID)

	scope := NewNoOpTransactionScope(f.quoteRepo, f.orderRepo)
	f.quoteService = NewQuoteService(scope, f.gate, zap.NewNop())
	f.quoteService.SetEventPublisher(f.publisher)
	f.orderService = NewOrderService(scope, f.gate, zap.NewNop())
	f.orderService.SetEventPublisher(f.publisher)

	return f
}

func sampleLines() []LineInput {
	return []LineInput{
		{
			ProductID:     uuid.New(),
			Description:   "Widget",
			Quantity:      decimal.NewFromInt(2),
			UnitPrice:     decimal.NewFromInt(100),
			DiscountType:  "PERCENTAGE",
			DiscountValue: decimal.NewFromInt(10),
		},
	}
}

func (f *salesFixture) approvedQuote(t *testing.T) *sales.Quote {
	t.Helper()
	quote, err := sales.NewQuote(f.tenantID, "ORC-000001", "Acme Ltda")
	require.NoError(t, err)
	lineDiscount, err := sales.NewDiscount(sales.DiscountTypePercentage, decimal.NewFromInt(10))
	require.NoError(t, err)
	item, err := sales.NewQuoteItem(uuid.New(), "Widget", decimal.NewFromInt(2), decimal.NewFromInt(100), lineDiscount)
	require.NoError(t, err)
	require.NoError(t, quote.SetItems([]sales.QuoteItem{item}))
	docDiscount, err := sales.NewDiscount(sales.DiscountTypeFixed, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, quote.SetDocumentDiscount(docDiscount))
	require.NoError(t, quote.ChangeStatus(sales.QuoteStatusSent))
	require.NoError(t, quote.ChangeStatus(sales.QuoteStatusApproved))
	quote.ClearDomainEvents()
	return quote
}

func TestQuoteService_CreateQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a draft with generated number and totals", func(t *testing.T) {
		f := newSalesFixture(t)
		f.quoteRepo.On("GenerateQuoteNumber", mock.Anything, f.tenantID).Return("ORC-000001", nil)
		f.quoteRepo.On("Save", mock.Anything, mock.AnythingOfType("*sales.Quote")).Return(nil)

		resp, err := f.quoteService.CreateQuote(ctx, f.tenantID, f.userID, CreateQuoteRequest{
			CustomerName:  "Acme Ltda",
			Items:         sampleLines(),
			DiscountType:  "FIXED",
			DiscountValue: decimal.NewFromInt(5),
		})

		require.NoError(t, err)
		assert.Equal(t, "ORC-000001", resp.QuoteNumber)
		assert.Equal(t, string(sales.QuoteStatusDraft), resp.Status)
		assert.Equal(t, "200", resp.Subtotal.String())
		assert.Equal(t, "175", resp.TotalAmount.String())
		assert.Len(t, f.publisher.GetEventsByType(sales.EventTypeQuoteCreated), 1)
	})

	t.Run("rejects an oversized percentage discount", func(t *testing.T) {
		f := newSalesFixture(t)
		lines := sampleLines()
		lines[0].DiscountValue = decimal.NewFromInt(150)

		_, err := f.quoteService.CreateQuote(ctx, f.tenantID, f.userID, CreateQuoteRequest{
			CustomerName: "Acme Ltda",
			Items:        lines,
		})

		require.Error(t, err)
		assert.Equal(t, "INVALID_DISCOUNT", shared.ErrorCode(err))
		f.quoteRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("requires the quote create capability", func(t *testing.T) {
		f := newSalesFixture(t)
		stranger := uuid.New()

		_, err := f.quoteService.CreateQuote(ctx, f.tenantID, stranger, CreateQuoteRequest{
			CustomerName: "Acme Ltda",
			Items:        sampleLines(),
		})

		require.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestQuoteService_ChangeQuoteStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("sends a draft quote", func(t *testing.T) {
		f := newSalesFixture(t)
		quote, err := sales.NewQuote(f.tenantID, "ORC-000001", "Acme Ltda")
		require.NoError(t, err)
		item, err := sales.NewQuoteItem(uuid.New(), "Widget", decimal.NewFromInt(1), decimal.NewFromInt(10), sales.NoDiscount())
		require.NoError(t, err)
		require.NoError(t, quote.SetItems([]sales.QuoteItem{item}))
		quote.ClearDomainEvents()

		f.quoteRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, quote.ID).Return(quote, nil)
		f.quoteRepo.On("SaveWithLock", mock.Anything, quote).Return(nil)

		resp, err := f.quoteService.ChangeQuoteStatus(ctx, f.tenantID, f.userID, quote.ID, ChangeQuoteStatusRequest{Status: "SENT"})

		require.NoError(t, err)
		assert.Equal(t, string(sales.QuoteStatusSent), resp.Status)
		assert.Len(t, f.publisher.GetEventsByType(sales.EventTypeQuoteStatusChanged), 1)
	})

	t.Run("CONVERTED as a target is rejected", func(t *testing.T) {
		f := newSalesFixture(t)
		quote := f.approvedQuote(t)
		f.quoteRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, quote.ID).Return(quote, nil)

		_, err := f.quoteService.ChangeQuoteStatus(ctx, f.tenantID, f.userID, quote.ID, ChangeQuoteStatusRequest{Status: "CONVERTED"})

		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))
		f.quoteRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("missing quote surfaces not found", func(t *testing.T) {
		f := newSalesFixture(t)
		quoteID := uuid.New()
		f.quoteRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, quoteID).Return(nil, shared.ErrNotFound)

		_, err := f.quoteService.ChangeQuoteStatus(ctx, f.tenantID, f.userID, quoteID, ChangeQuoteStatusRequest{Status: "SENT"})

		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestQuoteService_ConvertToOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("converts an approved quote into a pending order", func(t *testing.T) {
		f := newSalesFixture(t)
		quote := f.approvedQuote(t)

		f.quoteRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, quote.ID).Return(quote, nil)
		f.orderRepo.On("ExistsByQuoteID", mock.Anything, f.tenantID, quote.ID).Return(false, nil)
		f.orderRepo.On("GenerateOrderNumber", mock.Anything, f.tenantID).Return("OS-000001", nil)
		f.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*sales.Order")).Return(nil)
		f.quoteRepo.On("SaveWithLock", mock.Anything, quote).Return(nil)

		resp, err := f.quoteService.ConvertToOrder(ctx, f.tenantID, f.userID, quote.ID)

		require.NoError(t, err)
		assert.Equal(t, string(sales.QuoteStatusConverted), resp.Quote.Status)
		assert.Equal(t, "OS-000001", resp.Order.OrderNumber)
		assert.Equal(t, string(sales.OrderStatusPending), resp.Order.Status)
		assert.Equal(t, "175", resp.Order.TotalAmount.String())
		require.NotNil(t, resp.Quote.ConvertedOrderID)
		assert.Equal(t, resp.Order.ID, *resp.Quote.ConvertedOrderID)
		assert.Len(t, f.publisher.GetEventsByType(sales.EventTypeQuoteConverted), 1)
	})

	t.Run("a second conversion is a conflict, not a second order", func(t *testing.T) {
		f := newSalesFixture(t)
		quote := f.approvedQuote(t)
		require.NoError(t, quote.MarkConverted(uuid.New()))
		quote.ClearDomainEvents()

		f.quoteRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, quote.ID).Return(quote, nil)

		_, err := f.quoteService.ConvertToOrder(ctx, f.tenantID, f.userID, quote.ID)

		require.Error(t, err)
		assert.Equal(t, "ALREADY_CONVERTED", shared.ErrorCode(err))
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("an existing order for the quote is a conflict", func(t *testing.T) {
		f := newSalesFixture(t)
		quote := f.approvedQuote(t)

		f.quoteRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, quote.ID).Return(quote, nil)
		f.orderRepo.On("ExistsByQuoteID", mock.Anything, f.tenantID, quote.ID).Return(true, nil)

		_, err := f.quoteService.ConvertToOrder(ctx, f.tenantID, f.userID, quote.ID)

		require.Error(t, err)
		assert.Equal(t, "ALREADY_CONVERTED", shared.ErrorCode(err))
		f.orderRepo.AssertNotCalled(t, "GenerateOrderNumber", mock.Anything, mock.Anything)
	})

	t.Run("only approved quotes convert", func(t *testing.T) {
		f := newSalesFixture(t)
		quote, err := sales.NewQuote(f.tenantID, "ORC-000002", "Acme Ltda")
		require.NoError(t, err)
		f.quoteRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, quote.ID).Return(quote, nil)

		_, err = f.quoteService.ConvertToOrder(ctx, f.tenantID, f.userID, quote.ID)

		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))
	})

	t.Run("missing quote surfaces not found first", func(t *testing.T) {
		f := newSalesFixture(t)
		quoteID := uuid.New()
		f.quoteRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, quoteID).Return(nil, shared.ErrNotFound)

		_, err := f.quoteService.ConvertToOrder(ctx, f.tenantID, f.userID, quoteID)

		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("conversion needs both quote update and order create capabilities", func(t *testing.T) {
		f := newSalesFixture(t)
		quoteOnly := uuid.New()
		f.gate.Grant(quoteOnly, identity.PermQuotesRead, identity.PermQuotesUpdate)

		_, err := f.quoteService.ConvertToOrder(ctx, f.tenantID, quoteOnly, uuid.New())

		require.ErrorIs(t, err, shared.ErrForbidden)
	})
}

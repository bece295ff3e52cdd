package sales

import (
	"context"
	"time"

	"github.com/atlaserp/backend/internal/domain/identity"
	"github.com/atlaserp/backend/internal/domain/sales"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteService handles quote operations, including the conversion workflow
// that turns an approved quote into an order.
type QuoteService struct {
	txScope        TransactionScope
	gate           identity.PermissionGate
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(txScope TransactionScope, gate identity.PermissionGate, logger *zap.Logger) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{
		txScope: txScope,
		gate:    gate,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateQuote creates a new draft quote with a generated quote number
func (s *QuoteService) CreateQuote(ctx context.Context, tenantID, userID uuid.UUID, req CreateQuoteRequest) (*QuoteResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermQuotesCreate); err != nil {
		return nil, err
	}

	items, err := buildQuoteItems(req.Items)
	if err != nil {
		return nil, err
	}
	docDiscount, err := sales.NewDiscount(sales.DiscountType(req.DiscountType), req.DiscountValue)
	if err != nil {
		return nil, err
	}

	var quote *sales.Quote
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.QuoteRepo().GenerateQuoteNumber(ctx, tenantID)
		if err != nil {
			return err
		}

		quote, err = sales.NewQuote(tenantID, number, req.CustomerName)
		if err != nil {
			return err
		}
		quote.SetCreatedBy(userID)
		quote.CustomerID = req.CustomerID
		quote.ValidUntil = req.ValidUntil
		quote.Notes = req.Notes

		if err := quote.SetItems(items); err != nil {
			return err
		}
		if err := quote.SetDocumentDiscount(docDiscount); err != nil {
			return err
		}

		return repos.QuoteRepo().Save(ctx, quote)
	})
	if err != nil {
		return nil, err
	}

	s.publishQuoteEvents(ctx, quote)

	response := ToQuoteResponse(quote)
	return &response, nil
}

// UpdateQuote replaces the content of a draft quote
func (s *QuoteService) UpdateQuote(ctx context.Context, tenantID, userID, quoteID uuid.UUID, req UpdateQuoteRequest) (*QuoteResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermQuotesUpdate); err != nil {
		return nil, err
	}

	items, err := buildQuoteItems(req.Items)
	if err != nil {
		return nil, err
	}
	docDiscount, err := sales.NewDiscount(sales.DiscountType(req.DiscountType), req.DiscountValue)
	if err != nil {
		return nil, err
	}

	var quote *sales.Quote
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		quote, err = repos.QuoteRepo().FindByIDForTenant(ctx, tenantID, quoteID)
		if err != nil {
			return err
		}

		if err := quote.SetItems(items); err != nil {
			return err
		}
		if err := quote.SetDocumentDiscount(docDiscount); err != nil {
			return err
		}
		quote.ValidUntil = req.ValidUntil
		quote.Notes = req.Notes

		return repos.QuoteRepo().SaveWithLock(ctx, quote)
	})
	if err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// ChangeQuoteStatus moves a quote along its lifecycle. CONVERTED is
// rejected here; conversion goes through ConvertToOrder.
func (s *QuoteService) ChangeQuoteStatus(ctx context.Context, tenantID, userID, quoteID uuid.UUID, req ChangeQuoteStatusRequest) (*QuoteResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermQuotesUpdate); err != nil {
		return nil, err
	}

	var quote *sales.Quote
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		quote, err = repos.QuoteRepo().FindByIDForTenant(ctx, tenantID, quoteID)
		if err != nil {
			return err
		}
		if err := quote.ChangeStatus(sales.QuoteStatus(req.Status)); err != nil {
			return err
		}
		return repos.QuoteRepo().SaveWithLock(ctx, quote)
	})
	if err != nil {
		return nil, err
	}

	s.publishQuoteEvents(ctx, quote)

	response := ToQuoteResponse(quote)
	return &response, nil
}

// ConvertToOrder turns an approved quote into a pending order. The order
// insert and the quote's CONVERTED flip happen in one transaction;
// re-running the conversion is a conflict, never a second order.
func (s *QuoteService) ConvertToOrder(ctx context.Context, tenantID, userID, quoteID uuid.UUID) (*ConversionResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermQuotesUpdate); err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermOrdersCreate); err != nil {
		return nil, err
	}

	var quote *sales.Quote
	var order *sales.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		quote, err = repos.QuoteRepo().FindByIDForTenant(ctx, tenantID, quoteID)
		if err != nil {
			return err
		}

		// Precondition order matters for the API contract: a missing quote
		// is NOT_FOUND, a converted one is a conflict, anything not
		// approved is an invalid state.
		if quote.Status == sales.QuoteStatusConverted {
			return shared.NewDomainError("ALREADY_CONVERTED", "Quote has already been converted")
		}
		if quote.Status != sales.QuoteStatusApproved {
			return shared.NewDomainError("INVALID_STATE", "Only approved quotes can be converted")
		}
		exists, err := repos.OrderRepo().ExistsByQuoteID(ctx, tenantID, quote.ID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_CONVERTED", "An order already exists for this quote")
		}

		number, err := repos.OrderRepo().GenerateOrderNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		order, err = sales.NewOrderFromQuote(quote, number)
		if err != nil {
			return err
		}
		order.SetCreatedBy(userID)

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		if err := quote.MarkConverted(order.ID); err != nil {
			return err
		}
		return repos.QuoteRepo().SaveWithLock(ctx, quote)
	})
	if err != nil {
		return nil, err
	}

	quote.AddDomainEvent(sales.NewQuoteConvertedEvent(quote, order))
	s.publishQuoteEvents(ctx, quote)
	s.publishOrderEvents(ctx, order)

	return &ConversionResponse{
		Quote: ToQuoteResponse(quote),
		Order: ToOrderResponse(order),
	}, nil
}

// ExpireOverdue flips sent quotes past their validity date to EXPIRED.
// Called periodically by the sweep ticker.
func (s *QuoteService) ExpireOverdue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	var overdue []sales.Quote
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		overdue, err = repos.QuoteRepo().FindExpired(ctx, asOf, limit)
		return err
	})
	if err != nil {
		return 0, err
	}

	expired := 0
	for idx := range overdue {
		quote := &overdue[idx]
		err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			if err := quote.ChangeStatus(sales.QuoteStatusExpired); err != nil {
				return err
			}
			return repos.QuoteRepo().SaveWithLock(ctx, quote)
		})
		if err != nil {
			s.logger.Warn("failed to expire quote",
				zap.String("quote_id", quote.ID.String()),
				zap.Error(err),
			)
			continue
		}
		s.publishQuoteEvents(ctx, quote)
		expired++
	}

	return expired, nil
}

// GetQuote retrieves one quote by ID
func (s *QuoteService) GetQuote(ctx context.Context, tenantID, userID, quoteID uuid.UUID) (*QuoteResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermQuotesRead); err != nil {
		return nil, err
	}

	var quote *sales.Quote
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		quote, err = repos.QuoteRepo().FindByIDForTenant(ctx, tenantID, quoteID)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// ListQuotes lists quotes with filtering and pagination
func (s *QuoteService) ListQuotes(ctx context.Context, tenantID, userID uuid.UUID, filter QuoteListFilter) ([]QuoteResponse, int64, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermQuotesRead); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}

	var quotes []sales.Quote
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		quotes, err = repos.QuoteRepo().FindAllForTenant(ctx, tenantID, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.QuoteRepo().CountForTenant(ctx, tenantID, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return ToQuoteResponses(quotes), total, nil
}

func buildQuoteItems(inputs []LineInput) ([]sales.QuoteItem, error) {
	items := make([]sales.QuoteItem, 0, len(inputs))
	for _, input := range inputs {
		discount, err := sales.NewDiscount(sales.DiscountType(input.DiscountType), input.DiscountValue)
		if err != nil {
			return nil, err
		}
		item, err := sales.NewQuoteItem(input.ProductID, input.Description, input.Quantity, input.UnitPrice, discount)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *QuoteService) publishQuoteEvents(ctx context.Context, quote *sales.Quote) {
	if s.eventPublisher == nil || quote == nil {
		return
	}
	events := quote.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	quote.ClearDomainEvents()
}

func (s *QuoteService) publishOrderEvents(ctx context.Context, order *sales.Order) {
	if s.eventPublisher == nil || order == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

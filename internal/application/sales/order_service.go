package sales

import (
	"context"

	"github.com/atlaserp/backend/internal/domain/identity"
	"github.com/atlaserp/backend/internal/domain/sales"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order operations
type OrderService struct {
	txScope        TransactionScope
	gate           identity.PermissionGate
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(txScope TransactionScope, gate identity.PermissionGate, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		txScope: txScope,
		gate:    gate,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateOrder creates a new pending order with a generated order number
func (s *OrderService) CreateOrder(ctx context.Context, tenantID, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermOrdersCreate); err != nil {
		return nil, err
	}

	items, err := buildOrderItems(req.Items)
	if err != nil {
		return nil, err
	}
	docDiscount, err := sales.NewDiscount(sales.DiscountType(req.DiscountType), req.DiscountValue)
	if err != nil {
		return nil, err
	}

	var order *sales.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.OrderRepo().GenerateOrderNumber(ctx, tenantID)
		if err != nil {
			return err
		}

		order, err = sales.NewOrder(tenantID, number, req.CustomerName)
		if err != nil {
			return err
		}
		order.SetCreatedBy(userID)
		order.CustomerID = req.CustomerID
		order.Notes = req.Notes

		if err := order.SetItems(items); err != nil {
			return err
		}
		if err := order.SetDocumentDiscount(docDiscount); err != nil {
			return err
		}

		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishOrderEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// ChangeOrderStatus moves an order along its lifecycle
func (s *OrderService) ChangeOrderStatus(ctx context.Context, tenantID, userID, orderID uuid.UUID, req ChangeOrderStatusRequest) (*OrderResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermOrdersUpdate); err != nil {
		return nil, err
	}

	var order *sales.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if err := order.ChangeStatus(sales.OrderStatus(req.Status)); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishOrderEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetOrder retrieves one order by ID
func (s *OrderService) GetOrder(ctx context.Context, tenantID, userID, orderID uuid.UUID) (*OrderResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermOrdersRead); err != nil {
		return nil, err
	}

	var order *sales.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForTenant(ctx, tenantID, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// ListOrders lists orders with filtering and pagination
func (s *OrderService) ListOrders(ctx context.Context, tenantID, userID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermOrdersRead); err != nil {
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
	if filter.QuoteID != nil {
		domainFilter.Filters["quote_id"] = *filter.QuoteID
	}

	var orders []sales.Order
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		orders, err = repos.OrderRepo().FindAllForTenant(ctx, tenantID, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.OrderRepo().CountForTenant(ctx, tenantID, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

func buildOrderItems(inputs []LineInput) ([]sales.OrderItem, error) {
	items := make([]sales.OrderItem, 0, len(inputs))
	for _, input := range inputs {
		discount, err := sales.NewDiscount(sales.DiscountType(input.DiscountType), input.DiscountValue)
		if err != nil {
			return nil, err
		}
		item, err := sales.NewOrderItem(input.ProductID, input.Description, input.Quantity, input.UnitPrice, discount)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *OrderService) publishOrderEvents(ctx context.Context, order *sales.Order) {
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

package sales

import (
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the sales domain
const (
	EventTypeQuoteCreated       = "sales.quote_created"
	EventTypeQuoteStatusChanged = "sales.quote_status_changed"
	EventTypeQuoteConverted     = "sales.quote_converted"
	EventTypeOrderCreated       = "sales.order_created"
	EventTypeOrderStatusChanged = "sales.order_status_changed"
)

// QuoteCreatedEvent is published when a quote is created
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteNumber  string `json:"quote_number"`
	CustomerName string `json:"customer_name"`
}

// NewQuoteCreatedEvent creates a quote created event
func NewQuoteCreatedEvent(quote *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, "Quote", quote.ID, quote.TenantID),
		QuoteNumber:     quote.QuoteNumber,
		CustomerName:    quote.CustomerName,
	}
}

// QuoteStatusChangedEvent is published on every quote status transition
type QuoteStatusChangedEvent struct {
	shared.BaseDomainEvent
	QuoteNumber string      `json:"quote_number"`
	FromStatus  QuoteStatus `json:"from_status"`
	ToStatus    QuoteStatus `json:"to_status"`
}

// NewQuoteStatusChangedEvent creates a quote status changed event
func NewQuoteStatusChangedEvent(quote *Quote, from, to QuoteStatus) *QuoteStatusChangedEvent {
	return &QuoteStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteStatusChanged, "Quote", quote.ID, quote.TenantID),
		QuoteNumber:     quote.QuoteNumber,
		FromStatus:      from,
		ToStatus:        to,
	}
}

// QuoteConvertedEvent is published when a quote becomes an order
type QuoteConvertedEvent struct {
	shared.BaseDomainEvent
	QuoteNumber string          `json:"quote_number"`
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewQuoteConvertedEvent creates a quote converted event
func NewQuoteConvertedEvent(quote *Quote, order *Order) *QuoteConvertedEvent {
	return &QuoteConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteConverted, "Quote", quote.ID, quote.TenantID),
		QuoteNumber:     quote.QuoteNumber,
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		TotalAmount:     order.TotalAmount,
	}
}

// OrderCreatedEvent is published when an order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string     `json:"order_number"`
	CustomerName string     `json:"customer_name"`
	QuoteID      *uuid.UUID `json:"quote_id,omitempty"`
}

// NewOrderCreatedEvent creates an order created event
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "Order", order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		QuoteID:         order.QuoteID,
	}
}

// OrderStatusChangedEvent is published on every order status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	FromStatus  OrderStatus `json:"from_status"`
	ToStatus    OrderStatus `json:"to_status"`
}

// NewOrderStatusChangedEvent creates an order status changed event
func NewOrderStatusChangedEvent(order *Order, from, to OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, "Order", order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		FromStatus:      from,
		ToStatus:        to,
	}
}

package sales

import (
	"time"

	"github.com/atlaserp/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineInput is one document line as submitted by the client
type LineInput struct {
	ProductID     uuid.UUID       `json:"product_id" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountType  string          `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value,omitempty"`
}

// CreateQuoteRequest is the input for creating a quote
type CreateQuoteRequest struct {
	CustomerID    *uuid.UUID  `json:"customer_id,omitempty"`
	CustomerName  string      `json:"customer_name" binding:"required"`
	Items         []LineInput `json:"items" binding:"required,min=1,dive"`
	DiscountType  string      `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value,omitempty"`
	ValidUntil    *time.Time  `json:"valid_until,omitempty"`
	Notes         string      `json:"notes,omitempty"`
}

// UpdateQuoteRequest is the input for replacing a draft quote's content
type UpdateQuoteRequest struct {
	Items         []LineInput     `json:"items" binding:"required,min=1,dive"`
	DiscountType  string          `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value,omitempty"`
	ValidUntil    *time.Time      `json:"valid_until,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// ChangeQuoteStatusRequest is the input for a quote status transition
type ChangeQuoteStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrderRequest is the input for creating an order directly
type CreateOrderRequest struct {
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName  string          `json:"customer_name" binding:"required"`
	Items         []LineInput     `json:"items" binding:"required,min=1,dive"`
	DiscountType  string          `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// ChangeOrderStatusRequest is the input for an order status transition
type ChangeOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// QuoteListFilter carries list query parameters for quotes
type QuoteListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Status     string     `form:"status"`
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
}

// OrderListFilter carries list query parameters for orders
type OrderListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Status     string     `form:"status"`
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	QuoteID    *uuid.UUID `form:"quote_id"`
}

// LineResponse is the API representation of a document line
type LineResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountType  string          `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// QuoteResponse is the API representation of a quote
type QuoteResponse struct {
	ID               uuid.UUID       `json:"id"`
	QuoteNumber      string          `json:"quote_number"`
	CustomerID       *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName     string          `json:"customer_name"`
	Status           string          `json:"status"`
	Items            []LineResponse  `json:"items"`
	DiscountType     string          `json:"discount_type,omitempty"`
	DiscountValue    decimal.Decimal `json:"discount_value"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	ValidUntil       *time.Time      `json:"valid_until,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	ConvertedOrderID *uuid.UUID      `json:"converted_order_id,omitempty"`
	ConvertedAt      *time.Time      `json:"converted_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToQuoteResponse converts a quote to its API representation
func ToQuoteResponse(quote *sales.Quote) QuoteResponse {
	items := make([]LineResponse, len(quote.Items))
	for idx, item := range quote.Items {
		items[idx] = LineResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			DiscountType:  string(item.DiscountType),
			DiscountValue: item.DiscountValue,
			LineTotal:     item.LineTotal,
		}
	}

	return QuoteResponse{
		ID:               quote.ID,
		QuoteNumber:      quote.QuoteNumber,
		CustomerID:       quote.CustomerID,
		CustomerName:     quote.CustomerName,
		Status:           string(quote.Status),
		Items:            items,
		DiscountType:     string(quote.DiscountType),
		DiscountValue:    quote.DiscountValue,
		Subtotal:         quote.Subtotal,
		DiscountAmount:   quote.DiscountAmount,
		TotalAmount:      quote.TotalAmount,
		ValidUntil:       quote.ValidUntil,
		Notes:            quote.Notes,
		ConvertedOrderID: quote.ConvertedOrderID,
		ConvertedAt:      quote.ConvertedAt,
		CreatedAt:        quote.CreatedAt,
		UpdatedAt:        quote.UpdatedAt,
	}
}

// ToQuoteResponses converts a slice of quotes
func ToQuoteResponses(quotes []sales.Quote) []QuoteResponse {
	responses := make([]QuoteResponse, len(quotes))
	for idx := range quotes {
		responses[idx] = ToQuoteResponse(&quotes[idx])
	}
	return responses
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID             uuid.UUID       `json:"id"`
	OrderNumber    string          `json:"order_number"`
	QuoteID        *uuid.UUID      `json:"quote_id,omitempty"`
	CustomerID     *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName   string          `json:"customer_name"`
	Status         string          `json:"status"`
	Items          []LineResponse  `json:"items"`
	DiscountType   string          `json:"discount_type,omitempty"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Notes          string          `json:"notes,omitempty"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToOrderResponse converts an order to its API representation
func ToOrderResponse(order *sales.Order) OrderResponse {
	items := make([]LineResponse, len(order.Items))
	for idx, item := range order.Items {
		items[idx] = LineResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			DiscountType:  string(item.DiscountType),
			DiscountValue: item.DiscountValue,
			LineTotal:     item.LineTotal,
		}
	}

	return OrderResponse{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		QuoteID:        order.QuoteID,
		CustomerID:     order.CustomerID,
		CustomerName:   order.CustomerName,
		Status:         string(order.Status),
		Items:          items,
		DiscountType:   string(order.DiscountType),
		DiscountValue:  order.DiscountValue,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.TotalAmount,
		Notes:          order.Notes,
		StartedAt:      order.StartedAt,
		CompletedAt:    order.CompletedAt,
		CancelledAt:    order.CancelledAt,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []sales.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for idx := range orders {
		responses[idx] = ToOrderResponse(&orders[idx])
	}
	return responses
}

// ConversionResponse is the outcome of converting a quote into an order
type ConversionResponse struct {
	Quote QuoteResponse `json:"quote"`
	Order OrderResponse `json:"order"`
}

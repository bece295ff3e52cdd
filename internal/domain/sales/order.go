package sales

import (
	"fmt"
	"time"

	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of a service order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusPaused     OrderStatus = "PAUSED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusPaused,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that end the order's execution.
// CANCELLED is terminal but reopenable (back to PENDING); COMPLETED is
// final.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusInProgress: {OrderStatusPaused, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusPaused:     {OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusCancelled:  {OrderStatusPending}, // reopen
}

// Order is an executable work order, created directly or by converting an
// approved quote. An order keeps a back-reference to its source quote;
// at most one order may exist per quote.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber    string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	QuoteID        *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_order_quote"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerName   string          `gorm:"type:varchar(200);not null"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DiscountType   DiscountType    `gorm:"type:varchar(20)"`
	DiscountValue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes          string          `gorm:"type:text"`
	StartedAt      *time.Time      `gorm:"type:timestamptz"`
	CompletedAt    *time.Time      `gorm:"type:timestamptz"`
	CancelledAt    *time.Time      `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order
type OrderItem struct {
	shared.BaseEntity
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	Description   string          `gorm:"type:varchar(255);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountType  DiscountType    `gorm:"type:varchar(20)"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a validated order line
func NewOrderItem(productID uuid.UUID, description string, quantity, unitPrice decimal.Decimal, discount Discount) (OrderItem, error) {
	if productID == uuid.Nil {
		return OrderItem{}, shared.NewDomainError("INVALID_PRODUCT", "Line product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return OrderItem{}, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return OrderItem{}, shared.NewDomainError("INVALID_PRICE", "Line unit price cannot be negative")
	}

	item := OrderItem{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		Description:   description,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		DiscountType:  discount.Type,
		DiscountValue: discount.Value,
	}
	item.LineTotal = PriceLine(quantity, unitPrice, discount).Total
	return item, nil
}

// Amounts returns the priced breakdown of the line
func (i OrderItem) Amounts() LineAmounts {
	return PriceLine(i.Quantity, i.UnitPrice, Discount{Type: i.DiscountType, Value: i.DiscountValue})
}

// NewOrder creates a new pending order
func NewOrder(tenantID uuid.UUID, orderNumber, customerName string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerName:        customerName,
		Status:              OrderStatusPending,
		DiscountType:        DiscountTypeNone,
	}
	order.recalculateTotals()

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// NewOrderFromQuote materializes an approved quote into a pending order,
// copying lines and discounts verbatim. Totals are recomputed rather than
// copied so both documents always agree with the pricing rules.
func NewOrderFromQuote(quote *Quote, orderNumber string) (*Order, error) {
	order, err := NewOrder(quote.TenantID, orderNumber, quote.CustomerName)
	if err != nil {
		return nil, err
	}

	order.QuoteID = &quote.ID
	order.CustomerID = quote.CustomerID
	order.DiscountType = quote.DiscountType
	order.DiscountValue = quote.DiscountValue
	order.Notes = quote.Notes

	items := make([]OrderItem, 0, len(quote.Items))
	for _, line := range quote.Items {
		item, err := NewOrderItem(line.ProductID, line.Description, line.Quantity, line.UnitPrice,
			Discount{Type: line.DiscountType, Value: line.DiscountValue})
		if err != nil {
			return nil, err
		}
		item.OrderID = order.ID
		items = append(items, item)
	}
	order.Items = items
	order.recalculateTotals()

	return order, nil
}

// SetItems replaces the order lines. Only pending orders are editable.
func (o *Order) SetItems(items []OrderItem) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit an order in status %s", o.Status))
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "An order needs at least one line")
	}

	for idx := range items {
		items[idx].OrderID = o.ID
	}
	o.Items = items
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetDocumentDiscount applies a document-level discount. It accompanies a
// SetItems edit in the same unit of work, so it does not bump the version
// on its own.
func (o *Order) SetDocumentDiscount(discount Discount) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit an order in status %s", o.Status))
	}

	o.DiscountType = discount.Type
	o.DiscountValue = discount.Value
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return nil
}

// ChangeStatus moves the order along its lifecycle. COMPLETED is final;
// a cancelled order can be reopened back to PENDING.
func (o *Order) ChangeStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %s", target))
	}
	if !o.canTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}

	now := time.Now()
	from := o.Status
	o.Status = target

	switch target {
	case OrderStatusInProgress:
		if o.StartedAt == nil {
			o.StartedAt = &now
		}
	case OrderStatusCompleted:
		o.CompletedAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
	case OrderStatusPending: // reopen
		o.CancelledAt = nil
	}

	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))

	return nil
}

func (o *Order) canTransitionTo(target OrderStatus) bool {
	for _, allowed := range orderTransitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (o *Order) recalculateTotals() {
	lines := make([]LineAmounts, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, item.Amounts())
	}

	totals := ComputeDocumentTotals(lines, Discount{Type: o.DiscountType, Value: o.DiscountValue})
	o.Subtotal = totals.Subtotal
	o.DiscountAmount = totals.LineDiscounts.Add(totals.DocumentDiscount)
	o.TotalAmount = totals.Total
}

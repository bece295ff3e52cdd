package sales

import (
	"fmt"
	"time"

	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the lifecycle status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "DRAFT"
	QuoteStatusSent      QuoteStatus = "SENT"
	QuoteStatusApproved  QuoteStatus = "APPROVED"
	QuoteStatusRejected  QuoteStatus = "REJECTED"
	QuoteStatusExpired   QuoteStatus = "EXPIRED"
	QuoteStatusConverted QuoteStatus = "CONVERTED"
)

// IsValid checks if the quote status is valid
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusApproved,
		QuoteStatusRejected, QuoteStatusExpired, QuoteStatusConverted:
		return true
	}
	return false
}

// quoteTransitions holds the allowed direct status transitions. CONVERTED
// is deliberately absent as a target: it is only reachable through the
// conversion workflow (see Quote.MarkConverted).
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft:    {QuoteStatusSent, QuoteStatusExpired},
	QuoteStatusSent:     {QuoteStatusApproved, QuoteStatusRejected, QuoteStatusExpired},
	QuoteStatusRejected: {QuoteStatusSent},
	QuoteStatusExpired:  {QuoteStatusSent},
}

// Quote is a sales proposal. Lines carry a snapshot of price and discount
// at authoring time; totals are recomputed on every mutation and stored.
type Quote struct {
	shared.TenantAggregateRoot
	QuoteNumber      string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_quote_tenant_number,priority:2"`
	CustomerID       *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerName     string          `gorm:"type:varchar(200);not null"`
	Status           QuoteStatus     `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Items            []QuoteItem     `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	DiscountType     DiscountType    `gorm:"type:varchar(20)"`
	DiscountValue    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ValidUntil       *time.Time      `gorm:"type:timestamptz"`
	Notes            string          `gorm:"type:text"`
	ConvertedOrderID *uuid.UUID      `gorm:"type:uuid;index"`
	ConvertedAt      *time.Time      `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// QuoteItem is one line of a quote
type QuoteItem struct {
	shared.BaseEntity
	QuoteID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	Description   string          `gorm:"type:varchar(255);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountType  DiscountType    `gorm:"type:varchar(20)"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (QuoteItem) TableName() string {
	return "quote_items"
}

// NewQuoteItem creates a validated quote line
func NewQuoteItem(productID uuid.UUID, description string, quantity, unitPrice decimal.Decimal, discount Discount) (QuoteItem, error) {
	if productID == uuid.Nil {
		return QuoteItem{}, shared.NewDomainError("INVALID_PRODUCT", "Line product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return QuoteItem{}, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return QuoteItem{}, shared.NewDomainError("INVALID_PRICE", "Line unit price cannot be negative")
	}

	item := QuoteItem{
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
func (i QuoteItem) Amounts() LineAmounts {
	return PriceLine(i.Quantity, i.UnitPrice, Discount{Type: i.DiscountType, Value: i.DiscountValue})
}

// NewQuote creates a new draft quote
func NewQuote(tenantID uuid.UUID, quoteNumber, customerName string) (*Quote, error) {
	if quoteNumber == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Quote number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}

	quote := &Quote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		QuoteNumber:         quoteNumber,
		CustomerName:        customerName,
		Status:              QuoteStatusDraft,
		DiscountType:        DiscountTypeNone,
	}
	quote.recalculateTotals()

	quote.AddDomainEvent(NewQuoteCreatedEvent(quote))

	return quote, nil
}

// SetItems replaces the quote lines. Only draft quotes are editable; a
// sent quote must come back to draft-equivalent through REJECTED/EXPIRED
// before its content changes.
func (q *Quote) SetItems(items []QuoteItem) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit a quote in status %s", q.Status))
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "A quote needs at least one line")
	}

	for idx := range items {
		items[idx].QuoteID = q.ID
	}
	q.Items = items
	q.recalculateTotals()
	q.UpdatedAt = time.Now()
	q.IncrementVersion()

	return nil
}

// SetDocumentDiscount applies a document-level discount. It accompanies a
// SetItems edit in the same unit of work, so it does not bump the version
// on its own.
func (q *Quote) SetDocumentDiscount(discount Discount) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit a quote in status %s", q.Status))
	}

	q.DiscountType = discount.Type
	q.DiscountValue = discount.Value
	q.recalculateTotals()
	q.UpdatedAt = time.Now()

	return nil
}

// ChangeStatus moves the quote along its lifecycle. CONVERTED is not a
// valid target here; conversion happens through the dedicated workflow so
// the order is guaranteed to exist.
func (q *Quote) ChangeStatus(target QuoteStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown quote status %s", target))
	}
	if target == QuoteStatusConverted {
		return shared.NewDomainError("INVALID_STATE", "Quotes are converted through the conversion workflow, not a status change")
	}
	if !q.canTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change quote status from %s to %s", q.Status, target))
	}
	if target == QuoteStatusSent && len(q.Items) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot send a quote without lines")
	}

	from := q.Status
	q.Status = target
	q.UpdatedAt = time.Now()
	q.IncrementVersion()

	q.AddDomainEvent(NewQuoteStatusChangedEvent(q, from, target))

	return nil
}

// MarkConverted records the successful conversion into an order. Only
// approved quotes convert, and only once.
func (q *Quote) MarkConverted(orderID uuid.UUID) error {
	if q.Status == QuoteStatusConverted {
		return shared.NewDomainError("ALREADY_CONVERTED", "Quote has already been converted")
	}
	if q.Status != QuoteStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Only approved quotes can be converted, current status is %s", q.Status))
	}

	now := time.Now()
	from := q.Status
	q.Status = QuoteStatusConverted
	q.ConvertedOrderID = &orderID
	q.ConvertedAt = &now
	q.UpdatedAt = now
	q.IncrementVersion()

	q.AddDomainEvent(NewQuoteStatusChangedEvent(q, from, QuoteStatusConverted))

	return nil
}

// IsExpiredBy returns true if a sent quote has passed its validity date
func (q *Quote) IsExpiredBy(now time.Time) bool {
	return q.Status == QuoteStatusSent && q.ValidUntil != nil && q.ValidUntil.Before(now)
}

func (q *Quote) canTransitionTo(target QuoteStatus) bool {
	for _, allowed := range quoteTransitions[q.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (q *Quote) recalculateTotals() {
	lines := make([]LineAmounts, 0, len(q.Items))
	for _, item := range q.Items {
		lines = append(lines, item.Amounts())
	}

	totals := ComputeDocumentTotals(lines, Discount{Type: q.DiscountType, Value: q.DiscountValue})
	q.Subtotal = totals.Subtotal
	q.DiscountAmount = totals.LineDiscounts.Add(totals.DocumentDiscount)
	q.TotalAmount = totals.Total
}

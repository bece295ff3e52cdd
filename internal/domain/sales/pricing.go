package sales

import (
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountType represents how a discount value is interpreted
type DiscountType string

const (
	DiscountTypeNone       DiscountType = ""
	DiscountTypeFixed      DiscountType = "FIXED"
	DiscountTypePercentage DiscountType = "PERCENTAGE"
)

var percentCap = decimal.NewFromInt(100)

// Discount is an optional reduction applied to a line or a whole document.
// A FIXED discount is an absolute amount; a PERCENTAGE discount is a rate
// over the gross amount, capped at 100 on input. Amounts are not clamped
// afterwards: an oversized fixed discount legitimately drives a line or
// document total negative (credit scenarios).
type Discount struct {
	Type  DiscountType    `gorm:"type:varchar(20)" json:"type"`
	Value decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"value"`
}

// NoDiscount returns the zero discount
func NoDiscount() Discount {
	return Discount{Type: DiscountTypeNone, Value: decimal.Zero}
}

// NewDiscount builds a validated discount from its wire representation
func NewDiscount(discountType DiscountType, value decimal.Decimal) (Discount, error) {
	switch discountType {
	case DiscountTypeNone:
		if !value.IsZero() {
			return Discount{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount value requires a discount type")
		}
		return NoDiscount(), nil
	case DiscountTypeFixed:
		if value.IsNegative() {
			return Discount{}, shared.NewDomainError("INVALID_DISCOUNT", "Fixed discount cannot be negative")
		}
		return Discount{Type: DiscountTypeFixed, Value: value}, nil
	case DiscountTypePercentage:
		if value.IsNegative() || value.GreaterThan(percentCap) {
			return Discount{}, shared.NewDomainError("INVALID_DISCOUNT", "Percentage discount must be between 0 and 100")
		}
		return Discount{Type: DiscountTypePercentage, Value: value}, nil
	default:
		return Discount{}, shared.NewDomainError("INVALID_DISCOUNT", "Unknown discount type")
	}
}

// IsZero returns true when no discount applies
func (d Discount) IsZero() bool {
	return d.Type == DiscountTypeNone || d.Value.IsZero()
}

// AmountOff returns the absolute reduction over a gross amount
func (d Discount) AmountOff(gross decimal.Decimal) decimal.Decimal {
	switch d.Type {
	case DiscountTypeFixed:
		return d.Value
	case DiscountTypePercentage:
		return gross.Mul(d.Value).Div(percentCap)
	default:
		return decimal.Zero
	}
}

// LineAmounts is the priced breakdown of one document line
type LineAmounts struct {
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// PriceLine computes the amounts for one line: gross = quantity * unit
// price, total = gross - discount.
func PriceLine(quantity, unitPrice decimal.Decimal, discount Discount) LineAmounts {
	gross := quantity.Mul(unitPrice)
	off := discount.AmountOff(gross)
	return LineAmounts{
		Gross:    gross,
		Discount: off,
		Total:    gross.Sub(off),
	}
}

// DocumentTotals is the priced breakdown of a whole document. Subtotal is
// the sum of gross line amounts before any discount; a percentage document
// discount is a rate over that gross subtotal, not over the subtotal net
// of line discounts.
type DocumentTotals struct {
	Subtotal         decimal.Decimal
	LineDiscounts    decimal.Decimal
	DocumentDiscount decimal.Decimal
	Total            decimal.Decimal
}

// ComputeDocumentTotals folds priced lines and a document-level discount
// into the document totals.
func ComputeDocumentTotals(lines []LineAmounts, docDiscount Discount) DocumentTotals {
	subtotal := decimal.Zero
	lineDiscounts := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Gross)
		lineDiscounts = lineDiscounts.Add(line.Discount)
	}

	docOff := docDiscount.AmountOff(subtotal)

	return DocumentTotals{
		Subtotal:         subtotal,
		LineDiscounts:    lineDiscounts,
		DocumentDiscount: docOff,
		Total:            subtotal.Sub(lineDiscounts).Sub(docOff),
	}
}

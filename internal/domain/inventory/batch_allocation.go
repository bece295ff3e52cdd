package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchConsumption records how much of an allocation one batch absorbed
type BatchConsumption struct {
	BatchID     uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
}

// AllocationResult is the outcome of allocating an outbound quantity across
// batches. Shortfall is the portion no batch could cover; batch rows are a
// refinement of the item total, so a shortfall is reported to the caller
// (for logging) rather than treated as an error.
type AllocationResult struct {
	Consumptions []BatchConsumption
	Shortfall    decimal.Decimal
}

// TotalConsumed returns the quantity absorbed across all batches
func (r AllocationResult) TotalConsumed() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Consumptions {
		total = total.Add(c.Quantity)
	}
	return total
}

// SortFIFO orders batches for consumption: earliest expiry first, batches
// without an expiry date last, ties broken by receipt time (oldest first).
func SortFIFO(batches []*StockBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.ExpiryDate == nil:
			return false
		case b.ExpiryDate == nil:
			return true
		case !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}

// ConsumeFIFO walks the batches in FIFO order, deducting from each until
// the requested quantity is covered or the batches run dry. The batches
// are mutated in place; the result lists the per-batch consumptions and
// any uncovered shortfall.
func ConsumeFIFO(batches []*StockBatch, quantity decimal.Decimal) AllocationResult {
	result := AllocationResult{Shortfall: decimal.Zero}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return result
	}

	SortFIFO(batches)

	remaining := quantity
	for _, batch := range batches {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if batch.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		taken := batch.Deduct(remaining)
		if taken.GreaterThan(decimal.Zero) {
			result.Consumptions = append(result.Consumptions, BatchConsumption{
				BatchID:     batch.ID,
				BatchNumber: batch.BatchNumber,
				Quantity:    taken,
				UnitCost:    batch.UnitCost,
			})
			remaining = remaining.Sub(taken)
		}
	}

	result.Shortfall = remaining
	return result
}

// ConsumeBatch deducts from the single named batch, floored at zero. Other
// lots are never touched: a quantity beyond what the named batch holds is
// reported as shortfall, not spread across unrelated batches.
func ConsumeBatch(batches []*StockBatch, batchNumber string, quantity decimal.Decimal) AllocationResult {
	result := AllocationResult{Shortfall: decimal.Zero}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return result
	}

	remaining := quantity
	for _, batch := range batches {
		if batch.BatchNumber != batchNumber {
			continue
		}
		taken := batch.Deduct(remaining)
		if taken.GreaterThan(decimal.Zero) {
			result.Consumptions = append(result.Consumptions, BatchConsumption{
				BatchID:     batch.ID,
				BatchNumber: batch.BatchNumber,
				Quantity:    taken,
				UnitCost:    batch.UnitCost,
			})
			remaining = remaining.Sub(taken)
		}
	}

	result.Shortfall = remaining
	return result
}

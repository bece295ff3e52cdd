package inventory

import (
	"context"

	"github.com/atlaserp/backend/internal/domain/inventory"
	"github.com/atlaserp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockAlertHandler logs a warning whenever a movement drops an item
// below its minimum threshold. Downstream alerting hangs off the log
// stream; the handler itself never fails the publishing operation.
type LowStockAlertHandler struct {
	logger *zap.Logger
}

// NewLowStockAlertHandler creates a new LowStockAlertHandler
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockAlertHandler{logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowMinimum}
}

// Handle processes a below-minimum event
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	alert, ok := event.(*inventory.StockBelowMinimumEvent)
	if !ok {
		return nil
	}

	fields := []zap.Field{
		zap.String("tenant_id", alert.TenantID().String()),
		zap.String("product_id", alert.ProductID.String()),
		zap.String("quantity", alert.Quantity.String()),
		zap.String("min_stock", alert.MinStock.String()),
	}
	if alert.LocationID != nil {
		fields = append(fields, zap.String("location_id", alert.LocationID.String()))
	}

	h.logger.Warn("Stock below minimum threshold", fields...)
	return nil
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)

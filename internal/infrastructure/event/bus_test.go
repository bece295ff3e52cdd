package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/atlaserp/backend/internal/domain/inventory"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	received   []shared.DomainEvent
	failWith   error
	panics     bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, event)
	return h.failWith
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

func sampleEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	item, err := inventory.NewStockItem(uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	require.NoError(t, item.StockIn(decimal.NewFromInt(5), nil))
	events := item.GetDomainEvents()
	require.NotEmpty(t, events)
	return events[0]
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to a type-specific handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{eventTypes: []string{inventory.EventTypeStockReceived}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, sampleEvent(t)))

		assert.Equal(t, 1, handler.count())
	})

	t.Run("wildcard handlers receive every event", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, sampleEvent(t), sampleEvent(t)))

		assert.Equal(t, 2, handler.count())
	})

	t.Run("handlers for other types are skipped", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{eventTypes: []string{inventory.EventTypeStockIssued}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, sampleEvent(t)))

		assert.Zero(t, handler.count())
	})

	t.Run("a failing handler does not block the rest", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{
			eventTypes: []string{inventory.EventTypeStockReceived},
			failWith:   errors.New("boom"),
		}
		healthy := &recordingHandler{eventTypes: []string{inventory.EventTypeStockReceived}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, sampleEvent(t)))

		assert.Equal(t, 1, healthy.count())
	})

	t.Run("a panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{
			eventTypes: []string{inventory.EventTypeStockReceived},
			panics:     true,
		}
		healthy := &recordingHandler{eventTypes: []string{inventory.EventTypeStockReceived}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NotPanics(t, func() {
			_ = bus.Publish(ctx, sampleEvent(t))
		})
		assert.Equal(t, 1, healthy.count())
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	ctx := context.Background()

	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{eventTypes: []string{inventory.EventTypeStockReceived}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(ctx, sampleEvent(t)))

	assert.Zero(t, handler.count())
}

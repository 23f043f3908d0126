package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/erp/stockdesk/internal/domain/shared"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Product", uuid.New())}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("delivers to subscribed handler only", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		adjusted := newTestHandler("StockAdjusted")
		other := newTestHandler("DocumentCreated")
		bus.Subscribe(adjusted)
		bus.Subscribe(other)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("StockAdjusted")))

		assert.Equal(t, 1, adjusted.count())
		assert.Equal(t, 0, other.count())
	})

	t.Run("explicit types override handler types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := newTestHandler("StockAdjusted")
		bus.Subscribe(h, "StockBelowThreshold")

		require.NoError(t, bus.Publish(context.Background(),
			newTestEvent("StockAdjusted"), newTestEvent("StockBelowThreshold")))

		assert.Equal(t, 1, h.count())
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		all := newTestHandler()
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(context.Background(),
			newTestEvent("StockAdjusted"), newTestEvent("DocumentCreated")))

		assert.Equal(t, 2, all.count())
		assert.Equal(t, 1, bus.HandlerCount("anything"))
	})

	t.Run("failing and panicking handlers do not stop delivery", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		bus := NewInMemoryEventBus(zap.New(core))

		failing := newTestHandler("StockAdjusted")
		failing.err = errors.New("handler down")
		panicking := newTestHandler("StockAdjusted")
		panicking.panics = true
		healthy := newTestHandler("StockAdjusted")

		bus.Subscribe(failing)
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("StockAdjusted")))

		assert.Equal(t, 1, healthy.count())
		assert.Equal(t, 2, logs.FilterMessage("Event handler failed").Len())
	})

	t.Run("cancelled context stops publishing", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := newTestHandler("StockAdjusted")
		bus.Subscribe(h)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := bus.Publish(ctx, newTestEvent("StockAdjusted"))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, h.count())
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := newTestHandler("StockAdjusted", "StockBelowThreshold")
	bus.Subscribe(h)
	require.Equal(t, 1, bus.HandlerCount("StockAdjusted"))

	bus.Unsubscribe(h)

	assert.Equal(t, 0, bus.HandlerCount("StockAdjusted"))
	assert.Equal(t, 0, bus.HandlerCount("StockBelowThreshold"))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("StockAdjusted")))
	assert.Equal(t, 0, h.count())
}

func TestInMemoryEventBus_Lifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	assert.False(t, bus.Running())

	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.Running())

	require.NoError(t, bus.Stop(context.Background()))
	assert.False(t, bus.Running())
}

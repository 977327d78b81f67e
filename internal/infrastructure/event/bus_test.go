package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string, branchID uuid.UUID) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), branchID),
		Data:            "test data",
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func startedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	return bus
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := startedBus(t)
	handler := newTestHandler("ShiftOpened")
	bus.Subscribe(handler)

	evt := newTestEvent("ShiftOpened", uuid.New())
	require.NoError(t, bus.Publish(context.Background(), evt))

	handled := handler.getHandled()
	require.Len(t, handled, 1)
	assert.Equal(t, evt.EventID(), handled[0].EventID())
}

func TestInMemoryEventBus_Publish_OnlyMatchingTypes(t *testing.T) {
	bus := startedBus(t)
	opened := newTestHandler("ShiftOpened")
	closed := newTestHandler("ShiftClosed")
	bus.Subscribe(opened)
	bus.Subscribe(closed)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("ShiftOpened", uuid.New()),
		newTestEvent("ShiftOpened", uuid.New()),
	))

	assert.Len(t, opened.getHandled(), 2)
	assert.Empty(t, closed.getHandled())
}

func TestInMemoryEventBus_Publish_WildcardHandler(t *testing.T) {
	bus := startedBus(t)
	all := newTestHandler()
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("MovementRecorded", uuid.New()),
		newTestEvent("AdvanceCreated", uuid.New()),
	))

	assert.Len(t, all.getHandled(), 2)
}

func TestInMemoryEventBus_Publish_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := startedBus(t)
	failing := newTestHandler("ShiftClosed")
	failing.err = errors.New("redis down")
	healthy := newTestHandler("ShiftClosed")
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("ShiftClosed", uuid.New()))

	require.Error(t, err)
	assert.ErrorIs(t, err, failing.err)
	assert.Len(t, healthy.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_PanicBecomesError(t *testing.T) {
	bus := startedBus(t)
	handler := newTestHandler("ShiftOpened")
	handler.panicWith = "boom"
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("ShiftOpened", uuid.New()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestInMemoryEventBus_Publish_NoMatchingHandlers(t *testing.T) {
	bus := startedBus(t)
	bus.Subscribe(newTestHandler("ShiftOpened"))

	assert.NoError(t, bus.Publish(context.Background(), newTestEvent("OperatorPinAssigned", uuid.New())))
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := startedBus(t)
	handler := newTestHandler("ShiftOpened")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ShiftOpened", uuid.New())))
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_StoppedRejectsEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler()
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("ShiftOpened", uuid.New()))
	assert.ErrorIs(t, err, ErrBusStopped)

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ShiftOpened", uuid.New())))
	require.NoError(t, bus.Stop(context.Background()))

	err = bus.Publish(context.Background(), newTestEvent("ShiftOpened", uuid.New()))
	assert.ErrorIs(t, err, ErrBusStopped)
	assert.Len(t, handler.getHandled(), 1)
}

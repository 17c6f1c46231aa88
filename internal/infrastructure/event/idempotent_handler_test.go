package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func TestIdempotentHandler_FirstDelivery(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newTestHandler("InvoiceSent")
	h := NewIdempotentHandler(inner, store, shared.IdempotencyConfig{}, nil)
	ev := newTestEvent("InvoiceSent")

	store.On("MarkProcessed", mock.Anything, ev.EventID().String(), 24*time.Hour).Return(true, nil)

	require.NoError(t, h.Handle(context.Background(), ev))
	assert.Equal(t, 1, inner.count())
	assert.Equal(t, IdempotencyStats{Processed: 1}, h.Stats())
	assert.Equal(t, []string{"InvoiceSent"}, h.EventTypes())
	store.AssertExpectations(t)
}

func TestIdempotentHandler_Duplicate(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newTestHandler()
	h := NewIdempotentHandler(inner, store, shared.IdempotencyConfig{Enabled: true, TTL: time.Minute}, nil)

	store.On("MarkProcessed", mock.Anything, mock.Anything, time.Minute).Return(false, nil)

	require.NoError(t, h.Handle(context.Background(), newTestEvent("InvoiceSent")))
	assert.Zero(t, inner.count())
	assert.Equal(t, int64(1), h.Stats().Duplicates)
}

func TestIdempotentHandler_StoreErrorStillHandles(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newTestHandler()
	h := NewIdempotentHandler(inner, store, shared.IdempotencyConfig{}, nil)

	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

	require.NoError(t, h.Handle(context.Background(), newTestEvent("InvoiceSent")))
	assert.Equal(t, 1, inner.count())
}

func TestIdempotentHandler_HandlerError(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newTestHandler()
	inner.err = errors.New("feed closed")
	h := NewIdempotentHandler(inner, store, shared.IdempotencyConfig{}, nil)

	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	assert.EqualError(t, h.Handle(context.Background(), newTestEvent("InvoiceSent")), "feed closed")
	assert.Equal(t, int64(1), h.Stats().Failed)
}

func TestIdempotentHandler_DisabledSkipsStore(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newTestHandler()
	h := NewIdempotentHandler(inner, store, shared.IdempotencyConfig{Enabled: false, TTL: time.Hour}, nil)

	require.NoError(t, h.Handle(context.Background(), newTestEvent("InvoiceSent")))
	require.NoError(t, h.Handle(context.Background(), newTestEvent("InvoiceSent")))
	assert.Equal(t, 2, inner.count())
	store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotentHandler_OnBus(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newTestHandler()
	bus := NewInMemoryEventBus(nil)
	bus.Subscribe(NewIdempotentHandler(inner, store, shared.IdempotencyConfig{}, nil))

	ev := newTestEvent("CustomerCreated")
	store.On("MarkProcessed", mock.Anything, ev.EventID().String(), mock.Anything).Return(true, nil).Once()
	store.On("MarkProcessed", mock.Anything, ev.EventID().String(), mock.Anything).Return(false, nil)

	_ = bus.Publish(context.Background(), ev)
	_ = bus.Publish(context.Background(), ev)
	assert.Equal(t, 1, inner.count())
}

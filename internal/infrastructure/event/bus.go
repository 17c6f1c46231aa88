package event

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultWorkers        = 4
	defaultQueueSize      = 256
	defaultHandlerTimeout = 10 * time.Second
)

// ErrBusStopped is returned by Publish after Stop
var ErrBusStopped = errors.New("event bus is stopped")

// OrderedHandler is implemented by handlers that must observe events in
// the order they were published across all aggregates.
type OrderedHandler interface {
	shared.EventHandler
	Ordered() bool
}

type job struct {
	ctx     context.Context
	handler shared.EventHandler
	event   shared.DomainEvent
}

// InMemoryEventBus dispatches domain events to handlers on a bounded pool
// of workers. Before Start, Publish runs handlers inline on the caller's
// goroutine. Handler failures are logged and never reach the publisher.
//
// Each worker owns a lane. Jobs for one aggregate always land on the same
// lane, so a handler sees an aggregate's events in publish order. Ordered
// handlers share one extra lane and see every event in publish order.
type InMemoryEventBus struct {
	registry       *HandlerRegistry
	logger         *zap.Logger
	workers        int
	queueSize      int
	handlerTimeout time.Duration

	mu      sync.RWMutex
	lanes   []chan job
	started bool
	stopped bool
	wg      sync.WaitGroup

	dispatched atomic.Int64
	failed     atomic.Int64
}

// BusOption configures the event bus
type BusOption func(*InMemoryEventBus)

// WithWorkers sets the number of dispatch workers
func WithWorkers(n int) BusOption {
	return func(b *InMemoryEventBus) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithQueueSize bounds the number of pending handler invocations per lane
func WithQueueSize(n int) BusOption {
	return func(b *InMemoryEventBus) {
		if n > 0 {
			b.queueSize = n
		}
	}
}

// WithHandlerTimeout limits a single handler invocation
func WithHandlerTimeout(d time.Duration) BusOption {
	return func(b *InMemoryEventBus) {
		if d > 0 {
			b.handlerTimeout = d
		}
	}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &InMemoryEventBus{
		registry:       NewHandlerRegistry(),
		logger:         logger,
		workers:        defaultWorkers,
		queueSize:      defaultQueueSize,
		handlerTimeout: defaultHandlerTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish hands each event to its handlers. Once started it blocks only
// while the lane is full, returning early if ctx ends. Handlers run with
// the values of ctx but not its cancellation, since they usually outlive
// the request that published.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.stopped {
		return ErrBusStopped
	}

	detached := context.WithoutCancel(ctx)
	for _, event := range events {
		for _, handler := range b.registry.HandlersFor(event.EventType()) {
			j := job{ctx: detached, handler: handler, event: event}
			if !b.started {
				b.run(j)
				continue
			}
			select {
			case b.lanes[b.laneFor(handler, event)] <- j:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types. Without explicit
// types the handler's own EventTypes are used.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start launches the workers
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil
	}
	if b.stopped {
		return ErrBusStopped
	}
	b.lanes = make([]chan job, b.workers+1)
	for i := range b.lanes {
		b.lanes[i] = make(chan job, b.queueSize)
		b.wg.Add(1)
		go b.worker(b.lanes[i])
	}
	b.started = true
	b.logger.Info("event bus started",
		zap.Int("workers", b.workers),
		zap.Int("queue_size", b.queueSize))
	return nil
}

// Stop drains queued events and waits for the workers, or gives up when
// ctx ends
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil
	}
	b.stopped = true
	if b.started {
		for _, lane := range b.lanes {
			close(lane)
		}
	}
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped",
			zap.Int64("dispatched", b.dispatched.Load()),
			zap.Int64("failed", b.failed.Load()))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the number of handler invocations and how many failed
func (b *InMemoryEventBus) Stats() (dispatched, failed int64) {
	return b.dispatched.Load(), b.failed.Load()
}

// laneFor picks the serial lane for ordered handlers and otherwise shards
// by aggregate id
func (b *InMemoryEventBus) laneFor(handler shared.EventHandler, event shared.DomainEvent) int {
	if oh, ok := handler.(OrderedHandler); ok && oh.Ordered() {
		return b.workers
	}
	id := event.AggregateID()
	return int(binary.BigEndian.Uint64(id[8:]) % uint64(b.workers))
}

func (b *InMemoryEventBus) worker(lane <-chan job) {
	defer b.wg.Done()
	for j := range lane {
		b.run(j)
	}
}

func (b *InMemoryEventBus) run(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, b.handlerTimeout)
	defer cancel()

	b.dispatched.Add(1)
	if err := b.dispatch(ctx, j.handler, j.event); err != nil {
		b.failed.Add(1)
		b.logger.Error("handler failed to process event",
			zap.String("event_type", j.event.EventType()),
			zap.String("event_id", j.event.EventID().String()),
			zap.Error(err))
	}
}

// dispatch converts handler panics into errors
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerPanicError{EventType: event.EventType(), Value: r}
		}
	}()
	return handler.Handle(ctx, event)
}

// HandlerPanicError reports a recovered handler panic
type HandlerPanicError struct {
	EventType string
	Value     any
}

func (e *HandlerPanicError) Error() string {
	return "handler panicked on " + e.EventType
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)

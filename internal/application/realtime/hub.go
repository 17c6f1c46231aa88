package realtime

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTooManySubscribers is returned when the hub is at capacity
var ErrTooManySubscribers = errors.New("maximum number of realtime subscribers reached")

// Subscription receives change events for one tenant and a set of tables
type Subscription struct {
	ID       string
	TenantID uuid.UUID
	tables   map[string]struct{}
	events   chan ChangeEvent
	done     chan struct{}
	once     sync.Once
	dropped  atomic.Int64
}

// Events delivers matching change events in publish order
func (s *Subscription) Events() <-chan ChangeEvent {
	return s.events
}

// Done is closed when the hub drops the subscription
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Dropped counts events discarded because the buffer was full
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

// Wants reports whether the subscription covers ev
func (s *Subscription) Wants(ev ChangeEvent) bool {
	if ev.TenantID != s.TenantID {
		return false
	}
	_, ok := s.tables[ev.Table]
	return ok
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.done) })
}

// Hub fans change events out to local subscribers. Delivery never blocks
// the publisher: a subscriber whose buffer is full misses the event.
type Hub struct {
	subs       sync.Map // map[string]*Subscription
	count      atomic.Int64
	dropped    atomic.Int64
	maxClients int
	bufferSize int
	logger     *zap.Logger
}

// NewHub creates a hub. maxClients <= 0 means unlimited.
func NewHub(maxClients, bufferSize int, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Hub{maxClients: maxClients, bufferSize: bufferSize, logger: logger}
}

// Subscribe registers a subscriber for tables of one tenant. An empty
// table list subscribes to every table.
func (h *Hub) Subscribe(tenantID uuid.UUID, tables []string) (*Subscription, error) {
	if n := h.count.Add(1); h.maxClients > 0 && n > int64(h.maxClients) {
		h.count.Add(-1)
		return nil, ErrTooManySubscribers
	}
	if len(tables) == 0 {
		tables = Tables()
	}
	sub := &Subscription{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		tables:   make(map[string]struct{}, len(tables)),
		events:   make(chan ChangeEvent, h.bufferSize),
		done:     make(chan struct{}),
	}
	for _, t := range tables {
		sub.tables[t] = struct{}{}
	}
	h.subs.Store(sub.ID, sub)
	return sub, nil
}

// Unsubscribe removes a subscriber. The events channel is left open so a
// concurrent Publish can never send on a closed channel.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if _, loaded := h.subs.LoadAndDelete(sub.ID); loaded {
		h.count.Add(-1)
		sub.close()
	}
}

// Publish delivers ev to every matching subscriber
func (h *Hub) Publish(ev ChangeEvent) {
	h.subs.Range(func(_, value any) bool {
		sub := value.(*Subscription)
		if !sub.Wants(ev) {
			return true
		}
		select {
		case sub.events <- ev:
		default:
			sub.dropped.Add(1)
			h.dropped.Add(1)
			h.logger.Warn("realtime subscriber buffer full, dropping event",
				zap.String("subscription_id", sub.ID),
				zap.String("table", ev.Table),
				zap.String("record_id", ev.RecordID.String()))
		}
		return true
	})
}

// Close drops every subscriber
func (h *Hub) Close() {
	h.subs.Range(func(_, value any) bool {
		h.Unsubscribe(value.(*Subscription))
		return true
	})
}

// ClientCount returns the number of subscribers
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Dropped returns the total number of events dropped across subscribers
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// ChangeFeedHandler turns domain events of watched aggregates into change
// events
type ChangeFeedHandler struct {
	feed   *Feed
	logger *zap.Logger
}

// NewChangeFeedHandler creates the event bus handler for the change feed
func NewChangeFeedHandler(feed *Feed, logger *zap.Logger) *ChangeFeedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeFeedHandler{feed: feed, logger: logger}
}

// EventTypes returns nil so the handler sees every event; unrelated
// aggregates are filtered in Handle.
func (h *ChangeFeedHandler) EventTypes() []string {
	return nil
}

// Ordered asks the bus to deliver every event to this handler in publish
// order, which the feed's subscribers rely on
func (h *ChangeFeedHandler) Ordered() bool {
	return true
}

// Handle implements shared.EventHandler
func (h *ChangeFeedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	ev, ok := ToChangeEvent(event)
	if !ok {
		return nil
	}
	if snap, ok := event.(shared.SnapshotEvent); ok {
		record, err := json.Marshal(snap.Snapshot())
		if err != nil {
			h.logger.Warn("failed to encode change record",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		} else {
			ev.Record = record
		}
	}
	h.feed.Publish(ctx, ev)
	return nil
}

// ToChangeEvent maps a domain event to a change event without payload. It
// reports false for aggregates that are not watched.
func ToChangeEvent(event shared.DomainEvent) (ChangeEvent, bool) {
	table, ok := tablesByAggregate[event.AggregateType()]
	if !ok {
		return ChangeEvent{}, false
	}
	ts := event.OccurredAt()
	if ts.IsZero() {
		ts = time.Now()
	}
	return ChangeEvent{
		ID:              event.EventID(),
		Table:           table,
		Type:            changeTypeOf(event.EventType()),
		RecordID:        event.AggregateID(),
		TenantID:        event.TenantID(),
		CommitTimestamp: ts.UTC(),
	}, true
}

var _ shared.EventHandler = (*ChangeFeedHandler)(nil)

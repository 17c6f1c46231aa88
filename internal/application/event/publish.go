package event

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// Source is an aggregate holding pending domain events
type Source interface {
	PullDomainEvents() []shared.DomainEvent
}

// PublishPending hands the aggregate's pending events to the publisher.
// It runs after the write has committed, so failures are logged and not
// returned.
func PublishPending(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, sources ...Source) {
	var events []shared.DomainEvent
	for _, src := range sources {
		events = append(events, src.PullDomainEvents()...)
	}
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		if logger == nil {
			return
		}
		logger.Warn("failed to publish domain events",
			zap.Int("count", len(events)),
			zap.String("event_type", events[0].EventType()),
			zap.Error(err),
		)
	}
}

package realtime

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Relay carries change events between instances
type Relay interface {
	Publish(ctx context.Context, ev ChangeEvent) error
	// Subscribe calls fn for every relayed event until ctx is done
	Subscribe(ctx context.Context, fn func(ChangeEvent)) error
}

// Feed publishes change events to the local hub and, when a relay is
// configured, to the other instances
type Feed struct {
	hub    *Hub
	relay  Relay
	origin string
	logger *zap.Logger
}

// NewFeed creates a feed. relay may be nil for a single instance.
func NewFeed(hub *Hub, relay Relay, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{hub: hub, relay: relay, origin: uuid.NewString(), logger: logger}
}

// Origin identifies this instance on the relay
func (f *Feed) Origin() string {
	return f.origin
}

// Hub returns the local hub
func (f *Feed) Hub() *Hub {
	return f.hub
}

// Publish delivers ev locally and forwards it to the relay
func (f *Feed) Publish(ctx context.Context, ev ChangeEvent) {
	ev.Origin = f.origin
	f.hub.Publish(ev)
	if f.relay == nil {
		return
	}
	if err := f.relay.Publish(ctx, ev); err != nil {
		f.logger.Warn("failed to relay change event",
			zap.String("table", ev.Table),
			zap.String("record_id", ev.RecordID.String()),
			zap.Error(err))
	}
}

// Run relays events from other instances to the local hub until ctx is
// done. Events this instance published are skipped since they were
// already delivered locally.
func (f *Feed) Run(ctx context.Context) error {
	if f.relay == nil {
		<-ctx.Done()
		return nil
	}
	return f.relay.Subscribe(ctx, func(ev ChangeEvent) {
		if ev.Origin == f.origin {
			return
		}
		f.hub.Publish(ev)
	})
}

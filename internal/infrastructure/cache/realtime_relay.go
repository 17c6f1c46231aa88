package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/realtime"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRealtimeChannel is the pub/sub channel shared by all instances
const DefaultRealtimeChannel = "erp:realtime:changes"

// ErrRelayRunning is returned when Subscribe is called twice
var ErrRelayRunning = errors.New("realtime relay subscription already running")

// RedisRealtimeRelay carries change events between instances over Redis
// Pub/Sub. Delivery is at most once; events published while an instance is
// disconnected are lost to it.
type RedisRealtimeRelay struct {
	client  redis.UniversalClient
	channel string
	logger  *zap.Logger
	running atomic.Bool
}

// RedisRealtimeRelayOption configures the relay
type RedisRealtimeRelayOption func(*RedisRealtimeRelay)

// WithRelayChannel sets the Pub/Sub channel name
func WithRelayChannel(channel string) RedisRealtimeRelayOption {
	return func(r *RedisRealtimeRelay) {
		if channel != "" {
			r.channel = channel
		}
	}
}

// WithRelayLogger sets the logger for the relay
func WithRelayLogger(logger *zap.Logger) RedisRealtimeRelayOption {
	return func(r *RedisRealtimeRelay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRedisRealtimeRelay creates a relay on a shared client. The caller
// keeps ownership of the client.
func NewRedisRealtimeRelay(client redis.UniversalClient, opts ...RedisRealtimeRelayOption) *RedisRealtimeRelay {
	r := &RedisRealtimeRelay{
		client:  client,
		channel: DefaultRealtimeChannel,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Channel returns the Pub/Sub channel name
func (r *RedisRealtimeRelay) Channel() string {
	return r.channel
}

// Publish sends a change event to every subscribed instance
func (r *RedisRealtimeRelay) Publish(ctx context.Context, ev realtime.ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// Subscribe blocks, calling fn for each received event until ctx is done.
// fn runs on the receiving goroutine, so per-channel order is kept.
func (r *RedisRealtimeRelay) Subscribe(ctx context.Context, fn func(realtime.ChangeEvent)) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrRelayRunning
	}
	defer r.running.Store(false)

	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// wait for the subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	r.logger.Info("subscribed to realtime channel", zap.String("channel", r.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("realtime relay stopped")
			return nil
		case msg, ok := <-ch:
			if !ok {
				r.logger.Warn("realtime channel closed")
				return nil
			}
			var ev realtime.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				r.logger.Error("failed to unmarshal change event",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}
			r.deliver(fn, ev)
		}
	}
}

func (r *RedisRealtimeRelay) deliver(fn func(realtime.ChangeEvent), ev realtime.ChangeEvent) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("panic in realtime relay callback",
				zap.String("table", ev.Table),
				zap.Any("panic", p))
		}
	}()
	fn(ev)
}

var _ realtime.Relay = (*RedisRealtimeRelay)(nil)

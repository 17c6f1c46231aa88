package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which events were already handled
type IdempotencyStore interface {
	// MarkProcessed records eventID and reports true when it was not seen
	// before within ttl
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	// IsProcessed reports whether eventID was recorded and has not expired
	IsProcessed(ctx context.Context, eventID string) (bool, error)
}

// IdempotencyConfig controls duplicate suppression for event handlers
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

// DefaultIdempotencyConfig keeps event ids for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{Enabled: true, TTL: 24 * time.Hour}
}

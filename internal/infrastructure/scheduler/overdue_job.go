package scheduler

import (
	"context"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/config"
)

// OverdueJobName is the lock key of the overdue sweep
const OverdueJobName = "invoice-overdue-sweep"

const (
	defaultOverdueInterval = 15 * time.Minute
	defaultOverdueLockTTL  = 5 * time.Minute
)

// OverdueSweeper marks past-due invoices overdue
type OverdueSweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// NewOverdueJob builds the periodic overdue sweep from configuration
func NewOverdueJob(sweeper OverdueSweeper, cfg *config.SchedulerConfig) Job {
	interval := cfg.OverdueInterval
	if interval <= 0 {
		interval = defaultOverdueInterval
	}
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = defaultOverdueLockTTL
	}
	return Job{
		Name:     OverdueJobName,
		Interval: interval,
		LockTTL:  ttl,
		Run: func(ctx context.Context, now time.Time) error {
			_, err := sweeper.Sweep(ctx, now)
			return err
		},
	}
}

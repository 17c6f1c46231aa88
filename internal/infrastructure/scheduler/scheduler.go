package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobFunc does one run of a periodic job
type JobFunc func(ctx context.Context, now time.Time) error

// Job is a task run every Interval. Each run holds the job's lock for at
// most LockTTL, which also bounds the run time.
type Job struct {
	Name     string
	Interval time.Duration
	LockTTL  time.Duration
	Run      JobFunc
}

func (j Job) validate() error {
	switch {
	case j.Name == "":
		return fmt.Errorf("%w: job name is required", ErrInvalidConfig)
	case j.Interval <= 0:
		return fmt.Errorf("%w: job %s needs a positive interval", ErrInvalidConfig, j.Name)
	case j.Run == nil:
		return fmt.Errorf("%w: job %s has no run function", ErrInvalidConfig, j.Name)
	}
	return nil
}

// Scheduler runs periodic jobs, one goroutine per job. A run is skipped
// when another instance holds the job's lock.
type Scheduler struct {
	locker Locker
	logger *zap.Logger
	now    func() time.Time
	jobs   []Job

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a scheduler. A nil locker runs every job locally.
func NewScheduler(locker Locker, logger *zap.Logger) *Scheduler {
	if locker == nil {
		locker = LocalLocker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{locker: locker, logger: logger, now: time.Now}
}

// Register adds a job. Jobs must be registered before Start.
func (s *Scheduler) Register(job Job) error {
	if err := job.validate(); err != nil {
		return err
	}
	if job.LockTTL <= 0 {
		job.LockTTL = job.Interval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return fmt.Errorf("%w: cannot register %s while running", ErrInvalidConfig, job.Name)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Start launches the registered jobs
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}

	s.logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels running jobs and waits for them, or gives up when ctx ends
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	// first run right away so a restart does not delay the job
	s.RunOnce(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx, job)
		}
	}
}

// RunOnce runs job under its lock. It reports whether the job ran.
func (s *Scheduler) RunOnce(ctx context.Context, job Job) bool {
	release, err := s.locker.Obtain(ctx, job.Name, job.LockTTL)
	if errors.Is(err, ErrLockHeld) {
		s.logger.Debug("job skipped, lock held elsewhere", zap.String("job", job.Name))
		return false
	}
	if err != nil {
		s.logger.Warn("job lock unavailable", zap.String("job", job.Name), zap.Error(err))
		return false
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release job lock", zap.String("job", job.Name), zap.Error(err))
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, job.LockTTL)
	defer cancel()

	start := time.Now()
	if err := s.safeRun(runCtx, job); err != nil {
		s.logger.Error("job failed",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return true
	}
	s.logger.Debug("job completed",
		zap.String("job", job.Name),
		zap.Duration("duration", time.Since(start)))
	return true
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()
	return job.Run(ctx, s.now())
}

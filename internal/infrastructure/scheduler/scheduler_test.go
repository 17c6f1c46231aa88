package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLocker_Exclusive(t *testing.T) {
	mr, client := newRedis(t)
	a := NewRedisLocker(client)
	b := NewRedisLocker(client)
	ctx := context.Background()

	release, err := a.Obtain(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists(lockKeyPrefix+"sweep"))

	_, err = b.Obtain(ctx, "sweep", time.Minute)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists(lockKeyPrefix+"sweep"))

	release, err = b.Obtain(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestRedisLocker_ExpiredLockReleaseIsQuiet(t *testing.T) {
	mr, client := newRedis(t)
	locker := NewRedisLocker(client)
	ctx := context.Background()

	release, err := locker.Obtain(ctx, "sweep", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	assert.NoError(t, release(ctx))
}

func TestScheduler_RunOnce(t *testing.T) {
	var runs atomic.Int32
	fixed := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	s := NewScheduler(nil, zap.NewNop())
	s.now = func() time.Time { return fixed }

	job := Job{Name: "count", Interval: time.Minute, LockTTL: time.Second, Run: func(ctx context.Context, now time.Time) error {
		assert.Equal(t, fixed, now)
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		runs.Add(1)
		return nil
	}}

	assert.True(t, s.RunOnce(context.Background(), job))
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_RunOnceSkipsWhenLocked(t *testing.T) {
	_, client := newRedis(t)
	other := NewRedisLocker(client)
	release, err := other.Obtain(context.Background(), "sweep", time.Minute)
	require.NoError(t, err)
	defer func() { _ = release(context.Background()) }()

	var runs atomic.Int32
	s := NewScheduler(NewRedisLocker(client), zap.NewNop())
	ran := s.RunOnce(context.Background(), Job{Name: "sweep", Interval: time.Minute, LockTTL: time.Minute, Run: func(context.Context, time.Time) error {
		runs.Add(1)
		return nil
	}})

	assert.False(t, ran)
	assert.Zero(t, runs.Load())
}

func TestScheduler_RunOnceSurvivesFailures(t *testing.T) {
	s := NewScheduler(nil, zap.NewNop())

	assert.True(t, s.RunOnce(context.Background(), Job{Name: "err", Interval: time.Minute, LockTTL: time.Second,
		Run: func(context.Context, time.Time) error { return errors.New("db down") }}))
	assert.True(t, s.RunOnce(context.Background(), Job{Name: "panic", Interval: time.Minute, LockTTL: time.Second,
		Run: func(context.Context, time.Time) error { panic("bad") }}))
}

func TestScheduler_Register(t *testing.T) {
	s := NewScheduler(nil, nil)
	noop := func(context.Context, time.Time) error { return nil }

	assert.ErrorIs(t, s.Register(Job{Interval: time.Second, Run: noop}), ErrInvalidConfig)
	assert.ErrorIs(t, s.Register(Job{Name: "x", Run: noop}), ErrInvalidConfig)
	assert.ErrorIs(t, s.Register(Job{Name: "x", Interval: time.Second}), ErrInvalidConfig)

	require.NoError(t, s.Register(Job{Name: "x", Interval: time.Second, Run: noop}))
	assert.Equal(t, time.Second, s.jobs[0].LockTTL)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())
	assert.ErrorIs(t, s.Register(Job{Name: "y", Interval: time.Second, Run: noop}), ErrInvalidConfig)
}

func TestScheduler_StartStop(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(nil, zap.NewNop())
	require.NoError(t, s.Register(Job{Name: "tick", Interval: 10 * time.Millisecond, Run: func(context.Context, time.Time) error {
		runs.Add(1)
		return nil
	}}))

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx))
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	require.NoError(t, s.Stop(stopCtx))

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

type fakeSweeper struct {
	calls atomic.Int32
	at    time.Time
}

func (f *fakeSweeper) Sweep(_ context.Context, now time.Time) (int, error) {
	f.calls.Add(1)
	f.at = now
	return 2, nil
}

func TestNewOverdueJob(t *testing.T) {
	sweeper := &fakeSweeper{}

	job := NewOverdueJob(sweeper, &config.SchedulerConfig{})
	assert.Equal(t, OverdueJobName, job.Name)
	assert.Equal(t, defaultOverdueInterval, job.Interval)
	assert.Equal(t, defaultOverdueLockTTL, job.LockTTL)

	job = NewOverdueJob(sweeper, &config.SchedulerConfig{OverdueInterval: time.Hour, LockTTL: time.Minute})
	assert.Equal(t, time.Hour, job.Interval)
	assert.Equal(t, time.Minute, job.LockTTL)

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, job.Run(context.Background(), now))
	assert.Equal(t, int32(1), sweeper.calls.Load())
	assert.Equal(t, now, sweeper.at)
}

func TestOverdueJob_SingleInstanceAcrossSchedulers(t *testing.T) {
	_, client := newRedis(t)
	sweeper := &fakeSweeper{}
	job := NewOverdueJob(sweeper, &config.SchedulerConfig{OverdueInterval: time.Hour, LockTTL: time.Minute})

	block := make(chan struct{})
	slow := job
	slow.Run = func(ctx context.Context, now time.Time) error {
		<-block
		return job.Run(ctx, now)
	}

	first := NewScheduler(NewRedisLocker(client), zap.NewNop())
	second := NewScheduler(NewRedisLocker(client), zap.NewNop())

	done := make(chan bool)
	go func() { done <- first.RunOnce(context.Background(), slow) }()

	// wait until the first scheduler holds the lock
	require.Eventually(t, func() bool {
		return client.Exists(context.Background(), lockKeyPrefix+OverdueJobName).Val() == 1
	}, time.Second, 5*time.Millisecond)

	assert.False(t, second.RunOnce(context.Background(), job))
	close(block)
	assert.True(t, <-done)
	assert.Equal(t, int32(1), sweeper.calls.Load())
}

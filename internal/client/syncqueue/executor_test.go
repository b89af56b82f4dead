package syncqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/dmitrijs2005/diarykeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{Shards: 2, QueueSize: 16, MaxAttempts: 3, BaseBackoff: time.Millisecond, MaxInterval: 5 * time.Millisecond}
}

func TestShardExecutor_RetriesUntilSuccess(t *testing.T) {
	ex := NewShardExecutor(fastConfig(), logging.Nop())
	defer ex.Stop()

	var attempts int32
	job := JobFunc(func(ctx context.Context) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return common.ErrUnavailable
		}
		return nil
	})

	ctx := context.Background()
	require.NoError(t, ex.Submit(ctx, "k1", job))
	require.NoError(t, ex.Barrier(ctx, "k1"))
	require.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestShardExecutor_GivesUpAfterMaxAttempts(t *testing.T) {
	var handled []error
	var mu sync.Mutex
	cfg := fastConfig()
	cfg.ErrorHandler = func(err error) {
		mu.Lock()
		handled = append(handled, err)
		mu.Unlock()
	}
	ex := NewShardExecutor(cfg, nil)
	defer ex.Stop()

	var attempts int32
	job := JobFunc(func(ctx context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return common.ErrUnavailable
	})

	ctx := context.Background()
	require.NoError(t, ex.Submit(ctx, "k", job))
	require.NoError(t, ex.Barrier(ctx, "k"))

	require.EqualValues(t, 3, atomic.LoadInt32(&attempts))
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, handled, 1)
	require.ErrorIs(t, handled[0], common.ErrUnavailable)
}

func TestShardExecutor_IrrecoverableFailsFast(t *testing.T) {
	ex := NewShardExecutor(fastConfig(), nil)
	defer ex.Stop()

	for _, cause := range []error{common.ErrUnauthorized, common.ErrNotFound} {
		var attempts int32
		job := JobFunc(func(ctx context.Context) error {
			atomic.AddInt32(&attempts, 1)
			return cause
		})
		require.NoError(t, ex.Submit(context.Background(), "k", job))
		require.NoError(t, ex.Barrier(context.Background(), "k"))
		assert.EqualValues(t, 1, atomic.LoadInt32(&attempts), cause.Error())
	}
}

func TestShardExecutor_PreservesOrderPerKey(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 4, QueueSize: 256}, nil)
	defer ex.Stop()

	var mu sync.Mutex
	got := map[string][]int{}
	keys := []string{"a", "b", "c", "d", "e"}
	for i := 0; i < 40; i++ {
		for _, k := range keys {
			i, k := i, k
			require.NoError(t, ex.Submit(context.Background(), k, JobFunc(func(context.Context) error {
				mu.Lock()
				got[k] = append(got[k], i)
				mu.Unlock()
				return nil
			})))
		}
	}
	require.NoError(t, ex.BarrierAll(context.Background()))

	for _, k := range keys {
		require.Len(t, got[k], 40)
		for i, v := range got[k] {
			require.Equal(t, i, v, "key %s", k)
		}
	}
}

func TestShardExecutor_SubmitAfterStop(t *testing.T) {
	ex := NewShardExecutor(fastConfig(), nil)
	ex.Stop()
	ex.Stop()

	err := ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error { return nil }))
	require.ErrorIs(t, err, ErrExecutorClosed)
}

func TestShardExecutor_QueueFull(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 1, EnqueueTimeout: 10 * time.Millisecond}, nil)
	release := make(chan struct{})
	started := make(chan struct{})
	defer func() {
		close(release)
		ex.Stop()
	}()

	block := JobFunc(func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	noop := JobFunc(func(context.Context) error { return nil })

	require.NoError(t, ex.Submit(context.Background(), "k", block))
	<-started
	require.NoError(t, ex.Submit(context.Background(), "k", noop))

	err := ex.Submit(context.Background(), "k", noop)
	require.ErrorIs(t, err, ErrQueueFull)
	var qf *QueueFullError
	require.True(t, errors.As(err, &qf))
	require.Equal(t, 1, qf.Capacity)
}

func TestShardExecutor_StopDrainsQueuedJobs(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 8}, nil)
	var ran int32
	gate := make(chan struct{})
	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		<-gate
		atomic.AddInt32(&ran, 1)
		return nil
	})))
	for i := 0; i < 3; i++ {
		require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})))
	}
	close(gate)
	ex.Stop()
	require.EqualValues(t, 4, atomic.LoadInt32(&ran))
}

type panicJob struct{ failed chan error }

func (p *panicJob) Run(context.Context) error { panic("boom") }
func (p *panicJob) Fail(err error)            { p.failed <- err }

func TestShardExecutor_RecoversJobPanic(t *testing.T) {
	ex := NewShardExecutor(fastConfig(), nil)
	defer ex.Stop()

	j := &panicJob{failed: make(chan error, 1)}
	require.NoError(t, ex.Submit(context.Background(), "k", j))
	require.NoError(t, ex.Barrier(context.Background(), "k"))
	require.ErrorIs(t, <-j.failed, errJobPanic)

	var ran bool
	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		ran = true
		return nil
	})))
	require.NoError(t, ex.Barrier(context.Background(), "k"))
	require.True(t, ran)
}

func TestShardExecutor_CancelledJobIsSkipped(t *testing.T) {
	ex := NewShardExecutor(fastConfig(), nil)
	defer ex.Stop()

	gate := make(chan struct{})
	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		<-gate
		return nil
	})))

	ctx, cancel := context.WithCancel(context.Background())
	var ran int32
	require.NoError(t, ex.Submit(ctx, "k", JobFunc(func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})))
	cancel()
	close(gate)

	require.NoError(t, ex.Barrier(context.Background(), "k"))
	require.Zero(t, atomic.LoadInt32(&ran))
}

func TestQueueFullError_Is(t *testing.T) {
	e := &QueueFullError{Shard: 3, Length: 10, Capacity: 16}
	require.ErrorIs(t, e, ErrQueueFull)
	require.NotErrorIs(t, e, ErrExecutorClosed)
	require.Contains(t, e.Error(), "shard 3")
}

func TestShardExecutor_TrySubmitDoesNotWait(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 1, EnqueueTimeout: 5 * time.Second}, nil)
	release := make(chan struct{})
	started := make(chan struct{})
	defer func() {
		close(release)
		ex.Stop()
	}()

	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		close(started)
		<-release
		return nil
	})))
	<-started
	noop := JobFunc(func(context.Context) error { return nil })
	require.NoError(t, ex.TrySubmit(context.Background(), "k", noop))

	start := time.Now()
	err := ex.TrySubmit(context.Background(), "k", noop)
	require.ErrorIs(t, err, ErrQueueFull)
	assert.Less(t, time.Since(start), time.Second)
}

type failRecorder struct {
	ran    int32
	failed chan error
}

func (f *failRecorder) Run(context.Context) error {
	atomic.AddInt32(&f.ran, 1)
	return nil
}
func (f *failRecorder) Fail(err error) { f.failed <- err }

func TestShardExecutor_StopSkipsCancelledQueuedJobs(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 8}, nil)
	gate := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		<-gate
		return nil
	})))
	job := &failRecorder{failed: make(chan error, 1)}
	require.NoError(t, ex.Submit(ctx, "k", job))

	cancel()
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(gate)
	}()
	ex.Stop()

	require.Zero(t, atomic.LoadInt32(&job.ran))
	require.ErrorIs(t, <-job.failed, context.Canceled)
}

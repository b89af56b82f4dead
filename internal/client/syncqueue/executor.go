package syncqueue

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/dmitrijs2005/diarykeeper/internal/logging"
)

type queuedJob struct {
	ctx context.Context
	job Job
}

// ShardExecutor runs Jobs on worker goroutines partitioned by a stable hash
// of the key. Jobs sharing a key run in submission order; different keys may
// run in parallel.
//
// Callers must not Submit concurrently for the same key.
type ShardExecutor struct {
	cfg    Config
	log    logging.Logger
	queues []chan queuedJob

	done   chan struct{}
	closed uint32

	wg sync.WaitGroup
}

func NewShardExecutor(cfg Config, log logging.Logger) *ShardExecutor {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logging.Nop()
	}

	p := &ShardExecutor{
		cfg:    cfg,
		log:    log,
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Submit enqueues job on the shard derived from key. It returns
// ErrExecutorClosed after Stop, a *QueueFullError when the shard stays full
// for EnqueueTimeout, or ctx.Err() if ctx ends first.
func (p *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	return p.submitShard(ctx, p.shardFor(key), job, true)
}

// TrySubmit is Submit without waiting: a full shard is reported at once.
func (p *ShardExecutor) TrySubmit(ctx context.Context, key string, job Job) error {
	return p.submitShard(ctx, p.shardFor(key), job, false)
}

func (p *ShardExecutor) submitShard(ctx context.Context, shard int, job Job, wait bool) error {
	if atomic.LoadUint32(&p.closed) == 1 {
		return ErrExecutorClosed
	}
	select {
	case <-p.done:
		return ErrExecutorClosed
	default:
	}

	ch := p.queues[shard]
	if !wait {
		select {
		case ch <- queuedJob{ctx: ctx, job: job}:
			submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
			return nil
		default:
			queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
			return &QueueFullError{Shard: shard, Length: len(ch), Capacity: cap(ch)}
		}
	}

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- queuedJob{ctx: ctx, job: job}:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-p.done:
		return ErrExecutorClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Shard: shard, Length: len(ch), Capacity: cap(ch)}
	}
}

// Barrier waits until every job submitted for key before the call has run.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	return p.barrierShard(ctx, p.shardFor(key))
}

// BarrierAll waits until every job submitted before the call has run.
func (p *ShardExecutor) BarrierAll(ctx context.Context) error {
	for i := range p.queues {
		if err := p.barrierShard(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

func (p *ShardExecutor) barrierShard(ctx context.Context, shard int) error {
	done := make(chan struct{})
	j := JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := p.submitShard(ctx, shard, j, true); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop lets every worker drain its queue once, without retries, and waits
// for them to exit. Jobs whose context has already ended are handed to
// their error handler instead of being run. It is idempotent.
func (p *ShardExecutor) Stop() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return
	}

	p.log.Debug(context.Background(), "stopping sync executor", "shards", p.cfg.Shards)
	close(p.done)
	p.wg.Wait()
	p.log.Debug(context.Background(), "sync executor stopped")
}

func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()

	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			p.runWithRetry(label, qj)
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.done:
			drained := 0
			for {
				select {
				case qj := <-ch:
					if qj.job == nil {
						continue
					}
					if err := qj.ctx.Err(); err != nil {
						p.safeHandleError(qj.job, err)
						drained++
						continue
					}
					if err := p.runOnce(label, qj); err != nil {
						p.safeHandleError(qj.job, err)
					}
					drained++
				default:
					if drained > 0 {
						p.log.Debug(context.Background(), "sync worker drained", "shard", idx, "jobs", drained)
					}
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

func (p *ShardExecutor) runOnce(label string, qj queuedJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error(qj.ctx, "sync job panic", "shard", label, "panic", r)
			err = fmt.Errorf("%w: %v", errJobPanic, r)
		}
	}()
	start := time.Now()
	err = qj.job.Run(qj.ctx)
	runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	return err
}

func (p *ShardExecutor) runWithRetry(label string, qj queuedJob) {
	if qj.job == nil {
		return
	}

	// a cancelled caller must not stall the shard
	select {
	case <-qj.ctx.Done():
		p.safeHandleError(qj.job, qj.ctx.Err())
		return
	default:
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.cfg.MaxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	for attempt := 1; ; attempt++ {
		err := p.runOnce(label, qj)
		if err == nil {
			return
		}
		if isIrrecoverable(err) || attempt >= p.cfg.MaxAttempts {
			p.safeHandleError(qj.job, err)
			return
		}

		wait := exp.NextBackOff()
		p.log.Debug(qj.ctx, "sync attempt failed", "shard", label, "attempt", attempt, "retry_in", wait, "error", err)

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-p.done:
			timer.Stop()
			p.safeHandleError(qj.job, err)
			return
		case <-qj.ctx.Done():
			timer.Stop()
			p.safeHandleError(qj.job, qj.ctx.Err())
			return
		}
	}
}

func (p *ShardExecutor) safeHandleError(job Job, err error) {
	if err == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.Error(context.Background(), "sync error handler panic", "panic", r)
		}
	}()
	if f, ok := job.(failer); ok {
		f.Fail(err)
	}
	if p.cfg.ErrorHandler != nil {
		p.cfg.ErrorHandler(err)
	}
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}

package syncqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/logging"
	"github.com/robfig/cron/v3"
)

// redriver is satisfied by *Dispatcher.
type redriver interface {
	Redrive(ctx context.Context, limit int) (int, error)
}

// Sweeper periodically redrives the outbox so operations that exhausted
// their retries, or were queued before a restart, reach the remote.
type Sweeper struct {
	target   redriver
	cron     *cron.Cron
	interval time.Duration
	limit    int
	log      logging.Logger
}

func NewSweeper(target redriver, interval time.Duration, limit int, log logging.Logger) *Sweeper {
	if log == nil {
		log = logging.Nop()
	}
	return &Sweeper{
		target:   target,
		cron:     cron.New(),
		interval: interval,
		limit:    limit,
		log:      log.With("module", "outbox-sweeper"),
	}
}

func (s *Sweeper) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", s.interval)
	}
	cronExpr := fmt.Sprintf("@every %s", s.interval.String())

	if _, err := s.cron.AddFunc(cronExpr, s.Sweep); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.log.Debug(context.Background(), "outbox sweeper started", "interval", s.interval)
	return nil
}

func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Debug(context.Background(), "outbox sweeper stopped")
}

// Sweep runs one redrive pass.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.target.Redrive(ctx, s.limit); err != nil {
		s.log.Warn(ctx, "outbox sweep failed", "error", err)
	}
}

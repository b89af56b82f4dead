package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/logging"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusService tracks whether the remote mirror is reachable.
type StatusService struct {
	remote  Pinger
	log     logging.Logger
	timeout time.Duration
	online  atomic.Bool
}

func NewStatusService(remote Pinger, log logging.Logger) *StatusService {
	if log == nil {
		log = logging.Nop()
	}
	return &StatusService{remote: remote, log: log.With("module", "status"), timeout: 5 * time.Second}
}

// Ping probes the remote once and records the result.
func (s *StatusService) Ping(ctx context.Context) error {
	if s.remote == nil {
		s.online.Store(false)
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.remote.Ping(ctx)
	was := s.online.Swap(err == nil)
	if was != (err == nil) {
		s.log.Info(ctx, "remote status changed", "online", err == nil, "error", err)
	}
	return err
}

func (s *StatusService) Online() bool { return s.online.Load() }

// Watch pings immediately and then every interval until ctx ends.
func (s *StatusService) Watch(ctx context.Context, interval time.Duration) {
	_ = s.Ping(ctx)
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = s.Ping(ctx)
		}
	}
}

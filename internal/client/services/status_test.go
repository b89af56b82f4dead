package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.calls.Add(1)
	if f.fail.Load() {
		return errors.New("down")
	}
	return nil
}

func TestStatusService_PingTracksOnline(t *testing.T) {
	p := &fakePinger{}
	s := NewStatusService(p, nil)
	require.False(t, s.Online())

	require.NoError(t, s.Ping(context.Background()))
	require.True(t, s.Online())

	p.fail.Store(true)
	require.Error(t, s.Ping(context.Background()))
	require.False(t, s.Online())
}

func TestStatusService_NilRemoteIsOffline(t *testing.T) {
	s := NewStatusService(nil, nil)
	require.NoError(t, s.Ping(context.Background()))
	require.False(t, s.Online())
}

func TestStatusService_WatchPingsUntilCancelled(t *testing.T) {
	p := &fakePinger{}
	s := NewStatusService(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Watch(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return p.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.True(t, s.Online())
	cancel()
	<-done
}

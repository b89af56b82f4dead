package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/client/client"
	"github.com/dmitrijs2005/diarykeeper/internal/client/config"
	"github.com/dmitrijs2005/diarykeeper/internal/client/repositories/entries"
	"github.com/dmitrijs2005/diarykeeper/internal/client/services"
	"github.com/dmitrijs2005/diarykeeper/internal/client/syncqueue"
	"github.com/dmitrijs2005/diarykeeper/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// outboxBatch is how many pending operations one redrive pass picks up.
const outboxBatch = 100

type App struct {
	config *config.Config
	log    logging.Logger

	store      services.EntryStore
	status     *services.StatusService
	dispatcher *syncqueue.Dispatcher
	sweeper    *syncqueue.Sweeper
	closers    []func() error

	reader    *bufio.Reader
	out       io.Writer
	clock     func() time.Time
	gatherer  prometheus.Gatherer
	weekStart time.Weekday
}

// NewApp wires storage, the remote mirror client, the sync queue and the
// entry store from c. Nothing talks to the network until Run.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel)
	loc := time.Local

	repos, err := client.InitDatabase(ctx, c.DatabaseDSN, loc)
	if err != nil {
		log.Error(ctx, "error initializing database", "dsn", c.DatabaseDSN, "error", err)
		return nil, err
	}

	var repo entries.Repository
	switch c.StorageBackend {
	case config.BackendSQLite, "":
		repo = repos.Entries
	case config.BackendDiskv:
		repo = entries.NewDiskvRepository(c.DiskvPath, loc)
	default:
		_ = repos.Close()
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	remote, err := client.NewGRPCClient(c.ServerEndpointAddr, c.DeviceID, []byte(c.SyncSecret), c.TokenValidity)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	d := syncqueue.NewDispatcher(remote, repos.Outbox, syncqueue.Config{
		Shards:      c.SyncShards,
		QueueSize:   c.SyncQueueSize,
		MaxAttempts: c.SyncMaxAttempts,
		BaseBackoff: c.SyncBaseBackoff,
		MaxInterval: c.SyncMaxInterval,
	}, log)

	return &App{
		config:     c,
		log:        log,
		store:      services.NewEntryStore(repo, d, log, services.WithLocation(loc)),
		status:     services.NewStatusService(remote, log),
		dispatcher: d,
		sweeper:    syncqueue.NewSweeper(d, c.OutboxSweepInterval, outboxBatch, log),
		closers:    []func() error{remote.Close, repos.Close},
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		clock:      time.Now,
		gatherer:   prometheus.DefaultGatherer,
		weekStart:  c.Weekday(),
	}, nil
}

// Run loads the journal, redrives anything left in the outbox and blocks in
// the REPL until the user exits or ctx ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := a.store.Load(ctx); err != nil {
		printlnFn("Warning:", err)
	}

	if n, err := a.dispatcher.Redrive(ctx, outboxBatch); err != nil {
		a.log.Warn(ctx, "startup redrive failed", "error", err)
	} else if n > 0 {
		a.log.Info(ctx, "redriving pending sync operations", "count", n)
	}

	if err := a.sweeper.Start(); err != nil {
		a.log.Warn(ctx, "outbox sweeper disabled", "error", err)
	} else {
		defer a.sweeper.Stop()
	}

	a.Root(ctx)
}

// Close drains the sync queue once and releases the remote connection and
// the database. Operations still unacknowledged stay in the outbox.
func (a *App) Close() {
	if a.dispatcher != nil {
		a.dispatcher.Stop()
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) mode() Mode {
	if a.status != nil && a.status.Online() {
		return ModeOnline
	}
	return ModeOffline
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

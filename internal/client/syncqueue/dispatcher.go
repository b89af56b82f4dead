package syncqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
	"github.com/dmitrijs2005/diarykeeper/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/dmitrijs2005/diarykeeper/internal/logging"
)

const (
	OpSave   = "save"
	OpUpdate = "update"
	OpDelete = "delete"
)

// outboxTimeout bounds local outbox bookkeeping on the dispatch path.
const outboxTimeout = 2 * time.Second

// Remote is the mirror client the queue drives.
type Remote interface {
	SaveEntry(ctx context.Context, entry *models.DiaryEntry) error
	UpdateEntry(ctx context.Context, entry *models.DiaryEntry) error
	DeleteEntry(ctx context.Context, id string) error
}

type tombstone struct {
	ID string `json:"id"`
}

// Dispatcher turns entry mutations into queued remote operations. Each
// operation is recorded in the outbox before it is queued and removed once
// the remote acknowledges it, so anything unacknowledged survives a restart.
//
// Save, Update and Delete never return errors and never wait on the remote.
type Dispatcher struct {
	remote Remote
	outbox outbox.Repository
	exec   *ShardExecutor
	log    logging.Logger

	attemptTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// NewDispatcher starts the shard workers. ob may be nil, in which case
// operations live only in memory.
func NewDispatcher(remote Remote, ob outbox.Repository, cfg Config, log logging.Logger) *Dispatcher {
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("module", "syncqueue")
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		remote:         remote,
		outbox:         ob,
		exec:           NewShardExecutor(cfg, log),
		log:            log,
		attemptTimeout: cfg.AttemptTimeout,
		ctx:            ctx,
		cancel:         cancel,
		inFlight:       make(map[int64]struct{}),
	}
}

func (d *Dispatcher) Save(entry *models.DiaryEntry) {
	d.dispatchEntry(OpSave, entry)
}

func (d *Dispatcher) Update(entry *models.DiaryEntry) {
	d.dispatchEntry(OpUpdate, entry)
}

func (d *Dispatcher) Delete(id string) {
	payload, _ := json.Marshal(tombstone{ID: id})
	d.dispatch(&task{op: OpDelete, entryID: id}, payload)
}

func (d *Dispatcher) dispatchEntry(op string, entry *models.DiaryEntry) {
	snapshot := entry.Clone()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		d.log.Warn(d.ctx, "sync payload encode failed", "op", op, "entry_id", entry.ID, "error", err)
		return
	}
	d.dispatch(&task{op: op, entryID: entry.ID, entry: snapshot}, payload)
}

func (d *Dispatcher) dispatch(t *task, payload []byte) {
	t.d = d
	if d.outbox != nil {
		ctx, cancel := context.WithTimeout(d.ctx, outboxTimeout)
		item := &outbox.Item{Op: t.op, EntryID: t.entryID, Payload: payload}
		if err := d.outbox.Enqueue(ctx, item); err != nil {
			d.log.Warn(ctx, "outbox enqueue failed, syncing from memory only",
				"op", t.op, "entry_id", t.entryID, "error", err)
		} else {
			t.seq = item.Seq
		}
		cancel()
	}
	d.submit(t)
}

func (d *Dispatcher) submit(t *task) bool {
	if t.seq != 0 {
		d.mu.Lock()
		d.inFlight[t.seq] = struct{}{}
		d.mu.Unlock()
	}
	submit := d.exec.Submit
	if t.seq != 0 {
		// the outbox row is enough for a redrive to pick it up later
		submit = d.exec.TrySubmit
	}
	if err := submit(d.ctx, t.entryID, t); err != nil {
		d.release(t.seq)
		d.log.Warn(d.ctx, "sync submit failed, left in outbox",
			"op", t.op, "entry_id", t.entryID, "seq", t.seq, "error", err)
		return false
	}
	return true
}

func (d *Dispatcher) release(seq int64) {
	if seq == 0 {
		return
	}
	d.mu.Lock()
	delete(d.inFlight, seq)
	d.mu.Unlock()
}

// InFlight reports how many outbox items are queued or running.
func (d *Dispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inFlight)
}

// Redrive resubmits outbox items that are not currently in flight, oldest
// first, and returns how many were queued.
func (d *Dispatcher) Redrive(ctx context.Context, limit int) (int, error) {
	if d.outbox == nil {
		return 0, nil
	}
	items, err := d.outbox.Pending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list outbox: %w", err)
	}
	outboxPending.Set(float64(len(items)))

	queued := 0
	for _, it := range items {
		d.mu.Lock()
		_, busy := d.inFlight[it.Seq]
		d.mu.Unlock()
		if busy {
			continue
		}

		t, err := decodeTask(it)
		if err != nil {
			d.log.Warn(ctx, "dropping undecodable outbox item", "seq", it.Seq, "op", it.Op, "error", err)
			if cerr := d.outbox.Complete(ctx, it.Seq); cerr != nil {
				d.log.Warn(ctx, "outbox complete failed", "seq", it.Seq, "error", cerr)
			}
			continue
		}
		t.d = d
		if d.submit(t) {
			queued++
		}
	}
	if queued > 0 {
		d.log.Info(ctx, "redrove outbox", "queued", queued, "pending", len(items))
	}
	return queued, nil
}

func decodeTask(it *outbox.Item) (*task, error) {
	t := &task{seq: it.Seq, op: it.Op, entryID: it.EntryID}
	switch it.Op {
	case OpSave, OpUpdate:
		var e models.DiaryEntry
		if err := json.Unmarshal(it.Payload, &e); err != nil {
			return nil, err
		}
		if e.ID == "" {
			return nil, errors.New("payload has no entry id")
		}
		t.entry = &e
	case OpDelete:
	default:
		return nil, fmt.Errorf("unknown op %q", it.Op)
	}
	return t, nil
}

// Flush waits until every operation queued before the call has finished.
func (d *Dispatcher) Flush(ctx context.Context) error {
	return d.exec.BarrierAll(ctx)
}

// Stop cancels running remote calls and releases the workers. Operations
// still queued stay in the outbox for the next redrive.
func (d *Dispatcher) Stop() {
	d.cancel()
	d.exec.Stop()
}

func (d *Dispatcher) complete(t *task) {
	defer d.release(t.seq)
	opsTotal.WithLabelValues(t.op, resultSynced).Inc()
	if t.seq == 0 || d.outbox == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), outboxTimeout)
	defer cancel()
	if err := d.outbox.Complete(ctx, t.seq); err != nil && !errors.Is(err, common.ErrNotFound) {
		d.log.Warn(ctx, "outbox complete failed", "seq", t.seq, "error", err)
	}
}

func (d *Dispatcher) fail(t *task, cause error) {
	defer d.release(t.seq)
	if d.ctx.Err() != nil {
		d.log.Debug(context.Background(), "sync interrupted by shutdown", "op", t.op, "entry_id", t.entryID, "seq", t.seq)
		return
	}
	opsTotal.WithLabelValues(t.op, resultFailed).Inc()

	err := fmt.Errorf("%w: %s %s: %w", common.ErrSyncFailure, t.op, t.entryID, cause)
	d.log.Warn(context.Background(), "remote sync gave up", "op", t.op, "entry_id", t.entryID, "seq", t.seq, "error", err)

	if t.seq == 0 || d.outbox == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), outboxTimeout)
	defer cancel()
	if errors.Is(cause, common.ErrInvalidEntry) {
		// the mirror will never accept this payload
		if oerr := d.outbox.Complete(ctx, t.seq); oerr != nil && !errors.Is(oerr, common.ErrNotFound) {
			d.log.Warn(ctx, "outbox drop failed", "seq", t.seq, "error", oerr)
		}
		return
	}
	if oerr := d.outbox.Fail(ctx, t.seq, cause.Error()); oerr != nil && !errors.Is(oerr, common.ErrNotFound) {
		d.log.Warn(ctx, "outbox fail bookkeeping failed", "seq", t.seq, "error", oerr)
	}
}

type task struct {
	d       *Dispatcher
	seq     int64
	op      string
	entryID string
	entry   *models.DiaryEntry
}

func (t *task) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.d.attemptTimeout)
	defer cancel()

	var err error
	switch t.op {
	case OpSave:
		err = t.d.remote.SaveEntry(ctx, t.entry)
	case OpUpdate:
		err = t.d.remote.UpdateEntry(ctx, t.entry)
	case OpDelete:
		err = t.d.remote.DeleteEntry(ctx, t.entryID)
		if errors.Is(err, common.ErrNotFound) {
			err = nil
		}
	default:
		err = fmt.Errorf("unknown op %q", t.op)
	}
	if err != nil {
		return err
	}
	t.d.complete(t)
	return nil
}

func (t *task) Fail(err error) {
	t.d.fail(t, err)
}

// Package outbox persists remote-sync operations that have not yet been
// acknowledged by the mirror, so they survive restarts and can be redriven.
package outbox

import (
	"context"
	"time"
)

// Item is one pending remote operation.
type Item struct {
	Seq       int64
	Op        string
	EntryID   string
	Payload   []byte
	Attempts  int
	LastError string
	CreatedAt time.Time
}

// Repository stores pending items ordered by Seq.
type Repository interface {
	// Enqueue stores item and assigns its Seq.
	Enqueue(ctx context.Context, item *Item) error

	// Complete removes an acknowledged item.
	Complete(ctx context.Context, seq int64) error

	// Fail records a failed attempt and its cause.
	Fail(ctx context.Context, seq int64, cause string) error

	// Pending lists up to limit items in Seq order.
	Pending(ctx context.Context, limit int) ([]*Item, error)
}

package syncqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/diarykeeper/internal/common"
)

var (
	ErrExecutorClosed = errors.New("sync executor closed")
	ErrQueueFull      = errors.New("sync queue full")

	errJobPanic = errors.New("sync job panicked")
)

// QueueFullError reports which shard rejected a submission.
type QueueFullError struct {
	Shard    int
	Length   int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("sync queue full: shard %d (%d/%d)", e.Shard, e.Length, e.Capacity)
}

func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }

// isIrrecoverable reports errors that retrying cannot fix.
func isIrrecoverable(err error) bool {
	return errors.Is(err, common.ErrUnauthorized) ||
		errors.Is(err, common.ErrNotFound) ||
		errors.Is(err, common.ErrInvalidEntry) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, errJobPanic)
}

package client

import (
	"context"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
)

// Remote is the mirror client used by the sync queue: a best-effort copy of
// entry writes on the server.
// Every call may block on the network and may fail; callers decide whether
// a failure is retried.
type Remote interface {
	SaveEntry(ctx context.Context, entry *models.DiaryEntry) error
	UpdateEntry(ctx context.Context, entry *models.DiaryEntry) error
	DeleteEntry(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

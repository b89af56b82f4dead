package entries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/server/models"
)

// Repository persists mirrored entries with last-writer-wins semantics.
// The boolean results report whether the write changed the stored row; a
// stale or repeated write is not an error.
type Repository interface {
	Upsert(ctx context.Context, entry *models.Entry) (bool, error)
	Tombstone(ctx context.Context, deviceID, id string, deletedAt time.Time) (bool, error)
}

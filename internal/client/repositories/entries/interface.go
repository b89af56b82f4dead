package entries

import (
	"context"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
)

// Repository describes durable storage of entries keyed by id.
type Repository interface {
	// Add inserts a new entry.
	Add(ctx context.Context, entry *models.DiaryEntry) error

	// Update overwrites an existing entry. It returns common.ErrNotFound when
	// no entry with that id is stored.
	Update(ctx context.Context, entry *models.DiaryEntry) error

	// Delete removes an entry by id. It returns common.ErrNotFound when
	// nothing was removed.
	Delete(ctx context.Context, id string) error

	// GetAll returns every stored entry in no particular order.
	GetAll(ctx context.Context) ([]*models.DiaryEntry, error)
}

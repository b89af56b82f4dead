// Package entries provides the PostgreSQL-backed repository for mirrored
// diary entries.
package entries

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/dbx"
	"github.com/dmitrijs2005/diarykeeper/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts the entry or overwrites the stored row when the incoming
// UpdatedAt is not older. Tombstoned rows are never overwritten. Reports
// false when the write lost.
func (r *PostgresRepository) Upsert(ctx context.Context, entry *models.Entry) (bool, error) {
	query := `
		INSERT INTO entries (device_id, id, day, content, emotions, tags, word_count, writing_time, encrypted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7, $8, $9, $10, $11)
		ON CONFLICT (device_id, id)
		DO UPDATE SET
			day = EXCLUDED.day,
			content = EXCLUDED.content,
			emotions = EXCLUDED.emotions,
			tags = EXCLUDED.tags,
			word_count = EXCLUDED.word_count,
			writing_time = EXCLUDED.writing_time,
			encrypted = EXCLUDED.encrypted,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
			WHERE entries.deleted_at IS NULL AND entries.updated_at <= EXCLUDED.updated_at;
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.DeviceID, entry.ID, entry.Day, entry.Content,
		jsonOrEmpty(entry.Emotions), jsonOrEmpty(entry.Tags),
		entry.WordCount, entry.WritingTime, entry.Encrypted,
		entry.CreatedAt.UTC(), entry.UpdatedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return applied(res)
}

// Tombstone clears the entry's payload and marks it deleted at deletedAt,
// inserting a bare tombstone when the entry was never mirrored. Deleting an
// already deleted entry reports false.
func (r *PostgresRepository) Tombstone(ctx context.Context, deviceID, id string, deletedAt time.Time) (bool, error) {
	query := `
		INSERT INTO entries (device_id, id, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $3, $3)
		ON CONFLICT (device_id, id)
		DO UPDATE SET
			content = '',
			emotions = '[]'::jsonb,
			tags = '[]'::jsonb,
			word_count = 0,
			writing_time = 0,
			updated_at = EXCLUDED.deleted_at,
			deleted_at = EXCLUDED.deleted_at
			WHERE entries.deleted_at IS NULL;
	`
	res, err := r.db.ExecContext(ctx, query, deviceID, id, deletedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return applied(res)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func applied(res rowsAffecter) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func jsonOrEmpty(raw []byte) string {
	if len(raw) == 0 {
		return "[]"
	}
	return string(raw)
}

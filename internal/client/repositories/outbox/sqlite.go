package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/dmitrijs2005/diarykeeper/internal/dbx"
)

const (
	insertSQL = `INSERT INTO sync_outbox (op, entry_id, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	completeSQL = `DELETE FROM sync_outbox WHERE seq = ?`

	failSQL = `UPDATE sync_outbox SET attempts = attempts + 1, last_error = ?, updated_at = ? WHERE seq = ?`

	pendingSQL = `SELECT seq, op, entry_id, payload, attempts, last_error, created_at
FROM sync_outbox ORDER BY seq ASC LIMIT ?`
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, item *Item) error {
	now := r.now().UTC()
	res, err := r.db.ExecContext(ctx, insertSQL, item.Op, item.EntryID, item.Payload,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to enqueue outbox item: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get outbox seq: %w", err)
	}
	item.Seq = seq
	item.CreatedAt = now
	return nil
}

func (r *SQLiteRepository) Complete(ctx context.Context, seq int64) error {
	res, err := r.db.ExecContext(ctx, completeSQL, seq)
	if err != nil {
		return fmt.Errorf("failed to complete outbox item: %w", err)
	}
	return affectedOne(res.RowsAffected())
}

func (r *SQLiteRepository) Fail(ctx context.Context, seq int64, cause string) error {
	res, err := r.db.ExecContext(ctx, failSQL, cause, r.now().UTC().Format(time.RFC3339Nano), seq)
	if err != nil {
		return fmt.Errorf("failed to mark outbox item failed: %w", err)
	}
	return affectedOne(res.RowsAffected())
}

func affectedOne(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Pending(ctx context.Context, limit int) ([]*Item, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, pendingSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select outbox items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var (
			it      Item
			created string
		)
		if err := rows.Scan(&it.Seq, &it.Op, &it.EntryID, &it.Payload, &it.Attempts, &it.LastError, &created); err != nil {
			return nil, err
		}
		if it.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("outbox item %d: %w", it.Seq, err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

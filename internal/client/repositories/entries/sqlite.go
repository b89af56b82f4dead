package entries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/dmitrijs2005/diarykeeper/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db  dbx.DBTX
	loc *time.Location
}

// NewSQLiteRepository returns a repository bound to db. Dates read back are
// reconstructed in loc; a nil loc means time.Local.
func NewSQLiteRepository(db dbx.DBTX, loc *time.Location) *SQLiteRepository {
	if loc == nil {
		loc = time.Local
	}
	return &SQLiteRepository{db: db, loc: loc}
}

type row struct {
	day, emotions, tags, createdAt, updatedAt string
}

func encode(e *models.DiaryEntry) (row, error) {
	emotions, err := json.Marshal(nonNil(e.Emotions))
	if err != nil {
		return row{}, fmt.Errorf("failed to encode emotions: %w", err)
	}
	tags, err := json.Marshal(nonNil(e.Tags))
	if err != nil {
		return row{}, fmt.Errorf("failed to encode tags: %w", err)
	}
	return row{
		day:       e.DayKey(),
		emotions:  string(emotions),
		tags:      string(tags),
		createdAt: e.CreatedAt.Format(time.RFC3339Nano),
		updatedAt: e.UpdatedAt.Format(time.RFC3339Nano),
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Add inserts a new row. A second entry for the same day violates the day
// uniqueness constraint and fails.
func (r *SQLiteRepository) Add(ctx context.Context, e *models.DiaryEntry) error {
	enc, err := encode(e)
	if err != nil {
		return err
	}
	query := `INSERT INTO entries (id, day, content, emotions, tags, word_count, writing_time, created_at, updated_at, encrypted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		e.ID, enc.day, e.Content, enc.emotions, enc.tags, e.WordCount, e.WritingTime, enc.createdAt, enc.updatedAt, e.Encrypted)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns. id, day and created_at never change.
func (r *SQLiteRepository) Update(ctx context.Context, e *models.DiaryEntry) error {
	enc, err := encode(e)
	if err != nil {
		return err
	}
	query := `UPDATE entries SET content = ?, emotions = ?, tags = ?, word_count = ?, writing_time = ?,
		updated_at = ?, encrypted = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		e.Content, enc.emotions, enc.tags, e.WordCount, e.WritingTime, enc.updatedAt, e.Encrypted, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return expectOne(res.RowsAffected())
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return expectOne(res.RowsAffected())
}

func expectOne(n int64, err error) error {
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("wrong rows affected count: %d", n)
	}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.DiaryEntry, error) {
	query := `SELECT id, day, content, emotions, tags, word_count, writing_time, created_at, updated_at, encrypted FROM entries`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.DiaryEntry
	for rows.Next() {
		var (
			e   models.DiaryEntry
			enc row
		)
		if err := rows.Scan(&e.ID, &enc.day, &e.Content, &enc.emotions, &enc.tags,
			&e.WordCount, &e.WritingTime, &enc.createdAt, &enc.updatedAt, &e.Encrypted); err != nil {
			return nil, err
		}
		if err := r.decode(&e, enc); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) decode(e *models.DiaryEntry, enc row) error {
	var err error
	if e.Date, err = models.ParseDay(enc.day, r.loc); err != nil {
		return err
	}
	if e.CreatedAt, err = parseTimestamp(enc.createdAt, r.loc); err != nil {
		return err
	}
	if e.UpdatedAt, err = parseTimestamp(enc.updatedAt, r.loc); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(enc.emotions), &e.Emotions); err != nil {
		return fmt.Errorf("failed to decode emotions: %w", err)
	}
	if err := json.Unmarshal([]byte(enc.tags), &e.Tags); err != nil {
		return fmt.Errorf("failed to decode tags: %w", err)
	}
	e.Emotions = nonNil(e.Emotions)
	e.Tags = nonNil(e.Tags)
	return nil
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t.In(loc), nil
}

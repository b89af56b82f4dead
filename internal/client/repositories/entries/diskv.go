package entries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/peterbourgon/diskv/v3"
)

// DiskvRepository implements Repository as one JSON file per entry,
// fanned out into subdirectories by the first two characters of the id.
type DiskvRepository struct {
	d   *diskv.Diskv
	loc *time.Location
}

// record is the on-disk form. Day is kept as a key string so the calendar
// day survives a change of the machine's time zone.
type record struct {
	models.DiaryEntry
	Day string `json:"day"`
}

func NewDiskvRepository(basePath string, loc *time.Location) *DiskvRepository {
	if loc == nil {
		loc = time.Local
	}
	return &DiskvRepository{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    fanOut,
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		loc: loc,
	}
}

func fanOut(key string) []string {
	if len(key) < 2 {
		return []string{}
	}
	return []string{key[:2]}
}

func (r *DiskvRepository) write(e *models.DiaryEntry) error {
	data, err := json.Marshal(record{DiaryEntry: *e, Day: e.DayKey()})
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}
	if err := r.d.Write(e.ID, data); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

func (r *DiskvRepository) Add(ctx context.Context, e *models.DiaryEntry) error {
	if r.d.Has(e.ID) {
		return fmt.Errorf("entry %s already exists", e.ID)
	}
	return r.write(e)
}

func (r *DiskvRepository) Update(ctx context.Context, e *models.DiaryEntry) error {
	if !r.d.Has(e.ID) {
		return common.ErrNotFound
	}
	return r.write(e)
}

func (r *DiskvRepository) Delete(ctx context.Context, id string) error {
	if !r.d.Has(id) {
		return common.ErrNotFound
	}
	if err := r.d.Erase(id); err != nil {
		return fmt.Errorf("failed to erase entry: %w", err)
	}
	return nil
}

func (r *DiskvRepository) GetAll(ctx context.Context) ([]*models.DiaryEntry, error) {
	// stops the key walker when we return early
	walkCtx, stop := context.WithCancel(ctx)
	defer stop()

	var result []*models.DiaryEntry
	for key := range r.d.Keys(walkCtx.Done()) {
		data, err := r.d.Read(key)
		if err != nil {
			return nil, fmt.Errorf("failed to read entry %s: %w", key, err)
		}
		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode entry %s: %w", key, err)
		}
		e := rec.DiaryEntry
		if e.Date, err = models.ParseDay(rec.Day, r.loc); err != nil {
			return nil, fmt.Errorf("entry %s: %w", key, err)
		}
		e.CreatedAt = e.CreatedAt.In(r.loc)
		e.UpdatedAt = e.UpdatedAt.In(r.loc)
		e.Emotions = nonNil(e.Emotions)
		e.Tags = nonNil(e.Tags)
		result = append(result, &e)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

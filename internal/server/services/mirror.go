// Package services holds the mirror's write path: validating wire entries
// and applying them to the repository.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/dmitrijs2005/diarykeeper/internal/logging"
	"github.com/dmitrijs2005/diarykeeper/internal/mirror"
	"github.com/dmitrijs2005/diarykeeper/internal/server/models"
	"github.com/dmitrijs2005/diarykeeper/internal/server/repositories/entries"
)

type MirrorService struct {
	repo entries.Repository
	log  logging.Logger
	now  func() time.Time
}

func NewMirrorService(repo entries.Repository, log logging.Logger) *MirrorService {
	if log == nil {
		log = logging.Nop()
	}
	return &MirrorService{repo: repo, log: log.With("module", "mirror"), now: time.Now}
}

// Store applies a save or update from deviceID. Writes older than the stored
// row, or for a deleted entry, are dropped without error.
func (s *MirrorService) Store(ctx context.Context, deviceID string, in *mirror.Entry) error {
	e, err := toModel(deviceID, in)
	if err != nil {
		return err
	}
	applied, err := s.repo.Upsert(ctx, e)
	if err != nil {
		return fmt.Errorf("store entry %s: %w", in.ID, err)
	}
	if !applied {
		s.log.Debug(ctx, "stale write ignored", "device", deviceID, "id", in.ID, "updated_at", in.UpdatedAt)
	}
	return nil
}

// Delete tombstones the entry. A missing DeletedAt is stamped with the
// server clock.
func (s *MirrorService) Delete(ctx context.Context, deviceID string, t *mirror.Tombstone) error {
	at := t.DeletedAt
	if at.IsZero() {
		at = s.now()
	}
	applied, err := s.repo.Tombstone(ctx, deviceID, t.ID, at)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", t.ID, err)
	}
	if !applied {
		s.log.Debug(ctx, "entry already deleted", "device", deviceID, "id", t.ID)
	}
	return nil
}

func toModel(deviceID string, in *mirror.Entry) (*models.Entry, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("%w: missing device", common.ErrInvalidEntry)
	}
	if _, err := time.Parse(common.DayLayout, in.Day); err != nil {
		return nil, fmt.Errorf("%w: day %q", common.ErrInvalidDate, in.Day)
	}
	if in.UpdatedAt.IsZero() {
		return nil, fmt.Errorf("%w: missing updatedAt", common.ErrInvalidEntry)
	}
	if in.WordCount < 0 || in.WritingTime < 0 {
		return nil, fmt.Errorf("%w: negative counters", common.ErrInvalidEntry)
	}

	emotions := in.Emotions
	if emotions == nil {
		emotions = []mirror.Emotion{}
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	emotionsJSON, err := json.Marshal(emotions)
	if err != nil {
		return nil, err
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}

	created := in.CreatedAt
	if created.IsZero() {
		created = in.UpdatedAt
	}

	return &models.Entry{
		DeviceID:    deviceID,
		ID:          in.ID,
		Day:         in.Day,
		Content:     in.Content,
		Emotions:    emotionsJSON,
		Tags:        tagsJSON,
		WordCount:   in.WordCount,
		WritingTime: in.WritingTime,
		Encrypted:   in.Encrypted,
		CreatedAt:   created,
		UpdatedAt:   in.UpdatedAt,
	}, nil
}

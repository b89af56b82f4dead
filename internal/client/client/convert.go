package client

import (
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
	"github.com/dmitrijs2005/diarykeeper/internal/mirror"
)

// ToWire converts an entry to its mirror form. Timestamps are sent in UTC.
func ToWire(e *models.DiaryEntry) mirror.Entry {
	emotions := make([]mirror.Emotion, 0, len(e.Emotions))
	for _, m := range e.Emotions {
		emotions = append(emotions, mirror.Emotion{
			ID:        m.ID,
			Name:      m.Name,
			Intensity: m.Intensity,
			Color:     m.Color,
			Category:  string(m.Category),
			Custom:    m.Custom,
		})
	}
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return mirror.Entry{
		ID:          e.ID,
		Day:         e.DayKey(),
		Content:     e.Content,
		Emotions:    emotions,
		Tags:        tags,
		WordCount:   e.WordCount,
		WritingTime: e.WritingTime,
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
		Encrypted:   e.Encrypted,
	}
}

// FromWire rebuilds an entry from its mirror form, placing dates in loc.
func FromWire(w *mirror.Entry, loc *time.Location) (*models.DiaryEntry, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := models.ParseDay(w.Day, loc)
	if err != nil {
		return nil, err
	}
	emotions := make([]models.Emotion, 0, len(w.Emotions))
	for _, m := range w.Emotions {
		emotions = append(emotions, models.Emotion{
			ID:        m.ID,
			Name:      m.Name,
			Intensity: m.Intensity,
			Color:     m.Color,
			Category:  models.Category(m.Category),
			Custom:    m.Custom,
		})
	}
	return &models.DiaryEntry{
		ID:          w.ID,
		Date:        day,
		Content:     w.Content,
		Emotions:    emotions,
		Tags:        append([]string{}, w.Tags...),
		WordCount:   models.WordCount(w.Content),
		WritingTime: w.WritingTime,
		CreatedAt:   w.CreatedAt.In(loc),
		UpdatedAt:   w.UpdatedAt.In(loc),
		Encrypted:   w.Encrypted,
	}, nil
}

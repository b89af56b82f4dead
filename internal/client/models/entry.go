// Package models defines the diary entry model and the calendar-day helpers
// that give entries their per-day identity.
package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/google/uuid"
)

// DiaryEntry is the journal record for one calendar day.
//
// Date is the day the entry belongs to, normalized to local midnight, and is
// the identity used for uniqueness. CreatedAt keeps the original creation
// instant and is what time-of-day analytics bucket on.
type DiaryEntry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Content  string    `json:"content"`
	Emotions []Emotion `json:"emotions"`
	Tags     []string  `json:"tags"`

	// WordCount is derived from Content and recomputed on every content change.
	WordCount int `json:"wordCount"`

	// WritingTime is accumulated editing time in minutes.
	WritingTime int `json:"writingTime"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Encrypted is carried through storage and sync; no cipher is applied.
	Encrypted bool `json:"encrypted"`
}

// EntryPatch is a partial update. Nil fields are left untouched.
type EntryPatch struct {
	Content     *string
	Emotions    *[]Emotion
	Tags        *[]string
	WritingTime *int
	Encrypted   *bool
}

// NewEntry builds an empty entry for the day containing day, stamped at now.
func NewEntry(day time.Time, now time.Time) *DiaryEntry {
	return &DiaryEntry{
		ID:        uuid.NewString(),
		Date:      DayStart(day),
		Emotions:  []Emotion{},
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DayKey returns the entry's normalized day as "2006-01-02".
func (e *DiaryEntry) DayKey() string {
	return DayKey(e.Date)
}

// HasContent reports whether the entry carries any non-whitespace text.
func (e *DiaryEntry) HasContent() bool {
	return strings.TrimSpace(e.Content) != ""
}

// Clone returns a deep copy so callers cannot mutate store-owned slices.
func (e *DiaryEntry) Clone() *DiaryEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.Emotions = slices.Clone(e.Emotions)
	c.Tags = slices.Clone(e.Tags)
	if c.Emotions == nil {
		c.Emotions = []Emotion{}
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c
}

// Apply merges p into e, recomputes WordCount and refreshes UpdatedAt.
// Nothing is modified when p fails validation.
func (e *DiaryEntry) Apply(p EntryPatch, now time.Time) error {
	var emotions []Emotion
	if p.Emotions != nil {
		var err error
		if emotions, err = NormalizeEmotions(*p.Emotions); err != nil {
			return err
		}
	}
	if p.WritingTime != nil && *p.WritingTime < 0 {
		return fmt.Errorf("writing time must not be negative: %d", *p.WritingTime)
	}

	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Emotions != nil {
		e.Emotions = emotions
	}
	if p.Tags != nil {
		e.Tags = NormalizeTags(*p.Tags)
	}
	if p.WritingTime != nil {
		e.WritingTime = *p.WritingTime
	}
	if p.Encrypted != nil {
		e.Encrypted = *p.Encrypted
	}
	e.WordCount = WordCount(e.Content)
	e.UpdatedAt = now
	return nil
}

// WordCount counts whitespace-separated words.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// NormalizeTags trims tags, drops empties and removes duplicates while
// keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// DayStart truncates t to midnight in t's own location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey formats the calendar day of t.
func DayKey(t time.Time) string {
	return t.Format(common.DayLayout)
}

// ParseDay parses "2006-01-02" as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(common.DayLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", common.ErrInvalidDate, s)
	}
	return t, nil
}

// AddDays moves a normalized day by n calendar days. It stays on midnight
// across DST changes.
func AddDays(day time.Time, n int) time.Time {
	return DayStart(day.AddDate(0, 0, n))
}

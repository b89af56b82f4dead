// Package models holds the mirror's persisted record types.
package models

import (
	"encoding/json"
	"time"
)

// Entry is a mirrored diary entry owned by one device. A deleted entry keeps
// its row as a tombstone so older writes that arrive late stay rejected.
type Entry struct {
	DeviceID    string
	ID          string
	Day         string
	Content     string
	Emotions    json.RawMessage
	Tags        json.RawMessage
	WordCount   int
	WritingTime int
	Encrypted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

func (e *Entry) Deleted() bool { return e.DeletedAt != nil }

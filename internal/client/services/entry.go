package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
	"github.com/dmitrijs2005/diarykeeper/internal/client/repositories/entries"
	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/dmitrijs2005/diarykeeper/internal/logging"
)

// Syncer forwards committed mutations to the remote mirror without waiting
// for it. Implementations must not block on the network.
type Syncer interface {
	Save(entry *models.DiaryEntry)
	Update(entry *models.DiaryEntry)
	Delete(id string)
}

// EntryStore is the session's source of truth for diary entries.
//
// Contract:
//   - Every mutation is written to the Repository before memory changes. A
//     storage error aborts the mutation, leaves memory untouched and is
//     recorded in Err.
//   - Remote sync never fails a mutation. Create and update forward only
//     entries with non-empty content; delete is always forwarded.
//   - Mutations on the same day (create) or id (update, delete) are
//     serialized.
//   - Returned entries are copies.
type EntryStore interface {
	Load(ctx context.Context) error
	CreateEntry(ctx context.Context, day time.Time) (*models.DiaryEntry, error)
	CreateToday(ctx context.Context) (*models.DiaryEntry, error)
	UpdateEntry(ctx context.Context, id string, patch models.EntryPatch) (*models.DiaryEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	GetEntry(id string) (*models.DiaryEntry, bool)
	GetEntriesByDateRange(start, end time.Time) []*models.DiaryEntry
	SearchEntries(query string) []*models.DiaryEntry
	Entries() []*models.DiaryEntry
	Current() (*models.DiaryEntry, bool)
	Err() error
	ClearErr()
	Now() time.Time
	Location() *time.Location
}

type Option func(*entryStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *entryStore) { s.now = now }
}

// WithLocation sets the zone calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *entryStore) { s.loc = loc }
}

type noSync struct{}

func (noSync) Save(*models.DiaryEntry)   {}
func (noSync) Update(*models.DiaryEntry) {}
func (noSync) Delete(string)             {}

type entryStore struct {
	repo entries.Repository
	sync Syncer
	log  logging.Logger
	now  func() time.Time
	loc  *time.Location

	keys *keyLock

	mu      sync.RWMutex
	entries []*models.DiaryEntry // newest day first
	byID    map[string]*models.DiaryEntry
	byDay   map[string]*models.DiaryEntry
	current string
	err     error
}

// NewEntryStore returns an empty store. Call Load to populate it from repo.
// A nil syncer disables remote sync.
func NewEntryStore(repo entries.Repository, syncer Syncer, log logging.Logger, opts ...Option) EntryStore {
	if syncer == nil {
		syncer = noSync{}
	}
	if log == nil {
		log = logging.Nop()
	}
	s := &entryStore{
		repo:  repo,
		sync:  syncer,
		log:   log.With("module", "entry-store"),
		now:   time.Now,
		loc:   time.Local,
		keys:  newKeyLock(),
		byID:  map[string]*models.DiaryEntry{},
		byDay: map[string]*models.DiaryEntry{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *entryStore) Now() time.Time { return s.now().In(s.loc) }

func (s *entryStore) Location() *time.Location { return s.loc }

// Load replaces the collection with the repository contents. On failure the
// collection is emptied, Err reports common.ErrLoadFailure and the store
// stays writable.
func (s *entryStore) Load(ctx context.Context) error {
	rows, err := s.repo.GetAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.byID = map[string]*models.DiaryEntry{}
	s.byDay = map[string]*models.DiaryEntry{}
	s.current = ""

	if err != nil {
		s.err = fmt.Errorf("%w: %w", common.ErrLoadFailure, err)
		s.log.Error(ctx, "failed to load entries", "error", err)
		return s.err
	}

	for _, e := range rows {
		e.Date = models.DayStart(e.Date.In(s.loc))
		e.CreatedAt = e.CreatedAt.In(s.loc)
		e.UpdatedAt = e.UpdatedAt.In(s.loc)
		s.entries = append(s.entries, e)
		s.byID[e.ID] = e
		if prev, ok := s.byDay[e.DayKey()]; !ok || e.UpdatedAt.After(prev.UpdatedAt) {
			s.byDay[e.DayKey()] = e
		}
	}
	s.sortLocked()
	s.log.Debug(ctx, "entries loaded", "count", len(s.entries))
	return nil
}

func (s *entryStore) CreateToday(ctx context.Context) (*models.DiaryEntry, error) {
	return s.CreateEntry(ctx, s.Now())
}

// CreateEntry returns the entry for the calendar day containing day,
// creating and persisting an empty one if none exists. Either way the entry
// becomes current.
func (s *entryStore) CreateEntry(ctx context.Context, day time.Time) (*models.DiaryEntry, error) {
	day = models.DayStart(day.In(s.loc))
	key := models.DayKey(day)

	unlock := s.keys.Lock("day:" + key)
	defer unlock()

	s.mu.Lock()
	if e, ok := s.byDay[key]; ok {
		s.current = e.ID
		s.mu.Unlock()
		return e.Clone(), nil
	}
	s.mu.Unlock()

	e := models.NewEntry(day, s.Now())
	if err := s.repo.Add(ctx, e); err != nil {
		return nil, s.storageFailure(ctx, "create", e.ID, err)
	}

	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.byID[e.ID] = e
	s.byDay[key] = e
	s.current = e.ID
	s.sortLocked()
	out := e.Clone()
	s.mu.Unlock()

	if out.HasContent() {
		s.sync.Save(out.Clone())
	}
	return out, nil
}

// UpdateEntry merges patch into the entry with id. Validation errors from
// the patch are returned as is and change nothing.
func (s *entryStore) UpdateEntry(ctx context.Context, id string, patch models.EntryPatch) (*models.DiaryEntry, error) {
	unlock := s.keys.Lock("id:" + id)
	defer unlock()

	s.mu.RLock()
	existing, ok := s.byID[id]
	var updated *models.DiaryEntry
	if ok {
		updated = existing.Clone()
	}
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}

	if err := updated.Apply(patch, s.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, s.storageFailure(ctx, "update", id, err)
	}

	s.mu.Lock()
	s.replaceLocked(existing, updated)
	out := updated.Clone()
	s.mu.Unlock()

	if out.HasContent() {
		s.sync.Update(out.Clone())
	}
	return out, nil
}

// DeleteEntry removes the entry locally, then forwards the delete to the
// remote. A row already missing from the repository is not an error.
func (s *entryStore) DeleteEntry(ctx context.Context, id string) error {
	unlock := s.keys.Lock("id:" + id)
	defer unlock()

	s.mu.RLock()
	existing, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, common.ErrNotFound) {
		return s.storageFailure(ctx, "delete", id, err)
	}

	s.mu.Lock()
	s.entries = slices.DeleteFunc(s.entries, func(e *models.DiaryEntry) bool { return e.ID == id })
	delete(s.byID, id)
	if s.byDay[existing.DayKey()] == existing {
		delete(s.byDay, existing.DayKey())
	}
	if s.current == id {
		s.current = ""
	}
	s.mu.Unlock()

	s.sync.Delete(id)
	return nil
}

func (s *entryStore) GetEntry(id string) (*models.DiaryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// GetEntriesByDateRange returns entries whose day lies in [start, end],
// compared by calendar day, newest first.
func (s *entryStore) GetEntriesByDateRange(start, end time.Time) []*models.DiaryEntry {
	from := models.DayStart(start.In(s.loc))
	to := models.DayStart(end.In(s.loc))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.DiaryEntry{}
	for _, e := range s.entries {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, e.Clone())
	}
	return out
}

// SearchEntries matches query case-insensitively against content, tags and
// emotion names. Results keep collection order.
func (s *entryStore) SearchEntries(query string) []*models.DiaryEntry {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.DiaryEntry{}
	for _, e := range s.entries {
		if matches(e, q) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func matches(e *models.DiaryEntry, q string) bool {
	if strings.Contains(strings.ToLower(e.Content), q) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	for _, m := range e.Emotions {
		if strings.Contains(strings.ToLower(m.Name), q) {
			return true
		}
	}
	return false
}

func (s *entryStore) Entries() []*models.DiaryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.DiaryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Clone())
	}
	return out
}

func (s *entryStore) Current() (*models.DiaryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == "" {
		return nil, false
	}
	e, ok := s.byID[s.current]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// Err returns the last storage or load failure.
func (s *entryStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *entryStore) ClearErr() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

func (s *entryStore) storageFailure(ctx context.Context, op, id string, cause error) error {
	err := fmt.Errorf("%w: %w", common.ErrStorageFailure, cause)
	s.log.Error(ctx, "local write failed", "op", op, "entry_id", id, "error", cause)

	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	return err
}

func (s *entryStore) replaceLocked(old, updated *models.DiaryEntry) {
	for i, e := range s.entries {
		if e == old {
			s.entries[i] = updated
			break
		}
	}
	s.byID[updated.ID] = updated
	if s.byDay[old.DayKey()] == old {
		s.byDay[old.DayKey()] = updated
	}
}

func (s *entryStore) sortLocked() {
	slices.SortStableFunc(s.entries, func(a, b *models.DiaryEntry) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
	"github.com/dmitrijs2005/diarykeeper/internal/common"
)

func usage(s string) error {
	return errors.New("usage: " + s)
}

// current returns the open entry, starting today's when none is open.
func (a *App) current(ctx context.Context) (*models.DiaryEntry, error) {
	if e, ok := a.store.Current(); ok {
		return e, nil
	}
	return a.store.CreateToday(ctx)
}

func (a *App) Today(ctx context.Context, _ []string) error {
	e, err := a.store.CreateToday(ctx)
	if err != nil {
		return err
	}
	a.printf("Opened %s (%s)\n", e.DayKey(), e.ID)
	return nil
}

func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("open <yyyy-mm-dd>")
	}
	day, err := models.ParseDay(args[0], a.store.Location())
	if err != nil {
		return err
	}
	if day.After(a.store.Now()) {
		return fmt.Errorf("%w: %s is in the future", common.ErrInvalidDate, args[0])
	}
	e, err := a.store.CreateEntry(ctx, day)
	if err != nil {
		return err
	}
	a.printf("Opened %s (%s)\n", e.DayKey(), e.ID)
	return nil
}

// Write appends a block of text to the open entry and adds the time spent
// typing it to the entry's writing minutes.
func (a *App) Write(ctx context.Context, _ []string) error {
	e, err := a.current(ctx)
	if err != nil {
		return err
	}

	started := a.clock()
	text, err := GetMultiline(a.reader, fmt.Sprintf("Writing for %s", e.DayKey()), a.out)
	if err != nil {
		return err
	}
	if text == "" {
		a.printf("Nothing written.\n")
		return nil
	}
	minutes := int(a.clock().Sub(started).Round(time.Minute) / time.Minute)

	content := text
	if e.Content != "" {
		content = e.Content + "\n\n" + text
	}
	writing := e.WritingTime + minutes

	updated, err := a.store.UpdateEntry(ctx, e.ID, models.EntryPatch{
		Content:     &content,
		WritingTime: &writing,
	})
	if err != nil {
		return err
	}
	a.printf("Saved. %d words, %d min.\n", updated.WordCount, updated.WritingTime)
	return nil
}

// Feel records an emotion on the open entry. A name already present has its
// intensity replaced. Without arguments it prints the palette.
func (a *App) Feel(ctx context.Context, args []string) error {
	if len(args) == 0 {
		for _, p := range models.DefaultEmotions() {
			a.printf("  %-12s %-8s %s\n", p.Name, p.Category, p.Color)
		}
		return nil
	}
	if len(args) < 2 {
		return usage("feel <name> <intensity>")
	}
	intensity, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return usage("feel <name> <intensity>")
	}
	emotion := models.LookupEmotion(strings.Join(args[:len(args)-1], " "), intensity)

	e, err := a.current(ctx)
	if err != nil {
		return err
	}
	emotions := make([]models.Emotion, 0, len(e.Emotions)+1)
	replaced := false
	for _, existing := range e.Emotions {
		if strings.EqualFold(existing.Name, emotion.Name) {
			emotion.ID = existing.ID
			existing = emotion
			replaced = true
		}
		emotions = append(emotions, existing)
	}
	if !replaced {
		emotions = append(emotions, emotion)
	}

	if _, err := a.store.UpdateEntry(ctx, e.ID, models.EntryPatch{Emotions: &emotions}); err != nil {
		return err
	}
	a.printf("Feeling %s (%d/%d).\n", emotion.Name, emotion.Intensity, models.MaxIntensity)
	return nil
}

// Tag adds tags to the open entry; a leading '-' removes one instead.
func (a *App) Tag(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("tag <tag> [tag...]")
	}
	e, err := a.current(ctx)
	if err != nil {
		return err
	}

	drop := map[string]bool{}
	tags := append([]string{}, e.Tags...)
	for _, t := range args {
		if name, ok := strings.CutPrefix(t, "-"); ok {
			drop[strings.ToLower(name)] = true
			continue
		}
		tags = append(tags, t)
	}
	kept := tags[:0]
	for _, t := range tags {
		if !drop[strings.ToLower(t)] {
			kept = append(kept, t)
		}
	}

	updated, err := a.store.UpdateEntry(ctx, e.ID, models.EntryPatch{Tags: &kept})
	if err != nil {
		return err
	}
	a.printf("Tags: %s\n", strings.Join(updated.Tags, ", "))
	return nil
}

func (a *App) Show(_ context.Context, args []string) error {
	var (
		e  *models.DiaryEntry
		ok bool
	)
	switch len(args) {
	case 0:
		e, ok = a.store.Current()
		if !ok {
			return errors.New("no entry is open, use 'today' or 'open <day>'")
		}
	case 1:
		e, ok = a.store.GetEntry(args[0])
		if !ok {
			return fmt.Errorf("entry %s: %w", args[0], common.ErrNotFound)
		}
	default:
		return usage("show [id]")
	}
	writeEntry(a.out, e)
	return nil
}

func (a *App) List(_ context.Context, args []string) error {
	var list []*models.DiaryEntry
	switch len(args) {
	case 0:
		list = a.store.Entries()
	case 1, 2:
		from, err := models.ParseDay(args[0], a.store.Location())
		if err != nil {
			return err
		}
		to := from
		if len(args) == 2 {
			if to, err = models.ParseDay(args[1], a.store.Location()); err != nil {
				return err
			}
		}
		if to.Before(from) {
			from, to = to, from
		}
		list = a.store.GetEntriesByDateRange(from, to)
	default:
		return usage("list [from to]")
	}
	a.printList(list)
	return nil
}

func (a *App) Search(_ context.Context, args []string) error {
	if len(args) == 0 {
		return usage("search <text>")
	}
	a.printList(a.store.SearchEntries(strings.Join(args, " ")))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete <id>")
	}
	e, ok := a.store.GetEntry(args[0])
	if !ok {
		return fmt.Errorf("entry %s: %w", args[0], common.ErrNotFound)
	}
	yes, err := Confirm(a.reader, fmt.Sprintf("Delete the entry for %s?", e.DayKey()), a.out)
	if err != nil {
		return err
	}
	if !yes {
		a.printf("Kept.\n")
		return nil
	}
	if err := a.store.DeleteEntry(ctx, e.ID); err != nil {
		return err
	}
	a.printf("Deleted %s.\n", e.DayKey())
	return nil
}

func (a *App) printList(list []*models.DiaryEntry) {
	if len(list) == 0 {
		a.printf("No entries.\n")
		return
	}
	for _, e := range list {
		a.printf("%s\n", entryLine(e))
	}
}

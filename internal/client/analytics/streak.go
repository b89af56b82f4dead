package analytics

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
)

// StreakLookback bounds how far back CurrentStreak walks.
const StreakLookback = 366

type Streaks struct {
	Current int
	Longest int
}

func ComputeStreaks(entries []*models.DiaryEntry, now time.Time) Streaks {
	return Streaks{
		Current: CurrentStreak(entries, now),
		Longest: LongestStreak(entries, now.Location()),
	}
}

// daySet returns the distinct calendar days of entries in loc.
func daySet(entries []*models.DiaryEntry, loc *time.Location) map[string]struct{} {
	days := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		days[models.DayKey(e.Date.In(loc))] = struct{}{}
	}
	return days
}

// CurrentStreak counts consecutive days with an entry, walking back from
// the day containing now and stopping at the first gap. A day without an
// entry today yields 0.
func CurrentStreak(entries []*models.DiaryEntry, now time.Time) int {
	days := daySet(entries, now.Location())
	day := models.DayStart(now)

	streak := 0
	for streak < StreakLookback {
		if _, ok := days[models.DayKey(day)]; !ok {
			break
		}
		streak++
		day = models.AddDays(day, -1)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive calendar days with
// at least one entry.
func LongestStreak(entries []*models.DiaryEntry, loc *time.Location) int {
	if len(entries) == 0 {
		return 0
	}
	set := daySet(entries, loc)
	days := make([]time.Time, 0, len(set))
	for k := range set {
		d, err := models.ParseDay(k, loc)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && models.AddDays(days[i-1], 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}
